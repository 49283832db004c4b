// Package sqlbuild compiles sparse request input into parameterized SQL
// fragments: SET lists for partial updates and WHERE predicates for filtered
// searches. It performs no I/O; callers splice Fragment.Text into a fixed
// query and pass Fragment.Params to the executor.
package sqlbuild

import "fmt"

// Fragment is SQL text with positional $n placeholders and the values they
// refer to. The i-th value in Params is bound to placeholder offset+i+1.
type Fragment struct {
	Text   string
	Params []interface{}
}

// Empty reports whether the fragment carries no SQL text.
func (f Fragment) Empty() bool {
	return f.Text == ""
}

// Clause prefixes the fragment with keyword, e.g. Clause("WHERE") gives
// " WHERE <text>". An empty fragment yields "" so no dangling keyword is
// ever emitted.
func (f Fragment) Clause(keyword string) string {
	if f.Empty() {
		return ""
	}
	return " " + keyword + " " + f.Text
}

// Option configures a compile call.
type Option func(*options)

type options struct {
	offset int
	strict bool
}

// WithOffset numbers placeholders after n existing ones, so the first value
// becomes $n+1. Use it when the fragment follows a query's own placeholders.
func WithOffset(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.offset = n
		}
	}
}

// StrictColumns disables the identity fallback of ColumnMap: every updated
// field must be listed in the map.
func StrictColumns() Option {
	return func(o *options) {
		o.strict = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// params hands out contiguous placeholders in the order values are added.
type params struct {
	offset int
	values []interface{}
}

func newParams(o options) *params {
	return &params{offset: o.offset}
}

// add records v and returns its placeholder.
func (p *params) add(v interface{}) string {
	p.values = append(p.values, v)
	return fmt.Sprintf("$%d", p.offset+len(p.values))
}

// quoteIdent wraps a column name in double quotes. Column names come from
// the allow-lists only, see ColumnMap and PredicateTable.
func quoteIdent(column string) string {
	return `"` + column + `"`
}
