package sqlbuild

import (
	"regexp"
	"strings"

	"github.com/justsurfingit/jobly/internal/apperror"
)

// Assignment is one field of a partial update.
type Assignment struct {
	Field string
	Value interface{}
}

// UpdateSpec is an ordered set of field assignments. Order only affects
// placeholder numbering but is kept stable so parameter order is predictable.
type UpdateSpec []Assignment

// Set assigns value to field. An existing field keeps its position.
func (s *UpdateSpec) Set(field string, value interface{}) {
	for i := range *s {
		if (*s)[i].Field == field {
			(*s)[i].Value = value
			return
		}
	}
	*s = append(*s, Assignment{Field: field, Value: value})
}

// Get returns the value assigned to field.
func (s UpdateSpec) Get(field string) (interface{}, bool) {
	for _, a := range s {
		if a.Field == field {
			return a.Value, true
		}
	}
	return nil, false
}

// Fields lists the assigned field names in order.
func (s UpdateSpec) Fields() []string {
	fields := make([]string, len(s))
	for i, a := range s {
		fields[i] = a.Field
	}
	return fields
}

// ColumnMap translates application field names to storage column names.
type ColumnMap map[string]string

// plainIdent is what an unmapped field must look like to be used verbatim.
var plainIdent = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Column resolves the column for field. Unmapped fields fall back to their
// own name, but only when that name is a plain lower-case identifier.
func (m ColumnMap) Column(field string) (string, bool) {
	if column, ok := m[field]; ok {
		return column, true
	}
	if plainIdent.MatchString(field) {
		return field, true
	}
	return "", false
}

// PartialUpdate compiles spec into a SET list such as
//
//	"first_name"=$1, "age"=$2
//
// with the values in the same order. Every field produces exactly one
// assignment; an empty spec is an InvalidRequest.
func PartialUpdate(spec UpdateSpec, columns ColumnMap, opts ...Option) (Fragment, error) {
	if len(spec) == 0 {
		return Fragment{}, apperror.InvalidRequest("no data")
	}

	o := buildOptions(opts)
	p := newParams(o)
	cols := make([]string, 0, len(spec))
	for _, a := range spec {
		column, ok := columns.Column(a.Field)
		if o.strict {
			column, ok = columns[a.Field]
		}
		if !ok {
			return Fragment{}, apperror.InvalidRequest("invalid field: %q", a.Field)
		}
		cols = append(cols, quoteIdent(column)+"="+p.add(a.Value))
	}

	return Fragment{
		Text:   strings.Join(cols, ", "),
		Params: p.values,
	}, nil
}
