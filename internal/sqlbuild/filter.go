package sqlbuild

import (
	"sort"
	"strings"

	"github.com/justsurfingit/jobly/internal/apperror"
)

// Operator is a comparison used by a predicate rule.
type Operator string

const (
	// Gte matches column values greater than or equal to the filter.
	Gte Operator = ">="
	// Lte matches column values less than or equal to the filter.
	Lte Operator = "<="
	// Contains matches a case-insensitive substring.
	Contains Operator = "ILIKE"
	// Equals matches exactly.
	Equals Operator = "="
)

// ValueKind selects how a filter value is coerced before binding.
type ValueKind int

const (
	// Text values are bound as strings.
	Text ValueKind = iota
	// Integer values are compared numerically and must be whole.
	Integer
	// Decimal values are compared numerically.
	Decimal
)

// Interval is an inclusive numeric domain.
type Interval struct {
	Min float64
	Max float64
}

func (iv *Interval) check(key string, n float64) error {
	if iv == nil {
		return nil
	}
	if n < iv.Min || n > iv.Max {
		return apperror.InvalidRequest("%s must be between %g and %g", key, iv.Min, iv.Max)
	}
	return nil
}

// PredicateRule maps one filter key to a column comparison.
type PredicateRule struct {
	Key    string
	Column string
	Op     Operator
	Kind   ValueKind
	Bounds *Interval // optional
}

// RangePair links a minimum and maximum filter on the same column.
type RangePair struct {
	Label string // used in the error message, e.g. "salary"
	Min   string
	Max   string
}

// FilterSpec holds request filters by key. Missing keys, nil values and
// blank strings mean no constraint.
type FilterSpec map[string]interface{}

// PredicateTable is the per-entity filter vocabulary. Rules are evaluated in
// slice order, which fixes the generated SQL and parameter order regardless
// of how the request listed its filters.
type PredicateTable struct {
	Rules  []PredicateRule
	Ranges []RangePair
}

// Known reports whether key is a filter of this table.
func (t *PredicateTable) Known(key string) bool {
	_, ok := t.rule(key)
	return ok
}

// Keys lists the filter keys in evaluation order.
func (t *PredicateTable) Keys() []string {
	keys := make([]string, len(t.Rules))
	for i, r := range t.Rules {
		keys[i] = r.Key
	}
	return keys
}

// Unknown returns the keys of spec that are not filters of this table,
// sorted.
func (t *PredicateTable) Unknown(spec FilterSpec) []string {
	var unknown []string
	for key := range spec {
		if !t.Known(key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func (t *PredicateTable) rule(key string) (PredicateRule, bool) {
	for _, r := range t.Rules {
		if r.Key == key {
			return r, true
		}
	}
	return PredicateRule{}, false
}

// Compile turns spec into a predicate list joined with AND, e.g.
//
//	"salary" >= $1 AND "title" ILIKE $2
//
// Keys the table does not know are ignored. When no filter is present the
// fragment is empty and the caller must omit WHERE; see Fragment.Clause.
// Inconsistent ranges fail with InvalidRequest before anything is compiled.
func (t *PredicateTable) Compile(spec FilterSpec, opts ...Option) (Fragment, error) {
	if err := t.validateRanges(spec); err != nil {
		return Fragment{}, err
	}

	p := newParams(buildOptions(opts))
	var filters []string
	for _, rule := range t.Rules {
		raw, ok := spec[rule.Key]
		if !ok || absent(raw) {
			continue
		}
		if rule.Op == Contains {
			// Substring patterns are always text.
			rule.Kind = Text
		}
		value, err := coerce(rule, raw)
		if err != nil {
			return Fragment{}, err
		}
		if rule.Op == Contains {
			value = containsPattern(value.(string))
		}
		filters = append(filters, quoteIdent(rule.Column)+" "+string(rule.Op)+" "+p.add(value))
	}

	if len(filters) == 0 {
		return Fragment{}, nil
	}
	return Fragment{
		Text:   strings.Join(filters, " AND "),
		Params: p.values,
	}, nil
}

// validateRanges checks every declared pair, reporting the first violation.
func (t *PredicateTable) validateRanges(spec FilterSpec) error {
	for _, pair := range t.Ranges {
		minRaw, minOK := spec[pair.Min]
		maxRaw, maxOK := spec[pair.Max]
		if !minOK || !maxOK || absent(minRaw) || absent(maxRaw) {
			continue
		}
		lo, err := toNumber(pair.Min, minRaw)
		if err != nil {
			return err
		}
		hi, err := toNumber(pair.Max, maxRaw)
		if err != nil {
			return err
		}
		if lo >= hi {
			return apperror.InvalidRequest("Minimum %s can not be greater than maximum.", pair.Label)
		}
	}
	return nil
}
