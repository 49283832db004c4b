package sqlbuild

import (
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/justsurfingit/jobly/internal/apperror"
)

// absent reports whether a filter value means "no constraint".
func absent(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}

// toNumber coerces weakly typed input (query-string text, JSON numbers) to a
// float64. Booleans are rejected even though cast would accept them.
func toNumber(key string, v interface{}) (float64, error) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	if _, ok := v.(bool); ok {
		return 0, apperror.InvalidRequest("%s must be a number", key)
	}
	n, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, apperror.InvalidRequest("%s must be a number", key)
	}
	return n, nil
}

// coerce converts v to the value bound for a rule of the given kind.
func coerce(rule PredicateRule, v interface{}) (interface{}, error) {
	switch rule.Kind {
	case Integer:
		n, err := toNumber(rule.Key, v)
		if err != nil {
			return nil, err
		}
		if n != math.Trunc(n) {
			return nil, apperror.InvalidRequest("%s must be an integer", rule.Key)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
		if n >= 1<<63 || n < -(1<<63) {
			return nil, apperror.InvalidRequest("%s is out of range", rule.Key)
		}
		if err := rule.Bounds.check(rule.Key, n); err != nil {
			return nil, err
		}
		return int64(n), nil
	case Decimal:
		n, err := toNumber(rule.Key, v)
		if err != nil {
			return nil, err
		}
		if err := rule.Bounds.check(rule.Key, n); err != nil {
			return nil, err
		}
		return n, nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, apperror.InvalidRequest("%s must be a string", rule.Key)
		}
		return s, nil
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern that matches s literally anywhere
// in the column. Backslash is the default LIKE escape character in Postgres.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
