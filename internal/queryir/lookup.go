package queryir

import (
	"strings"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
)

// Separator delimits keyword key segments.
const Separator = "__"

// ParseKey splits a keyword key into its attribute path and operator.
//
//	"age"                 -> [age], eq
//	"age__gt"             -> [age], gt
//	"employee__age__gte"  -> [employee age], gte
//	"employee__name"      -> [employee name], eq
//	"gt"                  -> [gt], eq
//
// Empty segments fail with a SchemaError. Path arity is checked when the
// path is resolved against a type.
func ParseKey(key string) ([]string, Op, error) {
	if key == "" {
		return nil, "", errors.Schemaf(key, "empty lookup key")
	}
	segments := strings.Split(key, Separator)
	for _, s := range segments {
		if s == "" {
			return nil, "", errors.Schemaf(key, "empty segment in lookup key")
		}
	}

	op := OpEq
	if len(segments) > 1 {
		if parsed, ok := ParseOp(segments[len(segments)-1]); ok {
			op = parsed
			segments = segments[:len(segments)-1]
		}
	}
	return segments, op, nil
}

// ParseLookup converts a keyword entry into a Comparison.
func ParseLookup(key string, value any) (Comparison, error) {
	path, op, err := ParseKey(key)
	if err != nil {
		return Comparison{}, err
	}
	operand, err := ir.FromGo(value)
	if err != nil {
		return Comparison{}, errors.Wrapf(err, "lookup %s", key)
	}
	return Comparison{Path: path, Op: op, Operand: operand}, nil
}

// Normalize flattens p into its Comparisons in order. Lookups are parsed;
// nested Ands are expanded depth first. A nil predicate yields nothing.
func Normalize(p Predicate) ([]Comparison, error) {
	var out []Comparison
	if err := normalize(p, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalize(p Predicate, out *[]Comparison) error {
	switch pred := p.(type) {
	case nil:
		return nil
	case Comparison:
		*out = append(*out, pred)
	case *Comparison:
		*out = append(*out, *pred)
	case Lookup:
		c, err := ParseLookup(pred.Key, pred.Value)
		if err != nil {
			return err
		}
		*out = append(*out, c)
	case *Lookup:
		return normalize(*pred, out)
	case invalid:
		return pred.err
	case And:
		for _, inner := range pred.Predicates {
			if err := normalize(inner, out); err != nil {
				return err
			}
		}
	case *And:
		return normalize(*pred, out)
	default:
		return errors.Schemaf("", "unsupported predicate %T", p)
	}
	return nil
}
