package memstore

import (
	"strings"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/queryir"
)

// ErrPatternDelegated is returned when a fragment uses like. Pattern
// syntax belongs to the database; this store does not interpret it.
var ErrPatternDelegated = errors.New("like patterns are evaluated by the database")

func cmp[X constraints.Ordered](a, b X) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// order compares an attribute value with an operand of an accepted kind.
// ok is false when the kinds are not comparable.
func order(actual, operand ir.Value) (diff int, ok bool) {
	switch a := actual.(type) {
	case ir.String:
		if b, isStr := operand.(ir.String); isStr {
			return cmp(string(a), string(b)), true
		}
	case ir.Integer:
		if b, isInt := operand.(ir.Integer); isInt {
			return cmp(int64(a), int64(b)), true
		}
	case ir.Double:
		switch b := operand.(type) {
		case ir.Double:
			return cmp(float64(a), float64(b)), true
		case ir.Integer:
			return cmp(float64(a), float64(b)), true
		}
	case ir.Boolean:
		if b, isBool := operand.(ir.Boolean); isBool {
			return cmp(boolRank(bool(a)), boolRank(bool(b))), true
		}
	case ir.DateTime:
		if b, isTime := operand.(ir.DateTime); isTime {
			return cmpTime(time.Time(a), time.Time(b)), true
		}
	}
	return 0, false
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// matches evaluates actual <op> operand.
func matches(op queryir.Op, actual, operand ir.Value) (bool, error) {
	switch op {
	case queryir.OpLike:
		return false, ErrPatternDelegated
	case queryir.OpContains:
		a, okA := actual.(ir.String)
		b, okB := operand.(ir.String)
		return okA && okB && strings.Contains(string(a), string(b)), nil
	}

	diff, ok := order(actual, operand)
	if !ok {
		return false, nil
	}
	switch op {
	case queryir.OpEq:
		return diff == 0, nil
	case queryir.OpNeq:
		return diff != 0, nil
	case queryir.OpGt:
		return diff > 0, nil
	case queryir.OpGte:
		return diff >= 0, nil
	case queryir.OpLt:
		return diff < 0, nil
	case queryir.OpLte:
		return diff <= 0, nil
	}
	return false, errors.Newf("unknown operator %q", op)
}
