package ir

import (
	"fmt"
	"math"
	"time"

	"github.com/roach88/typebridge/internal/errors"
)

// Kind is the primitive kind of an attribute value type.
type Kind string

const (
	KindString   Kind = "string"
	KindInteger  Kind = "integer"
	KindDouble   Kind = "double"
	KindBoolean  Kind = "boolean"
	KindDateTime Kind = "datetime"
)

// ValidKinds lists the kinds in declaration order.
var ValidKinds = []Kind{KindString, KindInteger, KindDouble, KindBoolean, KindDateTime}

// ParseKind maps a declared kind name to a Kind.
// "long" is accepted as an alias of integer.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "string":
		return KindString, true
	case "integer", "long":
		return KindInteger, true
	case "double":
		return KindDouble, true
	case "boolean":
		return KindBoolean, true
	case "datetime":
		return KindDateTime, true
	default:
		return "", false
	}
}

// Ordered reports whether values of the kind have a total order usable by
// gt/gte/lt/lte.
func (k Kind) Ordered() bool {
	return k == KindInteger || k == KindDouble || k == KindDateTime
}

// StringLike reports whether contains/like apply to the kind.
func (k Kind) StringLike() bool {
	return k == KindString
}

// Numeric reports whether the kind is integer or double.
func (k Kind) Numeric() bool {
	return k == KindInteger || k == KindDouble
}

// Accepts reports whether an operand of kind operand may be compared with an
// attribute of kind k. Integer operands are accepted on double attributes;
// the database compares mixed numerics natively.
func (k Kind) Accepts(operand Kind) bool {
	if k == operand {
		return true
	}
	return k == KindDouble && operand == KindInteger
}

// Value is a sealed interface over primitive attribute values.
// Only String, Integer, Double, Boolean and DateTime implement it.
type Value interface {
	irValue()
	Kind() Kind
}

// String is a string value.
type String string

func (String) irValue()   {}
func (String) Kind() Kind { return KindString }

// Integer is a 64-bit integer value.
type Integer int64

func (Integer) irValue()   {}
func (Integer) Kind() Kind { return KindInteger }

// Double is a finite 64-bit float value.
type Double float64

func (Double) irValue()   {}
func (Double) Kind() Kind { return KindDouble }

// Boolean is a boolean value.
type Boolean bool

func (Boolean) irValue()   {}
func (Boolean) Kind() Kind { return KindBoolean }

// DateTime is a timestamp value.
type DateTime time.Time

func (DateTime) irValue()   {}
func (DateTime) Kind() Kind { return KindDateTime }

// Time returns the value as a time.Time.
func (d DateTime) Time() time.Time { return time.Time(d) }

// FromGo converts a Go primitive (or an existing Value) into a Value.
// Unsupported operand types fail with a TypeMismatchError; values are never
// coerced across kinds.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, errors.TypeMismatchf("", "nil operand")
	case Value:
		if d, ok := val.(Double); ok && !finite(float64(d)) {
			return nil, errors.TypeMismatchf("", "non-finite double %v", float64(d))
		}
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Boolean(val), nil
	case int:
		return Integer(val), nil
	case int8:
		return Integer(val), nil
	case int16:
		return Integer(val), nil
	case int32:
		return Integer(val), nil
	case int64:
		return Integer(val), nil
	case uint8:
		return Integer(val), nil
	case uint16:
		return Integer(val), nil
	case uint32:
		return Integer(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, errors.TypeMismatchf("", "integer %d overflows int64", val)
		}
		return Integer(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, errors.TypeMismatchf("", "integer %d overflows int64", val)
		}
		return Integer(val), nil
	case float32:
		return FromGo(float64(val))
	case float64:
		if !finite(val) {
			return nil, errors.TypeMismatchf("", "non-finite double %v", val)
		}
		return Double(val), nil
	case time.Time:
		return DateTime(val), nil
	default:
		return nil, errors.TypeMismatchf("", "unsupported operand type %T", v)
	}
}

// ToGo converts a Value back into its natural Go representation.
func ToGo(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Integer:
		return int64(val)
	case Double:
		return float64(val)
	case Boolean:
		return bool(val)
	case DateTime:
		return time.Time(val)
	default:
		return nil
	}
}

// Equal reports whether a and b hold the same kind and value.
// DateTime values are compared as instants.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if da, ok := a.(DateTime); ok {
		return time.Time(da).Equal(time.Time(b.(DateTime)))
	}
	return a == b
}

// Format renders a value for diagnostics. Query text uses Literal.
func Format(v Value) string {
	if v == nil {
		return "<nil>"
	}
	if d, ok := v.(DateTime); ok {
		return time.Time(d).UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("%v", ToGo(v))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
