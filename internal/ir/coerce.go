package ir

import (
	"math"
	"strconv"
	"time"

	"github.com/roach88/typebridge/internal/errors"
)

// ParseText parses s as a value of kind. Datetimes accept RFC 3339 or
// DateTimeLayout (read as UTC).
func ParseText(kind Kind, s string) (Value, error) {
	switch kind {
	case KindString:
		return String(s), nil
	case KindInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errors.TypeMismatchf(s, "not an integer")
		}
		return Integer(n), nil
	case KindDouble:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.TypeMismatchf(s, "not a finite double")
		}
		return Double(f), nil
	case KindBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.TypeMismatchf(s, "not a boolean")
		}
		return Boolean(b), nil
	case KindDateTime:
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return DateTime(t), nil
		}
		t, err := time.ParseInLocation(DateTimeLayout, s, time.UTC)
		if err != nil {
			return nil, errors.TypeMismatchf(s, "not a datetime")
		}
		return DateTime(t), nil
	}
	return nil, errors.TypeMismatchf(s, "unknown kind %q", kind)
}

// Coerce converts a decoded input value (YAML, flags) to kind. Strings are
// parsed with ParseText and integers widen to doubles. Any other value is
// converted with FromGo and returned as is, so a mismatch surfaces where
// the value is used.
func Coerce(kind Kind, v any) (Value, error) {
	if s, ok := v.(string); ok && kind != KindString {
		return ParseText(kind, s)
	}
	val, err := FromGo(v)
	if err != nil {
		return nil, err
	}
	if n, ok := val.(Integer); ok && kind == KindDouble {
		return Double(n), nil
	}
	return val, nil
}
