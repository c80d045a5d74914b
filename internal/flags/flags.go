// Package flags resolves ownership markers (key, unique, explicit
// cardinality) into canonical cardinality and schema annotations.
//
// Precedence, highest first:
//
//	explicit Card  > Key (1..1) > Unique (1..1) > multiplicity default
//
// Key never emits @card. Unique emits @card only when the resolved
// cardinality is not exactly (1..1).
package flags

import (
	"fmt"
	"strings"

	"github.com/roach88/typebridge/internal/errors"
)

// Marker is one of Key, Unique or CardRange.
type Marker interface {
	marker()
}

// Key marks a field as the owner's key.
type Key struct{}

func (Key) marker() {}

// Unique marks a field as unique across owners.
type Unique struct{}

func (Unique) marker() {}

// CardRange is an explicit cardinality. Bounded is false for (Min..).
type CardRange struct {
	Min     int
	Max     int
	Bounded bool
}

func (CardRange) marker() {}

// Card builds an explicit cardinality from positional bounds.
//
//	Card(2)    -> 2..
//	Card(1, 5) -> 1..5
//
// Zero or more than two bounds, a negative min or min > max fail with a
// ConfigurationError.
func Card(bounds ...int) (CardRange, error) {
	switch len(bounds) {
	case 1:
		return CardMin(bounds[0])
	case 2:
		return cardRange(bounds[0], bounds[1])
	case 0:
		return CardRange{}, errors.Configurationf("card", "at least one bound is required")
	default:
		return CardRange{}, errors.Configurationf("card", "accepts at most 2 bounds, got %d", len(bounds))
	}
}

// CardMin builds min.. with no upper bound.
func CardMin(min int) (CardRange, error) {
	if min < 0 {
		return CardRange{}, errors.Configurationf("card", "min %d is negative", min)
	}
	return CardRange{Min: min}, nil
}

// CardMax builds 0..max.
func CardMax(max int) (CardRange, error) {
	return cardRange(0, max)
}

func cardRange(min, max int) (CardRange, error) {
	if min < 0 {
		return CardRange{}, errors.Configurationf("card", "min %d is negative", min)
	}
	if min > max {
		return CardRange{}, errors.Configurationf("card", "min %d exceeds max %d", min, max)
	}
	return CardRange{Min: min, Max: max, Bounded: true}, nil
}

// MustCard is like Card but panics on error. Use for package-level
// declarations.
func MustCard(bounds ...int) CardRange {
	c, err := Card(bounds...)
	if err != nil {
		panic(err)
	}
	return c
}

// String renders the annotation body, e.g. "1..5" or "2..".
func (c CardRange) String() string {
	if c.Bounded {
		return fmt.Sprintf("%d..%d", c.Min, c.Max)
	}
	return fmt.Sprintf("%d..", c.Min)
}

// Exactly reports whether c is the bounded range (n..n).
func (c CardRange) Exactly(n int) bool {
	return c.Bounded && c.Min == n && c.Max == n
}

// Multiplicity is the declared shape of a field when no explicit
// cardinality is given.
type Multiplicity int

const (
	// Required fields hold exactly one value.
	Required Multiplicity = iota
	// Optional fields hold at most one value.
	Optional
	// Many fields hold any number of values.
	Many
)

// Default returns the multiplicity's cardinality.
func (m Multiplicity) Default() CardRange {
	switch m {
	case Optional:
		return CardRange{Min: 0, Max: 1, Bounded: true}
	case Many:
		return CardRange{Min: 0}
	default:
		return CardRange{Min: 1, Max: 1, Bounded: true}
	}
}

func (m Multiplicity) String() string {
	switch m {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Many:
		return "many"
	default:
		return fmt.Sprintf("multiplicity(%d)", int(m))
	}
}

// Resolution is the canonical outcome of a field's markers.
type Resolution struct {
	IsKey    bool
	IsUnique bool
	Card     CardRange
	// Explicit is true when Card came from a CardRange marker.
	Explicit bool
	EmitCard bool
}

// Resolve applies the precedence rules to markers. A repeated CardRange or
// a nil marker fails with a ConfigurationError. Repeated Key or Unique
// markers are idempotent.
func Resolve(m Multiplicity, markers ...Marker) (Resolution, error) {
	var res Resolution
	for _, mk := range markers {
		switch v := mk.(type) {
		case Key:
			res.IsKey = true
		case Unique:
			res.IsUnique = true
		case CardRange:
			if res.Explicit {
				return Resolution{}, errors.Configurationf("card", "declared more than once")
			}
			if _, err := validate(v); err != nil {
				return Resolution{}, err
			}
			res.Card = v
			res.Explicit = true
		default:
			return Resolution{}, errors.Configurationf("flags", "unsupported marker %T", mk)
		}
	}

	if !res.Explicit {
		if res.IsKey || res.IsUnique {
			res.Card = CardRange{Min: 1, Max: 1, Bounded: true}
		} else {
			res.Card = m.Default()
		}
	}

	res.EmitCard = !res.IsKey && !(res.IsUnique && res.Card.Exactly(1))
	return res, nil
}

// validate rejects CardRange literals that bypassed the constructors.
func validate(c CardRange) (CardRange, error) {
	if c.Bounded {
		return cardRange(c.Min, c.Max)
	}
	return CardMin(c.Min)
}

// MustResolve is like Resolve but panics on error.
func MustResolve(m Multiplicity, markers ...Marker) Resolution {
	r, err := Resolve(m, markers...)
	if err != nil {
		panic(err)
	}
	return r
}

// Annotations returns the ordered annotation list: @key, @unique, @card.
func (r Resolution) Annotations() []string {
	var out []string
	if r.IsKey {
		out = append(out, "@key")
	}
	if r.IsUnique {
		out = append(out, "@unique")
	}
	if r.EmitCard {
		out = append(out, "@card("+r.Card.String()+")")
	}
	return out
}

// AnnotationText joins Annotations with single spaces.
func (r Resolution) AnnotationText() string {
	return strings.Join(r.Annotations(), " ")
}
