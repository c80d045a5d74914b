package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/typebridge/internal/errors"
)

// MaxPathLen is the longest attribute path: role then field.
const MaxPathLen = 2

// ValidationResult lists structural problems found in a query.
//
// Validation is independent of any schema: it checks path shape, operator
// names and operand presence. Resolution against a type happens in the
// compiler.
type ValidationResult struct {
	// IsValid is true when Problems is empty.
	IsValid bool

	// Problems describes each defect in traversal order.
	Problems []string
}

// Err returns nil for a valid result, or a SchemaError listing every problem.
func (r ValidationResult) Err(subject string) error {
	if r.IsValid {
		return nil
	}
	return errors.Schemaf(subject, "invalid filter: %s", strings.Join(r.Problems, "; "))
}

// Validate checks q for structural problems.
//
// Validate is a pure function with no side effects.
func Validate(q Query) ValidationResult {
	v := &validator{problems: []string{}}
	v.validateQuery(q)
	return ValidationResult{
		IsValid:  len(v.problems) == 0,
		Problems: v.problems,
	}
}

type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case nil:
		v.addProblem("nil query")
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	default:
		v.addProblem("unknown query type %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.Type == "" {
		v.addProblem("select has no type")
	}
	v.validatePredicate(sel.Filter)
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
	case Comparison:
		v.validateComparison(pred)
	case *Comparison:
		v.validateComparison(*pred)
	case Lookup:
		c, err := ParseLookup(pred.Key, pred.Value)
		if err != nil {
			v.addProblem("lookup %q: %s", pred.Key, errors.UnwrapAll(err).Error())
			return
		}
		v.validateComparison(c)
	case *Lookup:
		v.validatePredicate(*pred)
	case invalid:
		v.addProblem("%s", pred.err.Error())
	case And:
		for _, inner := range pred.Predicates {
			v.validatePredicate(inner)
		}
	case *And:
		v.validatePredicate(*pred)
	default:
		v.addProblem("unknown predicate type %T", p)
	}
}

func (v *validator) validateComparison(c Comparison) {
	path := strings.Join(c.Path, ".")
	switch {
	case len(c.Path) == 0:
		v.addProblem("comparison has an empty path")
	case len(c.Path) > MaxPathLen:
		v.addProblem("path %s has %d segments, at most %d allowed", path, len(c.Path), MaxPathLen)
	}
	for _, s := range c.Path {
		if s == "" {
			v.addProblem("path %s has an empty segment", path)
			break
		}
	}
	if !c.Op.Valid() {
		v.addProblem("path %s: unknown operator %q", path, c.Op)
	}
	if c.Operand == nil {
		v.addProblem("path %s: missing operand", path)
	}
}
