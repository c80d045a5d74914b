package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/typebridge/internal/queryir"
)

// Validation error codes (E100-E199)
const (
	ErrInvalidLabel    = "E101" // label is not a valid TypeQL identifier
	ErrSeparatorInName = "E102" // lookup name contains the keyword separator
	ErrReservedLabel   = "E103" // label is a TypeQL keyword
	ErrOperatorName    = "E104" // lookup name collides with an operator suffix
	ErrDuplicateLabel  = "E105" // label used by both an attribute and a type
)

// ValidationError represents a declaration lint error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var labelPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

var reserved = map[string]bool{
	"match": true, "define": true, "undefine": true, "insert": true, "delete": true,
	"entity": true, "relation": true, "attribute": true, "thing": true,
	"sub": true, "owns": true, "plays": true, "relates": true, "value": true,
	"isa": true, "has": true, "links": true, "abstract": true,
	"like": true, "contains": true,
}

// Validate checks compiled declarations for labels and lookup names that
// compile but cannot be used safely in schema text or keyword filters.
// All problems are returned; it does not stop at the first.
func Validate(d *Declarations) []ValidationError {
	var errs []ValidationError
	attrs := map[string]bool{}

	for _, vt := range d.Attributes {
		attrs[vt.Name] = true
		errs = append(errs, checkLabel("attribute."+vt.Name, vt.Name)...)
	}

	for _, t := range d.Types {
		path := string(t.Kind) + "." + t.Name
		errs = append(errs, checkLabel(path, t.Name)...)
		if attrs[t.Name] {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("%q is also declared as an attribute", t.Name),
				Code:    ErrDuplicateLabel,
			})
		}

		for _, r := range t.Roles {
			rp := path + ".relates." + r.Name
			errs = append(errs, checkLabel(rp, r.Name)...)
			errs = append(errs, checkLookupName(rp, r.Name)...)
		}

		for _, f := range t.Fields {
			errs = append(errs, checkLookupName(path+".owns."+f.Name, f.Name)...)
		}
	}

	return errs
}

func checkLabel(field, label string) []ValidationError {
	var errs []ValidationError
	if !labelPattern.MatchString(label) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("invalid label %q", label),
			Code:    ErrInvalidLabel,
		})
	}
	if reserved[strings.ToLower(label)] {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%q is a reserved keyword", label),
			Code:    ErrReservedLabel,
		})
	}
	return errs
}

// checkLookupName rejects names that would be misread in role__field__op
// keys.
func checkLookupName(field, name string) []ValidationError {
	var errs []ValidationError
	if strings.Contains(name, queryir.Separator) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("name %q contains %q", name, queryir.Separator),
			Code:    ErrSeparatorInName,
		})
	}
	if _, ok := queryir.ParseOp(name); ok {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("name %q is an operator suffix", name),
			Code:    ErrOperatorName,
		})
	}
	return errs
}
