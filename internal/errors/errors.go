// Package errors provides error handling for typebridge.
//
// It re-exports the parts of github.com/cockroachdb/errors the rest of the
// module uses (stack traces, wrapping, hints) and defines the error kinds
// raised by the schema and query layers:
//
//	ConfigurationError   malformed declaration (e.g. Card with >2 bounds)
//	DuplicateTypeError   conflicting redefinition of a registered name
//	UnknownTypeError     resolution of an unregistered value type
//	SchemaError          unknown role/attribute, unregistered role player
//	SchemaConflictError  diff sync found an incompatible live definition
//	TypeMismatchError    operand or operator incompatible with an attribute
//
// Every kind is a *Error carrying a Code, so callers check kinds with the
// Is* helpers (or errors.As) through any amount of wrapping.
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetailf  = crdb.WithDetailf
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Error inspection
var (
	Is        = crdb.Is
	As        = crdb.As
	UnwrapAll = crdb.UnwrapAll
)

// Code categorizes typebridge errors.
type Code string

const (
	// CodeConfiguration marks a malformed declaration detected eagerly.
	CodeConfiguration Code = "CONFIGURATION"

	// CodeDuplicateType marks a conflicting redefinition of a registered name.
	CodeDuplicateType Code = "DUPLICATE_TYPE"

	// CodeUnknownType marks resolution of an unregistered value type.
	CodeUnknownType Code = "UNKNOWN_TYPE"

	// CodeSchema marks an unresolvable schema reference.
	CodeSchema Code = "SCHEMA"

	// CodeSchemaConflict marks an incompatible live definition found by diff sync.
	CodeSchemaConflict Code = "SCHEMA_CONFLICT"

	// CodeTypeMismatch marks an operand or operator that disagrees with an attribute.
	CodeTypeMismatch Code = "TYPE_MISMATCH"
)

// Error is the structured error returned by the schema and query layers.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Subject names the offending declaration, path or type.
	Subject string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Subject, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// newf builds an *Error and attaches a stack trace at the caller of the
// exported constructor.
func newf(code Code, subject, format string, args ...any) error {
	return crdb.WithStackDepth(&Error{
		Code:    code,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	}, 2)
}

// Configurationf creates a ConfigurationError.
func Configurationf(subject, format string, args ...any) error {
	return newf(CodeConfiguration, subject, format, args...)
}

// DuplicateTypef creates a DuplicateTypeError.
func DuplicateTypef(subject, format string, args ...any) error {
	return newf(CodeDuplicateType, subject, format, args...)
}

// UnknownTypef creates an UnknownTypeError.
func UnknownTypef(subject, format string, args ...any) error {
	return newf(CodeUnknownType, subject, format, args...)
}

// Schemaf creates a SchemaError.
func Schemaf(subject, format string, args ...any) error {
	return newf(CodeSchema, subject, format, args...)
}

// SchemaConflictf creates a SchemaConflictError.
func SchemaConflictf(subject, format string, args ...any) error {
	return newf(CodeSchemaConflict, subject, format, args...)
}

// TypeMismatchf creates a TypeMismatchError.
func TypeMismatchf(subject, format string, args ...any) error {
	return newf(CodeTypeMismatch, subject, format, args...)
}

// CodeOf returns the Code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if crdb.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err wraps an *Error with the given code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool { return HasCode(err, CodeConfiguration) }

// IsDuplicateType reports whether err is a DuplicateTypeError.
func IsDuplicateType(err error) bool { return HasCode(err, CodeDuplicateType) }

// IsUnknownType reports whether err is an UnknownTypeError.
func IsUnknownType(err error) bool { return HasCode(err, CodeUnknownType) }

// IsSchema reports whether err is a SchemaError.
func IsSchema(err error) bool { return HasCode(err, CodeSchema) }

// IsSchemaConflict reports whether err is a SchemaConflictError.
func IsSchemaConflict(err error) bool { return HasCode(err, CodeSchemaConflict) }

// IsTypeMismatch reports whether err is a TypeMismatchError.
func IsTypeMismatch(err error) bool { return HasCode(err, CodeTypeMismatch) }
