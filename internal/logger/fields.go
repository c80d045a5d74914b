package logger

// Standard field names for structured logging.
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldType        = "type"
	FieldMode        = "mode"
	FieldCount       = "count"
	FieldError       = "error"
	FieldErrorCode   = "error_code"
	FieldPath        = "path"
	FieldFile        = "file"
	FieldFingerprint = "fingerprint"
)
