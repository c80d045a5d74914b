package query

import (
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/queryir"
	"github.com/roach88/typebridge/internal/schema"
)

// Coerce converts a textual or decoded value for key to the kind of the
// attribute key resolves to on t. It serves inputs that arrive untyped,
// such as YAML scenarios and command-line flags.
//
// Keys that do not resolve are returned unchanged so Compile reports them.
func Coerce(t *schema.Type, key string, value any) (any, error) {
	path, _, err := queryir.ParseKey(key)
	if err != nil || t == nil {
		return value, nil
	}
	res, err := t.ResolvePath(path)
	if err != nil {
		return value, nil
	}
	return ir.Coerce(res.Field.Attribute.Kind, value)
}
