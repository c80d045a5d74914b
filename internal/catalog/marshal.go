package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/schema"
)

// marshalStatements stores the plan script as canonical JSON.
func marshalStatements(undefine, define []string) (string, error) {
	data, err := ir.MarshalCanonical(map[string]any{
		"undefine": append([]string{}, undefine...),
		"define":   append([]string{}, define...),
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal statements")
	}
	return string(data), nil
}

func unmarshalStatements(data string) (undefine, define []string, err error) {
	var s struct {
		Undefine []string `json:"undefine"`
		Define   []string `json:"define"`
	}
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, nil, errors.Wrap(err, "unmarshal statements")
	}
	if s.Undefine == nil {
		s.Undefine = []string{}
	}
	if s.Define == nil {
		s.Define = []string{}
	}
	return s.Undefine, s.Define, nil
}

// marshalSnapshot encodes a snapshot without HTML escaping.
func marshalSnapshot(snap *schema.LiveSchema) (string, error) {
	if snap == nil {
		snap = &schema.LiveSchema{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return "", errors.Wrap(err, "marshal snapshot")
	}
	// Encoder adds a trailing newline
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalSnapshot(data string) (*schema.LiveSchema, error) {
	snap := &schema.LiveSchema{}
	if err := json.Unmarshal([]byte(data), snap); err != nil {
		return nil, errors.Wrap(err, "unmarshal snapshot")
	}
	return snap, nil
}
