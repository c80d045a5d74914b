package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"int64 min", int64(-9223372036854775808), "-9223372036854775808"},
		{"bool", true, "true"},
		{"empty array", []any{}, "[]"},
		{"string slice", []string{"b", "a"}, `["b","a"]`},
		{"empty object", map[string]any{}, "{}"},
		{"value literal", Double(2), `"2.0"`},
		{"string value", String("x"), `"\"x\""`},
		{"nested", map[string]any{"b": []any{1, "x"}, "a": map[string]string{"k": "v"}}, `{"a":{"k":"v"},"b":[1,"x"]}`},
		{"no html escape", "<a&b>", `"<a&b>"`},
		{"control char", "\x01", `"\u0001"`},
		{"line separator kept", "a\u2028b", "\"a\u2028b\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalCanonicalRejects(t *testing.T) {
	for name, in := range map[string]any{
		"nil":          nil,
		"float":        1.5,
		"nested float": map[string]any{"a": []any{2.5}},
		"struct":       struct{}{},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := MarshalCanonical(in)
			assert.Error(t, err)
		})
	}
}

func TestMarshalCanonicalNFC(t *testing.T) {
	decomposed := "e\u0301"
	composed := "\u00e9"

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(composed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestSortedKeysUTF16Order(t *testing.T) {
	// U+FF61 sorts before U+1F600 in UTF-8 but after it in UTF-16
	// (the emoji encodes as a 0xD83D surrogate).
	m := map[string]int{"\U0001F600": 1, "\uFF61": 2, "a": 3}
	assert.Equal(t, []string{"a", "\U0001F600", "\uFF61"}, SortedKeys(m))
}

func TestFingerprint(t *testing.T) {
	v := map[string]any{"type": "employment", "statements": []string{"$v0 isa employment;"}}

	fp1, err := Fingerprint(DomainFragment, v)
	require.NoError(t, err)
	fp2 := MustFingerprint(DomainFragment, v)
	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64)

	other := MustFingerprint(DomainSchema, v)
	assert.NotEqual(t, fp1, other, "domains separate fingerprints")

	_, err = Fingerprint(DomainFragment, 1.5)
	assert.Error(t, err)
}
