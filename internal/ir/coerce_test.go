package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typebridge/internal/errors"
)

func TestParseText(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		kind Kind
		in   string
		want Value
	}{
		{KindString, "30", String("30")},
		{KindInteger, "-7", Integer(-7)},
		{KindDouble, "2.5", Double(2.5)},
		{KindBoolean, "true", Boolean(true)},
		{KindDateTime, "2024-03-01T09:30:00Z", DateTime(ts)},
		{KindDateTime, "2024-03-01T11:30:00+02:00", DateTime(ts)},
		{KindDateTime, "2024-03-01T09:30:00", DateTime(ts)},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.in, func(t *testing.T) {
			got, err := ParseText(tt.kind, tt.in)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %s", Format(got))
		})
	}
}

func TestParseTextRejects(t *testing.T) {
	for _, tt := range []struct {
		kind Kind
		in   string
	}{
		{KindInteger, "1.5"},
		{KindDouble, "NaN"},
		{KindBoolean, "yes please"},
		{KindDateTime, "yesterday"},
		{"decimal", "1"},
	} {
		_, err := ParseText(tt.kind, tt.in)
		assert.True(t, errors.IsTypeMismatch(err), "%s %q", tt.kind, tt.in)
	}
}

func TestCoerce(t *testing.T) {
	v, err := Coerce(KindDouble, 100000)
	require.NoError(t, err)
	assert.Equal(t, Double(100000), v)

	v, err = Coerce(KindInteger, "30")
	require.NoError(t, err)
	assert.Equal(t, Integer(30), v)

	v, err = Coerce(KindString, "30")
	require.NoError(t, err)
	assert.Equal(t, String("30"), v)

	v, err = Coerce(KindInteger, true)
	require.NoError(t, err)
	assert.Equal(t, Boolean(true), v, "mismatches are left for the caller")

	_, err = Coerce(KindInteger, nil)
	assert.Error(t, err)
}
