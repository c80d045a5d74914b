package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/query"
	"github.com/roach88/typebridge/internal/testutil"
)

func TestCoerce(t *testing.T) {
	fx := testutil.Employment()

	v, err := query.Coerce(fx.Employment, "employee__age__gt", "30")
	require.NoError(t, err)
	assert.Equal(t, ir.Integer(30), v)

	v, err = query.Coerce(fx.Employment, "salary", 80000)
	require.NoError(t, err)
	assert.Equal(t, ir.Double(80000), v)

	v, err = query.Coerce(fx.Person, "city", "NYC")
	require.NoError(t, err)
	assert.Equal(t, ir.String("NYC"), v)

	v, err = query.Coerce(fx.Person, "height", "180")
	require.NoError(t, err)
	assert.Equal(t, "180", v, "unresolved keys pass through")

	_, err = query.Coerce(fx.Person, "age", "old")
	assert.True(t, errors.IsTypeMismatch(err))
}
