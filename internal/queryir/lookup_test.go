package queryir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		key  string
		path []string
		op   Op
	}{
		{"age", []string{"age"}, OpEq},
		{"age__gt", []string{"age"}, OpGt},
		{"employee__age__gte", []string{"employee", "age"}, OpGte},
		{"employee__name", []string{"employee", "name"}, OpEq},
		{"employer__industry__contains", []string{"employer", "industry"}, OpContains},
		{"name__like", []string{"name"}, OpLike},
		{"gt", []string{"gt"}, OpEq},
		{"a__b__c", []string{"a", "b", "c"}, OpEq},
		{"employee__age__between", []string{"employee", "age", "between"}, OpEq},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			path, op, err := ParseKey(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.path, path)
			assert.Equal(t, tt.op, op)
		})
	}
}

func TestParseKeyEmptySegments(t *testing.T) {
	for _, key := range []string{"", "__age", "age__", "employee____age", "__"} {
		t.Run(key, func(t *testing.T) {
			_, _, err := ParseKey(key)
			require.Error(t, err)
			assert.True(t, errors.IsSchema(err))
		})
	}
}

func TestParseLookup(t *testing.T) {
	c, err := ParseLookup("employee__age__gt", 25)
	require.NoError(t, err)
	assert.Equal(t, Comparison{Path: []string{"employee", "age"}, Op: OpGt, Operand: ir.Integer(25)}, c)
	assert.Equal(t, "employee__age__gt", c.Key())

	_, err = ParseLookup("age", []int{1})
	assert.True(t, errors.IsTypeMismatch(err))
}

func TestNormalizeKeepsOrder(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pred := Conj(
		Kw("city", "NYC"),
		Comparison{Path: []string{"employee", "age"}, Op: OpLt, Operand: ir.Integer(40)},
		And{Predicates: []Predicate{
			Kw("started__gte", ts),
			&Lookup{Key: "title__contains", Value: "Eng"},
		}},
	)

	got, err := Normalize(pred)
	require.NoError(t, err)
	require.Len(t, got, 4)

	var keys []string
	for _, c := range got {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []string{"city__eq", "employee__age__lt", "started__gte", "title__contains"}, keys)
}

func TestNormalizeNil(t *testing.T) {
	got, err := Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalizeStopsAtFirstError(t *testing.T) {
	_, err := Normalize(Conj(Kw("ok", 1), Kw("bad____key", 2)))
	assert.True(t, errors.IsSchema(err))
}

func TestNormalizeInvalid(t *testing.T) {
	cause := errors.TypeMismatchf("age", "want integer")
	p := Conj(Kw("age", 1), Conj(Invalid(cause)))

	_, err := Normalize(p)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, Err(p))
	assert.NoError(t, Err(Conj(Kw("age", 1))))
	assert.NoError(t, Err(nil))
}

func TestComparisonEqual(t *testing.T) {
	kw, err := ParseLookup("employee__age__gt", 30)
	require.NoError(t, err)

	typed := Comparison{Path: []string{"employee", "age"}, Op: OpGt, Operand: ir.Integer(30)}
	assert.True(t, kw.Equal(typed))

	typed.Operand = ir.Double(30)
	assert.False(t, kw.Equal(typed))
}

func TestConjFlattens(t *testing.T) {
	a := Kw("a", 1)
	b := Kw("b", 2)
	c := Kw("c", 3)
	got := Conj(a, Conj(b, Conj(c)))
	assert.Equal(t, []Predicate{a, b, c}, got.Predicates)
}

func TestOpSymbols(t *testing.T) {
	want := map[Op]string{
		OpEq: "==", OpNeq: "!=", OpGt: ">", OpGte: ">=",
		OpLt: "<", OpLte: "<=", OpContains: "contains", OpLike: "like",
	}
	for _, op := range Ops {
		assert.Equal(t, want[op], op.Symbol(), string(op))
	}
	assert.True(t, OpGte.Ordered())
	assert.False(t, OpEq.Ordered())
	assert.True(t, OpLike.StringOnly())
	_, ok := ParseOp("between")
	assert.False(t, ok)
}
