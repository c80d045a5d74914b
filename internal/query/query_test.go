package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/memstore"
	"github.com/roach88/typebridge/internal/query"
	"github.com/roach88/typebridge/internal/queryir"
	"github.com/roach88/typebridge/internal/testutil"
	"github.com/roach88/typebridge/internal/typeql"
)

type env struct {
	fx       testutil.EmploymentSchema
	store    *memstore.Store
	ids      map[string]string
	compiler *typeql.Compiler
}

func newEnv(t *testing.T) env {
	t.Helper()
	fx := testutil.Employment()
	store := memstore.New()
	return env{fx: fx, store: store, ids: fx.MustSeed(store), compiler: typeql.NewCompiler(fx.Manager)}
}

func (e env) handles(iids []string) []string {
	byIID := map[string]string{}
	for h, iid := range e.ids {
		byIID[iid] = h
	}
	out := make([]string, 0, len(iids))
	for _, iid := range iids {
		out = append(out, byIID[iid])
	}
	return out
}

func TestAgePartition(t *testing.T) {
	e := newEnv(t)
	age := e.fx.Person.Attr("age")

	tests := []struct {
		name string
		cmp  func() (queryir.Comparison, error)
		want []string
	}{
		{"gt 25", func() (queryir.Comparison, error) { return age.Gt(25) }, []string{"alice", "charlie"}},
		{"gte 30", func() (queryir.Comparison, error) { return age.Gte(30) }, []string{"alice", "charlie"}},
		{"lt 35", func() (queryir.Comparison, error) { return age.Lt(35) }, []string{"alice", "bob"}},
		{"lte 30", func() (queryir.Comparison, error) { return age.Lte(30) }, []string{"alice", "bob"}},
		{"eq 30", func() (queryir.Comparison, error) { return age.Eq(30) }, []string{"alice"}},
		{"neq 30", func() (queryir.Comparison, error) { return age.Neq(30) }, []string{"bob", "charlie"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := query.New(e.compiler, "person").FilterExpr(tt.cmp()).Execute(context.Background(), e.store)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.handles(got))
		})
	}
}

func TestKeywordAndAccessorAgree(t *testing.T) {
	e := newEnv(t)
	base := query.New(e.compiler, "employment")

	kw := base.Where("employee__age__gt", 28).Where("employer__industry", "Technology")
	typed := base.
		FilterExpr(e.fx.Employment.Role("employee").Attr("age").Gt(28)).
		FilterExpr(e.fx.Employment.Role("employer").Attr("industry").Eq("Technology"))
	mixed := base.
		Where("employee__age__gt", 28).
		FilterExpr(e.fx.Employment.Role("employer").Attr("industry").Eq("Technology"))

	var texts []string
	for _, b := range []*query.Builder{kw, typed, mixed} {
		frag, err := b.Compile()
		require.NoError(t, err)
		texts = append(texts, frag.Text())

		got, err := b.Execute(context.Background(), e.store)
		require.NoError(t, err)
		assert.Equal(t, []string{"e1"}, e.handles(got))
	}
	assert.Equal(t, texts[0], texts[1])
	assert.Equal(t, texts[0], texts[2])
}

func TestFilterIsImmutable(t *testing.T) {
	e := newEnv(t)
	base := query.New(e.compiler, "person").Where("city", "NYC")
	older := base.Where("age__gt", 35)
	younger := base.Where("age__lt", 35)

	ctx := context.Background()
	got, err := base.Execute(ctx, e.store)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "charlie"}, e.handles(got))

	got, err = older.Execute(ctx, e.store)
	require.NoError(t, err)
	assert.Equal(t, []string{"charlie"}, e.handles(got))

	got, err = younger.Execute(ctx, e.store)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, e.handles(got))

	cmps, err := base.Comparisons()
	require.NoError(t, err)
	assert.Len(t, cmps, 1)
}

func TestComparisonsInOrder(t *testing.T) {
	e := newEnv(t)
	b := query.New(e.compiler, "person").
		Filter(queryir.Kw("city", "NYC"), queryir.Kw("age__lte", 40))

	cmps, err := b.Comparisons()
	require.NoError(t, err)
	require.Len(t, cmps, 2)
	assert.Equal(t, []string{"city"}, cmps[0].Path)
	assert.Equal(t, queryir.OpLte, cmps[1].Op)
	assert.Equal(t, ir.Integer(40), cmps[1].Operand)
	assert.Equal(t, "person", b.Type())
}

func TestContains(t *testing.T) {
	e := newEnv(t)
	got, err := query.New(e.compiler, "employment").
		FilterExpr(e.fx.Employment.Role("employer").Attr("name").Contains("Tech")).
		Execute(context.Background(), e.store)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, e.handles(got))
}

func TestLikeDelegated(t *testing.T) {
	e := newEnv(t)
	b := query.New(e.compiler, "person").Where("name__like", "^al")

	frag, err := b.Compile()
	require.NoError(t, err)
	assert.Contains(t, frag.Text(), `like "^al";`)

	_, err = b.Execute(context.Background(), e.store)
	require.Error(t, err)
	assert.ErrorIs(t, err, memstore.ErrPatternDelegated)
}

func TestFilterExprDefersError(t *testing.T) {
	e := newEnv(t)
	b := query.New(e.compiler, "employment").
		FilterExpr(e.fx.Employment.Role("boss").Attr("age").Gt(1)).
		Where("title", "Engineer")

	_, err := b.Compile()
	require.Error(t, err)
	assert.True(t, errors.IsSchema(err))

	_, err = b.Execute(context.Background(), e.store)
	assert.True(t, errors.IsSchema(err))

	_, err = b.Comparisons()
	assert.Error(t, err)
}

func TestCompileErrors(t *testing.T) {
	e := newEnv(t)

	_, err := query.New(e.compiler, "person").Where("age", "thirty").Compile()
	assert.True(t, errors.IsTypeMismatch(err))

	_, err = query.New(e.compiler, "person").Where("height", 1).Compile()
	assert.True(t, errors.IsSchema(err))

	_, err = query.New(e.compiler, "robot").Compile()
	assert.True(t, errors.IsSchema(err))
}
