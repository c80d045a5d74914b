package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/schema"
	"github.com/roach88/typebridge/internal/testutil"
)

func compileString(t *testing.T, src string) (*Declarations, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())
	return CompileSchema(v)
}

func TestCompileSchemaEmployment(t *testing.T) {
	decls, err := LoadDir("testdata/employment")
	require.NoError(t, err)

	var attrs []string
	for _, vt := range decls.Attributes {
		attrs = append(attrs, vt.Name)
	}
	assert.Equal(t, []string{"name", "age", "city", "industry", "title", "salary"}, attrs)
	require.Len(t, decls.Types, 3)
	assert.Equal(t, "employment", decls.Types[2].Name, "relations come after entities")

	m := schema.NewManager(nil)
	require.NoError(t, decls.Register(m))

	fixture := testutil.Employment()
	assert.Equal(t, fixture.Manager.DefineText(), m.DefineText(),
		"declaration file and builder API produce the same schema")
}

func TestCompileSchemaOptions(t *testing.T) {
	decls, err := compileString(t, `
		attribute: {
			id: {value: "string", abstract: true}
			email: sub: "id"
			score: value: "long"
			tag: value: "string"
			nick: value: "string"
		}
		entity: {
			agent: abstract: true
			user: {
				sub: "agent"
				owns: {
					email: unique: true
					score: card: [0, 3]
					tags: {attribute: "tag", many: true}
					handle: {attribute: "nick", card_max: 2}
				}
			}
		}
	`)
	require.NoError(t, err)

	email := decls.Attributes[1]
	assert.Equal(t, "id", email.Super)
	assert.Equal(t, ir.KindString, email.Kind, "inherited from supertype")
	assert.Equal(t, ir.KindInteger, decls.Attributes[2].Kind, "long is integer")

	user := decls.Types[1]
	require.NotNil(t, user.Super)
	assert.Equal(t, "agent", user.Super.Name)
	assert.True(t, decls.Types[0].Abstract)

	assert.Equal(t,
		"entity user, sub agent, owns email @unique, owns score @card(0..3), owns tag @card(0..), owns nick @card(0..2);",
		user.DefineStatement())
}

func TestCompileSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		field   string
		message string
	}{
		{"unknown kind", `attribute: x: value: "decimal"`, "attribute.x.value", "unknown value kind"},
		{"missing kind", `attribute: x: abstract: true`, "attribute.x.value", "required"},
		{"late attribute super", `attribute: {a: sub: "b", b: value: "string"}`, "attribute.a.sub", "declared before"},
		{"kind differs from super", `attribute: {a: value: "string", b: {sub: "a", value: "integer"}}`, "attribute.b.value", "supertype"},
		{"unknown attribute", `entity: p: owns: nick: key: true`, "entity.p.owns.nick", "unknown attribute"},
		{"unknown player", `relation: r: relates: x: "ghost"`, "relation.r.relates.x", "declared before"},
		{"entity roles", `entity: p: relates: x: "p"`, "entity.p.relates", "cannot declare roles"},
		{"optional and many", `attribute: a: value: "string"
			entity: p: owns: a: {optional: true, many: true}`, "entity.p.owns.a", "exclusive"},
		{"card and card_max", `attribute: a: value: "string"
			entity: p: owns: a: {card: [1], card_max: 2}`, "entity.p.owns.a", "exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileString(t, tt.src)
			require.Error(t, err)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			assert.Contains(t, ce.Message, tt.message)
		})
	}
}

func TestCompileSchemaKeepsErrorKinds(t *testing.T) {
	_, err := compileString(t, `
		attribute: a: value: "string"
		entity: p: owns: a: card: [3, 1]
	`)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	_, err = compileString(t, `relation: r: owns: {}`)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err), "relation without roles")
}

func TestCompileSchemaPositions(t *testing.T) {
	v := cuecontext.New().CompileString(`attribute: {
	ok: value: "string"
	bad: value: "decimal"
}`, cue.Filename("decl.cue"))
	require.NoError(t, v.Err())

	_, err := CompileSchema(v)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	require.True(t, ce.Pos.IsValid())
	assert.Equal(t, 3, ce.Pos.Line())
	assert.Contains(t, err.Error(), "decl.cue:3:")
}

func TestCompileSchemaCUEError(t *testing.T) {
	v := cuecontext.New().CompileString(`attribute: a: value: "string"
attribute: a: value: "integer"`)
	_, err := CompileSchema(v)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "cue", ce.Field)
}

func TestCompileSchemaEmpty(t *testing.T) {
	decls, err := compileString(t, `{}`)
	require.NoError(t, err)
	assert.Empty(t, decls.Attributes)
	assert.Empty(t, decls.Types)
}
