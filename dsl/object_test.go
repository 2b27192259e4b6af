package dsl_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tp "github.com/reoring/typeprovider"
	g "github.com/reoring/typeprovider/dsl"
)

func userSchema() *g.Schema[map[string]any] {
	return g.Object().
		Field("a", g.String()).Required().
		Field("b", g.Number()).
		Field("c", g.Boolean()).Required().
		MustBuild()
}

func TestObject_RequiredAtFieldPath(t *testing.T) {
	ch := checkerOf(t, userSchema())

	iss := ch.Errors(map[string]any{"a": "x"})
	require.Len(t, iss, 1)
	assert.Equal(t, tp.CodeRequired, iss[0].Code)
	assert.Equal(t, "/c", iss[0].Path)
	assert.Equal(t, "must have required property 'c'", iss[0].Message)
}

func TestObject_CollectsNestedIssues(t *testing.T) {
	ch := checkerOf(t, userSchema())

	iss := ch.Errors(map[string]any{"a": 1.0, "b": "x"})
	require.Len(t, iss, 3)
	assert.Equal(t, []string{"/a", "/b", "/c"}, []string{iss[0].Path, iss[1].Path, iss[2].Path})
	assert.False(t, ch.Check(map[string]any{"a": 1.0}))
	assert.False(t, ch.Check("not an object"))
}

func TestObject_UnknownPolicies(t *testing.T) {
	in := map[string]any{"a": "x", "extra": 1.0}

	pass := checkerOf(t, g.Object().Field("a", g.String()).MustBuild())
	out, err := pass.Decode(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "x", "extra": 1.0}, out)

	strip := checkerOf(t, g.Object().Field("a", g.String()).UnknownStrip().MustBuild())
	out, err = strip.Decode(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "x"}, out)

	strict := checkerOf(t, g.Object().Field("a", g.String()).UnknownStrict().MustBuild())
	iss := strict.Errors(in)
	require.Len(t, iss, 1)
	assert.Equal(t, tp.CodeUnknownKey, iss[0].Code)
	assert.Equal(t, "/extra", iss[0].Path)
}

func TestObject_DefaultFillsMissingField(t *testing.T) {
	s := g.Object().
		Field("page", g.Integer()).Default(1).
		Field("q", g.String()).Required().
		MustBuild()
	ch := checkerOf(t, s)

	out, err := ch.Decode(map[string]any{"q": "go"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"q": "go", "page": 1}, out)

	doc, err := s.JSONSchema()
	require.NoError(t, err)
	assert.Equal(t, []string{"q"}, doc.Required)
	assert.Equal(t, 1, doc.Properties["page"].Default)
}

func TestObject_ConvertOnlyDeclaredFields(t *testing.T) {
	ch := checkerOf(t, g.Object().
		Field("n", g.Integer()).
		Field("f", g.Boolean()).
		MustBuild())

	got := ch.Convert(map[string]any{"n": "7", "f": "true", "other": "1"})
	assert.Equal(t, map[string]any{"n": 7.0, "f": true, "other": "1"}, got)
	assert.Equal(t, "scalar", ch.Convert("scalar"))
}

func TestObject_RequiredButUndeclared(t *testing.T) {
	_, err := g.Object().Field("a", g.String()).Require("missing").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)
}

type account struct {
	ID       string  `json:"id"`
	Nickname *string `json:"nickname,omitempty"`
	Age      int64   `json:"age"`
	internal string
}

func TestObjectOf_BindsStruct(t *testing.T) {
	s := g.ObjectOf[account]().
		Field("id", g.String()).Required().
		Field("nickname", g.Optional(g.String())).
		Field("age", g.Integer()).Required().
		UnknownStrict().
		MustBind()
	ch := checkerOf(t, s)

	d, err := ch.Decode(map[string]any{"id": "u1", "age": 30.0})
	require.NoError(t, err)
	acc, err := s.Bind(d)
	require.NoError(t, err)
	assert.Equal(t, "u1", acc.ID)
	assert.Equal(t, int64(30), acc.Age)
	assert.Nil(t, acc.Nickname)

	nick := "neo"
	wire, err := ch.Encode(account{ID: "u2", Nickname: &nick, Age: 5, internal: "hidden"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "u2", "nickname": "neo", "age": int64(5)}, wire)

	wire, err = ch.Encode(&account{ID: "u3", Age: 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "u3", "age": int64(1)}, wire)
}

func TestObjectOf_RejectsUnmatchedKey(t *testing.T) {
	_, err := g.ObjectOf[account]().Field("email", g.String()).Bind()
	require.Error(t, err)

	_, err = g.ObjectOf[string]().Field("id", g.String()).Bind()
	require.Error(t, err)
}

func TestObject_EncodeRejectsInvalidReply(t *testing.T) {
	ch := checkerOf(t, userSchema())
	_, err := ch.Encode(map[string]any{"a": "x"})
	iss, ok := tp.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "/c", iss[0].Path)
}

func TestObject_ForeignFieldSchema(t *testing.T) {
	_, err := g.Object().Field("x", foreign{}).Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, tp.ErrForeignSchema))
}
