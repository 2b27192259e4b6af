package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tp "github.com/reoring/typeprovider"
	g "github.com/reoring/typeprovider/dsl"
)

func TestUnion_FirstMatchingMember(t *testing.T) {
	ch := checkerOf(t, g.Union(g.String(), g.Number()))

	assert.True(t, ch.Check("a"))
	assert.True(t, ch.Check(1.0))
	iss := ch.Errors(true)
	require.Len(t, iss, 1)
	assert.Equal(t, tp.CodeUnion, iss[0].Code)
	assert.Equal(t, "expected value of union", iss[0].Message)

	// the string member comes first, so "5" stays a string
	assert.Equal(t, "5", ch.Convert("5"))
}

func TestUnion_ConvertFollowsMemberOrder(t *testing.T) {
	ch := checkerOf(t, g.Union(g.Number(), g.String()))

	assert.Equal(t, 42.0, ch.Convert("42"))
	assert.Equal(t, "abc", ch.Convert("abc"))

	p := tp.New(tp.DefaultOptions())
	validate, err := p.MakeValidator(g.Object().Field("n", g.Union(g.Number(), g.String())).MustBuild(), tp.PartQuerystring)
	require.NoError(t, err)
	res := validate(map[string]any{"n": "42"})
	require.True(t, res.OK())
	assert.Equal(t, map[string]any{"n": 42.0}, res.Value)
}

func TestUnion_ConvertPicksFirstConvertibleMember(t *testing.T) {
	ch := checkerOf(t, g.Union(g.Integer(), g.Boolean()))

	assert.Equal(t, true, ch.Convert("true"))
	assert.Equal(t, 12.0, ch.Convert("12"))
	assert.Equal(t, "nope", ch.Convert("nope"))
}

func TestUnion_DiscriminatedObjects(t *testing.T) {
	card := g.Object().
		Field("type", g.Literal("card")).Required().
		Field("number", g.String()).Required().
		UnknownStrict().
		MustBuild()
	bank := g.Object().
		Field("type", g.Literal("bank")).Required().
		Field("iban", g.String()).Required().
		UnknownStrict().
		MustBuild()
	ch := checkerOf(t, g.Union(card, bank))

	v, err := ch.Decode(map[string]any{"type": "bank", "iban": "DE00"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "bank", "iban": "DE00"}, v)

	_, err = ch.Decode(map[string]any{"type": "bank", "number": "4111"})
	iss, ok := tp.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tp.CodeUnion, iss[0].Code)
}

func TestIntersect_MergesMembers(t *testing.T) {
	a := g.Object().Field("a", g.String()).Required().MustBuild()
	b := g.Object().Field("b", g.Number()).Required().MustBuild()
	ch := checkerOf(t, g.Intersect(a, b))

	out, err := ch.Decode(map[string]any{"a": "x", "b": 1.0, "c": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "x", "b": 1.0, "c": true}, out)

	iss := ch.Errors(map[string]any{"a": "x"})
	require.Len(t, iss, 1)
	assert.Equal(t, "/b", iss[0].Path)

	assert.Equal(t, map[string]any{"a": "x", "b": 2.0}, ch.Convert(map[string]any{"a": "x", "b": "2"}))
}

func TestIntersect_StripWhenEveryMemberStrips(t *testing.T) {
	a := g.Object().Field("a", g.String()).UnknownStrip().MustBuild()
	b := g.Object().Field("b", g.Number()).UnknownStrip().MustBuild()
	ch := checkerOf(t, g.Intersect(a, b))

	out, err := ch.Decode(map[string]any{"a": "x", "b": 1.0, "c": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "x", "b": 1.0}, out)
}

func TestOptional(t *testing.T) {
	s := g.Optional(g.Number())
	ch := checkerOf(t, s)

	assert.True(t, ch.Check(nil))
	assert.True(t, ch.Check(2.0))
	assert.False(t, ch.Check("2"))

	p, err := s.Bind(nil)
	require.NoError(t, err)
	assert.Nil(t, p)
	p, err = s.Bind(2.0)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 2.0, *p)

	doc, err := s.JSONSchema()
	require.NoError(t, err)
	require.Len(t, doc.AnyOf, 2)
	assert.Equal(t, "null", doc.AnyOf[1].Type)
}

func TestComposition_RequiresMembers(t *testing.T) {
	_, err := tp.New(tp.DefaultOptions()).Resolve(g.Union())
	assert.Error(t, err)
}
