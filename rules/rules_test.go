package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/nature"
	"github.com/reoring/nature/rules"
)

func field(t *testing.T, typ nature.Type, tests ...nature.ValueTest) *nature.Field {
	t.Helper()
	f, err := nature.NewField(nature.Definition{Name: "f", Type: typ, ValueTests: tests})
	require.NoError(t, err)
	return f
}

func mustField(t *testing.T, s *nature.Schema, name string) *nature.Field {
	t.Helper()
	f, ok := s.Field(name)
	require.True(t, ok, "field %s", name)
	return f
}

func TestLengths(t *testing.T) {
	f := field(t, nature.AnyType, rules.MinLen(2), rules.MaxLen(3))

	require.NoError(t, f.SetValue("ab"))
	assert.True(t, f.Valid())

	require.NoError(t, f.SetValue("a"))
	assert.False(t, f.Valid())
	assert.Contains(t, f.Messages(), "must have length of at least 2")

	require.NoError(t, f.SetValue([]int{1, 2, 3, 4}))
	assert.Contains(t, f.Messages(), "must have length of at most 3")

	require.NoError(t, f.SetValue(42))
	assert.True(t, f.Valid(), "values without a length pass")
}

func TestNonEmptyAndAtLeastOne(t *testing.T) {
	f := field(t, nature.CollectionType, rules.NonEmpty(), rules.AtLeastOne())
	require.NoError(t, f.SetValue([]string{}))
	assert.Equal(t, []string{"must not be empty", "at least 1 item is required", "Invalid value: "}, f.Messages())

	require.NoError(t, f.SetValue("x"))
	assert.True(t, f.Valid())
}

func TestBetweenAndCompare(t *testing.T) {
	f := field(t, nature.NumberType, rules.Between(1, 10), rules.Compare(rules.Ne, 5))
	require.NoError(t, f.SetValue("7"))
	assert.True(t, f.Valid())

	require.NoError(t, f.SetValue(5))
	assert.Contains(t, f.Messages(), "must be != 5")

	require.NoError(t, f.SetValue(11))
	assert.Contains(t, f.Messages(), "must be between 1 and 10")

	g := field(t, nature.StringType, rules.Compare(rules.Lt, "m"))
	require.NoError(t, g.SetValue("apple"))
	assert.True(t, g.Valid())
	require.NoError(t, g.SetValue("zebra"))
	assert.False(t, g.Valid())
}

func TestEach(t *testing.T) {
	f := field(t, nature.CollectionType, rules.Each(nature.MustPattern(`\.txt$`)))
	require.NoError(t, f.SetValue("a.txt,b.md"))
	assert.False(t, f.Valid())

	g := field(t, nature.CollectionType, rules.Each(rules.MaxLen(1)))
	require.NoError(t, g.SetValue([]string{"a", "bb", "c", "dd"}))
	assert.Equal(t, []string{
		"[1] must have length of at most 1",
		"[3] must have length of at most 1",
		"Invalid value: a,bb,c,dd",
	}, g.Messages())
}

func TestUniqueBy(t *testing.T) {
	type item struct {
		SKU  string `json:"sku"`
		Name string
	}
	f := field(t, nature.CollectionType, rules.UniqueBy("sku"))
	require.NoError(t, f.SetValue([]item{{SKU: "a"}, {SKU: "b"}}))
	assert.True(t, f.Valid())

	require.NoError(t, f.SetValue([]item{{SKU: "a"}, {SKU: "b"}, {SKU: "a"}}))
	assert.Equal(t, `duplicate value "a" at 2 (first at 0)`, f.Messages()[0])

	g := field(t, nature.CollectionType, rules.UniqueBy("/meta/id"))
	require.NoError(t, g.SetValue([]map[string]any{
		{"meta": map[string]any{"id": 1}},
		{"meta": map[string]any{"id": 2}},
		{"other": true},
		{"meta": map[string]any{"id": 1}},
	}))
	assert.False(t, g.Valid())

	h := field(t, nature.CollectionType, rules.UniqueBy(""))
	require.NoError(t, h.SetValue("x,y,x"))
	assert.False(t, h.Valid())
}

func TestAnyAndNot(t *testing.T) {
	f := field(t, nature.AnyType, rules.Any(
		rules.All(rules.MinLen(10), rules.NonEmpty(), rules.MaxLen(1)),
		nature.OneOf("yes", "no"),
	))
	require.NoError(t, f.SetValue("no"))
	assert.True(t, f.Valid())

	require.NoError(t, f.SetValue("maybe"))
	assert.Equal(t, []string{"must be one of [yes no]", "Invalid value: maybe"}, f.Messages())

	g := field(t, nature.StringType, rules.Not(nature.OneOf("root"), "reserved name"))
	require.NoError(t, g.SetValue("root"))
	assert.Equal(t, []string{"reserved name", "Invalid value: root"}, g.Messages())
	require.NoError(t, g.SetValue("alice"))
	assert.True(t, g.Valid())
}

func TestCrossFieldRules(t *testing.T) {
	s := nature.New()
	require.NoError(t, s.Define(
		nature.Definition{Name: "user", Type: nature.StringType},
		nature.Definition{Name: "password", Type: nature.StringType, ValueTests: []nature.ValueTest{rules.Requires("user")}},
		nature.Definition{Name: "token", Type: nature.StringType, ValueTests: []nature.ValueTest{rules.ConflictsWith("password", "user")}},
	))

	require.NoError(t, s.Set("password", "hunter2"))
	assert.Equal(t, []string{"requires user", "Invalid value: hunter2"}, mustField(t, s, "password").Messages())

	// Tests run on the field being set; siblings are not revalidated.
	require.NoError(t, s.Set("user", "bob"))
	require.NoError(t, s.Set("password", "hunter2"))
	assert.True(t, s.Valid())

	require.NoError(t, s.Set("token", "abc"))
	assert.Equal(t, []string{"conflicts with password", "conflicts with user", "Invalid value: abc"}, mustField(t, s, "token").Messages())
}

func TestConditional(t *testing.T) {
	s := nature.New()
	require.NoError(t, s.Define(
		nature.Definition{Name: "mode", Alias: "m", Type: nature.StringType},
		nature.Definition{Name: "level", Type: nature.NumberType},
		nature.Definition{Name: "target", Type: nature.StringType, ValueTests: []nature.ValueTest{
			rules.If("mode", rules.Eq, "deploy").And(rules.If("level", rules.Ge, 2)).Then(rules.MinLen(3)),
		}},
	))

	require.NoError(t, s.Set("target", "x"))
	assert.True(t, s.Valid(), "condition unmet while mode is absent")

	require.NoError(t, s.SetValues(map[string]any{"m": "deploy", "level": "3"}))
	require.NoError(t, s.Set("target", "x"))
	assert.False(t, s.Valid())

	require.NoError(t, s.Set("level", 1))
	require.NoError(t, s.Set("target", "x"))
	assert.True(t, s.Valid())

	or := rules.IfAny(rules.If("mode", rules.Eq, "a"), rules.If("mode", rules.Eq, "b"))
	assert.Equal(t, "==", rules.Eq.String())

	f := field(t, nature.StringType, or.Then(rules.MinLen(10)))
	require.NoError(t, f.SetValue("short"))
	assert.True(t, f.Valid(), "standalone fields never satisfy a condition")
}
