package registry_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/nature"
	"github.com/reoring/nature/registry"
)

func define(t *testing.T, defs ...nature.Definition) *nature.Schema {
	t.Helper()
	s := nature.New()
	require.NoError(t, s.Define(defs...))
	return s
}

func TestAddAndGet(t *testing.T) {
	r := registry.New()
	s := nature.New()
	require.NoError(t, r.Add("test", s))

	got, err := r.Get("test")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, registry.ErrNotFound)

	assert.ErrorIs(t, r.Add("test", nature.New()), registry.ErrDuplicate)
	assert.Error(t, r.Add("nil", nil))
	assert.Error(t, r.Add("", nature.New()))
}

func TestAddClone(t *testing.T) {
	r := registry.New()
	s1 := define(t, nature.Definition{Name: "one", Default: 1, Type: nature.NumberType,
		ValueTests: []nature.ValueTest{nature.MustPattern("[0-9]")}})
	require.NoError(t, s1.Group("whatever"))
	require.NoError(t, r.Add("config1", s1))
	require.NoError(t, r.AddClone("config2", "config1"))

	s2, err := r.Get("config2")
	require.NoError(t, err)
	assert.NotSame(t, s1, s2)

	f1, _ := s1.Field("one")
	f2, _ := s2.Field("one")
	assert.Equal(t, f1.Value(), f2.Value())
	assert.Equal(t, f1.Groups(), f2.Groups())
	assert.Equal(t, f1.Type(), f2.Type())

	require.NoError(t, s2.Set("one", 2))
	assert.Equal(t, 1.0, s1.Get("one"))

	assert.ErrorIs(t, r.AddClone("config3", "nope"), registry.ErrNotFound)
}

func TestAddMerged(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Add("config1", define(t, nature.Definition{Name: "one", Default: 1, Alias: "a"})))
	require.NoError(t, r.Add("config2", define(t, nature.Definition{Name: "two", Default: 2, Alias: "b"})))
	require.NoError(t, r.AddMerged("config3", "config1", "config2"))

	s3, err := r.Get("config3")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"one": 1, "two": 2}, s3.ToJSON())
	assert.Equal(t, map[string]any{"one": 1}, s3.Where(nature.Filter{Group: "config1"}).ToJSON())
	assert.Equal(t, map[string]any{"two": 2}, s3.Where(nature.Filter{Group: "config2"}).ToJSON())
	assert.Equal(t, 1, s3.Get("a"))
	assert.Equal(t, 2, s3.Get("b"))

	assert.Equal(t, []string{"config1", "config2", "config3"}, r.Names())

	assert.Error(t, r.AddMerged("empty"))
	assert.ErrorIs(t, r.AddMerged("bad", "config1", "nope"), registry.ErrNotFound)

	require.NoError(t, r.Add("clash", define(t, nature.Definition{Name: "other", Alias: "a"})))
	err = r.AddMerged("broken", "config1", "clash")
	require.Error(t, err)
	assert.True(t, nature.IsStructural(err))
	_, err = r.Get("broken")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestGetWithValues(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Add("config", define(t, nature.Definition{Name: "one"}, nature.Definition{Name: "two"})))

	_, err := r.GetWithValues("config", map[string]any{"one": "uno", "two": "due", "three": "tre"})
	require.Error(t, err)
	assert.True(t, nature.IsStructural(err))

	s, err := r.GetWithValues("config", map[string]any{"one": "uno", "two": "due"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"one": "uno", "two": "due"}, s.ToJSON())
}

func TestGetWithSchema(t *testing.T) {
	r := registry.New()
	s := define(t, nature.Definition{Name: "one"}, nature.Definition{Name: "two"})
	require.NoError(t, r.Add("config", s))

	from := define(t,
		nature.Definition{Name: "one", Default: -1},
		nature.Definition{Name: "two", Default: -2},
		nature.Definition{Name: "three", Default: -3},
	)
	_, err := r.GetWithSchema("config", from)
	require.Error(t, err)

	require.NoError(t, s.Define(nature.Definition{Name: "three"}))
	got, err := r.GetWithSchema("config", from)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, map[string]any{"one": -1, "two": -2, "three": -3}, s.ToJSON())
}

func TestGetWithArgs(t *testing.T) {
	r := registry.New()
	s := define(t,
		nature.Definition{Name: "one", Type: nature.NumberType, Default: -1},
		nature.Definition{Name: "two", Type: nature.NumberType, Default: -2},
		nature.Definition{Name: "three", Type: nature.NumberType, Default: -3},
	)
	require.NoError(t, r.Add("config", s))

	got, err := r.GetWithArgs("config", []string{"--one", "5", "--two", "10", "--three", "20", "clive"})
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, map[string]any{"one": 5.0, "two": 10.0, "three": 20.0}, got.ToJSON())

	_, err = r.GetWithArgs("nope", nil)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestRemoveAndLogging(t *testing.T) {
	var buf bytes.Buffer
	r := registry.New(registry.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	require.NoError(t, r.Add("a", nature.New()))
	assert.Contains(t, buf.String(), `"schema":"a"`)

	require.NoError(t, r.Remove("a"))
	assert.Empty(t, r.Names())
	assert.ErrorIs(t, r.Remove("a"), registry.ErrNotFound)
}
