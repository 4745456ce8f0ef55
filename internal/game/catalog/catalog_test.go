package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/monfuse/internal/game/catalog"
)

func TestDefault_ClosedSets(t *testing.T) {
	c := catalog.Default()
	assert.Equal(t, []string{"fire", "water", "grass"}, c.Elements())
	assert.Equal(t, []string{"cat", "dog", "rat"}, c.Species())
}

func TestBaseStats_Known(t *testing.T) {
	c := catalog.Default()
	s, err := c.BaseStats("dog")
	require.NoError(t, err)
	assert.Equal(t, catalog.Stats{Attack: 60, Defense: 50, Speed: 55}, s)
}

func TestBaseStats_Unknown(t *testing.T) {
	_, err := catalog.Default().BaseStats("dragon")
	assert.ErrorIs(t, err, catalog.ErrUnknownSpecies)
}

func TestElementFusion_TableIsSymmetric(t *testing.T) {
	c := catalog.Default()
	a, err := c.ElementFusion("fire", "water")
	require.NoError(t, err)
	b, err := c.ElementFusion("water", "fire")
	require.NoError(t, err)
	assert.Equal(t, "vapor", a)
	assert.Equal(t, a, b)
}

func TestElementFusion_SelfFusion(t *testing.T) {
	r, err := catalog.Default().ElementFusion("grass", "grass")
	require.NoError(t, err)
	assert.Equal(t, "thorn", r)
}

func TestElementFusion_UnknownElement(t *testing.T) {
	_, err := catalog.Default().ElementFusion("fire", "ice")
	assert.ErrorIs(t, err, catalog.ErrUnknownElement)
}

func TestSpeciesFusion_UnknownSpecies(t *testing.T) {
	_, err := catalog.Default().SpeciesFusion("bat", "cat")
	assert.ErrorIs(t, err, catalog.ErrUnknownSpecies)
}

// A sparse table exercises the fallback, which keeps the caller's argument order.
func TestFusion_FallbackPreservesInputOrder(t *testing.T) {
	c, err := catalog.LoadFromBytes([]byte(`
elements: [fire, water]
species:
  - { name: cat, attack: 1, defense: 1, speed: 1 }
  - { name: dog, attack: 1, defense: 1, speed: 1 }
`))
	require.NoError(t, err)

	e1, err := c.ElementFusion("water", "fire")
	require.NoError(t, err)
	e2, err := c.ElementFusion("fire", "water")
	require.NoError(t, err)
	assert.Equal(t, "water_fire", e1)
	assert.Equal(t, "fire_water", e2)

	s, err := c.SpeciesFusion("dog", "cat")
	require.NoError(t, err)
	assert.Equal(t, "dog_cat", s)
}

func TestIsBaseIdentifier(t *testing.T) {
	c := catalog.Default()
	assert.True(t, c.IsBaseIdentifier("fire_cat"))
	assert.False(t, c.IsBaseIdentifier("vapor_felhound"))
	assert.False(t, c.IsBaseIdentifier("fire_cat_2"))
	assert.False(t, c.IsBaseIdentifier("firecat"))
}

func TestLoadFromBytes_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"empty elements": `
elements: []
species: [{ name: cat, attack: 1, defense: 1, speed: 1 }]`,
		"bad name": `
elements: [Fire]
species: [{ name: cat, attack: 1, defense: 1, speed: 1 }]`,
		"zero stat": `
elements: [fire]
species: [{ name: cat, attack: 0, defense: 1, speed: 1 }]`,
		"unknown pair": `
elements: [fire]
species: [{ name: cat, attack: 1, defense: 1, speed: 1 }]
element_fusions: [{ pair: [fire, ice], result: steam }]`,
		"duplicate pair": `
elements: [fire, water]
species: [{ name: cat, attack: 1, defense: 1, speed: 1 }]
element_fusions:
  - { pair: [fire, water], result: vapor }
  - { pair: [water, fire], result: steam }`,
		"unknown field": `
elements: [fire]
colour: red
species: [{ name: cat, attack: 1, defense: 1, speed: 1 }]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.LoadFromBytes([]byte(doc))
			assert.Error(t, err)
		})
	}
}

// The shipped content file must describe the same tables as Default.
func TestContentCatalog_MatchesDefault(t *testing.T) {
	path := filepath.Join("..", "..", "..", "content", "catalog.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("content catalog not found: %v", err)
	}
	fromFile, err := catalog.LoadFile(path)
	require.NoError(t, err)
	def := catalog.Default()

	assert.Equal(t, def.Elements(), fromFile.Elements())
	assert.Equal(t, def.Species(), fromFile.Species())
	for _, a := range def.Elements() {
		for _, b := range def.Elements() {
			want, _ := def.ElementFusion(a, b)
			got, _ := fromFile.ElementFusion(a, b)
			assert.Equal(t, want, got, "element pair %s/%s", a, b)
		}
	}
	for _, a := range def.Species() {
		want, _ := def.BaseStats(a)
		got, _ := fromFile.BaseStats(a)
		assert.Equal(t, want, got, "stats for %s", a)
		for _, b := range def.Species() {
			want, _ := def.SpeciesFusion(a, b)
			got, _ := fromFile.SpeciesFusion(a, b)
			assert.Equal(t, want, got, "species pair %s/%s", a, b)
		}
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := catalog.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestProperty_PairOf_Canonical(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.StringMatching(`[a-z]{1,8}`).Draw(rt, "a")
		b := rapid.StringMatching(`[a-z]{1,8}`).Draw(rt, "b")
		p := catalog.PairOf(a, b)
		assert.Equal(rt, p, catalog.PairOf(b, a))
		assert.LessOrEqual(rt, p.A, p.B)
	})
}

func TestProperty_DefaultFusions_Symmetric(t *testing.T) {
	c := catalog.Default()
	rapid.Check(t, func(rt *rapid.T) {
		e1 := rapid.SampledFrom(c.Elements()).Draw(rt, "e1")
		e2 := rapid.SampledFrom(c.Elements()).Draw(rt, "e2")
		s1 := rapid.SampledFrom(c.Species()).Draw(rt, "s1")
		s2 := rapid.SampledFrom(c.Species()).Draw(rt, "s2")

		ea, err := c.ElementFusion(e1, e2)
		require.NoError(rt, err)
		eb, err := c.ElementFusion(e2, e1)
		require.NoError(rt, err)
		assert.Equal(rt, ea, eb)

		sa, err := c.SpeciesFusion(s1, s2)
		require.NoError(rt, err)
		sb, err := c.SpeciesFusion(s2, s1)
		require.NoError(rt, err)
		assert.Equal(rt, sa, sb)
	})
}
