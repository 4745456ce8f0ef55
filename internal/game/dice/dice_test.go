package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/monfuse/internal/game/dice"
)

// maxSrc always returns the largest legal value.
type maxSrc struct{}

func (maxSrc) Intn(n int) int { return n - 1 }

// TestCryptoSource_Intn_InRange verifies every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000), "draw %d diverged", i)
	}
}

func TestIntBetween_HitsBothEnds(t *testing.T) {
	src := dice.NewSeededSource(7)
	seen := map[int]bool{}
	for i := 0; i < 5000; i++ {
		v := dice.IntBetween(src, 10, 30)
		require.GreaterOrEqual(t, v, 10)
		require.LessOrEqual(t, v, 30)
		seen[v] = true
	}
	assert.Len(t, seen, 21, "every value in [10, 30] should appear")
}

func TestUniform_MaxDrawStaysBelowUpperBound(t *testing.T) {
	v := dice.Uniform(maxSrc{}, 0.75, 2.5)
	assert.Less(t, v, 2.5)
	assert.GreaterOrEqual(t, v, 0.75)
}

func TestUniform_Property_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		lo := rapid.Float64Range(-1000, 1000).Draw(rt, "lo")
		width := rapid.Float64Range(0.001, 1000).Draw(rt, "width")
		hi := lo + width
		v := dice.Uniform(dice.NewSeededSource(seed), lo, hi)
		assert.GreaterOrEqual(rt, v, lo)
		assert.Less(rt, v, hi)
	})
}

func TestPick_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { dice.Pick[string](dice.NewSeededSource(1)) })
}

func TestRoller_LogsDraws(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(dice.NewSeededSource(3), zap.New(core))

	v := r.Between("damage", 10, 30)
	f := r.Uniform("multiplier", 0.75, 2.5)
	c := r.Choose("tiebreak", "a", "b")

	assert.GreaterOrEqual(t, v, 10)
	assert.LessOrEqual(t, v, 30)
	assert.GreaterOrEqual(t, f, 0.75)
	assert.Contains(t, []string{"a", "b"}, c)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "damage", entries[0].ContextMap()["label"])
	assert.Equal(t, "multiplier", entries[1].ContextMap()["label"])
	assert.Equal(t, "tiebreak", entries[2].ContextMap()["label"])
}
