package creature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestHP_FloorsAverage(t *testing.T) {
	r := Record{Attack: 45, Defense: 36}
	assert.Equal(t, 40, r.HP())
}

func TestIsFused(t *testing.T) {
	assert.False(t, Record{Elements: []string{"fire"}}.IsFused())
	assert.True(t, Record{Elements: []string{"fire", "water"}}.IsFused())
}

func TestClone_NormalisesReservedLists(t *testing.T) {
	r := Record{Name: "fire_cat", Elements: []string{"fire"}}
	c := r.Clone()
	assert.NotNil(t, c.Skills)
	assert.NotNil(t, c.Mutations)
	assert.Empty(t, c.Skills)
	assert.Empty(t, c.Mutations)
}

func TestClone_DoesNotAlias(t *testing.T) {
	r := Record{Name: "vapor_felhound", Elements: []string{"fire", "water"}, Skills: []string{}, Mutations: []string{}}
	c := r.Clone()
	c.Elements[0] = "grass"
	assert.Equal(t, "fire", r.Elements[0])
}

func TestProperty_HP_IsFloorOfAverage(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		atk := rapid.IntRange(1, 10000).Draw(rt, "atk")
		def := rapid.IntRange(1, 10000).Draw(rt, "def")
		r := Record{Attack: atk, Defense: def}
		assert.Equal(rt, (atk+def)/2, r.HP())
		assert.LessOrEqual(rt, 2*r.HP(), atk+def)
	})
}
