// Package fusion combines two parent creatures into a new hybrid record.
package fusion

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/monfuse/internal/game/catalog"
	"github.com/cory-johannsen/monfuse/internal/game/creature"
	"github.com/cory-johannsen/monfuse/internal/game/dice"
)

// Stat multiplier bounds; each derived stat draws its own multiplier from
// the half-open range [MinMultiplier, MaxMultiplier).
const (
	MinMultiplier = 0.75
	MaxMultiplier = 2.5
)

// Namer issues collision-free identifiers for a fusion base name.
// *encyclopedia.Registry satisfies it.
type Namer interface {
	NextIdentifier(base string) string
}

// Resolver derives fused creatures from the catalog and a random source.
type Resolver struct {
	catalog *catalog.Catalog
	roller  *dice.Roller
}

// NewResolver creates a Resolver.
//
// Precondition: cat and roller must be non-nil.
func NewResolver(cat *catalog.Catalog, roller *dice.Roller) *Resolver {
	return &Resolver{catalog: cat, roller: roller}
}

// Fuse builds the record produced by fusing elementA_speciesA with
// elementB_speciesB. The record is named by names but not inserted; the
// caller commits it.
//
// Precondition: names must be non-nil.
// Postcondition: On success Elements == [elementA, elementB] and every stat s
// satisfies floor(avg*MinMultiplier) <= s < avg*MaxMultiplier, where avg is the
// mean of the parents' base stat. Returns an error wrapping
// catalog.ErrUnknownElement or catalog.ErrUnknownSpecies for inputs outside
// the closed sets.
func (r *Resolver) Fuse(names Namer, elementA, speciesA, elementB, speciesB string) (creature.Record, error) {
	elem, err := r.catalog.ElementFusion(elementA, elementB)
	if err != nil {
		return creature.Record{}, fmt.Errorf("fusing elements: %w", err)
	}
	spec, err := r.catalog.SpeciesFusion(speciesA, speciesB)
	if err != nil {
		return creature.Record{}, fmt.Errorf("fusing species: %w", err)
	}
	statsA, err := r.catalog.BaseStats(speciesA)
	if err != nil {
		return creature.Record{}, err
	}
	statsB, err := r.catalog.BaseStats(speciesB)
	if err != nil {
		return creature.Record{}, err
	}

	base := elem + catalog.Separator + spec
	return creature.Record{
		Name:      names.NextIdentifier(base),
		Elements:  []string{elementA, elementB},
		Species:   spec,
		Attack:    r.derive("attack", statsA.Attack, statsB.Attack),
		Defense:   r.derive("defense", statsA.Defense, statsB.Defense),
		Speed:     r.derive("speed", statsA.Speed, statsB.Speed),
		Skills:    []string{},
		Mutations: []string{},
	}, nil
}

func (r *Resolver) derive(stat string, a, b int) int {
	m := r.roller.Uniform(stat+" multiplier", MinMultiplier, MaxMultiplier)
	return DeriveStat(a, b, m)
}

// DeriveStat returns floor(mean(a, b) * multiplier), kept strictly below
// mean*MaxMultiplier and at least 1. When mean*MaxMultiplier is not an
// integer its floor is reachable: mean 55 with a multiplier just under 2.5
// gives 137 == floor(137.5).
//
// Precondition: a, b >= 1; MinMultiplier <= multiplier < MaxMultiplier.
func DeriveStat(a, b int, multiplier float64) int {
	avg := float64(a+b) / 2
	v := int(math.Floor(avg * multiplier))
	if float64(v) >= avg*MaxMultiplier {
		v = int(math.Ceil(avg*MaxMultiplier)) - 1
	}
	return max(v, 1)
}
