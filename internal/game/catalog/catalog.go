// Package catalog holds the static creature tables: the closed sets of
// elements and species, species base stats, and the element and species
// fusion tables.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ErrUnknownElement is returned when a name is not in the element set.
var ErrUnknownElement = errors.New("unknown element")

// ErrUnknownSpecies is returned when a name is not in the species set.
var ErrUnknownSpecies = errors.New("unknown species")

// Separator joins element and species names into identifiers.
const Separator = "_"

var namePattern = regexp.MustCompile(`^[a-z]+$`)

// Stats holds the three combat stats of a species.
type Stats struct {
	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
	Speed   int `yaml:"speed"`
}

// Pair is an unordered pair of names stored in canonical (sorted) order.
type Pair struct {
	A string
	B string
}

// PairOf returns the canonical Pair for a and b. PairOf(a, b) == PairOf(b, a).
func PairOf(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Catalog is the read-only set of creature tables.
//
// Invariant: every element and species name matches [a-z]+, every species has
// positive base stats, and every fusion table key references known names.
type Catalog struct {
	elements  []string
	species   []string
	stats     map[string]Stats
	elemTable map[Pair]string
	specTable map[Pair]string
}

// Elements returns the element names in declaration order.
func (c *Catalog) Elements() []string { return slices.Clone(c.elements) }

// Species returns the species names in declaration order.
func (c *Catalog) Species() []string { return slices.Clone(c.species) }

// IsElement reports whether name is in the element set.
func (c *Catalog) IsElement(name string) bool { return slices.Contains(c.elements, name) }

// IsSpecies reports whether name is in the species set.
func (c *Catalog) IsSpecies(name string) bool {
	_, ok := c.stats[name]
	return ok
}

// BaseStats returns the base stats of species.
//
// Postcondition: Returns the stats, or an error wrapping ErrUnknownSpecies.
func (c *Catalog) BaseStats(species string) (Stats, error) {
	s, ok := c.stats[species]
	if !ok {
		return Stats{}, fmt.Errorf("catalog: %w %q", ErrUnknownSpecies, species)
	}
	return s, nil
}

// ElementFusion returns the element produced by fusing a and b.
// The table lookup ignores argument order. Pairs missing from the table fall
// back to "a_b" in the original argument order.
//
// Postcondition: Returns a non-empty name, or an error wrapping ErrUnknownElement.
func (c *Catalog) ElementFusion(a, b string) (string, error) {
	for _, e := range []string{a, b} {
		if !c.IsElement(e) {
			return "", fmt.Errorf("catalog: %w %q", ErrUnknownElement, e)
		}
	}
	return lookup(c.elemTable, a, b), nil
}

// SpeciesFusion returns the hybrid species produced by fusing a and b, with
// the same lookup and fallback rules as ElementFusion.
//
// Postcondition: Returns a non-empty name, or an error wrapping ErrUnknownSpecies.
func (c *Catalog) SpeciesFusion(a, b string) (string, error) {
	for _, s := range []string{a, b} {
		if !c.IsSpecies(s) {
			return "", fmt.Errorf("catalog: %w %q", ErrUnknownSpecies, s)
		}
	}
	return lookup(c.specTable, a, b), nil
}

func lookup(table map[Pair]string, a, b string) string {
	if r, ok := table[PairOf(a, b)]; ok {
		return r
	}
	return a + Separator + b
}

// BaseIdentifier returns the registry identifier of the base creature with the
// given element and species.
func BaseIdentifier(element, species string) string {
	return element + Separator + species
}

// IsBaseIdentifier reports whether id has exactly the form element_species
// with both parts in the closed sets.
func (c *Catalog) IsBaseIdentifier(id string) bool {
	parts := strings.Split(id, Separator)
	return len(parts) == 2 && c.IsElement(parts[0]) && c.IsSpecies(parts[1])
}

// Default returns the built-in catalog: three elements, three species, and
// a complete pair table for each.
//
// Postcondition: Returns a valid Catalog.
func Default() *Catalog {
	c, err := FromDocument(defaultDocument())
	if err != nil {
		panic(fmt.Sprintf("catalog: default tables invalid: %v", err))
	}
	return c
}

func defaultDocument() Document {
	return Document{
		Elements: []string{"fire", "water", "grass"},
		Species: []SpeciesDef{
			{Name: "cat", Stats: Stats{Attack: 50, Defense: 40, Speed: 60}},
			{Name: "dog", Stats: Stats{Attack: 60, Defense: 50, Speed: 55}},
			{Name: "rat", Stats: Stats{Attack: 45, Defense: 35, Speed: 70}},
		},
		ElementFusions: []FusionDef{
			{Pair: []string{"fire", "water"}, Result: "vapor"},
			{Pair: []string{"fire", "grass"}, Result: "blaze"},
			{Pair: []string{"water", "grass"}, Result: "mud"},
			{Pair: []string{"fire", "fire"}, Result: "inferno"},
			{Pair: []string{"water", "water"}, Result: "torrent"},
			{Pair: []string{"grass", "grass"}, Result: "thorn"},
		},
		SpeciesFusions: []FusionDef{
			{Pair: []string{"cat", "cat"}, Result: "tigron"},
			{Pair: []string{"dog", "dog"}, Result: "cerberus"},
			{Pair: []string{"rat", "rat"}, Result: "gnawlord"},
			{Pair: []string{"cat", "dog"}, Result: "felhound"},
			{Pair: []string{"cat", "rat"}, Result: "scavlynx"},
			{Pair: []string{"dog", "rat"}, Result: "burrowfang"},
		},
	}
}
