package catalog

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the YAML shape of a catalog file.
type Document struct {
	Elements       []string     `yaml:"elements"`
	Species        []SpeciesDef `yaml:"species"`
	ElementFusions []FusionDef  `yaml:"element_fusions"`
	SpeciesFusions []FusionDef  `yaml:"species_fusions"`
}

// SpeciesDef declares one species and its base stats.
type SpeciesDef struct {
	Name  string `yaml:"name"`
	Stats `yaml:",inline"`
}

// FusionDef maps an unordered pair of names to a fusion result.
// A pair of two identical names is a self-fusion.
type FusionDef struct {
	Pair   []string `yaml:"pair"`
	Result string   `yaml:"result"`
}

// FromDocument validates doc and builds a Catalog from it.
//
// Postcondition: Returns a Catalog satisfying the Catalog invariant, or an
// error describing every violation.
func FromDocument(doc Document) (*Catalog, error) {
	var errs []string
	c := &Catalog{
		stats:     make(map[string]Stats, len(doc.Species)),
		elemTable: make(map[Pair]string, len(doc.ElementFusions)),
		specTable: make(map[Pair]string, len(doc.SpeciesFusions)),
	}

	if len(doc.Elements) == 0 {
		errs = append(errs, "elements must not be empty")
	}
	for _, e := range doc.Elements {
		if !namePattern.MatchString(e) {
			errs = append(errs, fmt.Sprintf("element %q must match [a-z]+", e))
			continue
		}
		if slices.Contains(c.elements, e) {
			errs = append(errs, fmt.Sprintf("duplicate element %q", e))
			continue
		}
		c.elements = append(c.elements, e)
	}

	if len(doc.Species) == 0 {
		errs = append(errs, "species must not be empty")
	}
	for _, s := range doc.Species {
		if !namePattern.MatchString(s.Name) {
			errs = append(errs, fmt.Sprintf("species %q must match [a-z]+", s.Name))
			continue
		}
		if _, dup := c.stats[s.Name]; dup {
			errs = append(errs, fmt.Sprintf("duplicate species %q", s.Name))
			continue
		}
		if s.Attack < 1 || s.Defense < 1 || s.Speed < 1 {
			errs = append(errs, fmt.Sprintf("species %q: attack, defense and speed must be >= 1", s.Name))
			continue
		}
		c.species = append(c.species, s.Name)
		c.stats[s.Name] = s.Stats
	}

	errs = append(errs, fillTable(c.elemTable, "element_fusions", doc.ElementFusions, c.IsElement)...)
	errs = append(errs, fillTable(c.specTable, "species_fusions", doc.SpeciesFusions, c.IsSpecies)...)

	if len(errs) > 0 {
		return nil, fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return c, nil
}

func fillTable(table map[Pair]string, section string, defs []FusionDef, known func(string) bool) []string {
	var errs []string
	for i, d := range defs {
		if len(d.Pair) != 2 {
			errs = append(errs, fmt.Sprintf("%s[%d]: pair must have exactly 2 names", section, i))
			continue
		}
		if !known(d.Pair[0]) || !known(d.Pair[1]) {
			errs = append(errs, fmt.Sprintf("%s[%d]: pair %v references an unknown name", section, i, d.Pair))
			continue
		}
		if !namePattern.MatchString(d.Result) {
			errs = append(errs, fmt.Sprintf("%s[%d]: result %q must match [a-z]+", section, i, d.Result))
			continue
		}
		key := PairOf(d.Pair[0], d.Pair[1])
		if _, dup := table[key]; dup {
			errs = append(errs, fmt.Sprintf("%s[%d]: duplicate pair %v", section, i, d.Pair))
			continue
		}
		table[key] = d.Result
	}
	return errs
}

// LoadFromBytes parses and validates a catalog from raw YAML bytes.
// Unknown fields are rejected.
//
// Postcondition: Returns a valid Catalog or a non-nil error.
func LoadFromBytes(data []byte) (*Catalog, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	return FromDocument(doc)
}

// LoadFile reads a catalog from the YAML file at path.
//
// Precondition: path must name a readable file.
// Postcondition: Returns a valid Catalog or a non-nil error.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %q: %w", path, err)
	}
	c, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return c, nil
}
