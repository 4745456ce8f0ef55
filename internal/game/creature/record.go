// Package creature defines the creature record stored in the encyclopedia.
package creature

import "slices"

// Record is one creature in the encyclopedia.
//
// Invariant: Name is unique within a Registry; Elements holds 1 or 2 entries;
// Attack, Defense and Speed are positive. Skills and Mutations are reserved and
// are persisted as empty lists, never null.
type Record struct {
	Name      string   `json:"name" yaml:"name"`
	Elements  []string `json:"elements" yaml:"elements"`
	Species   string   `json:"species" yaml:"species"`
	Attack    int      `json:"attack" yaml:"attack"`
	Defense   int      `json:"defense" yaml:"defense"`
	Speed     int      `json:"speed" yaml:"speed"`
	Skills    []string `json:"skills" yaml:"skills"`
	Mutations []string `json:"mutations" yaml:"mutations"`
}

// HP returns the starting hit points used in battle: floor((Attack+Defense)/2).
//
// Postcondition: Returns (r.Attack + r.Defense) / 2.
func (r Record) HP() int {
	return (r.Attack + r.Defense) / 2
}

// IsFused reports whether the record was produced by a fusion.
func (r Record) IsFused() bool {
	return len(r.Elements) == 2
}

// Clone returns a deep copy of r with nil reserved lists normalised to empty.
//
// Postcondition: The result shares no slices with r.
func (r Record) Clone() Record {
	out := r
	out.Elements = slices.Clone(r.Elements)
	out.Skills = cloneOrEmpty(r.Skills)
	out.Mutations = cloneOrEmpty(r.Mutations)
	return out
}

func cloneOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
