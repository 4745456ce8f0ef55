// Package encyclopedia provides the Registry of every discovered creature.
package encyclopedia

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"

	"github.com/cory-johannsen/monfuse/internal/game/catalog"
	"github.com/cory-johannsen/monfuse/internal/game/creature"
)

// ErrEmptyName is returned when inserting a record without an identifier.
var ErrEmptyName = errors.New("encyclopedia: record name must not be empty")

var suffixPattern = regexp.MustCompile(`^(.+)_([0-9]+)$`)

// Registry is the keyed collection of creature records.
// It is owned by a single caller and is not safe for concurrent use.
//
// Invariant: every base element×species combination is present after
// SeedBaseCreatures; counters[b] is the highest occurrence index of the name b
// among stored identifiers, where b itself counts as 1 and b_N counts as max(N, 1).
type Registry struct {
	catalog  *catalog.Catalog
	entries  map[string]creature.Record
	counters map[string]int
}

// NewRegistry returns an empty Registry over cat. Call SeedBaseCreatures to
// populate the base creatures.
//
// Precondition: cat must be non-nil.
func NewRegistry(cat *catalog.Catalog) *Registry {
	return &Registry{
		catalog:  cat,
		entries:  make(map[string]creature.Record),
		counters: make(map[string]int),
	}
}

// Catalog returns the catalog the registry was built over.
func (r *Registry) Catalog() *catalog.Catalog { return r.catalog }

// SeedBaseCreatures inserts every missing base creature. It is idempotent.
//
// Postcondition: Contains(element_species) for every catalog element and
// species; returns the number of records inserted.
func (r *Registry) SeedBaseCreatures() int {
	added := 0
	for _, e := range r.catalog.Elements() {
		for _, s := range r.catalog.Species() {
			id := catalog.BaseIdentifier(e, s)
			if r.Contains(id) {
				continue
			}
			stats, err := r.catalog.BaseStats(s)
			if err != nil {
				// Species() and BaseStats share one table.
				panic(fmt.Sprintf("encyclopedia: catalog species %q has no stats: %v", s, err))
			}
			r.put(creature.Record{
				Name:      id,
				Elements:  []string{e},
				Species:   s,
				Attack:    stats.Attack,
				Defense:   stats.Defense,
				Speed:     stats.Speed,
				Skills:    []string{},
				Mutations: []string{},
			})
			added++
		}
	}
	return added
}

// Insert adds rec, overwriting any record with the same name.
//
// Precondition: rec.Name must be non-empty.
// Postcondition: Get(rec.Name) returns a copy of rec.
func (r *Registry) Insert(rec creature.Record) error {
	if rec.Name == "" {
		return ErrEmptyName
	}
	r.put(rec)
	return nil
}

func (r *Registry) put(rec creature.Record) {
	r.entries[rec.Name] = rec.Clone()
	r.count(rec.Name)
}

func (r *Registry) count(name string) {
	r.counters[name] = max(r.counters[name], 1)
	m := suffixPattern.FindStringSubmatch(name)
	if m == nil {
		return
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return
	}
	r.counters[m[1]] = max(r.counters[m[1]], n, 1)
}

// Get returns a copy of the record named id.
//
// Postcondition: ok is true iff id is present.
func (r *Registry) Get(id string) (creature.Record, bool) {
	rec, ok := r.entries[id]
	if !ok {
		return creature.Record{}, false
	}
	return rec.Clone(), true
}

// Contains reports whether id is present.
func (r *Registry) Contains(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// Len returns the number of records.
func (r *Registry) Len() int { return len(r.entries) }

// All returns a deep copy of every record keyed by identifier. Mutating the
// result does not affect the registry.
func (r *Registry) All() map[string]creature.Record {
	out := make(map[string]creature.Record, len(r.entries))
	for id, rec := range r.entries {
		out[id] = rec.Clone()
	}
	return out
}

// Names returns every identifier in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

// ClearAll removes every record and then re-seeds the base creatures.
//
// Postcondition: the registry holds exactly the base creatures.
func (r *Registry) ClearAll() {
	clear(r.entries)
	clear(r.counters)
	r.SeedBaseCreatures()
}

// Load replaces the registry contents with records, keyed by identifier, and
// seeds any missing base creatures. A record whose Name disagrees with its key
// is stored under the key.
//
// Postcondition: every entry of records is present, plus the base creatures.
func (r *Registry) Load(records map[string]creature.Record) error {
	clear(r.entries)
	clear(r.counters)
	for id, rec := range records {
		if id == "" {
			return ErrEmptyName
		}
		rec.Name = id
		r.put(rec)
	}
	r.SeedBaseCreatures()
	return nil
}

// NextIdentifier returns the identifier the next fusion named base should use:
// base itself when no record is named base or base_N, otherwise base_K where K
// is one more than the highest occurrence index (base counts as 1).
//
// Postcondition: !Contains(result) for registries built through this API.
func (r *Registry) NextIdentifier(base string) string {
	n := r.counters[base]
	if n == 0 {
		return base
	}
	return base + catalog.Separator + strconv.Itoa(n+1)
}
