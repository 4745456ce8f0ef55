// Package battle simulates a bounded, alternating-attack duel between two
// creature records.
package battle

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/monfuse/internal/game/creature"
	"github.com/cory-johannsen/monfuse/internal/game/dice"
)

// Duel parameters.
const (
	MaxRounds = 10
	MinDamage = 10
	MaxDamage = 30
)

// Outcome is the result of one battle.
type Outcome struct {
	// Log holds the human-readable battle narration, one line per entry.
	Log []string
	// Winner is the identifier of the winning combatant.
	Winner string
	// Defeated is the identifier of the combatant knocked out, or empty when
	// the battle went the distance.
	Defeated string
	// Decision is true when equal final HP was broken by a random choice.
	Decision bool
	// Rounds is the number of rounds started.
	Rounds int
	// HPA and HPB are the final hit points of the first and second combatant,
	// clamped at zero.
	HPA int
	HPB int
}

// Text returns the log joined with newlines.
func (o Outcome) Text() string {
	return strings.Join(o.Log, "\n")
}

// Resolver runs battles using a logged random source.
type Resolver struct {
	roller *dice.Roller
}

// NewResolver creates a Resolver.
//
// Precondition: roller must be non-nil.
func NewResolver(roller *dice.Roller) *Resolver {
	return &Resolver{roller: roller}
}

// Resolve runs a battle between a and b. Each combatant starts with
// creature.Record.HP() hit points. In every round a strikes first; b strikes
// back only if it survived. A knockout ends the battle immediately. After
// MaxRounds the higher HP wins, and equal HP is settled by a uniform random
// decision.
//
// Postcondition: 1 <= Rounds <= MaxRounds; Winner is a.Name or b.Name; the
// last log line names the winner.
func (r *Resolver) Resolve(a, b creature.Record) Outcome {
	hpA, hpB := a.HP(), b.HP()
	out := Outcome{
		Log: []string{"=== BATTLE START ===", fmt.Sprintf("%s vs %s", a.Name, b.Name), ""},
	}

	for round := 1; round <= MaxRounds; round++ {
		out.Rounds = round
		out.Log = append(out.Log, fmt.Sprintf("--- Round %d ---", round))

		hpB = r.strike(&out, a.Name, b.Name, hpB)
		if hpB <= 0 {
			out.Defeated = b.Name
			break
		}

		hpA = r.strike(&out, b.Name, a.Name, hpA)
		if hpA <= 0 {
			out.Defeated = a.Name
			break
		}
	}

	switch {
	case hpA > hpB:
		out.Winner = a.Name
	case hpB > hpA:
		out.Winner = b.Name
	default:
		out.Winner = r.roller.Choose("decision", a.Name, b.Name)
		out.Decision = true
		out.Log = append(out.Log, fmt.Sprintf("Draw! %s wins by decision!", out.Winner))
	}
	out.HPA, out.HPB = max(hpA, 0), max(hpB, 0)
	out.Log = append(out.Log, "", fmt.Sprintf("Winner: %s", out.Winner))
	return out
}

func (r *Resolver) strike(out *Outcome, attacker, defender string, hp int) int {
	dmg := r.roller.Between("damage", MinDamage, MaxDamage)
	hp -= dmg
	out.Log = append(out.Log, fmt.Sprintf("%s attacks %s for %d damage! (%d HP left)", attacker, defender, dmg, max(hp, 0)))
	if hp <= 0 {
		out.Log = append(out.Log, fmt.Sprintf("%s has been defeated!", defender))
	}
	return hp
}
