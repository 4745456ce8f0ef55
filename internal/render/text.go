package render

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/cory-johannsen/monfuse/internal/game/battle"
	"github.com/cory-johannsen/monfuse/internal/game/creature"
)

const (
	frameWidth = 36
	hpBarWidth = 20
)

// Text renders framed summaries of engine results to an io.Writer.
// It never mutates the records it receives.
type Text struct {
	w     io.Writer
	color bool
}

// NewText creates a Text renderer writing to w. When color is false every
// ANSI sequence is stripped before writing.
//
// Precondition: w must be non-nil.
func NewText(w io.Writer, color bool) *Text {
	return &Text{w: w, color: color}
}

// ShowSummon prints a card for rec.
func (t *Text) ShowSummon(rec creature.Record) {
	var b strings.Builder
	t.frameTop(&b, "SUMMON")
	t.card(&b, rec)
	t.frameBottom(&b)
	t.write(b.String())
}

// ShowFusion prints the two parent species joined into the fused record.
func (t *Text) ShowFusion(speciesA, speciesB string, result creature.Record) {
	var b strings.Builder
	t.frameTop(&b, "FUSION")
	fmt.Fprintf(&b, "  %s + %s\n", Colorize(Cyan, speciesA), Colorize(Cyan, speciesB))
	b.WriteString("        ||\n        \\/\n")
	t.card(&b, result)
	t.frameBottom(&b)
	t.write(b.String())
}

// ShowBattle prints both combatants, their remaining health and the result.
func (t *Text) ShowBattle(a, b creature.Record, outcome battle.Outcome) {
	var sb strings.Builder
	t.frameTop(&sb, "BATTLE")
	fmt.Fprintf(&sb, "  %s %s\n", nameOf(a), hpBar(outcome.HPA, a.HP()))
	fmt.Fprintf(&sb, "  %s %s\n", nameOf(b), hpBar(outcome.HPB, b.HP()))
	fmt.Fprintf(&sb, "  rounds: %d\n", outcome.Rounds)
	if outcome.Decision {
		sb.WriteString(Colorf(BrightYellow, "  %s wins by decision", outcome.Winner))
	} else {
		sb.WriteString(Colorf(BrightYellow, "  %s wins, %s defeated", outcome.Winner, outcome.Defeated))
	}
	sb.WriteString("\n")
	t.frameBottom(&sb)
	t.write(sb.String())
}

// ShowEncyclopedia prints one colored line per entry, sorted by identifier.
func (t *Text) ShowEncyclopedia(entries map[string]creature.Record) {
	var b strings.Builder
	t.frameTop(&b, "ENCYCLOPEDIA")
	for _, id := range slices.Sorted(maps.Keys(entries)) {
		rec := entries[id]
		kind := "base"
		if rec.IsFused() {
			kind = "fused"
		}
		fmt.Fprintf(&b, "  %s %s\n", Colorize(elementColor(rec), fmt.Sprintf("%-24s", id)), Colorize(Dim, kind))
	}
	t.frameBottom(&b)
	t.write(b.String())
}

func (t *Text) card(b *strings.Builder, rec creature.Record) {
	fmt.Fprintf(b, "  %s\n", Colorize(Bold+elementColor(rec), rec.Name))
	fmt.Fprintf(b, "  elements: %s  species: %s\n", strings.Join(rec.Elements, "/"), rec.Species)
	fmt.Fprintf(b, "  HP %d  ATK %d  DEF %d  SPD %d\n", rec.HP(), rec.Attack, rec.Defense, rec.Speed)
}

func (t *Text) frameTop(b *strings.Builder, title string) {
	pad := max(frameWidth-len(title)-4, 0)
	b.WriteString(Colorize(BrightCyan, "+- "+title+" "+strings.Repeat("-", pad)+"+"))
	b.WriteString("\n")
}

func (t *Text) frameBottom(b *strings.Builder) {
	b.WriteString(Colorize(BrightCyan, "+"+strings.Repeat("-", frameWidth-1)+"+"))
	b.WriteString("\n")
}

func (t *Text) write(s string) {
	if !t.color {
		s = StripANSI(s)
	}
	// Display is best effort; a failed terminal write has no effect on state.
	_, _ = io.WriteString(t.w, s)
}

func nameOf(rec creature.Record) string {
	return Colorize(elementColor(rec), fmt.Sprintf("%-20s", rec.Name))
}

func elementColor(rec creature.Record) string {
	if len(rec.Elements) == 0 {
		return White
	}
	return ElementColor(rec.Elements[0])
}

// hpBar draws hp out of maxHP as a fixed-width bar. hp may be negative after
// a lethal strike; it is drawn as empty.
func hpBar(hp, maxHP int) string {
	filled := 0
	if maxHP > 0 && hp > 0 {
		filled = min(hp*hpBarWidth/maxHP, hpBarWidth)
	}
	color := Green
	switch {
	case filled*4 <= hpBarWidth:
		color = Red
	case filled*2 <= hpBarWidth:
		color = Yellow
	}
	return "[" + Colorize(color, strings.Repeat("#", filled)) + strings.Repeat(".", hpBarWidth-filled) + "] " +
		fmt.Sprintf("%d/%d", max(hp, 0), maxHP)
}

// Nop discards every event.
type Nop struct{}

func (Nop) ShowSummon(creature.Record) {}
func (Nop) ShowFusion(string, string, creature.Record) {}
func (Nop) ShowBattle(creature.Record, creature.Record, battle.Outcome) {}
func (Nop) ShowEncyclopedia(map[string]creature.Record) {}
