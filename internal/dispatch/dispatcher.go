// Package dispatch routes console commands to the fusion and battle
// resolvers, commits results to the encyclopedia, persists it, and forwards
// results to a Renderer.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monfuse/internal/game/battle"
	"github.com/cory-johannsen/monfuse/internal/game/catalog"
	"github.com/cory-johannsen/monfuse/internal/game/command"
	"github.com/cory-johannsen/monfuse/internal/game/creature"
	"github.com/cory-johannsen/monfuse/internal/game/encyclopedia"
	"github.com/cory-johannsen/monfuse/internal/game/fusion"
)

// UnknownCommand is the response to any input that names no command or has
// the wrong shape for view, clear, battle or summon.
const UnknownCommand = "Unknown command."

// Renderer displays engine results. It observes only; it never mutates the
// records it receives or calls back into the dispatcher.
type Renderer interface {
	ShowSummon(rec creature.Record)
	ShowFusion(speciesA, speciesB string, result creature.Record)
	ShowBattle(a, b creature.Record, outcome battle.Outcome)
	ShowEncyclopedia(entries map[string]creature.Record)
}

// Saver persists a full encyclopedia snapshot.
type Saver interface {
	Save(ctx context.Context, records map[string]creature.Record) error
}

// Response is the text produced by one Execute call.
type Response struct {
	// Text is the newline-joined output of every executed segment.
	Text string
	// Quit is true when an exit command was executed.
	Quit bool
}

// Dispatcher executes console input against one encyclopedia.
// It is not safe for concurrent use.
type Dispatcher struct {
	registry *encyclopedia.Registry
	fusion   *fusion.Resolver
	battle   *battle.Resolver
	renderer Renderer
	saver    Saver
	commands *command.Registry
	logger   *zap.Logger
	last     *creature.Record
}

// New creates a Dispatcher.
//
// Precondition: every argument must be non-nil.
func New(
	registry *encyclopedia.Registry,
	fusionResolver *fusion.Resolver,
	battleResolver *battle.Resolver,
	renderer Renderer,
	saver Saver,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		fusion:   fusionResolver,
		battle:   battleResolver,
		renderer: renderer,
		saver:    saver,
		commands: command.DefaultRegistry(),
		logger:   logger,
	}
}

// Last returns the most recently fused record, if any.
func (d *Dispatcher) Last() (creature.Record, bool) {
	if d.last == nil {
		return creature.Record{}, false
	}
	return d.last.Clone(), true
}

// Persist writes the current encyclopedia through the Saver.
//
// Postcondition: Returns nil or a *PersistError.
func (d *Dispatcher) Persist(ctx context.Context) error {
	if err := d.saver.Save(ctx, d.registry.All()); err != nil {
		d.logger.Error("persisting encyclopedia", zap.Error(err))
		return &PersistError{Err: err}
	}
	d.logger.Debug("encyclopedia persisted", zap.Int("entries", d.registry.Len()))
	return nil
}

// Execute runs every semicolon-separated command in line. A failing command
// produces a one-line message and does not stop the rest of the batch; only a
// persistence failure stops the batch, and it is returned as a *PersistError
// along with the output produced so far.
//
// Postcondition: Response.Text has no surrounding whitespace.
func (d *Dispatcher) Execute(ctx context.Context, line string) (Response, error) {
	var (
		out  []string
		resp Response
	)
	for _, seg := range command.SplitBatch(line) {
		text, quit, err := d.executeOne(ctx, seg)
		var persistErr *PersistError
		switch {
		case err == nil:
		case errors.As(err, &persistErr):
			resp.Text = strings.TrimSpace(strings.Join(append(out, text), "\n"))
			return resp, err
		default:
			text = d.describe(seg, err)
		}
		out = append(out, text)
		if quit {
			resp.Quit = true
			break
		}
	}
	resp.Text = strings.TrimSpace(strings.Join(out, "\n"))
	return resp, nil
}

func (d *Dispatcher) describe(seg string, err error) string {
	var (
		verr *ValidationError
		lerr *LookupError
	)
	switch {
	case errors.As(err, &verr):
		d.logger.Debug("command rejected", zap.String("command", seg), zap.Error(err))
		return verr.Message
	case errors.As(err, &lerr):
		d.logger.Debug("lookup failed", zap.String("command", seg), zap.Strings("ids", lerr.IDs))
		return lerr.Message
	default:
		d.logger.Warn("command failed", zap.String("command", seg), zap.Error(err))
		return "Error: " + err.Error()
	}
}

func (d *Dispatcher) executeOne(ctx context.Context, seg string) (string, bool, error) {
	pr := command.Parse(seg)
	cmd, ok := d.commands.Resolve(pr.Command)
	if !ok {
		return UnknownCommand, false, nil
	}

	switch cmd.Handler {
	case command.HandlerHelp:
		return d.commands.HelpText(), false, nil
	case command.HandlerQuit:
		return "Exiting...", true, nil
	case command.HandlerView:
		if !targetsEncyclopedia(pr.Args) {
			return UnknownCommand, false, nil
		}
		return d.view(), false, nil
	case command.HandlerClear:
		if !targetsEncyclopedia(pr.Args) {
			return UnknownCommand, false, nil
		}
		text, err := d.clear(ctx)
		return text, false, err
	case command.HandlerFuse:
		text, err := d.fuse(ctx, pr.Args)
		return text, false, err
	case command.HandlerBattle:
		if len(pr.Args) < 2 {
			return UnknownCommand, false, nil
		}
		text, err := d.doBattle(pr.Args[0], pr.Args[1])
		return text, false, err
	case command.HandlerSummon:
		if len(pr.Args) < 1 {
			return UnknownCommand, false, nil
		}
		text, err := d.summon(pr.Args[0])
		return text, false, err
	default:
		return "", false, fmt.Errorf("no handler for command %q", cmd.Name)
	}
}

func targetsEncyclopedia(args []string) bool {
	return len(args) > 0 && args[0] == command.EncyclopediaTarget
}

func (d *Dispatcher) fuse(ctx context.Context, args []string) (string, error) {
	if len(args) != 3 || args[1] != "+" {
		return "", &ValidationError{
			Message: "Invalid format! Use fuse element_monster + element_monster.",
			Err:     ErrMalformed,
		}
	}
	cat := d.registry.Catalog()
	ea, sa, err := ParseToken(cat, args[0])
	if err != nil {
		return "", err
	}
	eb, sb, err := ParseToken(cat, args[2])
	if err != nil {
		return "", err
	}

	rec, err := d.fusion.Fuse(d.registry, ea, sa, eb, sb)
	if err != nil {
		return "", fmt.Errorf("fusing %s + %s: %w", args[0], args[2], err)
	}
	if err := d.registry.Insert(rec); err != nil {
		return "", fmt.Errorf("committing %q: %w", rec.Name, err)
	}
	d.last = &rec
	d.logger.Info("fusion committed",
		zap.String("name", rec.Name),
		zap.String("parent_a", args[0]),
		zap.String("parent_b", args[2]),
		zap.Int("attack", rec.Attack),
		zap.Int("defense", rec.Defense),
		zap.Int("speed", rec.Speed),
	)
	if err := d.Persist(ctx); err != nil {
		return "", err
	}
	d.renderer.ShowFusion(sa, sb, rec.Clone())
	return fmt.Sprintf("Fusion successful: %s", rec.Name), nil
}

func (d *Dispatcher) doBattle(idA, idB string) (string, error) {
	a, okA := d.registry.Get(idA)
	b, okB := d.registry.Get(idB)
	if !okA || !okB {
		return "", &LookupError{Message: "One or both monsters not in encyclopedia.", IDs: []string{idA, idB}}
	}
	outcome := d.battle.Resolve(a, b)
	d.logger.Info("battle resolved",
		zap.String("a", idA),
		zap.String("b", idB),
		zap.String("winner", outcome.Winner),
		zap.Int("rounds", outcome.Rounds),
		zap.Bool("decision", outcome.Decision),
	)
	d.renderer.ShowBattle(a, b, outcome)
	return outcome.Text(), nil
}

func (d *Dispatcher) summon(id string) (string, error) {
	rec, ok := d.registry.Get(id)
	if !ok {
		return "", &LookupError{Message: fmt.Sprintf("Monster '%s' not found in encyclopedia.", id), IDs: []string{id}}
	}
	d.renderer.ShowSummon(rec)
	return fmt.Sprintf("%s has been summoned.", id), nil
}

func (d *Dispatcher) clear(ctx context.Context) (string, error) {
	d.registry.ClearAll()
	d.last = nil
	d.logger.Info("encyclopedia cleared", zap.Int("entries", d.registry.Len()))
	if err := d.Persist(ctx); err != nil {
		return "", err
	}
	return "Encyclopedia cleared.", nil
}

func (d *Dispatcher) view() string {
	if d.registry.Len() == 0 {
		return "Encyclopedia is empty."
	}
	cat := d.registry.Catalog()
	var base, fused []string
	for _, id := range d.registry.Names() {
		rec, _ := d.registry.Get(id)
		line := fmt.Sprintf("%s | HP %d ATK %d DEF %d SPD %d", id, rec.HP(), rec.Attack, rec.Defense, rec.Speed)
		if cat.IsBaseIdentifier(id) {
			base = append(base, line)
		} else {
			fused = append(fused, line)
		}
	}

	var b strings.Builder
	if len(base) > 0 {
		b.WriteString("=== BASE MONSTERS ===\n")
		b.WriteString(strings.Join(base, "\n"))
		b.WriteString("\n")
	}
	if len(fused) > 0 {
		b.WriteString("=== FUSED MONSTERS ===\n")
		b.WriteString(strings.Join(fused, "\n"))
		b.WriteString("\n")
	}
	d.renderer.ShowEncyclopedia(d.registry.All())
	return strings.TrimRight(b.String(), "\n")
}

// ParseToken splits an element_species token and validates both halves
// against cat.
//
// Postcondition: Returns the element and species, or a *ValidationError.
func ParseToken(cat *catalog.Catalog, tok string) (string, string, error) {
	element, species, found := strings.Cut(tok, catalog.Separator)
	if !found {
		return "", "", &ValidationError{
			Message: "Invalid format! Use element_monster (e.g., fire_cat).",
			Err:     ErrMalformed,
		}
	}
	if !cat.IsElement(element) {
		return "", "", &ValidationError{
			Message: fmt.Sprintf("'%s' is not a valid element.", element),
			Err:     catalog.ErrUnknownElement,
		}
	}
	if !cat.IsSpecies(species) {
		return "", "", &ValidationError{
			Message: fmt.Sprintf("'%s' is not a valid monster.", species),
			Err:     catalog.ErrUnknownSpecies,
		}
	}
	return element, species, nil
}
