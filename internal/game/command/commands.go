// Package command provides the command registry, parser, and built-in command
// definitions for the fusion console.
package command

// Categories for organizing commands.
const (
	CategoryCreature     = "creature"
	CategoryEncyclopedia = "encyclopedia"
	CategorySystem       = "system"
)

// Handler identifiers mapping commands to dispatcher handlers.
const (
	HandlerFuse   = "fuse"
	HandlerBattle = "battle"
	HandlerSummon = "summon"
	HandlerView   = "view"
	HandlerClear  = "clear"
	HandlerHelp   = "help"
	HandlerQuit   = "quit"
)

// EncyclopediaTarget is the only argument accepted by view and clear.
const EncyclopediaTarget = "en"

// Command defines a console command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage is the syntax line shown by help.
	Usage string
	// Help is the short description.
	Help string
	// Category groups the command.
	Category string
	// Handler maps to the dispatcher handler.
	Handler string
}

// BuiltinCommands returns every console command in help order.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "fuse", Usage: "fuse [element_monster] + [element_monster]", Help: "Fuse two base creatures into a new one", Category: CategoryCreature, Handler: HandlerFuse},
		{Name: "battle", Usage: "battle [monster1] [monster2]", Help: "Simulate a battle between two creatures", Category: CategoryCreature, Handler: HandlerBattle},
		{Name: "summon", Usage: "summon [monster_name]", Help: "Display a creature", Category: CategoryCreature, Handler: HandlerSummon},
		{Name: "view", Usage: "view en", Help: "List the encyclopedia", Category: CategoryEncyclopedia, Handler: HandlerView},
		{Name: "clear", Usage: "clear en", Help: "Reset the encyclopedia to the base creatures", Category: CategoryEncyclopedia, Handler: HandlerClear},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "exit", Aliases: []string{"quit"}, Usage: "exit", Help: "Save and leave", Category: CategorySystem, Handler: HandlerQuit},
	}
}
