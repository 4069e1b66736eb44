package scheduler

import "strings"

// CommandKind distinguishes control input from answers.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandSave
	CommandSkip
)

// Command is control input typed instead of an answer.
type Command struct {
	Kind CommandKind
	Name string // for CommandSave
}

// ParseCommand recognizes "saveas <name...>", "ss" and "skip", ignoring case.
// The save name is the remaining words, lower-cased and joined with "-".
// Anything else is an answer.
func ParseCommand(input string) Command {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return Command{}
	}
	switch {
	case fields[0] == "saveas":
		return Command{Kind: CommandSave, Name: strings.Join(fields[1:], "-")}
	case len(fields) == 1 && (fields[0] == "ss" || fields[0] == "skip"):
		return Command{Kind: CommandSkip}
	}
	return Command{}
}
