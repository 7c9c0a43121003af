package repl

import (
	"sort"
	"strings"
)

// Completer matches command names by prefix.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the commands kv-server accepts
// plus the REPL's own commands.
func NewCompleter() *Completer {
	commands := []string{
		"PING", "ECHO", "COMMAND DOCS",
		"CONFIG GET", "CONFIG SET",
		"GET", "SET", "MGET", "MSET", "DEL", "INCR",
		"QUIT",
		"help", "exit",
	}
	sort.Strings(commands)
	return &Completer{commands: commands}
}

// Complete returns the commands starting with prefix, ignoring case.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.ToUpper(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToUpper(cmd), prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
