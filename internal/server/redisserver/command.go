package redisserver

import (
	"context"
	"errors"
	"strings"

	"github.com/kylediaz/kv/internal/core/domain"
	"github.com/kylediaz/kv/pkg/resp"
)

// Command is a command recognized by the server.
type Command uint8

const (
	CmdUnknown Command = iota
	CmdPing
	CmdEcho
	CmdCommand
	CmdConfig
	CmdGet
	CmdSet
	CmdMGet
	CmdMSet
	CmdDel
	CmdIncr
	CmdQuit
)

var commandNames = [...]string{
	CmdUnknown: "unknown",
	CmdPing:    "ping",
	CmdEcho:    "echo",
	CmdCommand: "command",
	CmdConfig:  "config",
	CmdGet:     "get",
	CmdSet:     "set",
	CmdMGet:    "mget",
	CmdMSet:    "mset",
	CmdDel:     "del",
	CmdIncr:    "incr",
	CmdQuit:    "quit",
}

var commandTable = map[string]Command{
	"PING":    CmdPing,
	"ECHO":    CmdEcho,
	"COMMAND": CmdCommand,
	"CONFIG":  CmdConfig,
	"GET":     CmdGet,
	"SET":     CmdSet,
	"MGET":    CmdMGet,
	"MSET":    CmdMSet,
	"DEL":     CmdDel,
	"INCR":    CmdIncr,
	"QUIT":    CmdQuit,
}

// LookupCommand resolves a command name case-insensitively.
func LookupCommand(name string) (Command, bool) {
	c, ok := commandTable[strings.ToUpper(name)]
	return c, ok
}

// String returns the lower-case command name, used as a metric label.
func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return commandNames[CmdUnknown]
}

// IsData reports whether c is served by the Executor.
func (c Command) IsData() bool {
	switch c {
	case CmdGet, CmdSet, CmdMGet, CmdMSet, CmdDel, CmdIncr:
		return true
	default:
		return false
	}
}

// Executor runs data commands against the key-value store.
type Executor interface {
	Execute(ctx context.Context, tokens []string) (resp.Value, error)
}

// ConfigStore backs CONFIG GET and CONFIG SET.
type ConfigStore interface {
	Get(key string) string
	Set(key, value string)
}

// Dispatcher routes requests to their handlers.
type Dispatcher struct {
	store  Executor
	config ConfigStore
}

// NewDispatcher creates a Dispatcher over a store and a config table.
func NewDispatcher(store Executor, config ConfigStore) *Dispatcher {
	return &Dispatcher{store: store, config: config}
}

// Dispatch executes one request and returns its reply.
func (d *Dispatcher) Dispatch(ctx context.Context, req resp.Value) (resp.Value, error) {
	reply, _, err := d.Handle(ctx, req)
	return reply, err
}

// Handle is Dispatch that also reports which command the request named.
// cmd is CmdUnknown when the request could not be classified.
func (d *Dispatcher) Handle(ctx context.Context, req resp.Value) (reply resp.Value, cmd Command, err error) {
	tokens, ok := req.Strings()
	if !ok || len(tokens) == 0 {
		return resp.Value{}, CmdUnknown, domain.ErrIncorrectFormat
	}

	cmd, ok = LookupCommand(tokens[0])
	if !ok {
		return resp.Value{}, CmdUnknown, domain.UnknownCommand(tokens)
	}

	switch cmd {
	case CmdPing:
		reply, err = ping(tokens)
	case CmdEcho:
		reply, err = echo(tokens)
	case CmdCommand:
		reply, err = command(tokens)
	case CmdConfig:
		reply, err = d.configCommand(tokens)
	case CmdQuit:
		reply = resp.SimpleString("OK")
	default:
		reply, err = d.store.Execute(ctx, tokens)
	}
	return reply, cmd, err
}

func ping(tokens []string) (resp.Value, error) {
	switch len(tokens) {
	case 1:
		return resp.SimpleString("PONG"), nil
	case 2:
		return resp.SimpleString(tokens[1]), nil
	default:
		return resp.Value{}, domain.SyntaxError(tokens, "wrong number of arguments")
	}
}

func echo(tokens []string) (resp.Value, error) {
	if len(tokens) != 2 {
		return resp.Value{}, domain.SyntaxError(tokens, "wrong number of arguments")
	}
	return resp.BulkString(tokens[1]), nil
}

// command answers COMMAND DOCS with an empty list, which is all
// redis-cli needs to start up.
func command(tokens []string) (resp.Value, error) {
	if len(tokens) == 2 && strings.EqualFold(tokens[1], "DOCS") {
		return resp.Array(), nil
	}
	return resp.Value{}, domain.SyntaxError(tokens, "only COMMAND DOCS is supported")
}

func (d *Dispatcher) configCommand(tokens []string) (resp.Value, error) {
	if len(tokens) < 2 {
		return resp.Value{}, domain.SyntaxError(tokens, "missing subcommand")
	}

	switch strings.ToUpper(tokens[1]) {
	case "GET":
		if len(tokens) != 3 {
			return resp.Value{}, domain.SyntaxError(tokens, "wrong number of arguments")
		}
		return resp.SimpleString(d.config.Get(tokens[2])), nil
	case "SET":
		if len(tokens) != 4 {
			return resp.Value{}, domain.SyntaxError(tokens, "wrong number of arguments")
		}
		d.config.Set(tokens[2], tokens[3])
		return resp.SimpleString(tokens[3]), nil
	default:
		return resp.Value{}, domain.SyntaxError(tokens, "unknown subcommand")
	}
}

// formatRedisError converts an error to the text of a RESP error reply.
// Domain errors render as "ERR <message> <details>"; anything else as
// "ERR <error>".
func formatRedisError(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		if de.Details != "" {
			return "ERR " + de.Message + " " + de.Details
		}
		return "ERR " + de.Message
	}
	return "ERR " + err.Error()
}
