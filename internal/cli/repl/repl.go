package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultPrompt is printed before each line.
const DefaultPrompt = "kv> "

// ExecFunc runs one command line that has been split into arguments.
type ExecFunc func(ctx context.Context, args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      ExecFunc
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithPrompt sets the prompt.
func WithPrompt(p string) Option {
	return func(r *REPL) { r.prompt = p }
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) { r.history = h }
}

// New creates a REPL that runs commands with exec.
func New(exec ExecFunc, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    DefaultPrompt,
		exec:      exec,
		completer: NewCompleter(),
		history:   NewHistory(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads and executes lines until exit, quit, EOF, or ctx ends.
// A failing command is reported and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				fmt.Fprintln(r.output)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		args, perr := SplitArgs(line)
		if perr != nil {
			fmt.Fprintf(r.output, "Invalid argument(s): %v\n", perr)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch strings.ToLower(args[0]) {
		case "exit", "quit":
			return nil
		case "help":
			r.help(args[1:])
			continue
		}

		if err := r.exec(ctx, args); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) help(args []string) {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	matches := r.completer.Complete(prefix)
	if len(matches) == 0 {
		fmt.Fprintf(r.output, "no command matches %q\n", prefix)
		return
	}
	for _, m := range matches {
		fmt.Fprintln(r.output, m)
	}
}

// History returns the REPL's history.
func (r *REPL) History() *History {
	return r.history
}
