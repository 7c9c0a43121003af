package command

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/kylediaz/kv/internal/cli/connection"
	"github.com/kylediaz/kv/internal/cli/output"
	"github.com/kylediaz/kv/internal/cli/repl"
	"github.com/kylediaz/kv/pkg/resp"
)

func run(c *cli.Context) error {
	opts, err := ParseOptions(c)
	if err != nil {
		return err
	}

	mgr := connection.NewManager(opts.Addr(), opts.Timeout)
	defer mgr.Disconnect()

	fmtr := output.NewFormatter(opts.Format)

	if c.NArg() > 0 {
		return execOnce(c.Context, mgr, fmtr, c.App.Writer, c.Args().Slice())
	}
	return interactive(c.Context, mgr, fmtr, c.App.Reader, c.App.Writer, opts)
}

// execOnce sends a single command and prints its reply.
func execOnce(ctx context.Context, mgr *connection.Manager, f output.Formatter, w io.Writer, args []string) error {
	reply, err := send(ctx, mgr, f, w, args)
	if err != nil {
		return err
	}
	if reply.Kind == resp.KindError {
		return ErrReply
	}
	return nil
}

func send(ctx context.Context, mgr *connection.Manager, f output.Formatter, w io.Writer, args []string) (resp.Value, error) {
	reply, err := mgr.Do(ctx, args...)
	if err != nil {
		return resp.Value{}, fmt.Errorf("%s: %w", mgr.Addr(), err)
	}
	return reply, f.Format(w, reply)
}

// interactive runs the REPL. Error replies are printed and the loop
// continues; connection failures are reported by the REPL.
func interactive(ctx context.Context, mgr *connection.Manager, f output.Formatter, in io.Reader, w io.Writer, opts *Options) error {
	history := newHistory(opts.HistoryFile)
	if err := history.Load(); err != nil {
		fmt.Fprintf(w, "warning: cannot load history: %v\n", err)
	}

	exec := func(ctx context.Context, args []string) error {
		_, err := send(ctx, mgr, f, w, args)
		return err
	}

	r := repl.New(exec,
		repl.WithIO(in, w),
		repl.WithHistory(history),
	)
	err := r.Run(ctx)

	if serr := history.Save(); serr != nil {
		fmt.Fprintf(w, "warning: cannot save history: %v\n", serr)
	}
	return err
}

func newHistory(path string) *repl.History {
	switch path {
	case "-":
		return repl.NewHistory()
	case "":
		return repl.NewFileHistory(repl.DefaultHistoryFile())
	default:
		return repl.NewFileHistory(path)
	}
}
