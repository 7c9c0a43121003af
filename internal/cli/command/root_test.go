package command

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kylediaz/kv/internal/server/config"
	"github.com/kylediaz/kv/internal/server/redisserver"
	"github.com/kylediaz/kv/internal/storage/memory"
	"github.com/kylediaz/kv/internal/telemetry/logger"
	"github.com/kylediaz/kv/internal/telemetry/metric"
)

// startServer runs a loopback kv-server and returns its host and port.
func startServer(t *testing.T) (string, string) {
	t.Helper()
	cfg := redisserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	d := redisserver.NewDispatcher(memory.New(), config.NewTable(config.Defaults()))
	s := redisserver.New(cfg, d, redisserver.WithLogger(logger.Discard()), redisserver.WithMetrics(metric.NewRegistry()))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})

	host, port, err := net.SplitHostPort(s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	return host, port
}

// runApp runs kv-cli with args against a config file that does not exist.
func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &out

	full := append([]string{"kv-cli", "-c", filepath.Join(t.TempDir(), "none.yaml")}, args...)
	err := app.Run(full)
	return out.String(), err
}

func TestApp_Flags(t *testing.T) {
	app := App()
	if app.Name != "kv-cli" {
		t.Errorf("Name = %q", app.Name)
	}

	names := make(map[string]bool)
	for _, f := range app.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"host", "h", "port", "p", "format", "timeout", "config", "history"} {
		if !names[want] {
			t.Errorf("missing flag %q", want)
		}
	}
}

func TestApp_OneShot(t *testing.T) {
	host, port := startServer(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ping", []string{"ping"}, "PONG\n"},
		{"set", []string{"set", "greeting", "hello world"}, "OK\n"},
		{"get", []string{"get", "greeting"}, "\"hello world\"\n"},
		{"get missing", []string{"get", "nope"}, "(nil)\n"},
		{"incr", []string{"incr", "n"}, "(integer) 1\n"},
		{"mget", []string{"mget", "greeting", "nope"}, "1) \"hello world\"\n2) (nil)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, "", append([]string{"-h", host, "-p", port}, tt.args...)...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestApp_OneShotErrorReply(t *testing.T) {
	host, port := startServer(t)

	out, err := runApp(t, "", "-h", host, "-p", port, "bogus", "x")
	if !errors.Is(err, ErrReply) {
		t.Fatalf("Run() error = %v, want ErrReply", err)
	}
	if !strings.HasPrefix(out, "(error) ERR unknown command") {
		t.Errorf("output = %q", out)
	}
}

func TestApp_OneShotJSON(t *testing.T) {
	host, port := startServer(t)

	if _, err := runApp(t, "", "-h", host, "-p", port, "set", "k", "v"); err != nil {
		t.Fatal(err)
	}
	out, err := runApp(t, "", "-h", host, "-p", port, "--format", "json", "mget", "k", "missing")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, `"v"`) || !strings.Contains(out, "null") {
		t.Errorf("output = %q", out)
	}
}

func TestApp_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()

	if _, err := runApp(t, "", "-h", "127.0.0.1", "-p", port, "-t", "500ms", "ping"); err == nil {
		t.Error("Run() should fail without a server")
	}
}

func TestApp_BadOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"--format", "xml", "ping"}},
		{"bad port", []string{"-p", "70000", "ping"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runApp(t, "", tt.args...); err == nil {
				t.Error("Run() should fail")
			}
		})
	}
}

func TestApp_ConfigFile(t *testing.T) {
	host, port := startServer(t)

	path := filepath.Join(t.TempDir(), "cli.yaml")
	data := "host: " + host + "\nport: " + port + "\nformat: yaml\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	app := App()
	app.Writer = &out
	if err := app.Run([]string{"kv-cli", "-c", path, "echo", "hi"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.String() != "hi\n" {
		t.Errorf("output = %q, want yaml scalar", out.String())
	}
}

func TestApp_Interactive(t *testing.T) {
	host, port := startServer(t)
	history := filepath.Join(t.TempDir(), "history")

	stdin := "set a 1\nincr a\nbogus\nget a\nexit\n"
	out, err := runApp(t, stdin, "-h", host, "-p", port, "--history", history)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, want := range []string{"kv> ", "OK", "(integer) 2", "(error) ERR unknown command", `"2"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(history)
	if err != nil {
		t.Fatalf("history not saved: %v", err)
	}
	if !strings.Contains(string(data), "incr a") {
		t.Errorf("history = %q", data)
	}
}

func TestApp_InteractiveServerDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()

	out, err := runApp(t, "ping\nquit\n", "-h", "127.0.0.1", "-p", port, "-t", "500ms", "--history", "-")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "Error: ") {
		t.Errorf("output = %q, want a connection error", out)
	}
}

func TestNewHistory(t *testing.T) {
	if h := newHistory("-"); h.Load() != nil || h.Save() != nil {
		t.Error("disabled history should not touch disk")
	}
}
