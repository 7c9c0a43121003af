package shutdown

import (
	"context"
	"errors"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/kylediaz/kv/internal/telemetry/logger"
)

func TestHandler_ReverseOrder(t *testing.T) {
	h := NewHandler(time.Second, logger.Discard())

	var (
		mu    sync.Mutex
		order []string
	)
	for _, name := range []string{"watcher", "metrics", "redis"} {
		h.OnShutdown(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	h.Trigger()
	if err := h.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if strings.Join(order, ",") != "redis,metrics,watcher" {
		t.Errorf("order = %v", order)
	}
	select {
	case <-h.Done():
	default:
		t.Error("Done() not closed after Wait")
	}
}

func TestHandler_JoinsErrors(t *testing.T) {
	h := NewHandler(time.Second, logger.Discard())
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	ran := false
	h.OnShutdown("last", func(context.Context) error {
		ran = true
		return nil
	})
	h.OnShutdown("a", func(context.Context) error { return errA })
	h.OnShutdown("b", func(context.Context) error { return errB })

	h.Trigger()
	err := h.Wait(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Wait() error = %v, want both hook errors", err)
	}
	if !ran {
		t.Error("hook after a failing hook did not run")
	}
}

func TestHandler_HookDeadline(t *testing.T) {
	h := NewHandler(20*time.Millisecond, logger.Discard())
	h.OnShutdown("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	h.Trigger()
	if err := h.Wait(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}
}

func TestHandler_ContextCancel(t *testing.T) {
	h := NewHandler(time.Second, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.Wait(ctx); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestHandler_TriggerTwice(t *testing.T) {
	h := NewHandler(time.Second, logger.Discard())
	h.Trigger()
	h.Trigger()
}

func TestHandler_Signal(t *testing.T) {
	h := NewHandler(time.Second, logger.Discard())
	called := make(chan struct{})
	h.OnShutdown("probe", func(context.Context) error {
		close(called)
		return nil
	})

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(context.Background()) }()

	// Give Wait time to install its signal handler.
	time.Sleep(50 * time.Millisecond)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("kill: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after SIGTERM")
	}
	<-called
}
