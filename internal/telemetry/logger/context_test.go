package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "notice", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("test message")

	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Error("FromContext should return the default logger when none is set")
	}
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	if ClientIDFromContext(ctx) != "" || RunIDFromContext(ctx) != "" {
		t.Error("empty context should carry no IDs")
	}

	ctx = WithClientID(ctx, "01HZX")
	ctx = WithRunID(ctx, "run-1")
	if got := ClientIDFromContext(ctx); got != "01HZX" {
		t.Errorf("ClientIDFromContext() = %q", got)
	}
	if got := RunIDFromContext(ctx); got != "run-1" {
		t.Errorf("RunIDFromContext() = %q", got)
	}
}

func TestL_AddsIDs(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "notice", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithLogger(context.Background(), l)
	ctx = WithClientID(ctx, "client-42")
	ctx = WithRunID(ctx, "run-7")
	L(ctx).Info("with ids")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["client_id"] != "client-42" {
		t.Errorf("client_id = %v", entry["client_id"])
	}
	if entry["run_id"] != "run-7" {
		t.Errorf("run_id = %v", entry["run_id"])
	}
}

func TestL_NoIDs(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "notice", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	L(WithLogger(context.Background(), l)).Info("plain")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, ok := entry["client_id"]; ok {
		t.Error("client_id present without one in context")
	}
}
