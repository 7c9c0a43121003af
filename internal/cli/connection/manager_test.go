package connection

import (
	"context"
	"testing"
	"time"
)

func TestNewManager(t *testing.T) {
	m := NewManager("127.0.0.1:6379", time.Second)
	if m.Addr() != "127.0.0.1:6379" {
		t.Errorf("Addr() = %q", m.Addr())
	}
	if m.IsConnected() {
		t.Error("new manager should not be connected")
	}
	m.Disconnect()
}

func TestManager_ConnectReuses(t *testing.T) {
	addr := fakeServer(t, nil, 0)
	m := NewManager(addr, time.Second)
	defer m.Disconnect()

	a, err := m.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	b, _ := m.Connect(context.Background())
	if a != b {
		t.Error("Connect() dialed twice")
	}

	m.Disconnect()
	if m.IsConnected() {
		t.Error("still connected after Disconnect")
	}
}
