package connection

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/kylediaz/kv/pkg/resp"
)

// Manager holds the current connection to one server.
type Manager struct {
	addr    string
	timeout time.Duration
	current *Client
}

// NewManager creates a manager for addr. Nothing is dialed until first use.
func NewManager(addr string, timeout time.Duration) *Manager {
	return &Manager{addr: addr, timeout: timeout}
}

// Addr returns the server address.
func (m *Manager) Addr() string {
	return m.addr
}

// Connect dials the server if there is no open connection.
func (m *Manager) Connect(ctx context.Context) (*Client, error) {
	if m.current != nil {
		return m.current, nil
	}
	c, err := Dial(ctx, m.addr, m.timeout)
	if err != nil {
		return nil, err
	}
	m.current = c
	return c, nil
}

// Do runs one command, dialing first if needed. If the connection was
// dropped by the server since the last command, it redials once.
func (m *Manager) Do(ctx context.Context, args ...string) (resp.Value, error) {
	c, err := m.Connect(ctx)
	if err != nil {
		return resp.Value{}, err
	}
	v, err := c.Do(args...)
	if err != nil && isDisconnect(err) {
		m.Disconnect()
		if c, err = m.Connect(ctx); err != nil {
			return resp.Value{}, err
		}
		v, err = c.Do(args...)
	}
	if err != nil {
		m.Disconnect()
	}
	return v, err
}

// Disconnect closes the current connection.
func (m *Manager) Disconnect() {
	if m.current != nil {
		_ = m.current.Close()
		m.current = nil
	}
}

// IsConnected reports whether a connection is open.
func (m *Manager) IsConnected() bool {
	return m.current != nil
}

// isDisconnect reports whether err means the server hung up.
func isDisconnect(err error) bool {
	for _, target := range []error{io.EOF, io.ErrUnexpectedEOF, net.ErrClosed, ErrClosed, syscall.ECONNRESET, syscall.EPIPE} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
