package redisserver

import (
	"bufio"
	"net"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/kylediaz/kv/pkg/resp"
)

// Conn is a single client connection.
type Conn struct {
	id      string
	netConn net.Conn
	bw      *bufio.Writer
	framer  *resp.Framer
	limiter *rate.Limiter

	createdAt time.Time
	commands  atomic.Uint64
	closed    atomic.Bool
}

func newConn(c net.Conn, cfg *Config, limit int) *Conn {
	return &Conn{
		id:        ulid.Make().String(),
		netConn:   c,
		bw:        bufio.NewWriter(c),
		framer:    resp.NewFramer(cfg.Limits, cfg.MaxQueryBuffer),
		limiter:   newLimiter(limit),
		createdAt: time.Now(),
	}
}

// newLimiter returns a limiter allowing n commands per second.
// n <= 0 means unlimited.
func newLimiter(n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(n), n)
}

func setLimit(l *rate.Limiter, n int) {
	if n <= 0 {
		l.SetLimit(rate.Inf)
		return
	}
	l.SetLimit(rate.Limit(n))
	l.SetBurst(n)
}

// ID returns the connection's ULID.
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// Commands returns the number of commands served so far.
func (c *Conn) Commands() uint64 {
	return c.commands.Load()
}

// Age returns how long the connection has been open.
func (c *Conn) Age() time.Duration {
	return time.Since(c.createdAt)
}

// Close closes the underlying connection. It is safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}
