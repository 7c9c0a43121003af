package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/kylediaz/kv/pkg/resp"
)

// DefaultTimeout bounds dialing and each request.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned by Do after the connection has closed.
var ErrClosed = errors.New("connection closed")

// Client is a RESP client connection. It is not safe for concurrent use.
type Client struct {
	addr    string
	conn    net.Conn
	bw      *bufio.Writer
	framer  *resp.Framer
	buf     []byte
	timeout time.Duration
}

// Dial connects to addr.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return newClient(addr, conn, timeout), nil
}

func newClient(addr string, conn net.Conn, timeout time.Duration) *Client {
	return &Client{
		addr:    addr,
		conn:    conn,
		bw:      bufio.NewWriter(conn),
		framer:  resp.NewFramer(resp.DefaultLimits(), 0),
		buf:     make([]byte, 16*1024),
		timeout: timeout,
	}
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends args as one command and returns the reply. Error replies
// come back as a resp.Value of KindError, not as a Go error.
func (c *Client) Do(args ...string) (resp.Value, error) {
	if c.conn == nil {
		return resp.Value{}, ErrClosed
	}
	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return resp.Value{}, err
	}
	if err := resp.Write(c.bw, resp.Command(args...)); err != nil {
		return resp.Value{}, err
	}
	if err := c.bw.Flush(); err != nil {
		return resp.Value{}, fmt.Errorf("send: %w", err)
	}
	return c.readReply()
}

func (c *Client) readReply() (resp.Value, error) {
	for {
		v, ok, err := c.framer.Next()
		if err != nil {
			return resp.Value{}, fmt.Errorf("read reply: %w", err)
		}
		if ok {
			return v, nil
		}

		n, err := c.conn.Read(c.buf)
		if n > 0 {
			if ferr := c.framer.Feed(c.buf[:n]); ferr != nil {
				return resp.Value{}, ferr
			}
			continue
		}
		if err != nil {
			return resp.Value{}, fmt.Errorf("read reply: %w", err)
		}
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
