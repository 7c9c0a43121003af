package redisserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kylediaz/kv/internal/telemetry/logger"
	"github.com/kylediaz/kv/internal/telemetry/metric"
	"github.com/kylediaz/kv/pkg/cmap"
	"github.com/kylediaz/kv/pkg/resp"
)

// Config holds the RESP server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// IdleTimeout closes a connection with no input for this long. 0 = never.
	IdleTimeout time.Duration
	// WriteTimeout bounds each reply flush.
	WriteTimeout time.Duration
	// RateLimit caps commands per second per connection. 0 = unlimited.
	RateLimit int
	// Limits bounds a single request.
	Limits resp.Limits
	// MaxQueryBuffer bounds the unparsed bytes held for one client.
	MaxQueryBuffer int
	// ReadChunkSize is the size of each socket read.
	ReadChunkSize int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:           "127.0.0.1:6379",
		WriteTimeout:   30 * time.Second,
		Limits:         resp.DefaultLimits(),
		MaxQueryBuffer: resp.DefaultMaxBuffered,
		ReadChunkSize:  16 * 1024,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Server is the RESP server.
type Server struct {
	cfg        *Config
	dispatcher *Dispatcher
	logger     logger.Logger
	metrics    *metric.Registry

	idleTimeout atomic.Int64
	rateLimit   atomic.Int64

	mu      sync.Mutex
	ln      net.Listener
	closing bool // set by Shutdown; no connection is admitted after
	conns   *cmap.Map[string, *Conn]
	wg      sync.WaitGroup
}

// New creates a server. A nil cfg uses DefaultConfig.
func New(cfg *Config, d *Dispatcher, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ReadChunkSize <= 0 {
		cfg.ReadChunkSize = 16 * 1024
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}

	s := &Server{
		cfg:        cfg,
		dispatcher: d,
		logger:     logger.Default(),
		conns:      cmap.New[string, *Conn](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metric.NewRegistry()
	}
	s.idleTimeout.Store(int64(cfg.IdleTimeout))
	s.rateLimit.Store(int64(cfg.RateLimit))
	return s
}

// Start binds the listen address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Serve(ctx, ln); err != nil {
			s.logger.Error("redis server error", "error", err)
		}
	}()
	return nil
}

// Serve accepts connections on ln until it is closed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	for {
		c, err := ln.Accept()
		if err != nil {
			if s.isClosing() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		s.mu.Lock()
		if s.closing {
			s.mu.Unlock()
			_ = c.Close()
			return nil
		}
		s.wg.Add(1)
		s.mu.Unlock()
		go func() {
			defer s.wg.Done()
			s.ServeConn(ctx, c)
		}()
	}
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// Addr returns the listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ClientCount returns the number of open connections.
func (s *Server) ClientCount() int {
	return s.conns.Count()
}

// Clients returns the open connections.
func (s *Server) Clients() []*Conn {
	return s.conns.Values()
}

// SetIdleTimeout changes the idle timeout. It applies from each
// connection's next read.
func (s *Server) SetIdleTimeout(d time.Duration) {
	s.idleTimeout.Store(int64(d))
}

// SetRateLimit changes the per-connection command rate, including for
// connections already open. n <= 0 removes the limit.
func (s *Server) SetRateLimit(n int) {
	s.rateLimit.Store(int64(n))
	for _, c := range s.Clients() {
		setLimit(c.limiter, n)
	}
}

// Shutdown stops accepting, closes every client connection, and waits
// for connection goroutines to exit or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	var firstErr error
	s.mu.Lock()
	s.closing = true
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	s.mu.Unlock()

	for _, c := range s.Clients() {
		logger.Verbose(s.logger, "closing client",
			"client_id", c.ID(),
			"remote", c.RemoteAddr().String(),
			"age", c.Age().Round(time.Millisecond),
			"commands", c.Commands(),
		)
		_ = c.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return firstErr
}

// ServeConn serves one client until it disconnects, sends QUIT, sends
// malformed input, or the server shuts down. It closes nc on return.
func (s *Server) ServeConn(ctx context.Context, nc net.Conn) {
	c := newConn(nc, s.cfg, int(s.rateLimit.Load()))
	s.conns.Set(c.id, c)
	// A connection registered after Shutdown swept the map closes here.
	if s.isClosing() {
		_ = c.Close()
	}
	s.metrics.ConnectionsTotal.Inc()
	s.metrics.ConnectionsActive.Inc()

	log := s.logger.With("client_id", c.id, "remote", nc.RemoteAddr().String())
	ctx = logger.WithClientID(logger.WithLogger(ctx, log), c.id)
	logger.Verbose(log, "client connected")

	defer func() {
		_ = c.Close()
		s.conns.Delete(c.id)
		s.metrics.ConnectionsActive.Dec()
		logger.Verbose(log, "client disconnected", "commands", c.Commands())
	}()

	buf := make([]byte, s.cfg.ReadChunkSize)
	var readErr error
	for {
		for {
			req, ok, err := c.framer.Next()
			if err != nil {
				s.protocolError(c, log, err)
				return
			}
			if !ok {
				break
			}
			if quit := s.handle(ctx, c, log, req); quit {
				_ = s.flush(c)
				return
			}
		}

		if err := s.flush(c); err != nil {
			log.Debug("write failed", "error", err)
			return
		}
		if readErr != nil {
			s.logReadError(log, readErr)
			return
		}

		if d := time.Duration(s.idleTimeout.Load()); d > 0 {
			if err := nc.SetReadDeadline(time.Now().Add(d)); err != nil {
				return
			}
		} else if err := nc.SetReadDeadline(time.Time{}); err != nil {
			return
		}

		n, err := nc.Read(buf)
		if n > 0 {
			if ferr := c.framer.Feed(buf[:n]); ferr != nil {
				s.protocolError(c, log, ferr)
				return
			}
		}
		// Requests that arrived with the error are still answered.
		readErr = err
	}
}

func (s *Server) logReadError(log logger.Logger, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
	case errors.As(err, &netErr) && netErr.Timeout():
		logger.Verbose(log, "closing idle client")
	default:
		log.Debug("read failed", "error", err)
	}
}

// handle runs one request and buffers its reply. It reports whether the
// connection should close after the reply is flushed.
func (s *Server) handle(ctx context.Context, c *Conn, log logger.Logger, req resp.Value) bool {
	if !c.limiter.Allow() {
		s.metrics.RateLimited.Inc()
		if err := c.limiter.Wait(ctx); err != nil {
			return true
		}
	}
	c.commands.Add(1)

	start := time.Now()
	reply, cmd, err := s.dispatcher.Handle(ctx, req)
	s.metrics.ObserveCommand(cmd.String(), err, time.Since(start))

	if log.Enabled(slog.LevelDebug) {
		tokens, _ := req.Strings()
		log.Debug("command", "args", logger.RedactCommand(tokens), "error", err)
	}

	if err != nil {
		reply = resp.Error(formatRedisError(err))
	}
	if werr := resp.Write(c.bw, reply); werr != nil {
		return true
	}
	return cmd == CmdQuit
}

func (s *Server) flush(c *Conn) error {
	if c.bw.Buffered() == 0 {
		return nil
	}
	if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return err
	}
	return c.bw.Flush()
}

// protocolError replies to a malformed stream and leaves the caller to
// close the connection. Replies already buffered go out first.
func (s *Server) protocolError(c *Conn, log logger.Logger, err error) {
	s.metrics.ProtocolErrors.Inc()
	log.Warn("protocol error", "error", err)
	_ = resp.Write(c.bw, resp.Error("ERR Protocol error: "+protocolDetail(err)))
	_ = s.flush(c)
}

func protocolDetail(err error) string {
	var re *resp.ParseError
	if errors.As(err, &re) && re.Detail != "" {
		return re.Detail
	}
	return err.Error()
}
