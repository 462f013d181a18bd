// Package sfstcp is the direct TCP endpoint: length-framed SFS2X messages
// on a raw socket, one session per connection. The reader feeds frames to
// the processor; a writer goroutine drains the session queue, so responses
// and events take the same path they do over BlueBox.
package sfstcp

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/martengale/foxbox/internal/logger"
	"github.com/martengale/foxbox/internal/processor"
	"github.com/martengale/foxbox/internal/protocol/sfs2x"
	"github.com/martengale/foxbox/internal/session"
	"github.com/martengale/foxbox/pkg/metrics"
)

// TimeoutsConfig groups the per-connection and shutdown deadlines.
type TimeoutsConfig struct {
	// Read bounds one complete frame read. Doubles as the idle timeout:
	// a client that sends nothing for this long is dropped. The client
	// pings well inside it.
	Read time.Duration `mapstructure:"read" validate:"min=0"`

	// Write bounds one frame write.
	Write time.Duration `mapstructure:"write" validate:"min=0"`

	// Shutdown bounds the graceful drain; connections still open after
	// it are force-closed.
	Shutdown time.Duration `mapstructure:"shutdown" validate:"required,gt=0"`
}

// Config holds the TCP endpoint settings.
type Config struct {
	// Port is the listen port. Defaults to 9933, the port the client
	// tries before falling back to BlueBox.
	Port int `mapstructure:"port" validate:"min=0,max=65535"`

	// MaxConnections caps concurrent connections; 0 means unlimited.
	MaxConnections int `mapstructure:"max_connections" validate:"min=0"`

	// MaxFrameSize caps a single inbound frame payload.
	MaxFrameSize int `mapstructure:"max_frame_size" validate:"min=0"`

	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
}

func (c *Config) applyDefaults() {
	if c.Port <= 0 {
		c.Port = 9933
	}
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = 16 << 20
	}
	if c.Timeouts.Read == 0 {
		c.Timeouts.Read = 90 * time.Second
	}
	if c.Timeouts.Write == 0 {
		c.Timeouts.Write = 30 * time.Second
	}
	if c.Timeouts.Shutdown == 0 {
		c.Timeouts.Shutdown = 30 * time.Second
	}
}

func (c *Config) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be 0-65535", c.Port)
	}
	if c.Timeouts.Shutdown <= 0 {
		return fmt.Errorf("invalid timeouts.shutdown %v: must be > 0", c.Timeouts.Shutdown)
	}
	return nil
}

// Adapter is the direct TCP endpoint.
type Adapter struct {
	config   Config
	proc     *processor.Processor
	sessions *session.Registry
	metrics  metrics.TransportMetrics

	listener   net.Listener
	listenerMu sync.RWMutex

	// activeConns tracks connection goroutines for the graceful drain.
	activeConns sync.WaitGroup

	// activeConnections maps remote address to net.Conn for forced
	// closure after the shutdown timeout.
	activeConnections sync.Map

	connCount     atomic.Int32
	connSemaphore chan struct{}

	shutdown     chan struct{}
	shutdownOnce sync.Once

	// listenerReady is closed once Accept can succeed; tests block on it.
	listenerReady chan struct{}
}

// New creates the TCP adapter. Zero config values get defaults; an invalid
// config panics, which indicates a programmer error upstream of here.
func New(cfg Config, proc *processor.Processor, sessions *session.Registry, m metrics.TransportMetrics) *Adapter {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("invalid sfstcp config: %v", err))
	}
	if m == nil {
		m = metrics.NopTransport()
	}

	var sem chan struct{}
	if cfg.MaxConnections > 0 {
		sem = make(chan struct{}, cfg.MaxConnections)
	}

	return &Adapter{
		config:        cfg,
		proc:          proc,
		sessions:      sessions,
		metrics:       m,
		connSemaphore: sem,
		shutdown:      make(chan struct{}),
		listenerReady: make(chan struct{}),
	}
}

func (a *Adapter) Protocol() string { return "sfs2x-tcp" }
func (a *Adapter) Port() int        { return a.config.Port }

// Serve accepts connections until the context is cancelled, then drains.
func (a *Adapter) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", a.config.Port))
	if err != nil {
		return fmt.Errorf("sfs2x listener on port %d: %w", a.config.Port, err)
	}
	a.listenerMu.Lock()
	a.listener = listener
	a.listenerMu.Unlock()
	close(a.listenerReady)

	logger.Info("SFS2X TCP server listening", "port", a.config.Port)
	logger.Debug("SFS2X TCP config", "max_connections", a.config.MaxConnections,
		"read_timeout", a.config.Timeouts.Read, "write_timeout", a.config.Timeouts.Write)

	go func() {
		<-ctx.Done()
		a.initiateShutdown()
	}()

	for {
		if a.connSemaphore != nil {
			select {
			case a.connSemaphore <- struct{}{}:
			case <-a.shutdown:
				return a.gracefulShutdown()
			}
		}

		conn, err := listener.Accept()
		if err != nil {
			if a.connSemaphore != nil {
				<-a.connSemaphore
			}
			select {
			case <-a.shutdown:
				return a.gracefulShutdown()
			default:
				logger.Debug("Error accepting SFS2X connection", "error", err)
				continue
			}
		}

		a.activeConns.Add(1)
		active := a.connCount.Add(1)
		addr := conn.RemoteAddr().String()
		a.activeConnections.Store(addr, conn)

		a.metrics.RecordConnectionAccepted()
		a.metrics.SetActiveConnections(active)
		logger.Debug("SFS2X connection accepted", "address", addr, "active", active)

		go func(addr string, conn net.Conn) {
			defer func() {
				a.activeConnections.Delete(addr)
				a.activeConns.Done()
				active := a.connCount.Add(-1)
				if a.connSemaphore != nil {
					<-a.connSemaphore
				}
				a.metrics.RecordConnectionClosed()
				a.metrics.SetActiveConnections(active)
				logger.Debug("SFS2X connection closed", "address", addr, "active", active)
			}()
			a.handleConn(ctx, conn)
		}(addr, conn)
	}
}

// Stop initiates shutdown and waits for the drain, bounded by ctx.
func (a *Adapter) Stop(ctx context.Context) error {
	a.initiateShutdown()

	done := make(chan struct{})
	go func() {
		a.activeConns.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		a.forceCloseConnections()
		return ctx.Err()
	}
}

// initiateShutdown closes the listener and nudges blocked reads so
// connection loops notice quickly. Safe to call more than once.
func (a *Adapter) initiateShutdown() {
	a.shutdownOnce.Do(func() {
		logger.Debug("SFS2X shutdown initiated")
		close(a.shutdown)

		a.listenerMu.Lock()
		if a.listener != nil {
			if err := a.listener.Close(); err != nil {
				logger.Debug("Error closing SFS2X listener", "error", err)
			}
		}
		a.listenerMu.Unlock()

		deadline := time.Now().Add(100 * time.Millisecond)
		a.activeConnections.Range(func(_, value any) bool {
			if conn, ok := value.(net.Conn); ok {
				_ = conn.SetReadDeadline(deadline)
			}
			return true
		})
	})
}

// gracefulShutdown waits for connection goroutines up to the shutdown
// timeout, then force-closes whatever is left.
func (a *Adapter) gracefulShutdown() error {
	active := a.connCount.Load()
	logger.Info("SFS2X graceful shutdown: waiting for connections", "active", active, "timeout", a.config.Timeouts.Shutdown)

	done := make(chan struct{})
	go func() {
		a.activeConns.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("SFS2X graceful shutdown complete")
		return nil
	case <-time.After(a.config.Timeouts.Shutdown):
		remaining := a.connCount.Load()
		logger.Warn("SFS2X shutdown timeout exceeded, forcing closure", "active", remaining)
		a.forceCloseConnections()
		return fmt.Errorf("sfs2x shutdown timeout: %d connections force-closed", remaining)
	}
}

func (a *Adapter) forceCloseConnections() {
	a.activeConnections.Range(func(addr, value any) bool {
		if conn, ok := value.(net.Conn); ok {
			if err := conn.Close(); err != nil {
				logger.Debug("Error force-closing connection", "address", addr, "error", err)
			}
			a.metrics.RecordConnectionForceClosed()
		}
		return true
	})
}

// handleConn owns one connection: it creates the session, runs the writer
// goroutine and the read loop, and cascades the disconnect when either side
// ends.
func (a *Adapter) handleConn(ctx context.Context, conn net.Conn) {
	ip := clientIP(conn)
	sess, err := a.sessions.Create(session.TransportTCP, ip)
	if err != nil {
		logger.Error("Create TCP session", "address", conn.RemoteAddr(), "error", err)
		_ = conn.Close()
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		a.writeLoop(sess, conn)
	}()

	reason := a.readLoop(ctx, sess, conn)

	if reason == "logout" {
		// Give the queue drainer a moment to flush the logout ack before
		// the session close wipes the queue.
		a.awaitDrain(sess, time.Second)
	}

	a.proc.DisconnectSession(sess.ID, reason)
	_ = conn.Close()
	<-writerDone
}

// readLoop decodes frames and hands them to the processor until the
// connection dies, a frame is malformed or the client logs out. The
// returned string is the disconnect reason.
func (a *Adapter) readLoop(ctx context.Context, sess *session.Session, conn net.Conn) string {
	for {
		frame, err := sfs2x.ReadFrame(ctx, conn, a.config.MaxFrameSize, a.config.Timeouts.Read)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return "connection closed"
			case errors.Is(err, sfs2x.ErrMalformedFrame):
				logger.Warn("Malformed TCP frame, closing connection",
					"session_id", sess.ID, "address", conn.RemoteAddr(), "error", err)
				return "malformed frame"
			default:
				logger.Debug("TCP read ended", "session_id", sess.ID, "error", err)
				return "read error"
			}
		}

		// The processor decodes again; this envelope peek only exists to
		// honor close-on-logout without giving the processor a socket.
		msg, err := sfs2x.DecodeMessage(frame)
		if err != nil {
			logger.Warn("Malformed TCP frame, closing connection", "session_id", sess.ID, "error", err)
			return "malformed frame"
		}

		if err := a.proc.Process(ctx, sess.ID, frame); err != nil {
			logger.Warn("Frame processing failed, closing connection", "session_id", sess.ID, "error", err)
			return "processing error"
		}

		if msg.Controller == sfs2x.ControllerSystem && msg.Action == sfs2x.ActionLogout {
			return "logout"
		}
	}
}

// writeLoop drains the session queue onto the socket. It is the only
// writer; the processor never touches the connection.
func (a *Adapter) writeLoop(sess *session.Session, conn net.Conn) {
	for {
		for {
			frame, ok := sess.Poll()
			if !ok {
				break
			}
			payload, err := base64.StdEncoding.DecodeString(frame)
			if err != nil {
				logger.Error("Corrupt queued frame", "session_id", sess.ID, "error", err)
				continue
			}
			if err := sfs2x.WriteFrame(conn, payload, a.config.Timeouts.Write); err != nil {
				logger.Debug("TCP write ended", "session_id", sess.ID, "error", err)
				return
			}
		}

		select {
		case <-sess.Wake():
			if sess.Closed() && sess.QueueLen() == 0 {
				return
			}
		case <-a.shutdown:
			return
		}
	}
}

// awaitDrain waits for the outbound queue to empty, bounded by timeout.
func (a *Adapter) awaitDrain(sess *session.Session, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for sess.QueueLen() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
}

func clientIP(conn net.Conn) string {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return conn.RemoteAddr().String()
	}
	return host
}
