// Package engine implements the connection core: a single-reader pump over
// the agent's stdio pipes, raw send/receive, the streaming query loop, the
// tool approval handshake, and bounded shutdown. Both client personalities
// in the root package are thin adapters over Conn.
package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/protomux/claude-codes-go/internal/errors"
	"github.com/protomux/claude-codes-go/internal/message"
	"github.com/protomux/claude-codes-go/internal/session"
)

const (
	// maxLineSize caps a single stdout line at 1MB.
	maxLineSize = 1024 * 1024

	defaultShutdownTimeout  = 5 * time.Second
	defaultHandshakeTimeout = 30 * time.Second

	// pingPrompt is the probe sent by Ping. The reply is matched loosely;
	// models decorate even one-word answers.
	pingPrompt = "reply with exactly: pong"
)

// ProcessHandle exposes the lifecycle of the agent process behind the pipes.
type ProcessHandle interface {
	Wait() error
	Kill() error
}

// Pipes bundles the two pipe halves of an agent process plus an optional
// handle to the process itself. The launch collaborator produces these; the
// engine only consumes them.
type Pipes struct {
	Stdin   io.WriteCloser
	Stdout  io.Reader
	Process ProcessHandle
}

// Config carries engine tunables. Zero values select defaults.
type Config struct {
	Logger           *slog.Logger
	ShutdownTimeout  time.Duration
	HandshakeTimeout time.Duration
}

// Conn is one connection to an agent process. All inbound traffic flows
// through a single reader goroutine; every consumer observes the same
// ordered stream. Conn is single-use: after Shutdown it cannot be reopened.
type Conn struct {
	log   *slog.Logger
	pipes Pipes

	shutdownTimeout  time.Duration
	handshakeTimeout time.Duration

	group *errgroup.Group
	lines chan []byte
	done  chan struct{}

	pumpMu  sync.Mutex
	pumpErr error

	writeMu     sync.Mutex
	stdinClosed bool

	queueMu sync.Mutex
	queued  []message.Output

	handshakeMu     sync.Mutex
	approvalEnabled atomic.Bool

	inFlight  atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once

	tracker *session.Tracker
}

// NewConn wraps pipes in a connection and starts the reader pump.
func NewConn(pipes Pipes, cfg Config) *Conn {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	log = log.With("component", "engine")

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	handshakeTimeout := cfg.HandshakeTimeout
	if handshakeTimeout <= 0 {
		handshakeTimeout = defaultHandshakeTimeout
	}

	c := &Conn{
		log:              log,
		pipes:            pipes,
		shutdownTimeout:  shutdownTimeout,
		handshakeTimeout: handshakeTimeout,
		group:            &errgroup.Group{},
		lines:            make(chan []byte),
		done:             make(chan struct{}),
		tracker:          session.NewTracker(log),
	}

	c.group.Go(c.pump)

	return c
}

// pump is the single reader over stdout. It owns the pipe; no other
// goroutine may read it.
func (c *Conn) pump() error {
	defer close(c.lines)

	scanner := bufio.NewScanner(c.pipes.Stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		buf := make([]byte, len(line))
		copy(buf, line)

		select {
		case c.lines <- buf:
		case <-c.done:
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		c.pumpMu.Lock()
		c.pumpErr = err
		c.pumpMu.Unlock()

		c.log.Debug("Reader pump stopped", "error", err)

		return err
	}

	c.log.Debug("Reader pump reached end of stream")

	return nil
}

// Send writes one input envelope as a single line. Writes are serialized;
// cancelling ctx mid-write closes stdin to unblock the writer.
func (c *Conn) Send(ctx context.Context, in message.Input) error {
	if c.closed.Load() {
		return errors.ErrConnClosed
	}

	data, err := json.Marshal(in)
	if err != nil {
		return &errors.ConnectionError{Op: "encode", Err: err}
	}

	data = append(data, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.stdinClosed {
		return errors.ErrStdinClosed
	}

	writeDone := make(chan error, 1)

	go func() {
		_, err := c.pipes.Stdin.Write(data)
		writeDone <- err
	}()

	select {
	case <-ctx.Done():
		// Closing stdin is the only way to unblock a stuck writer.
		c.stdinClosed = true
		_ = c.pipes.Stdin.Close()

		return fmt.Errorf("send cancelled: %w", ctx.Err())
	case err := <-writeDone:
		if err != nil {
			return &errors.ConnectionError{Op: "write", Err: err}
		}

		return nil
	}
}

// Receive returns the next output envelope in wire order, replaying any
// envelopes set aside by the handshake or a streaming query first.
//
// A parse failure is returned as an OutputParseError covering that line
// only; the next Receive proceeds normally. Once the stream ends, Receive
// returns ErrStreamEnded (clean end) or a ConnectionError (read failure).
func (c *Conn) Receive(ctx context.Context) (message.Output, error) {
	if out := c.popQueued(func(message.Output) bool { return true }); out != nil {
		return out, nil
	}

	return c.receiveWire(ctx)
}

func (c *Conn) receiveWire(ctx context.Context) (message.Output, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return nil, c.closeReason()
		}

		out, err := message.ParseOutput(c.log, line)
		if err != nil {
			return nil, err
		}

		c.tracker.Observe(out)

		return out, nil
	}
}

func (c *Conn) closeReason() error {
	c.pumpMu.Lock()
	err := c.pumpErr
	c.pumpMu.Unlock()

	if err != nil {
		return &errors.ConnectionError{Op: "read", Err: err}
	}

	return errors.ErrStreamEnded
}

func (c *Conn) pushQueued(out message.Output) {
	c.queueMu.Lock()
	c.queued = append(c.queued, out)
	c.queueMu.Unlock()
}

// popQueued removes and returns the first queued envelope accepted by match,
// preserving arrival order for the rest.
func (c *Conn) popQueued(match func(message.Output) bool) message.Output {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()

	for i, out := range c.queued {
		if match(out) {
			c.queued = append(c.queued[:i], c.queued[i+1:]...)

			return out
		}
	}

	return nil
}

func isControlPlane(out message.Output) bool {
	switch out.(type) {
	case *message.ControlRequest, *message.ControlResponseEcho:
		return true
	default:
		return false
	}
}

// EnableToolApproval performs the initialize handshake that routes tool
// permission checks through this connection. Idempotent: once enabled,
// further calls return immediately. Envelopes arriving while the handshake
// waits for its acknowledgement are set aside and replayed in arrival order.
func (c *Conn) EnableToolApproval(ctx context.Context) error {
	c.handshakeMu.Lock()
	defer c.handshakeMu.Unlock()

	if c.approvalEnabled.Load() {
		return nil
	}

	requestID := ulid.Make().String()

	c.log.Debug("Starting tool approval handshake", "request_id", requestID)

	if err := c.Send(ctx, message.NewInitializeRequest(requestID)); err != nil {
		return err
	}

	hctx, cancel := context.WithTimeout(ctx, c.handshakeTimeout)
	defer cancel()

	for {
		out, err := c.receiveWire(hctx)
		if err != nil {
			var parseErr *errors.OutputParseError
			if goerrors.As(err, &parseErr) {
				continue
			}

			if goerrors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return errors.ErrHandshakeTimeout
			}

			return err
		}

		echo, ok := out.(*message.ControlResponseEcho)
		if !ok {
			c.pushQueued(out)

			continue
		}

		if echo.RequestID != requestID {
			return fmt.Errorf("%w: got %q, want %q",
				errors.ErrHandshakeMismatch, echo.RequestID, requestID)
		}

		if !echo.IsSuccess() {
			return fmt.Errorf("initialize rejected: %s", echo.Error)
		}

		c.approvalEnabled.Store(true)

		c.log.Debug("Tool approval enabled")

		return nil
	}
}

// IsToolApprovalEnabled reports whether the handshake has completed.
func (c *Conn) IsToolApprovalEnabled() bool {
	return c.approvalEnabled.Load()
}

// QueryStream sends prompt as a user turn and returns the turn's envelopes
// as a lazy sequence ending at the first result message. The sequence is
// forward-only and single-use: ranging it after it has finished yields
// nothing.
//
// Per-line parse failures are yielded as errors and the stream continues;
// transport errors terminate it. Control-plane envelopes never surface in
// the stream: they are set aside for Receive so approval flows keep working
// around a streaming query. Only one query may be in flight per connection.
func (c *Conn) QueryStream(ctx context.Context, prompt string) (iter.Seq2[message.Output, error], error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, errors.ErrQueryInFlight
	}

	sessionID, ok := c.tracker.SessionUUID()
	if !ok {
		sessionID = uuid.New()
	}

	if err := c.Send(ctx, message.NewUserMessage(prompt, sessionID)); err != nil {
		c.inFlight.Store(false)

		return nil, err
	}

	// The sequence is single-use: once iteration returns, ranging it again
	// yields nothing instead of resuming the wire mid-turn.
	spent := false

	seq := func(yield func(message.Output, error) bool) {
		if spent {
			return
		}

		defer func() {
			spent = true
			c.inFlight.Store(false)
		}()

		for {
			out := c.popQueued(func(out message.Output) bool { return !isControlPlane(out) })
			if out == nil {
				var err error

				out, err = c.receiveWire(ctx)
				if err != nil {
					var parseErr *errors.OutputParseError
					if goerrors.As(err, &parseErr) {
						if !yield(nil, err) {
							return
						}

						continue
					}

					yield(nil, err)

					return
				}

				if isControlPlane(out) {
					c.pushQueued(out)

					continue
				}
			}

			if !yield(out, nil) {
				return
			}

			if _, isResult := out.(*message.ResultMessage); isResult {
				return
			}
		}
	}

	return seq, nil
}

// Query sends prompt and blocks until the turn completes, returning every
// envelope including the terminating result. Parse errors are skipped;
// transport errors abort the turn.
func (c *Conn) Query(ctx context.Context, prompt string) ([]message.Output, error) {
	stream, err := c.QueryStream(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var outputs []message.Output

	for out, err := range stream {
		if err != nil {
			var parseErr *errors.OutputParseError
			if goerrors.As(err, &parseErr) {
				c.log.Debug("Skipping unparsable line", "error", err)

				continue
			}

			return outputs, err
		}

		outputs = append(outputs, out)
	}

	return outputs, nil
}

// Ping probes liveness with a throwaway turn. Returns true when the agent
// produces a recognizable affirmative reply before the result.
func (c *Conn) Ping(ctx context.Context) (bool, error) {
	outputs, err := c.Query(ctx, pingPrompt)
	if err != nil {
		return false, err
	}

	for _, out := range outputs {
		if msg, ok := out.(*message.AssistantMessage); ok {
			if strings.Contains(strings.ToLower(msg.Text()), "pong") {
				return true, nil
			}
		}
	}

	return false, nil
}

// SessionUUID returns the current session id, when one has been observed
// and parses as a uuid.
func (c *Conn) SessionUUID() (uuid.UUID, bool) {
	return c.tracker.SessionUUID()
}

// Tracker exposes the connection's session tracker.
func (c *Conn) Tracker() *session.Tracker {
	return c.tracker
}

// Shutdown closes the connection: stdin is closed to signal end of input,
// then the process is given the configured grace period to exit before
// being killed. A process that has already exited, cleanly or not, is not a
// shutdown failure. Safe to call more than once; later calls return
// ErrConnClosed.
func (c *Conn) Shutdown(ctx context.Context) error {
	err := errors.ErrConnClosed

	c.closeOnce.Do(func() {
		err = c.shutdown(ctx)
	})

	return err
}

func (c *Conn) shutdown(ctx context.Context) error {
	c.closed.Store(true)
	close(c.done)

	c.writeMu.Lock()
	if !c.stdinClosed {
		c.stdinClosed = true
		_ = c.pipes.Stdin.Close()
	}
	c.writeMu.Unlock()

	if c.pipes.Process == nil {
		return nil
	}

	waitDone := make(chan error, 1)

	go func() {
		waitDone <- c.pipes.Process.Wait()
	}()

	timer := time.NewTimer(c.shutdownTimeout)
	defer timer.Stop()

	select {
	case err := <-waitDone:
		if err != nil {
			// The process ending is the goal here; an abnormal exit is not
			// a shutdown failure.
			c.log.Debug("Agent exited abnormally during shutdown", "error", err)
		}

		return nil
	case <-ctx.Done():
		_ = c.pipes.Process.Kill()
		<-waitDone

		return fmt.Errorf("shutdown cancelled: %w", ctx.Err())
	case <-timer.C:
		c.log.Warn("Agent did not exit within grace period, killing",
			"timeout", c.shutdownTimeout)

		_ = c.pipes.Process.Kill()
		<-waitDone

		return nil
	}
}

// Wait blocks until the reader pump has stopped, which happens once the
// agent closes its stdout or Shutdown runs. Returns the read error, if any.
func (c *Conn) Wait() error {
	return c.group.Wait()
}
