package claudecodes

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"github.com/protomux/claude-codes-go/internal/engine"
)

// AsyncClient is the context-aware personality of the protocol engine.
// Every blocking operation suspends on its context and on pipe readiness.
//
// AsyncClient and SyncClient are thin adapters over one connection core;
// the same wire traffic produces the same observable behavior on both.
type AsyncClient struct {
	conn *engine.Conn
}

// NewAsyncClient wraps already-acquired pipes in a client. Use ConnectAsync
// to launch the CLI and connect in one step.
func NewAsyncClient(pipes Pipes, opts ...Option) *AsyncClient {
	options := applyOptions(opts)

	return &AsyncClient{
		conn: engine.NewConn(pipes, engine.Config{
			Logger:           options.Logger,
			ShutdownTimeout:  options.ShutdownTimeout,
			HandshakeTimeout: options.HandshakeTimeout,
		}),
	}
}

// Send writes one input envelope as a single line.
func (c *AsyncClient) Send(ctx context.Context, in Input) error {
	return c.conn.Send(ctx, in)
}

// SendControlResponse answers a control request, echoing its request id.
func (c *AsyncClient) SendControlResponse(ctx context.Context, resp *ControlResponse) error {
	return c.conn.Send(ctx, resp)
}

// Receive returns the next output envelope in wire order. This is the raw
// pump: control requests and every other envelope surface here.
func (c *AsyncClient) Receive(ctx context.Context) (Output, error) {
	return c.conn.Receive(ctx)
}

// QueryStream sends prompt as a user turn and streams the turn's envelopes
// until the first result message.
func (c *AsyncClient) QueryStream(ctx context.Context, prompt string) (iter.Seq2[Output, error], error) {
	return c.conn.QueryStream(ctx, prompt)
}

// Query sends prompt and collects the whole turn, result included.
func (c *AsyncClient) Query(ctx context.Context, prompt string) ([]Output, error) {
	return c.conn.Query(ctx, prompt)
}

// Ping probes agent liveness with a throwaway turn.
func (c *AsyncClient) Ping(ctx context.Context) (bool, error) {
	return c.conn.Ping(ctx)
}

// EnableToolApproval performs the tool approval handshake. Idempotent.
func (c *AsyncClient) EnableToolApproval(ctx context.Context) error {
	return c.conn.EnableToolApproval(ctx)
}

// IsToolApprovalEnabled reports whether the handshake has completed.
func (c *AsyncClient) IsToolApprovalEnabled() bool {
	return c.conn.IsToolApprovalEnabled()
}

// SessionUUID returns the current session id once one has been observed.
func (c *AsyncClient) SessionUUID() (uuid.UUID, bool) {
	return c.conn.SessionUUID()
}

// Tracker exposes the connection's session tracker.
func (c *AsyncClient) Tracker() *SessionTracker {
	return c.conn.Tracker()
}

// Shutdown closes stdin, waits out the grace period, and kills the process
// if it is still running. The client is single-use after this.
func (c *AsyncClient) Shutdown(ctx context.Context) error {
	return c.conn.Shutdown(ctx)
}

// SyncClient is the blocking personality: the same operations without
// context plumbing, for callers that prefer straight-line code.
type SyncClient struct {
	conn *engine.Conn
}

// NewSyncClient wraps already-acquired pipes in a blocking client. Use
// ConnectSync to launch the CLI and connect in one step.
func NewSyncClient(pipes Pipes, opts ...Option) *SyncClient {
	options := applyOptions(opts)

	return &SyncClient{
		conn: engine.NewConn(pipes, engine.Config{
			Logger:           options.Logger,
			ShutdownTimeout:  options.ShutdownTimeout,
			HandshakeTimeout: options.HandshakeTimeout,
		}),
	}
}

// Send writes one input envelope as a single line.
func (c *SyncClient) Send(in Input) error {
	return c.conn.Send(context.Background(), in)
}

// SendControlResponse answers a control request, echoing its request id.
func (c *SyncClient) SendControlResponse(resp *ControlResponse) error {
	return c.conn.Send(context.Background(), resp)
}

// Receive blocks for the next output envelope in wire order.
func (c *SyncClient) Receive() (Output, error) {
	return c.conn.Receive(context.Background())
}

// QueryStream sends prompt and streams the turn's envelopes until the first
// result message. Iteration blocks on the wire.
func (c *SyncClient) QueryStream(prompt string) (iter.Seq2[Output, error], error) {
	return c.conn.QueryStream(context.Background(), prompt)
}

// Query sends prompt and blocks until the turn completes.
func (c *SyncClient) Query(prompt string) ([]Output, error) {
	return c.conn.Query(context.Background(), prompt)
}

// Ping probes agent liveness with a throwaway turn.
func (c *SyncClient) Ping() (bool, error) {
	return c.conn.Ping(context.Background())
}

// EnableToolApproval performs the tool approval handshake. Idempotent.
func (c *SyncClient) EnableToolApproval() error {
	return c.conn.EnableToolApproval(context.Background())
}

// IsToolApprovalEnabled reports whether the handshake has completed.
func (c *SyncClient) IsToolApprovalEnabled() bool {
	return c.conn.IsToolApprovalEnabled()
}

// SessionUUID returns the current session id once one has been observed.
func (c *SyncClient) SessionUUID() (uuid.UUID, bool) {
	return c.conn.SessionUUID()
}

// Tracker exposes the connection's session tracker.
func (c *SyncClient) Tracker() *SessionTracker {
	return c.conn.Tracker()
}

// Shutdown closes stdin, waits out the grace period, and kills the process
// if it is still running. The client is single-use after this.
func (c *SyncClient) Shutdown() error {
	return c.conn.Shutdown(context.Background())
}
