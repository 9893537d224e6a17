package claudecodes

import (
	"log/slog"
	"time"
)

// ClientOptions configures a client connection.
type ClientOptions struct {
	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger

	// ShutdownTimeout bounds how long Shutdown waits for the process to
	// exit before killing it. Defaults to 5 seconds.
	ShutdownTimeout time.Duration

	// HandshakeTimeout bounds how long EnableToolApproval waits for the
	// agent's acknowledgement. Defaults to 30 seconds.
	HandshakeTimeout time.Duration
}

// Option configures ClientOptions using the functional options pattern.
type Option func(*ClientOptions)

// applyOptions applies functional options to a ClientOptions struct.
func applyOptions(opts []Option) *ClientOptions {
	options := &ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *ClientOptions) {
		o.Logger = logger
	}
}

// WithShutdownTimeout bounds the grace period between closing stdin and
// killing the process during Shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *ClientOptions) {
		o.ShutdownTimeout = d
	}
}

// WithHandshakeTimeout bounds how long the tool approval handshake waits
// for its acknowledgement.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *ClientOptions) {
		o.HandshakeTimeout = d
	}
}
