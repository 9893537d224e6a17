// Package errors defines error types for the claude-codes protocol engine.
//
// The taxonomy separates transport failures (ConnectionError, ProcessError),
// per-line decode failures (OutputParseError), protocol violations (the
// handshake sentinels), and construction-time validation
// (UnsupportedMediaTypeError). API errors reported by the agent itself are
// not Go errors at all; they arrive as ordinary output envelopes.
//
// All error types support unwrapping and can be checked with errors.Is and
// errors.As.
package errors
