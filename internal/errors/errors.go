package errors

import (
	"errors"
	"fmt"
)

// CodesError is the base interface for all errors originating in this module.
type CodesError interface {
	error
	IsCodesError() bool
}

// Compile-time verification that all error types implement CodesError.
var (
	_ CodesError = (*CLINotFoundError)(nil)
	_ CodesError = (*ConnectionError)(nil)
	_ CodesError = (*ProcessError)(nil)
	_ CodesError = (*OutputParseError)(nil)
	_ CodesError = (*UnsupportedMediaTypeError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrConnClosed indicates the connection has been shut down and cannot
	// be reused.
	ErrConnClosed = errors.New("connection closed")

	// ErrStdinClosed indicates the outbound pipe half is closed; no further
	// input can be sent to the agent.
	ErrStdinClosed = errors.New("stdin closed")

	// ErrStreamEnded indicates the agent closed its output pipe. Reads after
	// this point can never yield another envelope.
	ErrStreamEnded = errors.New("output stream ended")

	// ErrHandshakeMismatch indicates a control response arrived carrying a
	// request id the engine never issued.
	ErrHandshakeMismatch = errors.New("control response for unknown request id")

	// ErrHandshakeTimeout indicates the agent did not answer a control
	// request within the configured bound.
	ErrHandshakeTimeout = errors.New("control request timed out")

	// ErrQueryInFlight indicates a second query was started while a previous
	// turn's stream had not yet reached its result.
	ErrQueryInFlight = errors.New("query already in flight")

	// ErrResumeConflict indicates both a fixed session id and a resume target
	// were configured without forking.
	ErrResumeConflict = errors.New("session-id and resume are mutually exclusive unless forking")
)

// CLINotFoundError indicates the agent CLI binary was not found.
type CLINotFoundError struct {
	SearchedPaths []string
}

func (e *CLINotFoundError) Error() string {
	return fmt.Sprintf("claude CLI not found in: %v", e.SearchedPaths)
}

// IsCodesError implements CodesError.
func (e *CLINotFoundError) IsCodesError() bool { return true }

// ConnectionError indicates a pipe-level failure: a read or write against
// the agent process failed for reasons other than well-formed traffic.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection %s failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsCodesError implements CodesError.
func (e *ConnectionError) IsCodesError() bool { return true }

// ProcessError indicates the agent process exited abnormally.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("agent process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("agent process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsCodesError implements CodesError.
func (e *ProcessError) IsCodesError() bool { return true }

// OutputParseError indicates a single wire line could not be decoded into an
// output envelope. It preserves the offending line so callers can log or
// inspect it. The connection itself remains usable; the error covers exactly
// one line.
type OutputParseError struct {
	Raw string
	Err error
}

func (e *OutputParseError) Error() string {
	return fmt.Sprintf("failed to parse output line: %v", e.Err)
}

func (e *OutputParseError) Unwrap() error {
	return e.Err
}

// IsCodesError implements CodesError.
func (e *OutputParseError) IsCodesError() bool { return true }

// UnsupportedMediaTypeError indicates an image message was constructed with a
// media type the agent does not accept. Raised at construction time only;
// inbound traffic with unrecognized media types is preserved as-is.
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf(
		"unsupported media type %q: Only JPEG, PNG, GIF, and WebP are supported",
		e.MediaType,
	)
}

// IsCodesError implements CodesError.
func (e *UnsupportedMediaTypeError) IsCodesError() bool { return true }
