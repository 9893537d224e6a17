package claudecodes

import (
	"github.com/protomux/claude-codes-go/internal/errors"
	"github.com/protomux/claude-codes-go/internal/permission"
)

// Re-export error types from internal package

// CLINotFoundError indicates the agent CLI binary was not found.
type CLINotFoundError = errors.CLINotFoundError

// ConnectionError indicates a pipe-level read or write failure.
type ConnectionError = errors.ConnectionError

// ProcessError indicates the agent process exited abnormally.
type ProcessError = errors.ProcessError

// OutputParseError indicates a single wire line could not be decoded. The
// offending line is preserved in Raw; the connection remains usable.
type OutputParseError = errors.OutputParseError

// UnsupportedMediaTypeError indicates an image message was constructed with
// a media type the agent does not accept.
type UnsupportedMediaTypeError = errors.UnsupportedMediaTypeError

// CodesError is the base interface for all errors originating here.
type CodesError = errors.CodesError

// Re-export sentinel errors from internal package.
var (
	// ErrConnClosed indicates the connection has been shut down.
	ErrConnClosed = errors.ErrConnClosed

	// ErrStdinClosed indicates the outbound pipe half is closed.
	ErrStdinClosed = errors.ErrStdinClosed

	// ErrStreamEnded indicates the agent closed its output pipe.
	ErrStreamEnded = errors.ErrStreamEnded

	// ErrHandshakeMismatch indicates a control response carried an unknown
	// request id.
	ErrHandshakeMismatch = errors.ErrHandshakeMismatch

	// ErrHandshakeTimeout indicates the agent did not answer a control
	// request in time.
	ErrHandshakeTimeout = errors.ErrHandshakeTimeout

	// ErrQueryInFlight indicates a query was started while a previous
	// turn's stream was still open.
	ErrQueryInFlight = errors.ErrQueryInFlight

	// ErrResumeConflict indicates conflicting session-id and resume launch
	// options.
	ErrResumeConflict = errors.ErrResumeConflict

	// ErrEmptySuggestion indicates a permission suggestion carried neither
	// rules nor a mode change.
	ErrEmptySuggestion = permission.ErrEmptySuggestion
)
