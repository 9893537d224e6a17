package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLINotFoundError(t *testing.T) {
	err := &CLINotFoundError{
		SearchedPaths: []string{"/usr/bin/claude", "/opt/bin/claude"},
	}

	require.Equal(
		t,
		"claude CLI not found in: [/usr/bin/claude /opt/bin/claude]",
		err.Error(),
	)
	require.True(t, err.IsCodesError())
}

func TestConnectionError(t *testing.T) {
	root := errors.New("broken pipe")
	err := &ConnectionError{Op: "write", Err: root}

	require.Equal(t, "connection write failed: broken pipe", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsCodesError())
}

func TestProcessError_WithUnderlyingError(t *testing.T) {
	root := errors.New("signal: killed")
	err := &ProcessError{
		ExitCode: 9,
		Stderr:   "ignored when Err is set",
		Err:      root,
	}

	require.Equal(t, "agent process failed (exit 9): signal: killed", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsCodesError())
}

func TestProcessError_WithStderrOnly(t *testing.T) {
	err := &ProcessError{
		ExitCode: 2,
		Stderr:   "permission denied",
	}

	require.Equal(t, "agent process failed (exit 2): permission denied", err.Error())
	require.NoError(t, err.Unwrap())
	require.True(t, err.IsCodesError())
}

func TestOutputParseError_PreservesRawLine(t *testing.T) {
	root := errors.New("unexpected token")
	err := &OutputParseError{
		Raw: `{"not":"valid",`,
		Err: root,
	}

	require.Equal(t, "failed to parse output line: unexpected token", err.Error())
	require.Equal(t, `{"not":"valid",`, err.Raw)
	require.ErrorIs(t, err, root)
	require.True(t, err.IsCodesError())
}

func TestUnsupportedMediaTypeError(t *testing.T) {
	err := &UnsupportedMediaTypeError{MediaType: "image/bmp"}

	require.Contains(t, err.Error(), `"image/bmp"`)
	require.Contains(t, err.Error(), "Only JPEG, PNG, GIF, and WebP are supported")
	require.True(t, err.IsCodesError())
}

func TestSentinels_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrConnClosed,
		ErrStdinClosed,
		ErrStreamEnded,
		ErrHandshakeMismatch,
		ErrHandshakeTimeout,
		ErrQueryInFlight,
		ErrResumeConflict,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}

			require.NotErrorIs(t, a, b)
		}
	}
}
