package claudecodes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithAsyncClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithAsyncClient(ctx, NewCLIBuilder(), func(*AsyncClient) error {
		t.Fatal("callback must not run")

		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWithAsyncClient_LaunchFailure(t *testing.T) {
	b := NewCLIBuilder().Path("/nonexistent/claude-binary")

	err := WithAsyncClient(context.Background(), b, func(*AsyncClient) error {
		t.Fatal("callback must not run")

		return nil
	})

	var notFound *CLINotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, []string{"/nonexistent/claude-binary"}, notFound.SearchedPaths)
}

func TestConnectSync_LaunchFailure(t *testing.T) {
	_, err := ConnectSync(context.Background(), NewCLIBuilder().Path("/nonexistent/claude-binary"))

	var notFound *CLINotFoundError
	require.ErrorAs(t, err, &notFound)
}
