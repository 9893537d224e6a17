package claudecodes

import (
	"context"

	"github.com/protomux/claude-codes-go/internal/cli"
)

// CLIBuilder assembles the command line and environment for one agent
// process: binary path, model, session continuation, and permission
// routing. Methods chain.
type CLIBuilder = cli.Builder

// NewCLIBuilder returns a CLIBuilder with defaults: stream-json on both
// pipe directions and nothing else.
func NewCLIBuilder() *CLIBuilder {
	return cli.NewBuilder()
}

// ConnectAsync launches the agent CLI described by b and wraps its pipes in
// an AsyncClient.
func ConnectAsync(ctx context.Context, b *CLIBuilder, opts ...Option) (*AsyncClient, error) {
	pipes, err := spawn(ctx, b, opts)
	if err != nil {
		return nil, err
	}

	return NewAsyncClient(pipes, opts...), nil
}

// ConnectSync launches the agent CLI described by b and wraps its pipes in
// a SyncClient.
func ConnectSync(ctx context.Context, b *CLIBuilder, opts ...Option) (*SyncClient, error) {
	pipes, err := spawn(ctx, b, opts)
	if err != nil {
		return nil, err
	}

	return NewSyncClient(pipes, opts...), nil
}

func spawn(ctx context.Context, b *CLIBuilder, opts []Option) (Pipes, error) {
	options := applyOptions(opts)
	if options.Logger != nil {
		b.Logger(options.Logger)
	}

	return b.Spawn(ctx)
}
