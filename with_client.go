package claudecodes

import (
	"context"
	"errors"
	"fmt"
)

// WithAsyncClient manages client lifecycle with automatic cleanup.
//
// This helper launches the agent CLI described by b, executes the callback,
// and ensures the connection is shut down when done. If the callback returns
// an error, it is returned to the caller; a shutdown failure is logged but
// does not override the callback's error.
//
// Example usage:
//
//	err := claudecodes.WithAsyncClient(ctx, claudecodes.NewCLIBuilder(),
//	    func(c *claudecodes.AsyncClient) error {
//	        outputs, err := c.Query(ctx, "Hello")
//	        if err != nil {
//	            return err
//	        }
//	        for _, out := range outputs {
//	            // process envelope...
//	            _ = out
//	        }
//	        return nil
//	    },
//	    claudecodes.WithLogger(log),
//	)
func WithAsyncClient(
	ctx context.Context,
	b *CLIBuilder,
	fn func(*AsyncClient) error,
	opts ...Option,
) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	client, err := ConnectAsync(ctx, b, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	defer func() {
		// Shut down even when ctx is already cancelled.
		shutdownErr := client.Shutdown(context.WithoutCancel(ctx))
		if shutdownErr != nil && !errors.Is(shutdownErr, ErrConnClosed) {
			log.Warn("failed to shut down client", "error", shutdownErr)
		}
	}()

	return fn(client)
}
