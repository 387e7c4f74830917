package app

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/shandysiswandi/otpkit/internal/pkg/stacktrace"
)

// Run executes the command named by args. A panic inside a command is logged
// and returned as an error.
func (a *App) Run(ctx context.Context, args []string) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			frames := stacktrace.InternalFrames(debug.Stack())
			if len(frames) == 0 {
				a.logger.ErrorContext(ctx, "panic in command trace debug", "because", rvr, "stack", string(debug.Stack()))
			} else {
				a.logger.ErrorContext(ctx, "panic in command", "because", rvr, "stack", frames)
			}
			err = fmt.Errorf("internal error: %v", rvr)
		}
	}()

	a.root.SetArgs(args)

	return a.root.ExecuteContext(ctx)
}

// Stop releases resources in registration order. Failures are logged.
func (a *App) Stop(ctx context.Context) {
	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			a.logger.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
}
