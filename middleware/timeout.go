package middleware

import (
	"context"
	"time"
)

// Timeout fails the action with *TimeoutError when it runs longer than
// duration. The action's context is cancelled on timeout so a cooperative
// action can stop early.
func Timeout(duration time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			timeoutCtx, cancel := context.WithTimeout(ctx.Context(), duration)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						done <- &RecoveryError{Panic: r, Command: commandName(ctx)}
					}
				}()
				done <- next(ctx)
			}()

			select {
			case err := <-done:
				return err
			case <-timeoutCtx.Done():
				if ctx.Context().Err() != nil {
					return ctx.Context().Err()
				}
				ctx.Cancel()
				return &TimeoutError{Duration: duration, Command: commandName(ctx)}
			}
		}
	}
}
