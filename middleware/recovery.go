package middleware

import (
	"runtime"

	"go.uber.org/zap"
)

const stackSize = 4096

// Recovery converts a panic in the action into a *RecoveryError. When a
// logger is given the panic and its stack are logged at Error level.
func Recovery(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				stack := make([]byte, stackSize)
				stack = stack[:runtime.Stack(stack, false)]
				rerr := &RecoveryError{Panic: r, Command: commandName(ctx), Stack: stack}
				logger.Error("command panicked",
					zap.String("command", rerr.Command),
					zap.Any("panic", r),
					zap.ByteString("stack", stack),
				)
				err = rerr
			}()
			return next(ctx)
		}
	}
}

// NoopRecovery lets panics propagate.
func NoopRecovery() Middleware {
	return func(next ActionFunc) ActionFunc { return next }
}
