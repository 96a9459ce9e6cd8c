package middleware

import (
	"time"

	"go.uber.org/zap"
)

// Logger logs every action run: Debug on start, Info on success and Error on
// failure, with the command name, its arguments and the duration.
func Logger(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			name := commandName(ctx)
			log := logger.With(zap.String("command", name))
			log.Debug("command started", zap.Strings("args", ctx.Args()))

			start := time.Now()
			err := next(ctx)
			elapsed := time.Since(start)

			if err != nil {
				log.Error("command failed", zap.Duration("duration", elapsed), zap.Error(err))
				return err
			}
			log.Info("command finished", zap.Duration("duration", elapsed))
			return nil
		}
	}
}
