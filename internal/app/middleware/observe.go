package middleware

import (
	"context"
	"log/slog"
	"time"

	"boilerfunnel/internal/app/commands"
	"boilerfunnel/internal/app/queries"
)

// Observer receives the outcome of every dispatched message.
type Observer interface {
	ObserveMessage(kind, key string, elapsed time.Duration, err error)
}

func Logging(logger *slog.Logger) CommandMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				logger.WarnContext(ctx, "command failed", "command", cmd.Key(), "duration", time.Since(start), "error", err)
				return nil, err
			}
			logger.DebugContext(ctx, "command handled", "command", cmd.Key(), "duration", time.Since(start))
			return res, nil
		})
	}
}

func InstrumentCommands(obs Observer) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		if obs == nil {
			return next
		}
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			obs.ObserveMessage("command", cmd.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func InstrumentQueries(obs Observer) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		if obs == nil {
			return next
		}
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			obs.ObserveMessage("query", q.Key(), time.Since(start), err)
			return res, err
		})
	}
}
