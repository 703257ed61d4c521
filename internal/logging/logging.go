package logging

import (
	"context"

	"go.uber.org/zap"

	eventbus "github.com/seamgraph/seamgraph/internal/eventbus"
	events "github.com/seamgraph/seamgraph/internal/events"
	reqid "github.com/seamgraph/seamgraph/internal/reqid"
)

// Setup attaches structured-logging subscribers for the request
// pipeline to the eventbus. Pass nil to use a production zap logger.
func Setup(logger *zap.Logger) (*zap.Logger, error) {
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, err
		}
	}
	register(logger)
	return logger, nil
}

func register(logger *zap.Logger) {
	eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) {
		rid, _ := reqid.FromContext(ctx)
		logger.Info("http request",
			zap.Int64("request_id", rid),
			zap.String("method", e.Request.Method),
			zap.String("path", e.Request.URL.Path),
			zap.Int("status", e.Status),
			zap.Duration("duration", e.Duration),
		)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
		rid, _ := reqid.FromContext(ctx)
		logger.Info("graphql operation",
			zap.Int64("request_id", rid),
			zap.String("operation", e.OperationName),
			zap.String("type", e.OperationType),
			zap.Strings("subgraphs", e.Subgraphs),
			zap.Int("errors", len(e.Errors)),
			zap.Duration("duration", e.Duration),
		)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.FetchFinish) {
		rid, _ := reqid.FromContext(ctx)
		if e.Err != nil {
			logger.Warn("subgraph fetch failed",
				zap.Int64("request_id", rid),
				zap.String("subgraph", e.Subgraph),
				zap.String("url", e.URL),
				zap.Error(e.Err),
				zap.Duration("duration", e.Duration),
			)
			return
		}
		logger.Debug("subgraph fetch",
			zap.Int64("request_id", rid),
			zap.String("subgraph", e.Subgraph),
			zap.String("url", e.URL),
			zap.Int("status", e.Status),
			zap.Duration("duration", e.Duration),
		)
	})
}
