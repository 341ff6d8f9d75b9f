package service

import (
	"context"
	"math/big"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

type loggingMiddleware struct {
	logger log.Logger
	next   Service
}

// LoggingMiddleware takes a logger as a dependency
// and returns a ServiceMiddleware.
func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next Service) Service {
		return loggingMiddleware{level.Info(logger), next}
	}
}

func (lm loggingMiddleware) Greet(ctx context.Context) (greeting string, err error) {
	defer func(begin time.Time) {
		lm.logger.Log("method", "Greet", "err", err, "took", time.Since(begin))
	}(time.Now())

	return lm.next.Greet(ctx)
}

func (lm loggingMiddleware) Add(ctx context.Context, a *big.Int, b *big.Int) (result *big.Int, err error) {
	defer func(begin time.Time) {
		lm.logger.Log("method", "Add", "a", a, "b", b, "result", result, "err", err, "took", time.Since(begin))
	}(time.Now())

	return lm.next.Add(ctx, a, b)
}
