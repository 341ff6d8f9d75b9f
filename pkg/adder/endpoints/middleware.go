package endpoints

import (
	"context"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// LoggingMiddleware returns an endpoint middleware that logs the
// duration of each invocation, and the resulting error, if any.
func LoggingMiddleware(logger log.Logger) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			defer func(begin time.Time) {
				logErr := err
				if f, ok := response.(Failer); ok && logErr == nil {
					logErr = f.Failed()
				}
				level.Debug(logger).Log("transport_error", logErr, "took", time.Since(begin))
			}(time.Now())
			return next(ctx, request)
		}
	}
}
