package service

import (
	"context"
	"math/big"
	"time"

	"github.com/go-kit/kit/metrics"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type instrumentingMiddleware struct {
	requests metrics.Counter
	latency  metrics.Histogram
	next     Service
}

// InstrumentingMiddleware counts calls and records their latency, labelled
// by method and by whether the call failed.
func InstrumentingMiddleware(requests metrics.Counter, latency metrics.Histogram) Middleware {
	return func(next Service) Service {
		return instrumentingMiddleware{requests: requests, latency: latency, next: next}
	}
}

// NewPrometheusMiddleware registers the adder request counter and latency
// histogram with reg and returns the instrumenting middleware backed by them.
func NewPrometheusMiddleware(reg stdprometheus.Registerer, namespace string) Middleware {
	fieldKeys := []string{"method", "error"}

	requests := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "adder",
		Name:      "requests_total",
		Help:      "Number of requests received.",
	}, fieldKeys)
	latency := stdprometheus.NewHistogramVec(stdprometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "adder",
		Name:      "request_duration_seconds",
		Help:      "Total duration of requests in seconds.",
		Buckets:   stdprometheus.DefBuckets,
	}, fieldKeys)
	reg.MustRegister(requests, latency)

	return InstrumentingMiddleware(kitprometheus.NewCounter(requests), kitprometheus.NewHistogram(latency))
}

func (im instrumentingMiddleware) observe(method string, begin time.Time, err error) {
	lvs := []string{"method", method, "error", boolLabel(err != nil)}
	im.requests.With(lvs...).Add(1)
	im.latency.With(lvs...).Observe(time.Since(begin).Seconds())
}

func (im instrumentingMiddleware) Greet(ctx context.Context) (greeting string, err error) {
	defer func(begin time.Time) {
		im.observe("Greet", begin, err)
	}(time.Now())

	return im.next.Greet(ctx)
}

func (im instrumentingMiddleware) Add(ctx context.Context, a *big.Int, b *big.Int) (result *big.Int, err error) {
	defer func(begin time.Time) {
		im.observe("Add", begin, err)
	}(time.Now())

	return im.next.Add(ctx, a, b)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
