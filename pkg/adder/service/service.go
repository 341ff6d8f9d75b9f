package service

import (
	"context"
	"math/big"

	"github.com/go-kit/kit/log"
)

// Greeting is the fixed body served on the root route.
const Greeting = "Hello from AI DevOps Agent Demo!"

// Middleware describes a service (as opposed to endpoint) middleware.
type Middleware func(Service) Service

// Service describes the demo service: a greeting and an adder.
// Addends are arbitrary precision; a nil addend counts as 0.
type Service interface {
	Greet(ctx context.Context) (greeting string, err error)
	Add(ctx context.Context, a *big.Int, b *big.Int) (result *big.Int, err error)
}

// the concrete implementation of service interface
type stubService struct {
	logger log.Logger
}

// New return a new instance of the service, wrapped with the logging
// middleware and any extra middlewares in the order given.
func New(logger log.Logger, mws ...Middleware) (s Service) {
	var svc Service
	{
		svc = &stubService{logger: logger}
		svc = LoggingMiddleware(logger)(svc)
		for _, mw := range mws {
			svc = mw(svc)
		}
	}
	return svc
}

func (sv *stubService) Greet(_ context.Context) (string, error) {
	return Greeting, nil
}

func (sv *stubService) Add(_ context.Context, a *big.Int, b *big.Int) (*big.Int, error) {
	rs := new(big.Int)
	if a != nil {
		rs.Add(rs, a)
	}
	if b != nil {
		rs.Add(rs, b)
	}
	return rs, nil
}
