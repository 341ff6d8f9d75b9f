package endpoints

import (
	"context"
	"math/big"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/tracing/opentracing"
	"github.com/go-kit/kit/tracing/zipkin"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"

	"github.com/cage1016/aidevops-demo/pkg/adder/service"
)

// Endpoints collects all of the endpoints that compose the adder service. It's
// meant to be used as a helper struct, to collect all of the endpoints into a
// single parameter.
type Endpoints struct {
	GreetEndpoint endpoint.Endpoint
	AddEndpoint   endpoint.Endpoint
}

// New return a new instance of the endpoint that wraps the provided service.
func New(svc service.Service, logger log.Logger, otTracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer) (ep Endpoints) {
	var greetEndpoint endpoint.Endpoint
	{
		method := "greet"
		greetEndpoint = MakeGreetEndpoint(svc)
		greetEndpoint = opentracing.TraceServer(otTracer, method)(greetEndpoint)
		greetEndpoint = zipkin.TraceEndpoint(zipkinTracer, method)(greetEndpoint)
		greetEndpoint = LoggingMiddleware(log.With(logger, "method", method))(greetEndpoint)
		ep.GreetEndpoint = greetEndpoint
	}

	var addEndpoint endpoint.Endpoint
	{
		method := "add"
		addEndpoint = MakeAddEndpoint(svc)
		addEndpoint = opentracing.TraceServer(otTracer, method)(addEndpoint)
		addEndpoint = zipkin.TraceEndpoint(zipkinTracer, method)(addEndpoint)
		addEndpoint = LoggingMiddleware(log.With(logger, "method", method))(addEndpoint)
		ep.AddEndpoint = addEndpoint
	}

	return ep
}

// MakeGreetEndpoint returns an endpoint that invokes Greet on the service.
// Primarily useful in a server.
func MakeGreetEndpoint(svc service.Service) (ep endpoint.Endpoint) {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		greeting, err := svc.Greet(ctx)
		return GreetResponse{Greeting: greeting, Err: err}, nil
	}
}

// Greet implements the service interface, so Endpoints may be used as a service.
// This is primarily useful in the context of a client library.
func (e Endpoints) Greet(ctx context.Context) (greeting string, err error) {
	resp, err := e.GreetEndpoint(ctx, GreetRequest{})
	if err != nil {
		return
	}
	response := resp.(GreetResponse)
	return response.Greeting, response.Err
}

// MakeAddEndpoint returns an endpoint that invokes Add on the service.
// Primarily useful in a server.
func MakeAddEndpoint(svc service.Service) (ep endpoint.Endpoint) {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(AddRequest)
		rs, err := svc.Add(ctx, req.A, req.B)
		return AddResponse{Result: rs, Err: err}, nil
	}
}

// Add implements the service interface, so Endpoints may be used as a service.
// This is primarily useful in the context of a client library.
func (e Endpoints) Add(ctx context.Context, a *big.Int, b *big.Int) (result *big.Int, err error) {
	resp, err := e.AddEndpoint(ctx, AddRequest{A: a, B: b})
	if err != nil {
		return
	}
	response := resp.(AddResponse)
	return response.Result, response.Err
}
