package transports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/tracing/opentracing"
	"github.com/go-kit/kit/tracing/zipkin"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/status"

	"github.com/cage1016/aidevops-demo/pkg/adder/endpoints"
	"github.com/cage1016/aidevops-demo/pkg/adder/service"
)

type errorWrapper struct {
	Error string `json:"error"`
}

// HTTPOption tunes the routes NewHTTPHandler mounts besides the service
// routes.
type HTTPOption func(*httpOptions)

type httpOptions struct {
	gatherer prometheus.Gatherer
}

// WithMetrics exposes the metrics collected by g on /metrics.
func WithMetrics(g prometheus.Gatherer) HTTPOption {
	return func(o *httpOptions) { o.gatherer = g }
}

func JSONErrorDecoder(r *http.Response) error {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return fmt.Errorf("expected JSON formatted error, got Content-Type %s", contentType)
	}
	var w errorWrapper
	if err := json.NewDecoder(r.Body).Decode(&w); err != nil {
		return err
	}
	return errors.New(w.Error)
}

// NewHTTPHandler returns a handler that makes a set of endpoints available on
// predefined paths.
func NewHTTPHandler(endpoints endpoints.Endpoints, otTracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer, logger log.Logger, opts ...HTTPOption) http.Handler {
	var o httpOptions
	for _, opt := range opts {
		opt(&o)
	}

	// A global zipkin server trace names each span after the HTTP method.
	zipkinServer := zipkin.HTTPServerTrace(zipkinTracer)

	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(httpEncodeError),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
		zipkinServer,
	}

	// GET routes also answer HEAD, and a trailing slash redirects to the
	// canonical path.
	m := mux.NewRouter().StrictSlash(true)
	m.Methods(http.MethodGet, http.MethodHead).Path("/").Handler(httptransport.NewServer(
		endpoints.GreetEndpoint,
		decodeHTTPGreetRequest,
		encodeHTTPTextResponse,
		append(options, httptransport.ServerBefore(opentracing.HTTPToContext(otTracer, "Greet", logger)))...,
	))
	m.Methods(http.MethodGet, http.MethodHead).Path("/add").Handler(httptransport.NewServer(
		endpoints.AddEndpoint,
		decodeHTTPAddRequest,
		encodeHTTPGenericResponse,
		append(options, httptransport.ServerBefore(opentracing.HTTPToContext(otTracer, "Add", logger)))...,
	))
	m.Methods(http.MethodGet, http.MethodHead).Path("/healthz").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"status":"ok"}`)
	})
	if o.gatherer != nil {
		m.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{}))
	}
	return m
}

func decodeHTTPGreetRequest(_ context.Context, _ *http.Request) (interface{}, error) {
	return endpoints.GreetRequest{}, nil
}

// decodeHTTPAddRequest is a transport/http.DecodeRequestFunc that reads the
// addends from the a and b query parameters. Missing or malformed values
// count as 0. Primarily useful in a server.
func decodeHTTPAddRequest(_ context.Context, r *http.Request) (interface{}, error) {
	q := r.URL.Query()
	return endpoints.AddRequest{
		A: endpoints.ParseOperand(q.Get("a")),
		B: endpoints.ParseOperand(q.Get("b")),
	}, nil
}

// encodeHTTPGenericResponse is a transport/http.EncodeResponseFunc that encodes
// the response as JSON to the response writer, or hands a failed response to
// the error encoder. Primarily useful in a server.
func encodeHTTPGenericResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoints.Failer); ok && f.Failed() != nil {
		httpEncodeError(ctx, f.Failed(), w)
		return nil
	}
	return httptransport.EncodeJSONResponse(ctx, w, response)
}

// encodeHTTPTextResponse writes the greeting as a plain text body.
func encodeHTTPTextResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoints.Failer); ok && f.Failed() != nil {
		httpEncodeError(ctx, f.Failed(), w)
		return nil
	}
	resp := response.(endpoints.GreetResponse)
	for k, values := range resp.Headers() {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode())
	_, err := io.WriteString(w, resp.Greeting)
	return err
}

// NewHTTPClient returns a Service backed by an HTTP server living at the
// remote instance. We expect instance to come from a service discovery system,
// so likely of the form "host:port". We bake-in certain middlewares,
// implementing the client library pattern.
func NewHTTPClient(instance string, otTracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer, logger log.Logger) (service.Service, error) {
	if !strings.HasPrefix(instance, "http") {
		instance = "http://" + instance
	}
	u, err := url.Parse(instance)
	if err != nil {
		return nil, err
	}

	// A single limiter caps the total outgoing QPS from this client to all
	// methods on the remote instance.
	limiter := ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 100))

	options := []httptransport.ClientOption{
		zipkin.HTTPClientTrace(zipkinTracer),
	}

	e := endpoints.Endpoints{}

	var greetEndpoint endpoint.Endpoint
	{
		greetEndpoint = httptransport.NewClient(
			http.MethodGet,
			copyURL(u, "/"),
			encodeHTTPGreetRequest,
			decodeHTTPGreetResponse,
			append(options, httptransport.ClientBefore(opentracing.ContextToHTTP(otTracer, logger)))...,
		).Endpoint()
		greetEndpoint = opentracing.TraceClient(otTracer, "Greet")(greetEndpoint)
		greetEndpoint = zipkin.TraceEndpoint(zipkinTracer, "Greet")(greetEndpoint)
		greetEndpoint = limiter(greetEndpoint)
		e.GreetEndpoint = greetEndpoint
	}

	var addEndpoint endpoint.Endpoint
	{
		addEndpoint = httptransport.NewClient(
			http.MethodGet,
			copyURL(u, "/add"),
			encodeHTTPAddRequest,
			decodeHTTPAddResponse,
			append(options, httptransport.ClientBefore(opentracing.ContextToHTTP(otTracer, logger)))...,
		).Endpoint()
		addEndpoint = opentracing.TraceClient(otTracer, "Add")(addEndpoint)
		addEndpoint = zipkin.TraceEndpoint(zipkinTracer, "Add")(addEndpoint)
		addEndpoint = limiter(addEndpoint)
		e.AddEndpoint = addEndpoint
	}

	// Endpoints implements service.Service, which is all the glue needed.
	return e, nil
}

func copyURL(base *url.URL, path string) *url.URL {
	next := *base
	next.Path = path
	return &next
}

func encodeHTTPGreetRequest(_ context.Context, _ *http.Request, _ interface{}) error {
	return nil
}

// encodeHTTPAddRequest is a transport/http.EncodeRequestFunc that puts the
// addends in the query string. Primarily useful in a client.
func encodeHTTPAddRequest(_ context.Context, r *http.Request, request interface{}) error {
	req := request.(endpoints.AddRequest)
	q := r.URL.Query()
	q.Set("a", operandString(req.A))
	q.Set("b", operandString(req.B))
	r.URL.RawQuery = q.Encode()
	return nil
}

func operandString(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}

// decodeHTTPGreetResponse reads the plain text greeting. Primarily useful in
// a client.
func decodeHTTPGreetResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if r.StatusCode != http.StatusOK {
		return nil, JSONErrorDecoder(r)
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return endpoints.GreetResponse{Greeting: string(b)}, nil
}

// decodeHTTPAddResponse is a transport/http.DecodeResponseFunc that decodes a
// JSON-encoded add response from the HTTP response body. If the response has a
// non-200 status code, we will interpret that as an error and attempt to decode
// the specific error message from the response body. Primarily useful in a client.
func decodeHTTPAddResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if r.StatusCode != http.StatusOK {
		return nil, JSONErrorDecoder(r)
	}
	var resp endpoints.AddResponse
	err := json.NewDecoder(r.Body).Decode(&resp)
	return resp, err
}

func httpEncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if st, ok := status.FromError(err); ok {
		w.WriteHeader(HTTPStatusFromCode(st.Code()))
		json.NewEncoder(w).Encode(errorWrapper{Error: st.Message()})
		return
	}

	switch err {
	case ratelimit.ErrLimited:
		w.WriteHeader(http.StatusTooManyRequests)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(errorWrapper{Error: err.Error()})
}
