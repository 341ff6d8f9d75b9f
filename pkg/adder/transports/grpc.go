package transports

import (
	"context"
	"math"
	"math/big"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/tracing/opentracing"
	"github.com/go-kit/kit/tracing/zipkin"
	"github.com/go-kit/kit/transport"
	grpctransport "github.com/go-kit/kit/transport/grpc"
	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_opentracing "github.com/grpc-ecosystem/go-grpc-middleware/tracing/opentracing"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/cage1016/aidevops-demo/pkg/adder/endpoints"
	"github.com/cage1016/aidevops-demo/pkg/adder/service"
)

// AdderServiceName is the fully qualified gRPC service name.
const AdderServiceName = "adder.Adder"

// AdderServer is the server API for the adder.Adder service. Messages are
// protobuf well-known types: Add takes a Struct with "a" and "b" fields and
// answers with a Struct holding "result". A result a double cannot hold
// exactly travels as a decimal string.
type AdderServer interface {
	Greet(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	Add(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var adderServiceDesc = grpc.ServiceDesc{
	ServiceName: AdderServiceName,
	HandlerType: (*AdderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Greet", Handler: greetHandler},
		{MethodName: "Add", Handler: addHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "adder.proto",
}

// RegisterAdderServer registers srv on s under AdderServiceName.
func RegisterAdderServer(s grpc.ServiceRegistrar, srv AdderServer) {
	s.RegisterService(&adderServiceDesc, srv)
}

func greetHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdderServer).Greet(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + AdderServiceName + "/Greet"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdderServer).Greet(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func addHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdderServer).Add(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + AdderServiceName + "/Add"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdderServer).Add(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type grpcServer struct {
	greet grpctransport.Handler
	add   grpctransport.Handler
}

func (s *grpcServer) Greet(ctx context.Context, req *emptypb.Empty) (*wrapperspb.StringValue, error) {
	_, rp, err := s.greet.ServeGRPC(ctx, req)
	if err != nil {
		return nil, grpcEncodeError(err)
	}
	return rp.(*wrapperspb.StringValue), nil
}

func (s *grpcServer) Add(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	_, rp, err := s.add.ServeGRPC(ctx, req)
	if err != nil {
		return nil, grpcEncodeError(err)
	}
	return rp.(*structpb.Struct), nil
}

// MakeGRPCServer makes a set of endpoints available as a gRPC server.
// Incoming trace context is extracted by the interceptor chain of
// NewGRPCServer, so only the zipkin server trace is attached here.
func MakeGRPCServer(endpoints endpoints.Endpoints, zipkinTracer *stdzipkin.Tracer, logger log.Logger) AdderServer {
	options := []grpctransport.ServerOption{
		grpctransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
		zipkin.GRPCServerTrace(zipkinTracer),
	}

	return &grpcServer{
		greet: grpctransport.NewServer(
			endpoints.GreetEndpoint,
			decodeGRPCGreetRequest,
			encodeGRPCGreetResponse,
			options...,
		),
		add: grpctransport.NewServer(
			endpoints.AddEndpoint,
			decodeGRPCAddRequest,
			encodeGRPCAddResponse,
			options...,
		),
	}
}

// NewGRPCServer builds a grpc.Server carrying the adder service, the standard
// health service (reporting serviceName as SERVING) and server reflection.
func NewGRPCServer(serviceName string, srv AdderServer, otTracer stdopentracing.Tracer) *grpc.Server {
	server := grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpctransport.Interceptor,
			grpc_opentracing.UnaryServerInterceptor(grpc_opentracing.WithTracer(otTracer)),
		)),
	)
	RegisterAdderServer(server, srv)

	hs := health.NewServer()
	hs.SetServingStatus(serviceName, healthgrpc.HealthCheckResponse_SERVING)
	hs.SetServingStatus(AdderServiceName, healthgrpc.HealthCheckResponse_SERVING)
	healthgrpc.RegisterHealthServer(server, hs)

	reflection.Register(server)
	return server
}

func decodeGRPCGreetRequest(_ context.Context, _ interface{}) (interface{}, error) {
	return endpoints.GreetRequest{}, nil
}

func encodeGRPCGreetResponse(_ context.Context, grpcReply interface{}) (interface{}, error) {
	reply := grpcReply.(endpoints.GreetResponse)
	return wrapperspb.String(reply.Greeting), grpcEncodeError(reply.Err)
}

// decodeGRPCAddRequest is a transport/grpc.DecodeRequestFunc that converts a
// gRPC Struct to a user-domain add request. Primarily useful in a server.
func decodeGRPCAddRequest(_ context.Context, grpcReq interface{}) (interface{}, error) {
	req := grpcReq.(*structpb.Struct)
	return endpoints.AddRequest{
		A: operandFromValue(req.GetFields()["a"]),
		B: operandFromValue(req.GetFields()["b"]),
	}, nil
}

// encodeGRPCAddResponse is a transport/grpc.EncodeResponseFunc that converts a
// user-domain add response to a gRPC Struct. Primarily useful in a server.
func encodeGRPCAddResponse(_ context.Context, grpcReply interface{}) (interface{}, error) {
	reply := grpcReply.(endpoints.AddResponse)
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"result": valueFromInt(reply.Result),
	}}, grpcEncodeError(reply.Err)
}

// maxExactDouble is the largest magnitude up to which every integer has an
// exact double representation.
const maxExactDouble = 1 << 53

// valueFromInt encodes n as a number when a double holds it exactly and as
// a decimal string otherwise.
func valueFromInt(n *big.Int) *structpb.Value {
	if n == nil {
		return structpb.NewNumberValue(0)
	}
	if n.IsInt64() {
		if i := n.Int64(); i <= maxExactDouble && i >= -maxExactDouble {
			return structpb.NewNumberValue(float64(i))
		}
	}
	return structpb.NewStringValue(n.String())
}

// operandFromValue accepts an addend sent either as a number, truncated
// toward zero, or as a string read by ParseOperand. Anything else is 0.
func operandFromValue(v *structpb.Value) *big.Int {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return new(big.Int)
		}
		n, _ := big.NewFloat(f).Int(nil)
		return n
	case *structpb.Value_StringValue:
		return endpoints.ParseOperand(k.StringValue)
	default:
		return new(big.Int)
	}
}

// NewGRPCClient returns a Service backed by a gRPC server at the other end
// of the conn. The caller is responsible for constructing the conn, and
// eventually closing the underlying transport. We bake-in certain middlewares,
// implementing the client library pattern.
func NewGRPCClient(conn *grpc.ClientConn, otTracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer, logger log.Logger) service.Service {
	limiter := ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 100))

	options := []grpctransport.ClientOption{
		zipkin.GRPCClientTrace(zipkinTracer),
	}

	var greetEndpoint endpoint.Endpoint
	{
		greetEndpoint = grpctransport.NewClient(
			conn,
			AdderServiceName,
			"Greet",
			encodeGRPCGreetRequest,
			decodeGRPCGreetResponse,
			wrapperspb.StringValue{},
			append(options, grpctransport.ClientBefore(opentracing.ContextToGRPC(otTracer, logger)))...,
		).Endpoint()
		greetEndpoint = opentracing.TraceClient(otTracer, "Greet")(greetEndpoint)
		greetEndpoint = zipkin.TraceEndpoint(zipkinTracer, "Greet")(greetEndpoint)
		greetEndpoint = limiter(greetEndpoint)
	}

	var addEndpoint endpoint.Endpoint
	{
		addEndpoint = grpctransport.NewClient(
			conn,
			AdderServiceName,
			"Add",
			encodeGRPCAddRequest,
			decodeGRPCAddResponse,
			structpb.Struct{},
			append(options, grpctransport.ClientBefore(opentracing.ContextToGRPC(otTracer, logger)))...,
		).Endpoint()
		addEndpoint = opentracing.TraceClient(otTracer, "Add")(addEndpoint)
		addEndpoint = zipkin.TraceEndpoint(zipkinTracer, "Add")(addEndpoint)
		addEndpoint = limiter(addEndpoint)
	}

	return endpoints.Endpoints{
		GreetEndpoint: greetEndpoint,
		AddEndpoint:   addEndpoint,
	}
}

func encodeGRPCGreetRequest(_ context.Context, _ interface{}) (interface{}, error) {
	return &emptypb.Empty{}, nil
}

func decodeGRPCGreetResponse(_ context.Context, grpcReply interface{}) (interface{}, error) {
	reply := grpcReply.(*wrapperspb.StringValue)
	return endpoints.GreetResponse{Greeting: reply.GetValue()}, nil
}

// encodeGRPCAddRequest is a transport/grpc.EncodeRequestFunc that converts a
// user-domain add request to a gRPC Struct. Primarily useful in a client.
func encodeGRPCAddRequest(_ context.Context, request interface{}) (interface{}, error) {
	req := request.(endpoints.AddRequest)
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"a": structpb.NewStringValue(operandString(req.A)),
		"b": structpb.NewStringValue(operandString(req.B)),
	}}, nil
}

// decodeGRPCAddResponse is a transport/grpc.DecodeResponseFunc that converts a
// gRPC Struct reply to a user-domain add response. Primarily useful in a client.
func decodeGRPCAddResponse(_ context.Context, grpcReply interface{}) (interface{}, error) {
	reply := grpcReply.(*structpb.Struct)
	return endpoints.AddResponse{Result: operandFromValue(reply.GetFields()["result"])}, nil
}

func grpcEncodeError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if ok {
		return status.Error(st.Code(), st.Message())
	}
	switch err {
	case ratelimit.ErrLimited:
		return status.Error(codes.ResourceExhausted, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
