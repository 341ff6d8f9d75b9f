package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	stdopentracing "github.com/opentracing/opentracing-go"
	"github.com/openzipkin/zipkin-go"
	"github.com/openzipkin/zipkin-go/model"
	"github.com/openzipkin/zipkin-go/reporter"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"

	"github.com/cage1016/aidevops-demo/pkg/adder/endpoints"
	"github.com/cage1016/aidevops-demo/pkg/adder/registry"
	"github.com/cage1016/aidevops-demo/pkg/adder/service"
	"github.com/cage1016/aidevops-demo/pkg/adder/transports"
)

func main() {
	var base log.Logger
	{
		base = log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))
		base = log.With(base, "ts", log.DefaultTimestampUTC)
		base = log.With(base, "caller", log.DefaultCaller)
	}

	cfg, err := loadConfig()
	if err != nil {
		level.Error(base).Log("err", err)
		os.Exit(1)
	}
	base, logger := newLogger(os.Stdout, cfg)

	zipkinReporter := newZipkinReporter(cfg)
	defer zipkinReporter.Close()

	// The startup line goes through base so it shows at every LOG_LEVEL.
	lis, port, err := listenHTTP(cfg, base)
	if err != nil {
		level.Error(logger).Log("protocol", "HTTP", "listen", cfg.HTTPPort, "err", err)
		os.Exit(1)
	}

	s, err := newServer(cfg, port, zipkinReporter, logger)
	if err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}

	errs := make(chan error, 2)

	httpServer := &http.Server{Handler: s.httpHandler}
	go func() {
		if err := httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	var grpcServer *grpc.Server
	if cfg.GRPCPort != "" {
		grpcServer = transports.NewGRPCServer(cfg.ServiceName, s.grpcServer, s.tracer)
		go startGRPCServer(cfg, grpcServer, logger, errs)
	}

	if cfg.ConsulAddr != "" {
		registrar, err := registry.NewConsulRegistrar(cfg.ConsulAddr, registry.Instance{
			Name: cfg.ServiceName,
			Host: cfg.ServiceHost,
			Port: port,
			Tags: []string{cfg.NameSpace},
		}, logger)
		if err != nil {
			level.Error(logger).Log("registry", "consul", "err", err)
			os.Exit(1)
		}
		registrar.Register()
		defer registrar.Deregister()
	}

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errs <- fmt.Errorf("%s", <-c)
	}()

	err = <-errs
	level.Info(logger).Log("serviceName", cfg.ServiceName, "terminated", err)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		level.Error(logger).Log("protocol", "HTTP", "shutdown", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
}

// newLogger returns the unfiltered base logger and the LOG_LEVEL filtered
// logger handed to every component.
func newLogger(w io.Writer, cfg config) (base, logger log.Logger) {
	base = log.NewLogfmtLogger(log.NewSyncWriter(w))
	base = log.With(base, "ts", log.DefaultTimestampUTC)
	base = log.With(base, "caller", log.DefaultCaller)
	base = log.With(base, "service", cfg.ServiceName)

	lvl, _ := levelOption(cfg.LogLevel)
	return base, level.NewFilter(base, lvl)
}

// listenHTTP binds HOST:PORT and announces the port actually bound, which
// differs from cfg.HTTPPort when PORT is 0.
func listenHTTP(cfg config, logger log.Logger) (net.Listener, int, error) {
	lis, err := net.Listen("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.HTTPPort)))
	if err != nil {
		return nil, 0, err
	}
	port := lis.Addr().(*net.TCPAddr).Port
	level.Info(logger).Log("protocol", "HTTP", "exposed", port, "msg", fmt.Sprintf("Server running on port %d", port))
	return lis, port, nil
}

// server holds the wired transports of one adder process.
type server struct {
	httpHandler http.Handler
	grpcServer  transports.AdderServer
	tracer      stdopentracing.Tracer
	endpoint    *model.Endpoint
}

// newServer wires service, endpoints and transports together. port is the
// bound HTTP port advertised as the zipkin local endpoint.
func newServer(cfg config, port int, zipkinReporter reporter.Reporter, logger log.Logger) (*server, error) {
	var tracer stdopentracing.Tracer
	{
		tracer = stdopentracing.GlobalTracer()
	}

	var zipkinTracer *zipkin.Tracer
	{
		var (
			err           error
			hostPort      = net.JoinHostPort(cfg.ServiceHost, strconv.Itoa(port))
			useNoopTracer = (cfg.ZipkinV2URL == "")
		)
		zEP, _ := zipkin.NewEndpoint(cfg.ServiceName, hostPort)
		zipkinTracer, err = zipkin.NewTracer(zipkinReporter, zipkin.WithLocalEndpoint(zEP), zipkin.WithNoopTracer(useNoopTracer))
		if err != nil {
			return nil, fmt.Errorf("zipkin tracer: %w", err)
		}
		if !useNoopTracer {
			logger.Log("tracer", "Zipkin", "type", "Native", "URL", cfg.ZipkinV2URL)
		}
	}

	var (
		mws     []service.Middleware
		httpOps []transports.HTTPOption
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		mws = append(mws, service.NewPrometheusMiddleware(reg, cfg.NameSpace))
		httpOps = append(httpOps, transports.WithMetrics(reg))
	}

	svc := service.New(logger, mws...)
	eps := endpoints.New(svc, logger, tracer, zipkinTracer)

	return &server{
		httpHandler: transports.NewHTTPHandler(eps, tracer, zipkinTracer, logger, httpOps...),
		grpcServer:  transports.MakeGRPCServer(eps, zipkinTracer, logger),
		tracer:      tracer,
		endpoint:    zipkinTracer.LocalEndpoint(),
	}, nil
}

func newZipkinReporter(cfg config) reporter.Reporter {
	if cfg.ZipkinV2URL == "" {
		return reporter.NewNoopReporter()
	}
	return zipkinhttp.NewReporter(cfg.ZipkinV2URL)
}

func startGRPCServer(cfg config, server *grpc.Server, logger log.Logger, errs chan error) {
	p := net.JoinHostPort(cfg.Host, cfg.GRPCPort)
	listener, err := net.Listen("tcp", p)
	if err != nil {
		level.Error(logger).Log("protocol", "GRPC", "listen", cfg.GRPCPort, "err", err)
		errs <- err
		return
	}

	level.Info(logger).Log("protocol", "GRPC", "exposed", cfg.GRPCPort)
	errs <- server.Serve(listener)
}
