package transports

import (
	"testing"

	"github.com/go-kit/kit/log"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	"github.com/openzipkin/zipkin-go/reporter"
	"github.com/openzipkin/zipkin-go/reporter/recorder"
	"github.com/stretchr/testify/require"

	"github.com/cage1016/aidevops-demo/pkg/adder/endpoints"
	"github.com/cage1016/aidevops-demo/pkg/adder/service"
)

func newTracers(t *testing.T) (stdopentracing.Tracer, *stdzipkin.Tracer) {
	t.Helper()

	zipkinTracer, err := stdzipkin.NewTracer(reporter.NewNoopReporter(), stdzipkin.WithNoopTracer(true))
	require.NoError(t, err)
	return stdopentracing.NoopTracer{}, zipkinTracer
}

func newEndpoints(t *testing.T, mws ...service.Middleware) endpoints.Endpoints {
	t.Helper()

	otTracer, zipkinTracer := newTracers(t)
	svc := service.New(log.NewNopLogger(), mws...)
	return endpoints.New(svc, log.NewNopLogger(), otTracer, zipkinTracer)
}

// newRecordingTracer returns a sampling zipkin tracer whose finished spans
// land in the returned recorder.
func newRecordingTracer(t *testing.T) (*stdzipkin.Tracer, *recorder.ReporterRecorder) {
	t.Helper()

	rec := recorder.NewReporter()
	t.Cleanup(func() { rec.Close() })
	zipkinTracer, err := stdzipkin.NewTracer(rec)
	require.NoError(t, err)
	return zipkinTracer, rec
}

func spanNames(rec *recorder.ReporterRecorder) []string {
	var names []string
	for _, span := range rec.Flush() {
		names = append(names, span.Name)
	}
	return names
}
