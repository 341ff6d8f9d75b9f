package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/go-kit/kit/log"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	"github.com/openzipkin/zipkin-go/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cage1016/aidevops-demo/pkg/adder/service"
)

func newTestEndpoints(t *testing.T, logger log.Logger) Endpoints {
	t.Helper()

	zipkinTracer, err := stdzipkin.NewTracer(reporter.NewNoopReporter(), stdzipkin.WithNoopTracer(true))
	require.NoError(t, err)

	svc := service.New(log.NewNopLogger())
	return New(svc, logger, stdopentracing.NoopTracer{}, zipkinTracer)
}

func TestEndpointsAsService(t *testing.T) {
	eps := newTestEndpoints(t, log.NewNopLogger())
	ctx := context.Background()

	greeting, err := eps.Greet(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.Greeting, greeting)

	sum, err := eps.Add(ctx, big.NewInt(2), big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, "5", sum.String())

	sum, err = eps.Add(ctx, ParseOperand("9223372036854775807"), big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, "9223372036854775808", sum.String())
}

func TestAddResponseJSON(t *testing.T) {
	b, err := json.Marshal(AddResponse{Result: ParseOperand("100000000000000000000")})
	require.NoError(t, err)
	assert.Equal(t, `{"result":100000000000000000000}`, string(b))
}

func TestLoggingMiddlewareLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	eps := newTestEndpoints(t, log.NewLogfmtLogger(&buf))

	_, err := eps.AddEndpoint(context.Background(), AddRequest{A: big.NewInt(1), B: big.NewInt(1)})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "method=add"), out)
	assert.True(t, strings.Contains(out, "level=debug"), out)
}
