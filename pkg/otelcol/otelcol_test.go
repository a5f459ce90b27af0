package otelcol

import (
	"context"
	"testing"

	"cashback-ledger/pkg/config"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/fx/fxtest"
)

func TestProvideTracerProviderDisabled(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	tp, err := ProvideTracerProvider(lc, &config.Config{})
	require.NoError(t, err)
	require.Equal(t, otel.GetTracerProvider(), tp)
}

func TestProvideTraceExportsSpans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := ProvideTrace(exp, defaultTraceProviderOption(&config.Config{AppName: "cashback-ledger"})...)

	_, span := tp.Tracer("test").Start(context.Background(), "ledger.op")
	span.End()
	require.NoError(t, tp.ForceFlush(context.Background()))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "ledger.op", spans[0].Name)

	require.NoError(t, tp.Shutdown(context.Background()))
}
