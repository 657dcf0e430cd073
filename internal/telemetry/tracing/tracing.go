package tracing

import (
	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

var GlobalTracer = otel.Tracer("mapty")

// HoneycombSetup configures the OpenTelemetry SDK to export to honeycomb.
// Exporter settings (api key, service name) come from the standard OTEL_* and
// HONEYCOMB_* env vars. When disabled, the global no-op tracer provider stays in place.
func HoneycombSetup(enabled bool) (func(), error) {
	if !enabled {
		log.Debugln("honeycomb tracing disabled")
		return func() {}, nil
	}

	// baggage span processor copies baggage entries onto every span
	bsp := honeycomb.NewBaggageSpanProcessor()

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithSpanProcessor(bsp),
	)
	if err != nil {
		return nil, err
	}

	// the tracer has to be re-obtained after the global provider is set
	GlobalTracer = otel.Tracer("mapty")
	log.Infoln("honeycomb tracing set up")

	return otelShutdown, nil
}
