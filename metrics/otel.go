package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "go.creack.net/robotwar/metrics"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
