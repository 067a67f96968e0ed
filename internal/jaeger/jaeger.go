package jaeger

import (
	"github.com/spf13/viper"
	jaegerexp "go.opentelemetry.io/otel/exporters/jaeger"
)

// MustNewJaeger builds the Jaeger collector exporter for the trace
// provider.
func MustNewJaeger() *jaegerexp.Exporter {
	endpoint := viper.GetString("jaeger.endpoint")
	if endpoint == "" {
		endpoint = "http://localhost:14268/api/traces"
	}

	exporter, err := jaegerexp.New(jaegerexp.WithCollectorEndpoint(jaegerexp.WithEndpoint(endpoint)))
	if err != nil {
		panic("error while creating jaeger exporter: " + err.Error())
	}

	return exporter
}
