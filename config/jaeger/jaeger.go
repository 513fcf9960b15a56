package jaeger

import (
	"io"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/opentracing/opentracing-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// InitJaeger installs the global opentracing tracer used by the gorm tracing
// plugin. With no agent address configured the noop tracer stays in place.
func InitJaeger(service, agentAddr string, sampleRate float64) (opentracing.Tracer, io.Closer) {
	if agentAddr == "" {
		return opentracing.GlobalTracer(), nopCloser{}
	}
	cfg := &jaegercfg.Configuration{
		ServiceName: service,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  "probabilistic",
			Param: sampleRate,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:           false,
			LocalAgentHostPort: agentAddr,
		},
	}
	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		hlog.Errorf("jaeger tracer disabled: %v", err)
		return opentracing.GlobalTracer(), nopCloser{}
	}
	opentracing.SetGlobalTracer(tracer)
	return tracer, closer
}
