// Package workflows connects the storefront to Temporal.
package workflows

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	temporallog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/yoursneaker/storefront/pkg/logger"
)

// TemporalClient is a Temporal connection traced with OpenTelemetry.
type TemporalClient struct {
	client.Client
	Namespace string
	log       logger.Logger
}

// Dial connects to hostPort in namespace.
func Dial(ctx context.Context, hostPort, namespace string, log logger.Logger) (*TemporalClient, error) {
	tracing, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer("storefront/temporal"),
	})
	if err != nil {
		return nil, fmt.Errorf("temporal tracing interceptor: %w", err)
	}

	c, err := client.DialContext(ctx, client.Options{
		HostPort:     hostPort,
		Namespace:    namespace,
		Logger:       NewLogger(log),
		Interceptors: []interceptor.ClientInterceptor{tracing},
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal %s: %w", hostPort, err)
	}

	log.Info("temporal connected", "host_port", hostPort, "namespace", namespace)
	return &TemporalClient{Client: c, Namespace: namespace, log: log}, nil
}

// NewWorker returns a worker polling taskQueue. Register workflows and
// activities on it before calling Run or Start.
func (tc *TemporalClient) NewWorker(taskQueue string) worker.Worker {
	return worker.New(tc.Client, taskQueue, worker.Options{})
}

// Ping implements httpx.HealthChecker.
func (tc *TemporalClient) Ping(ctx context.Context) error {
	if _, err := tc.CheckHealth(ctx, &client.CheckHealthRequest{}); err != nil {
		return fmt.Errorf("temporal health: %w", err)
	}
	return nil
}

// Close closes the connection.
func (tc *TemporalClient) Close() {
	tc.Client.Close()
	tc.log.Info("temporal connection closed")
}

type temporalLogger struct {
	log logger.Logger
}

// NewLogger adapts logger.Logger to Temporal's logger.
func NewLogger(log logger.Logger) temporallog.Logger {
	return &temporalLogger{log: log.With("component", "temporal")}
}

func (l *temporalLogger) Debug(msg string, keyvals ...any) { l.log.Debug(msg, keyvals...) }
func (l *temporalLogger) Info(msg string, keyvals ...any)  { l.log.Info(msg, keyvals...) }
func (l *temporalLogger) Warn(msg string, keyvals ...any)  { l.log.Warn(msg, keyvals...) }
func (l *temporalLogger) Error(msg string, keyvals ...any) { l.log.Error(msg, keyvals...) }
