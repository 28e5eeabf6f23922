package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/yoursneaker/storefront/pkg/config"
)

// SetupSentry initializes the Sentry SDK. It does nothing when SENTRY_DSN is empty.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}

	sampleRate := 0.2
	if cfg.Environment != config.EnvProduction {
		sampleRate = 1.0
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		ServerName:       cfg.ServiceName,
		AttachStacktrace: true,
		TracesSampleRate: sampleRate,
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// SentryFlush waits up to two seconds for buffered events.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// SentryMiddleware reports panics and re-panics so logger.Recovery still
// writes the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true, Timeout: 2 * time.Second}).Handle
}
