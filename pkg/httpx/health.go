package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// HealthChecker is a dependency that can be checked.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheck names one checked dependency in the health report.
type HealthCheck struct {
	Name    string
	Checker HealthChecker
}

// HealthReport is the /health response body.
type HealthReport struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks"`
}

const healthProbeTimeout = 2 * time.Second

// HealthHandler runs every check concurrently. It answers 200 when all
// respond and 503 with status "degraded" otherwise.
func HealthHandler(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		defer cancel()

		report := HealthReport{Status: "ok", Checks: make(map[string]string, len(checks))}
		var mu sync.Mutex
		var wg sync.WaitGroup
		for _, c := range checks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				state := "ok"
				if err := c.Checker.Ping(ctx); err != nil {
					state = "unreachable"
				}
				mu.Lock()
				report.Checks[c.Name] = state
				if state != "ok" {
					report.Status = "degraded"
				}
				mu.Unlock()
			}()
		}
		wg.Wait()

		status := http.StatusOK
		if report.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, report)
	}
}
