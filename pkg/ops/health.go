package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Status is the outcome of a single health check or the aggregate result.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is one named check's outcome.
type CheckResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Response is the full /healthz body.
type Response struct {
	Status    Status        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// HealthChecker runs a set of named, independent checks and aggregates
// them into one overall status: unhealthy if any check fails.
type HealthChecker struct {
	checks map[string]func(context.Context) error
	order  []string
}

// NewHealthChecker returns an empty checker; callers register the checks
// relevant to their own wiring (world liveness, scheduler tick age,
// persistence reachability) rather than this package assuming any of it.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make(map[string]func(context.Context) error)}
}

// Register adds a named check, run with a 5 second timeout.
func (hc *HealthChecker) Register(name string, check func(context.Context) error) {
	if _, exists := hc.checks[name]; !exists {
		hc.order = append(hc.order, name)
	}
	hc.checks[name] = check
}

// Run executes every registered check and aggregates the result.
func (hc *HealthChecker) Run(ctx context.Context) Response {
	resp := Response{Timestamp: time.Now(), Status: StatusHealthy}

	for _, name := range hc.order {
		start := time.Now()
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := hc.checks[name](checkCtx)
		cancel()

		result := CheckResult{Name: name, Status: StatusHealthy, Duration: time.Since(start)}
		if err != nil {
			result.Status = StatusUnhealthy
			result.Error = err.Error()
			resp.Status = StatusUnhealthy
			logrus.WithFields(logrus.Fields{
				"function": "Run",
				"package":  "ops",
				"check":    name,
				"error":    err,
			}).Warn("health check failed")
		}
		resp.Checks = append(resp.Checks, result)
	}

	return resp
}

// Handler serves the aggregate health response as JSON, responding 503 when
// any check failed.
func (hc *HealthChecker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := hc.Run(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if resp.Status != StatusHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
