package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler runs every check concurrently and answers 200 when all pass,
// 503 otherwise.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		var (
			mu      sync.Mutex
			results = make(map[string]string, len(checks))
			healthy = true
		)
		var g errgroup.Group
		for name, check := range checks {
			g.Go(func() error {
				status := "ok"
				if err := check(ctx); err != nil {
					status = err.Error()
				}
				mu.Lock()
				defer mu.Unlock()
				results[name] = status
				if status != "ok" {
					healthy = false
				}
				return nil
			})
		}
		_ = g.Wait()

		resp := healthResponse{Status: "ok", Checks: results}
		code := http.StatusOK
		if !healthy {
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
		}
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			return
		}
		WriteJSON(w, code, resp)
	}
}
