package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// response is the JSON body of the health endpoint.
type response struct {
	Status string                   `json:"status"`
	Checks map[string]checkResponse `json:"checks,omitempty"`
}

type checkResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler serves health check results as JSON. Unhealthy maps to 503,
// healthy and degraded to 200.
func Handler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		results := agg.CheckAll(ctx)
		overall := OverallStatus(results)

		body := response{
			Status: overall.String(),
			Checks: make(map[string]checkResponse, len(results)),
		}
		for name, result := range results {
			check := checkResponse{
				Status:  result.Status.String(),
				Message: result.Message,
			}
			if result.Error != nil {
				check.Error = result.Error.Error()
			}
			body.Checks[name] = check
		}

		w.Header().Set("Content-Type", "application/json")
		if overall == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(body)
	}
}

// AdminMux builds the admin listener mux: /healthz plus the Prometheus
// scrape endpoint.
func AdminMux(agg *Aggregator) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", Handler(agg))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
