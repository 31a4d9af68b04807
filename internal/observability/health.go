package observability

import (
	"context"
	"encoding/json"
	"net/http"
)

// ReadyCheck probes one subsystem for readiness. A nil return means ready.
type ReadyCheck func(ctx context.Context) error

// HealthHandler serves liveness probes: always 200 with {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		writeStatus(rw, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// ReadyHandler serves readiness probes. The first failing check turns the
// response into a 503 naming the failure; no checks means always ready.
func ReadyHandler(checks ...ReadyCheck) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		for _, check := range checks {
			err := check(hr.Context())
			if err != nil {
				writeStatus(rw, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"reason": err.Error(),
				})

				return
			}
		}

		writeStatus(rw, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func writeStatus(rw http.ResponseWriter, code int, body map[string]string) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	data, err := json.Marshal(body)
	if err != nil {
		return
	}

	_, _ = rw.Write(data)
}
