package handlers

import (
	"net/http"
	"os"

	httpx "github.com/dropDatabas3/haven/internal/http"
	"github.com/dropDatabas3/haven/internal/observability/logger"
	"github.com/dropDatabas3/haven/internal/store"
)

// NewReadyzHandler arma el health check: responde 200 sólo si el storage
// backend contesta el ping.
func NewReadyzHandler(dal store.DataAccessLayer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if v := os.Getenv("SERVICE_VERSION"); v != "" {
			w.Header().Set("X-Service-Version", v)
		}

		if err := dal.Ping(r.Context()); err != nil {
			logger.From(r.Context()).Error("readyz: storage unavailable", logger.Err(err))
			httpx.WriteError(w, http.StatusServiceUnavailable, "storage_unavailable", "storage backend no disponible")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
