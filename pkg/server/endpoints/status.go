package endpoints

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/doodlesbykumbi/cms-in-go/pkg/render"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
)

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

// RegisterStatusEndpoints registers the status page and health check
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus(s.HealthStore, s.Views)).Methods("GET")

	// GET /health - Health check (no auth required)
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
}

func version() string {
	if v := os.Getenv("CMS_VERSION_DISPLAY"); v != "" {
		return v
	}
	return "0.1.0"
}

func checkHealth(r *http.Request, health store.HealthStore) HealthResponse {
	resp := HealthResponse{OK: true, Database: "ok", Version: version()}
	if err := health.CheckConnectivity(); err != nil {
		middleware.Logger(r.Context()).Warn("database unreachable", slog.Any("error", err))
		resp.OK = false
		resp.Database = "unreachable"
	}
	return resp
}

func handleStatus(health store.HealthStore, views *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := checkHealth(r, health)

		if wantsJSON(r) || r.URL.Query().Get("format") == "json" {
			respondWithJSON(w, http.StatusOK, map[string]string{"version": status.Version})
			return
		}
		respondWithPage(w, r, views, http.StatusOK, "status/index", errorLayout, render.Context{
			"title":    "CMS Status",
			"version":  status.Version,
			"database": status.Database,
		})
	}
}

func handleHealth(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := checkHealth(r, health)
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respondWithJSON(w, code, status)
	}
}
