package server

import (
	"encoding/json"
	"net/http"

	"github.com/ShinaSIT/Helix-Telebot/internal/cache"
	"github.com/ShinaSIT/Helix-Telebot/internal/middleware"
	"github.com/ShinaSIT/Helix-Telebot/internal/sheets"
	"github.com/rs/zerolog"
)

// OpsServer exposes the operational HTTP surface: a liveness probe and the
// cache introspection view. It carries no bot functionality.
type OpsServer struct {
	store  *cache.Store
	client *sheets.Client
	logger zerolog.Logger
}

func NewOpsServer(store *cache.Store, client *sheets.Client, logger zerolog.Logger) *OpsServer {
	return &OpsServer{store: store, client: client, logger: logger}
}

// Handler builds the ops mux wrapped with request-id logging.
func (s *OpsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /cache/stats", s.handleCacheStats)
	return middleware.RequestID(s.logger)(mux)
}

func (s *OpsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *OpsServer) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Cache any `json:"cache"`
		API   any `json:"api_usage"`
	}{
		Cache: s.store.Stats(),
		API:   s.client.Usage(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode cache stats")
	}
}
