package wsserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Manager manages the WebSocket server lifecycle
type Manager struct {
	hub        *Hub
	httpServer *http.Server
	config     Config
}

// NewManager creates a new WebSocket manager
func NewManager(cfg Config, l Ledger) *Manager {
	hub := NewHub(cfg, l)

	router := mux.NewRouter()
	hub.RegisterRoutes(router)

	return &Manager{
		hub:    hub,
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Hub returns the hub behind the server.
func (m *Manager) Hub() *Hub {
	return m.hub
}

// Run serves WebSocket clients until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	if !m.config.Enabled {
		log.Info().Msg("WebSocket server is disabled")
		return nil
	}

	go m.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("address", m.config.ListenAddr).
			Msg("Starting WebSocket HTTP server")

		if err := m.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.httpServer.Shutdown(shutdownCtx)
}
