package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cosmossdk.io/core/address"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/block52/coinflipchain/pkg/indexer"
	"github.com/block52/coinflipchain/pkg/ledger"
	"github.com/block52/coinflipchain/x/coinflip/types"
)

// Config holds the HTTP API configuration
type Config struct {
	// ListenAddr is the HTTP listen address (e.g., ":1317")
	ListenAddr string `mapstructure:"listen_addr"`

	// MaxBodyBytes limits the size of a transaction body
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`

	// SignatureWindow is the accepted clock skew of signed requests
	SignatureWindow time.Duration `mapstructure:"signature_window"`
}

// DefaultConfig returns default API configuration
func DefaultConfig() Config {
	return Config{
		ListenAddr:      ":1317",
		MaxBodyBytes:    64 << 10,
		SignatureWindow: time.Minute,
	}
}

// Ledger is the part of the ledger host served over HTTP.
type Ledger interface {
	Deliver(ctx context.Context, msg any) (any, error)
	Query(ctx context.Context, fn func(ctx context.Context, qs types.QueryServer) error) error
	Balances(ctx context.Context, bech string) (sdk.Coins, error)
	Status() ledger.Status
	AddressCodec() address.Codec
}

// Archive serves bets that were evicted from on-ledger history.
type Archive interface {
	ByAddress(ctx context.Context, address string, limit, offset int) ([]indexer.Record, error)
}

// Server exposes coinflip operations and queries over HTTP.
type Server struct {
	cfg      Config
	ledger   Ledger
	verifier *verifier
	router   *mux.Router
	archive  Archive
	now      func() time.Time
}

func NewServer(cfg Config, l Ledger) *Server {
	s := &Server{
		cfg:      cfg,
		ledger:   l,
		verifier: newVerifier(cfg.SignatureWindow),
		router:   mux.NewRouter(),
		now:      time.Now,
	}
	s.registerRoutes()
	return s
}

// WithArchive enables /accounts/{address}/archive.
func (s *Server) WithArchive(a Archive) *Server {
	s.archive = a
	return s
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(logRequests)

	tx := r.PathPrefix("/tx").Methods(http.MethodPost).Subrouter()
	tx.HandleFunc("/propose", s.handleProposeBet)
	tx.HandleFunc("/accept", s.handleAcceptBet)
	tx.HandleFunc("/resolve", s.handleResolveBet)
	tx.HandleFunc("/liquidate", s.handleLiquidateBet)
	tx.HandleFunc("/withdraw", s.handleWithdrawPendingBet)
	tx.HandleFunc("/update-config", s.handleUpdateConfig)

	q := r.Methods(http.MethodGet).Subrouter()
	q.HandleFunc("/status", s.handleStatus)
	q.HandleFunc("/config", s.handleConfig)
	q.HandleFunc("/bets/pending", s.handlePendingBets)
	q.HandleFunc("/bets/pending/count", s.handlePendingBetsCount)
	q.HandleFunc("/bets/pending/{address}/{bet_id}", s.handlePendingBet)
	q.HandleFunc("/bets/ongoing/{bet_id}", s.handleOngoingBet)
	q.HandleFunc("/bets/liquidatable", s.handlePublicLiquidatable)
	q.HandleFunc("/accounts/{address}/pending", s.handlePendingBetsByAddr)
	q.HandleFunc("/accounts/{address}/ongoing", s.handleOngoingBetsByAddr)
	q.HandleFunc("/accounts/{address}/history", s.handleHistoricalBets)
	q.HandleFunc("/accounts/{address}/archive", s.handleArchive)
	q.HandleFunc("/bank/balances/{address}", s.handleBalances)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the API until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", s.cfg.ListenAddr).Msg("Starting API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	return httpServer.Shutdown(shutdownCtx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("Handled request")
	})
}
