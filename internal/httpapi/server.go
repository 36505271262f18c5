package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gridops/gridassess/internal/auth"
	"github.com/gridops/gridassess/internal/config"
	"github.com/gridops/gridassess/internal/ingest"
	"github.com/gridops/gridassess/internal/logx"
	"github.com/gridops/gridassess/internal/rank"
	"github.com/gridops/gridassess/internal/store"
)

// Server is the JSON REST front of the assessment system.
type Server struct {
	cfg      config.Config
	store    *store.Store
	auth     *auth.Authenticator
	board    *rank.Board
	importer *ingest.Importer
	logger   logx.Logger

	httpSrv *http.Server
}

func NewServer(cfg config.Config, st *store.Store, authr *auth.Authenticator, board *rank.Board, logger logx.Logger) *Server {
	if logger == nil {
		logger = logx.NewNop()
	}

	s := &Server{
		cfg:      cfg,
		store:    st,
		auth:     authr,
		board:    board,
		importer: ingest.NewImporter(st, logger),
		logger:   logger,
	}

	s.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.requireAuth(s.handleLogout))

	mux.HandleFunc("GET /api/leaders", s.requireAuth(s.handleLeaders))
	mux.HandleFunc("GET /api/leaders/{id}/assessments", s.requireAuth(s.handleLeaderAssessments))
	mux.HandleFunc("GET /api/leaders/{id}/report", s.requireAuth(s.handleLeaderReport))
	mux.HandleFunc("PUT /api/assessments/{id}", s.requireAuth(s.handleUpdateAssessment))
	mux.HandleFunc("GET /api/ranking", s.requireAuth(s.handleRanking))

	mux.HandleFunc("POST /api/import", s.requireAuth(s.handleImport))
	mux.HandleFunc("GET /api/export", s.requireAuth(s.handleExport))

	mux.HandleFunc("POST /api/admin/cleanup", s.requireAuth(s.handleCleanup))
	mux.HandleFunc("POST /api/admin/clear", s.requireAuth(s.handleClear))
	mux.HandleFunc("POST /api/admin/backup", s.requireAuth(s.handleBackup))

	return s.logRequests(mux)
}

// Handler exposes the routed handler. Tests drive it through httptest.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.refreshBoard(); err != nil {
		s.logger.Warnw("standings preload failed", "error", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	s.logger.Infow("listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// refreshBoard rebuilds the standings from the store. Called at startup and
// after every write that can move a leader's latest assessment.
func (s *Server) refreshBoard() error {
	latest, err := s.store.LatestPerLeader()
	if err != nil {
		return err
	}
	return s.board.Reload(latest)
}
