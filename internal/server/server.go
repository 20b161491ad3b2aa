// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loan-intake-engine/internal/common/config"
	commonerrors "loan-intake-engine/internal/common/errors"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/loan/engine"
	"loan-intake-engine/internal/models"
)

// AdminStore is the admin surface over stored applications.
type AdminStore interface {
	StatsByProduct(ctx context.Context) ([]models.ProductStats, error)
	ListApplications(ctx context.Context, productID string, limit, offset int) ([]models.Application, error)
}

// Searcher runs free-text queries over indexed applications. Optional.
type Searcher interface {
	Search(ctx context.Context, query string, size int) ([]map[string]interface{}, error)
}

// Pinger checks one backing dependency for the health endpoint.
type Pinger func(ctx context.Context) error

// Server holds the HTTP surface of the intake service.
type Server struct {
	engine     *engine.Engine
	admin      AdminStore
	searcher   Searcher
	pingers    map[string]Pinger
	modelsUp   func() []string
	cfg        config.ServerConfig
	logger     logger.Logger
	errHandler *commonerrors.ErrorHandler
}

func New(
	eng *engine.Engine,
	admin AdminStore,
	searcher Searcher,
	pingers map[string]Pinger,
	modelsUp func() []string,
	cfg config.ServerConfig,
	log logger.Logger,
) *Server {
	return &Server{
		engine:     eng,
		admin:      admin,
		searcher:   searcher,
		pingers:    pingers,
		modelsUp:   modelsUp,
		cfg:        cfg,
		logger:     log,
		errHandler: commonerrors.NewErrorHandler(log),
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.handleProducts)
		r.Post("/chat/start", s.handleChatStart)
		r.Post("/chat/message", s.handleChatMessage)
		r.Get("/session/{sessionID}", s.handleSessionInfo)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.adminAuth)
			r.Get("/stats", s.handleAdminStats)
			r.Get("/applications", s.handleAdminApplications)
			r.Get("/search", s.handleAdminSearch)
		})
	})

	return r
}

// HTTPServer wraps the router in a configured http.Server.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Router(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Millisecond,
	}
}

// adminAuth gates the admin routes behind a static bearer token.
func (s *Server) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminToken == "" || r.Header.Get("Authorization") != "Bearer "+s.cfg.AdminToken {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"missing or invalid admin token"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
