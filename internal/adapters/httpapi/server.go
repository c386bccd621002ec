// Package httpapi expone el scanner por HTTP: health, último scan, scans bajo
// demanda, histórico y métricas.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/metrics"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Scanner es lo que la API necesita del servicio de scan.
type Scanner interface {
	Scan(ctx context.Context, stake, minEdge float64) domain.ScanReport
	Latest() (domain.ScanReport, bool)
}

// Server agrupa el router y sus dependencias.
type Server struct {
	scanner Scanner
	history ports.Storage // opcional
	metrics *metrics.Manager
	stake   float64
	minEdge float64
	router  chi.Router
}

// Config contiene los defaults de los scans bajo demanda.
type Config struct {
	Stake   float64
	MinEdge float64
}

// NewServer construye el router. history y m pueden ser nil.
func NewServer(cfg Config, s Scanner, history ports.Storage, m *metrics.Manager) *Server {
	srv := &Server{
		scanner: s,
		history: history,
		metrics: m,
		stake:   cfg.Stake,
		minEdge: cfg.MinEdge,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(srv.observe)

	r.Get("/health", srv.health)
	r.Handle("/metrics", m.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/opportunities", srv.latest)
		r.Post("/scan", srv.scan)
		r.Get("/history", srv.historyRange)
	})

	srv.router = r
	return srv
}

// ServeHTTP implementa http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe sirve en addr hasta que ctx se cancele.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http api listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpapi.ListenAndServe: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("httpapi.ListenAndServe: shutdown: %w", err)
		}
		slog.Info("http api stopped")
		return nil
	}
}

// observe registra cada request en métricas con el patrón de ruta de chi.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveHTTP(route, r.Method, status, time.Since(start))
	})
}
