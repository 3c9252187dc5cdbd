// Package server exposes the report pipeline over HTTP. Every request is an
// independent run: the upload is decoded, analyzed and discarded.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/MabelHsu/ig-fb-view-analyzer/internal/analysis"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/exporter"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/logging"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/parser"
)

// Config holds what the handlers need from the global configuration.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	Options        analysis.Options
	// Now is injectable for default date ranges in tests.
	Now func() time.Time
}

// Server wires the handlers, metrics and logger.
type Server struct {
	cfg     Config
	metrics *Metrics
	logger  *slog.Logger
}

// New creates a server. A nil logger uses slog.Default().
func New(cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Server{
		cfg:     cfg,
		metrics: NewMetrics(),
		logger:  logger.With(slog.String("component", "server")),
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", s.metrics.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.analyze)
		r.Post("/analyze/export", s.export)
		r.Post("/inspect", s.inspect)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r = r.WithContext(logging.WithRunID(r.Context(), logging.NewRunID()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.InfoContext(r.Context(), "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// health handles GET /healthz
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// analyze handles POST /api/v1/analyze
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.run(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, rep)
}

// export handles POST /api/v1/analyze/export
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.run(w, r)
	if !ok {
		return
	}
	if rep.Warning != nil {
		render.Render(w, r, &APIError{
			StatusCode: http.StatusConflict,
			ErrorCode:  "EMPTY_RESULT",
			Message:    rep.Warning.Message,
			Artifact:   string(rep.Warning.Stage),
		})
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exporter.DefaultCSVName))
	if err := exporter.WriteDetailCSV(w, rep.Detail); err != nil {
		s.logger.ErrorContext(r.Context(), "export failed", slog.String("error", err.Error()))
	}
}

// inspect handles POST /api/v1/inspect
func (s *Server) inspect(w http.ResponseWriter, r *http.Request) {
	name, data, err := s.readUpload(w, r)
	if err != nil {
		render.Render(w, r, errorFor(err))
		return
	}
	tbl, err := parser.Parse(name, data, parser.Options{Sheet: r.FormValue("sheet")})
	if err != nil {
		render.Render(w, r, errorFor(err))
		return
	}
	render.JSON(w, r, analysis.Inspect(tbl, s.cfg.Options.PreferredViewColumn))
}

// run decodes the upload and executes one analysis. On failure it writes
// the error response and returns ok=false.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (*analysis.Report, bool) {
	started := time.Now()
	log := s.logger.With(slog.String("run_id", logging.RunID(r.Context())))

	fail := func(err error, rows int) (*analysis.Report, bool) {
		s.metrics.Observe(OutcomeError, rows, time.Since(started))
		log.Warn("run failed", slog.String("error_code", analysis.ErrorCode(err)), slog.String("error", err.Error()))
		render.Render(w, r, errorFor(err))
		return nil, false
	}

	name, data, err := s.readUpload(w, r)
	if err != nil {
		return fail(err, 0)
	}
	tbl, err := parser.Parse(name, data, parser.Options{Sheet: r.FormValue("sheet")})
	if err != nil {
		return fail(err, 0)
	}

	opt := s.cfg.Options
	opt.Logger = log
	clock, err := analysis.NewClock(opt.Timezone, opt.NaiveLocal)
	if err != nil {
		return fail(&analysis.ConfigError{Field: "timezone", Message: err.Error()}, tbl.Len())
	}
	req, err := analysis.NewRequest(r.FormValue("start"), r.FormValue("end"),
		r.FormValue("platform"), r.FormValue("views"), s.cfg.Now(), clock.Local)
	if err != nil {
		return fail(err, tbl.Len())
	}
	rep, err := analysis.Run(tbl, req, opt)
	if err != nil {
		return fail(err, tbl.Len())
	}

	outcome := OutcomeOK
	if rep.Warning != nil {
		outcome = OutcomeWarning
	}
	s.metrics.Observe(outcome, tbl.Len(), time.Since(started))
	log.Info("run finished", slog.String("outcome", outcome), slog.String("file", name))
	return rep, true
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, &analysis.ConfigError{Field: "file", Message: fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadBytes)}
		}
		return "", nil, &analysis.ConfigError{Field: "file", Message: "expected a multipart form with a file field"}
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return "", nil, &analysis.ConfigError{Field: "file", Message: "missing file field"}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, &analysis.DecodeError{Name: hdr.Filename, Err: err}
	}
	return hdr.Filename, data, nil
}
