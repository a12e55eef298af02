package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	htmx "github.com/angelofallars/htmx-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-widgettweaks"
	"github.com/goliatone/go-widgettweaks/pkg/forms"
	"github.com/goliatone/go-widgettweaks/pkg/render/template/pongo"
)

const (
	pageTemplate      = "page"
	fieldTemplate     = "field"
	fieldTargetPrefix = "field-"
)

// FormFunc builds a fresh, unbound form for one request.
type FormFunc func() (*forms.Form, error)

// Option configures a Server.
type Option func(*config)

type config struct {
	logger     *zap.Logger
	templates  fs.FS
	registry   *prometheus.Registry
	title      string
	errorClass string
	inputClass string
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithTemplates replaces the embedded page.html and field.html templates.
func WithTemplates(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithMetricsRegistry collects metrics in reg instead of a private registry.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(cfg *config) {
		if reg != nil {
			cfg.registry = reg
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		cfg.title = strings.TrimSpace(title)
	}
}

// WithClasses sets the CSS classes the field template adds to every widget
// and to widgets of invalid fields.
func WithClasses(input, invalid string) Option {
	return func(cfg *config) {
		cfg.inputClass = input
		cfg.errorClass = invalid
	}
}

// Server previews a form: GET renders it, POST binds and re-renders it with
// errors, and htmx requests targeting "field-<name>" receive only that
// field.
type Server struct {
	newForm FormFunc
	engine  *pongo.Engine
	logger  *zap.Logger
	metrics *metrics
	handler http.Handler
	title   string
}

// New constructs a Server.
func New(newForm FormFunc, options ...Option) (*Server, error) {
	if newForm == nil {
		return nil, errors.New("server: form constructor is required")
	}

	cfg := &config{
		logger:     zap.NewNop(),
		title:      "Form preview",
		inputClass: "input",
		errorClass: "is-invalid",
	}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.templates == nil {
		cfg.templates = widgettweaks.PreviewTemplates()
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}

	engine, err := pongo.New(
		pongo.WithFS(cfg.templates),
		pongo.WithGlobalData(map[string]any{
			"inputClass": cfg.inputClass,
			"errorClass": cfg.errorClass,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("server: template engine: %w", err)
	}
	m, err := newMetrics(cfg.registry)
	if err != nil {
		return nil, fmt.Errorf("server: register metrics: %w", err)
	}

	s := &Server{
		newForm: newForm,
		engine:  engine,
		logger:  cfg.logger,
		metrics: m,
		title:   cfg.title,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/", s.handleForm)
	r.Post("/", s.handleForm)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.registry, promhttp.HandlerOpts{}))
	s.handler = r

	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.newForm()
	if err != nil {
		s.fail(w, "page", fmt.Errorf("build form: %w", err))
		return
	}

	status := http.StatusOK
	submitted := false
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		if err := form.Bind(r.PostForm); err != nil {
			s.logger.Debug("validation failed", zap.Error(err))
			if !htmx.IsHTMX(r) {
				status = http.StatusUnprocessableEntity
			}
		} else {
			submitted = true
		}
	}

	if name, ok := fieldTarget(r); ok {
		field := form.BoundField(name)
		if field == nil {
			http.Error(w, fmt.Sprintf("unknown field %q", name), http.StatusNotFound)
			return
		}
		s.render(w, "fragment", fieldTemplate, status, map[string]any{"field": field})
		return
	}

	s.render(w, "page", pageTemplate, status, map[string]any{
		"title":     s.title,
		"form":      form.Context(),
		"fields":    form.Fields(),
		"submitted": submitted,
	})
}

// fieldTarget reports the field named by an htmx request's HX-Target.
func fieldTarget(r *http.Request) (string, bool) {
	if !htmx.IsHTMX(r) {
		return "", false
	}
	target, ok := htmx.GetTarget(r)
	if !ok {
		return "", false
	}
	target = strings.TrimPrefix(target, "#")
	if !strings.HasPrefix(target, fieldTargetPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(target, fieldTargetPrefix)
	return name, name != ""
}

func (s *Server) render(w http.ResponseWriter, view, name string, status int, data map[string]any) {
	start := time.Now()
	out, err := s.engine.RenderTemplate(name, data)
	s.metrics.duration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	if err != nil {
		s.fail(w, view, err)
		return
	}
	s.metrics.renders.WithLabelValues(view, "ok").Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(out)); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, view string, err error) {
	s.metrics.renders.WithLabelValues(view, "error").Inc()
	s.logger.Error("render failed", zap.String("view", view), zap.Error(err))
	http.Error(w, "render failed", http.StatusInternalServerError)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Bool("htmx", htmx.IsHTMX(r)),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
