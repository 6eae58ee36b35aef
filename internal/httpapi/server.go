package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// maxBodySize limits request bodies.
const maxBodySize = 64 << 10

// Server serves the control API for one presenter.
type Server struct {
	presenter *toast.Presenter
	logger    *slog.Logger

	metrics       http.Handler
	defaultScreen func() model.ScreenID
	defaults      func() []model.Option

	router     chi.Router
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithDefaultScreen selects the screen used when a request names none.
func WithDefaultScreen(fn func() model.ScreenID) Option {
	return func(s *Server) {
		s.defaultScreen = fn
	}
}

// WithDescriptorDefaults supplies the options applied before request fields.
func WithDescriptorDefaults(fn func() []model.Option) Option {
	return func(s *Server) {
		s.defaults = fn
	}
}

// New creates a Server for p.
func New(p *toast.Presenter, opts ...Option) *Server {
	s := &Server{
		presenter:     p,
		logger:        slog.Default(),
		defaultScreen: func() model.ScreenID { return "" },
		defaults:      func() []model.Option { return nil },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/toasts", s.handleShow)
		r.Delete("/toasts", s.handleClear)
		r.Delete("/toasts/{id}", s.handleCancel)
		r.Post("/screens/{screen}/dismiss", s.handleDismissScreen)
		r.Post("/dismiss", s.handleDismiss)
		r.Get("/status", s.handleStatus)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on l until Shutdown is called. After
// Shutdown it returns immediately.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("HTTP API listening", "addr", l.Addr().String())
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and serves the API.
func (s *Server) ListenAndServe(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	var req ToastRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	screen, err := s.resolveScreen(req.Screen)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	reqOpts, length, err := req.options()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	wait := r.URL.Query().Get("wait") == "true"
	done := make(chan model.Reason, 1)
	skipped := make(chan error, 1)

	opts := append(s.defaults(), reqOpts...)
	if wait {
		opts = append(opts,
			model.WithCompletion(func(reason model.Reason) { done <- reason }),
			model.WithSkipHandler(func(err error) { skipped <- err }),
		)
	}

	d, err := model.NewDescriptor(screen, req.Message, opts...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, err := s.presenter.Show(d, length)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := ToastResponse{ID: id}
	if wait {
		select {
		case reason := <-done:
			resp.Reason = reason.String()
		case err := <-skipped:
			writeError(w, http.StatusGone, fmt.Errorf("toast %s was not presented: %w", id, err))
			return
		case <-r.Context().Done():
			return
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) resolveScreen(ref string) (model.ScreenID, error) {
	if ref == "" {
		if id := s.defaultScreen(); id != "" {
			return id, nil
		}
		screens := s.presenter.Screens().Screens()
		if len(screens) == 0 {
			return "", toast.ErrScreenNotFound
		}
		return screens[0].ID, nil
	}
	screen, ok := s.presenter.Screens().Find(ref)
	if !ok {
		return "", toast.ErrScreenNotFound
	}
	return screen.ID, nil
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.presenter.Cancel(id) {
		writeError(w, http.StatusNotFound, errors.New("toast not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ClearResponse{Cleared: s.presenter.Clear()})
}

func (s *Server) handleDismissScreen(w http.ResponseWriter, r *http.Request) {
	screen, ok := s.presenter.Screens().Find(chi.URLParam(r, "screen"))
	if !ok {
		writeError(w, http.StatusNotFound, toast.ErrScreenNotFound)
		return
	}
	writeJSON(w, http.StatusOK, DismissResponse{Dismissed: s.presenter.Dismiss(screen.ID)})
}

func (s *Server) handleDismiss(w http.ResponseWriter, _ *http.Request) {
	var dismissed bool
	if screen := s.defaultScreen(); screen != "" {
		dismissed = s.presenter.Dismiss(screen)
	} else {
		dismissed = s.presenter.DismissActive()
	}
	writeJSON(w, http.StatusOK, DismissResponse{Dismissed: dismissed})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.presenter.Status())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
