// Package api exposes the hub and its engines over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/justinas/alice"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/mrz1836/olympus/internal/hub"
)

// readHeaderTimeout bounds slow clients.
const readHeaderTimeout = 10 * time.Second

type errorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP front end of a Hub.
type Server struct {
	hub    *hub.Hub
	server *http.Server
	logger zerolog.Logger
}

// New builds the router for h and binds it to addr.
func New(h *hub.Hub, addr string, logger zerolog.Logger) *Server {
	s := &Server{hub: h, logger: logger}

	r := chi.NewRouter()
	r.Use(logMiddleware(logger))

	r.Get("/status", s.getStatus)

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", s.createTask)
		r.Post("/run", s.runTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getTask)
			r.Get("/events", s.getTaskEvents)
			r.Post("/parse", s.parseTask)
			r.Post("/claw", s.formClaw)
			r.Post("/execute", s.executeTask)
			r.Post("/deliver", s.deliverTask)
		})
	})

	r.Route("/agents", func(r chi.Router) {
		r.Get("/", s.listAgents)
		r.Post("/", s.registerAgent)
		r.Get("/{id}", s.getAgent)
	})

	r.Get("/patterns", s.listPatterns)
	r.Get("/rules", s.listRules)
	r.Get("/adaptive/stats", s.adaptiveStats)

	r.Route("/evolution", func(r chi.Router) {
		r.Post("/patterns", s.discoverPatterns)
		r.Post("/rules", s.optimizeRules)
		r.Get("/history", s.evolutionHistory)
	})

	s.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Stop is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("http server starting")
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}

func logMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	c := alice.New()
	c = c.Append(hlog.NewHandler(logger))
	c = c.Append(hlog.RemoteAddrHandler("ip"))
	c = c.Append(hlog.UserAgentHandler("agent"))
	c = c.Append(hlog.RefererHandler("referer"))
	c = c.Append(hlog.RequestIDHandler("req_id", "Request-Id"))
	c = c.Append(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("verb", r.Method).
			Stringer("url", r.URL).
			Int("size", size).
			Int("status", status).
			Int64("duration", duration.Milliseconds()).
			Msg("REQ")
	}))

	return c.Then
}

func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	respond(w, r, status, errorResponse{Error: err.Error()})
}
