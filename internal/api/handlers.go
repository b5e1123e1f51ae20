package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// errEngineDisabled is returned when the hub runs without an optional engine.
var errEngineDisabled = errors.New("engine not configured")

type runRequest struct {
	domain.TaskRequest

	Feedback string `json:"feedback,omitempty"`
}

type taskCreated struct {
	TaskID string `json:"task_id"`
}

type parseResponse struct {
	TaskID   string           `json:"task_id"`
	Subtasks []domain.Subtask `json:"subtasks"`
}

type discoverRequest struct {
	MinSuccesses int `json:"min_successes"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, olyerrors.ErrTaskNotFound),
		errors.Is(err, olyerrors.ErrAgentNotFound),
		errors.Is(err, olyerrors.ErrPatternNotFound),
		errors.Is(err, olyerrors.ErrRuleNotFound):
		return http.StatusNotFound
	case errors.Is(err, olyerrors.ErrInvalidTransition),
		errors.Is(err, olyerrors.ErrTeamNotAssigned):
		return http.StatusConflict
	case errors.Is(err, olyerrors.ErrEmptyDescription),
		errors.Is(err, olyerrors.ErrInvalidPriority),
		errors.Is(err, olyerrors.ErrEmptyValue),
		errors.Is(err, olyerrors.ErrInvalidKey),
		errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, errEngineDisabled),
		errors.Is(err, olyerrors.ErrCollaboratorUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var errBadBody = errors.New("unable to parse body")

// decode reads a JSON body into v. An empty body leaves v untouched when
// optional is set.
func decode(r *http.Request, v any, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return errBadBody
	}
	err := render.DecodeJSON(r.Body, v)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	return nil
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, s.hub.Status())
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req domain.TaskRequest
	if err := decode(r, &req, false); err != nil {
		respondError(w, r, err)
		return
	}
	id, err := s.hub.Receive(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, taskCreated{TaskID: id})
}

func (s *Server) runTask(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := decode(r, &req, false); err != nil {
		respondError(w, r, err)
		return
	}
	res, err := s.hub.Run(r.Context(), req.TaskRequest, req.Feedback)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if res.Claw.Error != "" {
		respond(w, r, http.StatusUnprocessableEntity, res)
		return
	}
	respond(w, r, http.StatusOK, res)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	view, err := s.hub.TaskStatus(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view)
}

func (s *Server) getTaskEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.hub.TaskStatus(id); err != nil {
		respondError(w, r, err)
		return
	}
	events, err := s.hub.Events().TaskLogs(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, events)
}

func (s *Server) parseTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	subtasks, err := s.hub.Parse(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, parseResponse{TaskID: id, Subtasks: subtasks})
}

func (s *Server) formClaw(w http.ResponseWriter, r *http.Request) {
	res, err := s.hub.FormClaw(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !res.OK() {
		respond(w, r, http.StatusUnprocessableEntity, res)
		return
	}
	respond(w, r, http.StatusOK, res)
}

func (s *Server) executeTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.hub.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, task)
}

func (s *Server) deliverTask(w http.ResponseWriter, r *http.Request) {
	var d domain.Delivery
	if err := decode(r, &d, false); err != nil {
		respondError(w, r, err)
		return
	}
	task, err := s.hub.Deliver(r.Context(), chi.URLParam(r, "id"), d)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, task)
}

func (s *Server) listAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.hub.Memory().Semantic.ListAgents(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, agents)
}

func (s *Server) registerAgent(w http.ResponseWriter, r *http.Request) {
	var p domain.AgentProfile
	if err := decode(r, &p, false); err != nil {
		respondError(w, r, err)
		return
	}
	sem := s.hub.Memory().Semantic
	if err := sem.RegisterAgent(r.Context(), p.ID, p); err != nil {
		respondError(w, r, err)
		return
	}
	stored, err := sem.GetAgentProfile(r.Context(), p.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, stored)
}

func (s *Server) getAgent(w http.ResponseWriter, r *http.Request) {
	p, err := s.hub.Memory().Semantic.GetAgentProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, p)
}

func (s *Server) listPatterns(w http.ResponseWriter, r *http.Request) {
	patterns, err := s.hub.Memory().Semantic.ListPatterns(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, patterns)
}

func (s *Server) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.hub.Memory().Semantic.GetAllRules(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, rules)
}

func (s *Server) adaptiveStats(w http.ResponseWriter, r *http.Request) {
	engine := s.hub.Adaptive()
	if engine == nil {
		respondError(w, r, fmt.Errorf("adaptive %w", errEngineDisabled))
		return
	}
	respond(w, r, http.StatusOK, engine.Stats())
}

func (s *Server) discoverPatterns(w http.ResponseWriter, r *http.Request) {
	engine := s.hub.Evolution()
	if engine == nil {
		respondError(w, r, fmt.Errorf("evolution %w", errEngineDisabled))
		return
	}
	var req discoverRequest
	if err := decode(r, &req, true); err != nil {
		respondError(w, r, err)
		return
	}
	patterns, err := engine.DiscoverPatterns(r.Context(), req.MinSuccesses)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, patterns)
}

func (s *Server) optimizeRules(w http.ResponseWriter, r *http.Request) {
	engine := s.hub.Evolution()
	if engine == nil {
		respondError(w, r, fmt.Errorf("evolution %w", errEngineDisabled))
		return
	}
	rules, err := engine.OptimizeRules(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, rules)
}

func (s *Server) evolutionHistory(w http.ResponseWriter, r *http.Request) {
	engine := s.hub.Evolution()
	if engine == nil {
		respondError(w, r, fmt.Errorf("evolution %w", errEngineDisabled))
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, r, fmt.Errorf("%w: limit must be a non-negative integer", errBadBody))
			return
		}
		limit = n
	}
	history, err := engine.History(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, history)
}
