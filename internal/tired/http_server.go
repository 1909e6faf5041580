package tired

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TireMDO-25-26/sizing-core/internal/metrics"
	"github.com/TireMDO-25-26/sizing-core/internal/selector"
	"github.com/TireMDO-25-26/sizing-core/pkg/logger"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
)

type HTTPServer struct {
	mux      *http.ServeMux
	store    *JobStore
	Executor *Executor
	selector *selector.Selector
}

// NewHTTPServer wires the selection API.
func NewHTTPServer(store *JobStore, executor *Executor, sel *selector.Selector) *HTTPServer {
	s := &HTTPServer{
		mux:      http.NewServeMux(),
		store:    store,
		Executor: executor,
		selector: sel,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/selections", s.handleSelections)
	s.mux.HandleFunc("/v1/selections/", s.handleSelectionByID)
	s.mux.HandleFunc("/v1/databook/search", s.handleDatabookSearch)

	return s
}

// WithMetrics mounts the Prometheus endpoint.
func (s *HTTPServer) WithMetrics(c *metrics.Collector) *HTTPServer {
	s.mux.Handle("/metrics", c.Handler())
	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"backend":   s.selector.Backend(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *HTTPServer) handleSelections(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSelection(w, r)
	case http.MethodGet:
		s.handleListSelections(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleSelectionByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/selections/")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "job ID is required")
		return
	}

	if strings.HasSuffix(path, ":stop") {
		jobID := strings.TrimSuffix(path, ":stop")
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleStopSelection(w, jobID)
		return
	}

	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	job, ok := s.store.Get(path)
	if !ok {
		s.writeError(w, http.StatusNotFound, "job not found: "+path)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

// handleCreateSelection handles POST /v1/selections: the job is created
// and started in one call.
func (s *HTTPServer) handleCreateSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID       string              `json:"job_id,omitempty"`
		Requirement *models.Requirement `json:"requirement"`
		Families    []string            `json:"families,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Requirement == nil {
		s.writeError(w, http.StatusBadRequest, "requirement is required")
		return
	}
	if req.Requirement.RequiredLoad <= 0 || req.Requirement.RequiredSpeedIndex <= 0 {
		s.writeError(w, http.StatusBadRequest, "requirement must have positive load and speed index")
		return
	}

	job, err := s.store.Create(req.JobID, *req.Requirement, req.Families, s.selector.Backend())
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			s.writeError(w, http.StatusConflict, err.Error())
		} else {
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	started, err := s.Executor.Start(job.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("selection job created",
		"job_id", started.ID,
		"required_load", req.Requirement.RequiredLoad,
		"required_speed_index", req.Requirement.RequiredSpeedIndex)
	s.writeJSON(w, http.StatusAccepted, map[string]any{"job": started})
}

func (s *HTTPServer) handleListSelections(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > 1000 {
				limit = 1000
			}
		}
	}
	jobs := s.store.List(limit)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

func (s *HTTPServer) handleStopSelection(w http.ResponseWriter, jobID string) {
	job, err := s.Executor.Stop(jobID)
	switch {
	case errors.Is(err, ErrJobNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrJobIDMissing):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.writeJSON(w, http.StatusOK, map[string]any{"job": job})
	}
}

// handleDatabookSearch handles POST /v1/databook/search: the published
// catalog baseline for a requirement.
func (s *HTTPServer) handleDatabookSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req models.Requirement
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.RequiredLoad <= 0 || req.RequiredSpeedIndex <= 0 {
		s.writeError(w, http.StatusBadRequest, "requirement must have positive load and speed index")
		return
	}
	matches, err := s.selector.SearchCatalogs(req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]any{"error": msg})
}
