// Package server exposes the service over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dori/doist/internal/logger"
	"github.com/dori/doist/internal/model"
	"github.com/dori/doist/internal/service"
	"github.com/dori/doist/internal/todoist"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP routes over svc
func NewRouter(svc *service.Service) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLog)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", listProjectsHandler(svc))
		r.Post("/projects", createProjectHandler(svc))
		r.Post("/projects/{id}", updateProjectHandler(svc))
		r.Delete("/projects/{id}", deleteProjectHandler(svc))
		r.Post("/projects/{id}/favorite", toggleFavoriteHandler(svc))

		r.Get("/favorites", listFavoritesHandler(svc))
		r.Delete("/favorites", resetFavoritesHandler(svc))

		r.Get("/tasks", listTasksHandler(svc))
		r.Post("/tasks", createTaskHandler(svc))
		r.Post("/tasks/{id}", updateTaskHandler(svc))
		r.Delete("/tasks/{id}", deleteTaskHandler(svc))
		r.Post("/tasks/{id}/close", taskActionHandler(svc.CompleteTask))
		r.Post("/tasks/{id}/reopen", taskActionHandler(svc.ReopenTask))
		r.Post("/tasks/{id}/move", moveTaskHandler(svc))

		r.Get("/orphans", listOrphansHandler(svc))
		r.Post("/orphans/cleanup", cleanupOrphansHandler(svc))
	})

	return r
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug(r.Context(), "http request",
			"method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start))
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Step  string `json:"step,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(context.Background(), err, "failed to encode response")
	}
}

// writeError maps the service error taxonomy onto HTTP statuses
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		vErr *service.ValidationError
		rErr *service.RelocationError
	)
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: vErr.Field})
	case errors.As(err, &rErr):
		logger.Error(r.Context(), err, "relocation failed", "step", string(rErr.Step))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Step: string(rErr.Step)})
	case todoist.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logger.Error(r.Context(), err, "request failed", "path", r.URL.Path)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func listProjectsHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := svc.ListProjects(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, projects)
	}
}

type createProjectRequest struct {
	Name string `json:"name"`
}

func createProjectHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProjectRequest
		if !decode(w, r, &req) {
			return
		}
		p, err := svc.CreateProject(r.Context(), req.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func updateProjectHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch model.ProjectPatch
		if !decode(w, r, &patch) {
			return
		}
		p, err := svc.UpdateProject(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func deleteProjectHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type toggleFavoriteRequest struct {
	CurrentlyFavorite bool `json:"currently_favorite"`
}

func toggleFavoriteHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req toggleFavoriteRequest
		if !decode(w, r, &req) {
			return
		}
		p, err := svc.FavoriteCandidate(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		toggled, err := svc.ToggleProjectFavorite(r.Context(), *p, req.CurrentlyFavorite)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toggled)
	}
}

func listFavoritesHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := svc.ListFavoriteProjects(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, projects)
	}
}

func resetFavoritesHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ResetFavorites(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listTasksHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var projectID *string
		if r.URL.Query().Has("project_id") {
			id := r.URL.Query().Get("project_id")
			projectID = &id
		}
		tasks, err := svc.ListTasks(r.Context(), projectID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tasks)
	}
}

type createTaskRequest struct {
	Content     string `json:"content"`
	Description string `json:"description"`
	ProjectID   string `json:"project_id"`
}

func createTaskHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTaskRequest
		if !decode(w, r, &req) {
			return
		}
		t, err := svc.CreateTask(r.Context(), req.ProjectID, req.Content, req.Description)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func updateTaskHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch model.TaskPatch
		if !decode(w, r, &patch) {
			return
		}
		t, err := svc.UpdateTask(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func deleteTaskHandler(svc *service.Service) http.HandlerFunc {
	return taskActionHandler(svc.DeleteTask)
}

// taskActionHandler serves the id-only task operations that answer 204
func taskActionHandler(action func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := action(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type moveTaskRequest struct {
	Destination string `json:"destination"`
}

type moveTaskResponse struct {
	OriginalID string         `json:"original_id"`
	Task       *model.Task    `json:"task"`
	State      string         `json:"state"`
	Warning    *errorResponse `json:"warning,omitempty"`
}

func moveTaskHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveTaskRequest
		if !decode(w, r, &req) {
			return
		}
		rel, err := svc.RelocateTask(r.Context(), chi.URLParam(r, "id"), req.Destination)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := moveTaskResponse{
			OriginalID: rel.OriginalID,
			Task:       rel.Task,
			State:      rel.State.String(),
		}
		if rel.Warning != nil {
			resp.Warning = &errorResponse{Error: rel.Warning.Error(), Step: string(rel.Warning.Step)}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func listOrphansHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orphans, err := svc.ListOrphans(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, orphans)
	}
}

func cleanupOrphansHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.CleanupOrphans(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
