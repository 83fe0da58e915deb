// Package todoisttest provides an in-memory fake of the Todoist REST v2 API
// for tests, with per-route failure injection.
package todoisttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dori/doist/internal/model"
	"github.com/go-chi/chi/v5"
)

// Token is the bearer token the fake accepts
const Token = "test-token"

// Request is a request the fake received
type Request struct {
	Method string
	Path   string
	Body   string
}

type failure struct {
	method string
	prefix string
	status int
}

// Server is a fake Todoist API
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int
	projects []model.Project
	tasks    map[string]model.Task
	order    []string
	closed   map[string]model.Task
	failures []failure
	requests []Request
}

// NewServer starts a fake API. Call Close when done.
func NewServer() *Server {
	s := &Server{
		nextID: 1000,
		tasks:  make(map[string]model.Task),
		closed: make(map[string]model.Task),
	}

	r := chi.NewRouter()
	r.Use(s.record, s.auth, s.inject)
	r.Get("/projects", s.listProjects)
	r.Post("/projects", s.createProject)
	r.Get("/projects/{id}", s.getProject)
	r.Post("/projects/{id}", s.updateProject)
	r.Delete("/projects/{id}", s.deleteProject)
	r.Get("/tasks", s.listTasks)
	r.Post("/tasks", s.createTask)
	r.Get("/tasks/{id}", s.getTask)
	r.Post("/tasks/{id}", s.updateTask)
	r.Delete("/tasks/{id}", s.deleteTask)
	r.Post("/tasks/{id}/close", s.closeTask)
	r.Post("/tasks/{id}/reopen", s.reopenTask)

	s.Server = httptest.NewServer(r)
	return s
}

// Fail makes every request whose method matches and whose path starts with
// prefix answer with status, until ClearFailures is called
func (s *Server) Fail(method, prefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, prefix: prefix, status: status})
}

// ClearFailures removes all injected failures
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = nil
}

// AddProject seeds a project and returns it
func (s *Server) AddProject(name string, inbox bool) model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Project{
		ID:             s.newID(),
		Name:           name,
		Order:          len(s.projects),
		IsInboxProject: inbox,
	}
	s.projects = append(s.projects, p)
	return p
}

// AddTask seeds a task (its ID is assigned) and returns it
func (s *Server) AddTask(t model.Task) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.newID()
	if t.Priority == 0 {
		t.Priority = model.PriorityNormal
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
	s.putTask(t)
	return t
}

// Task returns an active task by ID
func (s *Server) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	return t, ok
}

// Tasks returns all active tasks in creation order
func (s *Server) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out
}

// IsClosed reports whether the task was completed
func (s *Server) IsClosed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.closed[id]
	return ok
}

// Requests returns received requests, optionally only those with method
func (s *Server) Requests(method string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if method == "" || r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

// ResetRequests clears the request log
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) newID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

func (s *Server) putTask(t model.Task) {
	if _, exists := s.tasks[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.tasks[t.ID] = t
}

func (s *Server) removeTask(id string) {
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Server) inboxID() string {
	for _, p := range s.projects {
		if p.IsInbox() {
			return p.ID
		}
	}
	return ""
}

// Middleware

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeError(w, http.StatusUnauthorized, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := 0
		for _, f := range s.failures {
			if f.method == r.Method && strings.HasPrefix(r.URL.Path, f.prefix) {
				status = f.status
				break
			}
		}
		s.mu.Unlock()
		if status != 0 {
			writeError(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Projects

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]model.Project(nil), s.projects...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) projectIndex(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, s.projects[i])
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Project{ID: s.newID(), Name: body.Name, Color: body.Color, Order: len(s.projects)}
	s.projects = append(s.projects, p)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var patch model.ProjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if patch.Name != nil {
		s.projects[i].Name = *patch.Name
	}
	if patch.Color != nil {
		s.projects[i].Color = *patch.Color
	}
	writeJSON(w, http.StatusOK, s.projects[i])
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	i := s.projectIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	for _, tid := range append([]string(nil), s.order...) {
		if s.tasks[tid].ProjectID == id {
			s.removeTask(tid)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tasks

type taskBody struct {
	Content     *string         `json:"content"`
	Description *string         `json:"description"`
	ProjectID   *string         `json:"project_id"`
	Priority    *model.Priority `json:"priority"`
	DueString   *string         `json:"due_string"`
	Labels      *[]string       `json:"labels"`
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Tasks())
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	t, ok := s.Task(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Content == nil || *body.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := model.Task{ID: s.newID(), Content: *body.Content, Priority: model.PriorityNormal, Labels: []string{}}
	if body.ProjectID != nil && *body.ProjectID != "" {
		if s.projectIndex(*body.ProjectID) < 0 {
			writeError(w, http.StatusBadRequest, "Invalid project_id")
			return
		}
		t.ProjectID = *body.ProjectID
	} else {
		t.ProjectID = s.inboxID()
	}
	applyTaskBody(&t, body)
	s.putTask(t)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if body.Content != nil {
		t.Content = *body.Content
	}
	// Like the real API, project_id is ignored on update
	applyTaskBody(&t, body)
	s.tasks[t.ID] = t
	writeJSON(w, http.StatusOK, t)
}

func applyTaskBody(t *model.Task, body taskBody) {
	if body.Description != nil {
		t.Description = *body.Description
	}
	if body.Priority != nil && *body.Priority != 0 {
		t.Priority = *body.Priority
	}
	if body.Labels != nil {
		t.Labels = append([]string{}, (*body.Labels)...)
	}
	if body.DueString != nil {
		if *body.DueString == "" || *body.DueString == "no date" {
			t.Due = nil
		} else {
			t.Due = &model.Due{String: *body.DueString}
		}
	}
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := s.tasks[id]; !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	s.removeTask(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) closeTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	t, ok := s.tasks[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	t.IsCompleted = true
	s.closed[id] = t
	s.removeTask(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reopenTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	t, ok := s.closed[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	delete(s.closed, id)
	t.IsCompleted = false
	s.putTask(t)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
