package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ent0n29/taskapi/internal/tasks"
)

const (
	msgTaskNotFound = "Task not found"
	msgTaskDeleted  = "Task deleted"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.storeFailure(w, r, "list", err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}
	task, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "get", err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readTaskPayload(w, r)
	if !ok {
		return
	}
	task, err := s.store.Insert(r.Context(), req.Title, req.Completed)
	if err != nil {
		s.storeFailure(w, r, "insert", err)
		return
	}
	s.metrics.TaskEvent("created")
	s.logger.Debug("task created", "id", task.ID, "request_id", requestIDFrom(r.Context()))
	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}
	req, ok := s.readTaskPayload(w, r)
	if !ok {
		return
	}
	task, err := s.store.Replace(r.Context(), id, req.Title, req.Completed)
	if err != nil {
		s.storeError(w, r, "replace", err)
		return
	}
	s.metrics.TaskEvent("updated")
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}
	if err := s.store.Remove(r.Context(), id); err != nil {
		s.storeError(w, r, "remove", err)
		return
	}
	s.metrics.TaskEvent("deleted")
	respondText(w, http.StatusOK, msgTaskDeleted)
}

func taskIDParam(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_task_id", "task id must be a non-negative integer")
		return 0, false
	}
	return uint32(id), true
}

func (s *Server) readTaskPayload(w http.ResponseWriter, r *http.Request) (taskPayload, bool) {
	req, err := decodeTaskPayload(r)
	if err != nil {
		code := "invalid_request"
		var be *bodyError
		if errors.As(err, &be) {
			code = be.Code
		}
		respondError(w, http.StatusBadRequest, code, err.Error())
		return taskPayload{}, false
	}
	return req, true
}

// storeError maps ErrTaskNotFound to the fixed 404 body; anything else is a
// backend failure.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, tasks.ErrTaskNotFound) {
		s.metrics.TaskEvent("not_found")
		respondText(w, http.StatusNotFound, msgTaskNotFound)
		return
	}
	s.storeFailure(w, r, op, err)
}

func (s *Server) storeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error("task store failed", "op", op, "err", err, "request_id", requestIDFrom(r.Context()))
	respondError(w, http.StatusInternalServerError, "task_store_failed", "task store unavailable")
}
