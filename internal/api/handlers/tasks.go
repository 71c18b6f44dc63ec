// tasks.go — обработчики задач.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime/types"

	"github.com/arturkryukov/staffstore/employee-module/internal/service"
)

// taskRequest — запрос создания или обновления задачи.
type taskRequest struct {
	ProjectID   *string     `json:"projectId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	AssigneeID  *string     `json:"assigneeId"`
	DueDate     *types.Date `json:"dueDate"`
}

func (req *taskRequest) toService() *service.TaskRequest {
	return &service.TaskRequest{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AssigneeID:  req.AssigneeID,
		DueDate:     fromDate(req.DueDate),
	}
}

// ListTasks — список задач.
// Query: projectId, assigneeId, status, limit, offset.
func (h *APIHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationFromQuery(r)

	tasks, err := h.tasks.List(r.Context(),
		queryString(r, "projectId"),
		queryString(r, "assigneeId"),
		queryString(r, "status"),
		limit, offset)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]*taskResponse, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, toTaskResponse(t))
	}

	writeJSON(w, http.StatusOK, map[string]any{"tasks": items})
}

// CreateTask — создание задачи.
func (h *APIHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := h.tasks.Create(r.Context(), req.toService(), requestUsername(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(t))
}

// GetTask — задача по id.
func (h *APIHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

// UpdateTask — обновление задачи.
func (h *APIHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := h.tasks.Update(r.Context(), chi.URLParam(r, "id"), req.toService())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

// DeleteTask — удаление задачи.
func (h *APIHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
