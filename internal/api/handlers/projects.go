// projects.go — обработчики проектов и участников.
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime/types"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
	"github.com/arturkryukov/staffstore/employee-module/internal/service"
)

// projectRequest — запрос создания или обновления проекта.
type projectRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	OwnerID     string      `json:"ownerId"`
	StartDate   *types.Date `json:"startDate"`
	EndDate     *types.Date `json:"endDate"`
}

func (req *projectRequest) toService() *service.ProjectRequest {
	return &service.ProjectRequest{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		OwnerID:     req.OwnerID,
		StartDate:   fromDate(req.StartDate),
		EndDate:     fromDate(req.EndDate),
	}
}

// projectListResponse — страница списка проектов.
type projectListResponse struct {
	Projects []*projectResponse `json:"projects"`
	Total    int                `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// ListProjects — список проектов. Query: status, limit, offset.
func (h *APIHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationFromQuery(r)

	projects, total, err := h.projects.List(r.Context(), queryString(r, "status"), limit, offset)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]*projectResponse, 0, len(projects))
	for _, p := range projects {
		items = append(items, toProjectResponse(p))
	}

	writeJSON(w, http.StatusOK, projectListResponse{
		Projects: items,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

// CreateProject — создание проекта.
func (h *APIHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.projects.Create(r.Context(), req.toService())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(p))
}

// GetProject — проект по id.
func (h *APIHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// UpdateProject — обновление проекта.
func (h *APIHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.projects.Update(r.Context(), chi.URLParam(r, "id"), req.toService())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// DeleteProject — удаление проекта.
func (h *APIHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Участники проекта ---

// memberRequest — запрос добавления участника.
type memberRequest struct {
	EmployeeID string `json:"employeeId"`
	Role       string `json:"role"`
}

// memberResponse — участие сотрудника в проекте.
type memberResponse struct {
	ProjectID  string    `json:"projectId"`
	EmployeeID string    `json:"employeeId"`
	Role       string    `json:"role"`
	AddedAt    time.Time `json:"addedAt"`
}

func toMemberResponse(m *model.ProjectMember) *memberResponse {
	return &memberResponse{
		ProjectID:  m.ProjectID,
		EmployeeID: m.EmployeeID,
		Role:       m.Role,
		AddedAt:    m.AddedAt,
	}
}

// AddProjectMember — добавление сотрудника в проект.
func (h *APIHandler) AddProjectMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.projects.AddMember(r.Context(), chi.URLParam(r, "id"), req.EmployeeID, req.Role)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(m))
}

// ListProjectMembers — участники проекта.
func (h *APIHandler) ListProjectMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.projects.ListMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]*memberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, toMemberResponse(m))
	}

	writeJSON(w, http.StatusOK, map[string]any{"members": items})
}

// RemoveProjectMember — исключение сотрудника из проекта.
func (h *APIHandler) RemoveProjectMember(w http.ResponseWriter, r *http.Request) {
	err := h.projects.RemoveMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "employeeId"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
