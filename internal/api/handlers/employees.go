// employees.go — обработчики учётных записей сотрудников.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime/types"

	"github.com/arturkryukov/staffstore/employee-module/internal/service"
)

// createEmployeeRequest — запрос создания сотрудника.
type createEmployeeRequest struct {
	KeycloakUserID string      `json:"keycloakUserId"`
	Username       string      `json:"username"`
	Email          types.Email `json:"email"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName"`
}

// employeeListResponse — страница списка сотрудников.
type employeeListResponse struct {
	Employees []*employeeResponse `json:"employees"`
	Total     int                 `json:"total"`
	Limit     int                 `json:"limit"`
	Offset    int                 `json:"offset"`
}

// ListEmployees — список сотрудников с пагинацией.
// Query: active (true/false), limit, offset.
func (h *APIHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationFromQuery(r)

	var active *bool
	switch r.URL.Query().Get("active") {
	case "true":
		v := true
		active = &v
	case "false":
		v := false
		active = &v
	}

	employees, total, err := h.employees.List(r.Context(), active, limit, offset)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]*employeeResponse, 0, len(employees))
	for _, e := range employees {
		items = append(items, toEmployeeResponse(e, nil))
	}

	writeJSON(w, http.StatusOK, employeeListResponse{
		Employees: items,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	})
}

// CreateEmployee — создание сотрудника с пустой анкетой.
func (h *APIHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e, err := h.employees.Create(r.Context(), &service.CreateEmployeeRequest{
		KeycloakUserID: req.KeycloakUserID,
		Username:       req.Username,
		Email:          string(req.Email),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeResponse(e, nil))
}

// GetEmployee — сотрудник с анкетой по id.
func (h *APIHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, p, err := h.employees.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(e, p))
}

// setActiveRequest — запрос смены флага активности.
type setActiveRequest struct {
	Active bool `json:"active"`
}

// SetEmployeeActive — активация или деактивация сотрудника.
func (h *APIHandler) SetEmployeeActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.employees.SetActive(r.Context(), chi.URLParam(r, "id"), req.Active); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "статус сотрудника обновлён"})
}

// roleOverrideRequest — запрос установки дополнительной роли.
type roleOverrideRequest struct {
	Role string `json:"role"`
}

// SetRoleOverride — установка локального дополнения роли.
func (h *APIHandler) SetRoleOverride(w http.ResponseWriter, r *http.Request) {
	var req roleOverrideRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	createdBy := requestUsername(r)
	if err := h.employees.SetRoleOverride(r.Context(), chi.URLParam(r, "id"), req.Role, createdBy); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "дополнительная роль установлена"})
}

// DeleteRoleOverride — снятие локального дополнения роли.
func (h *APIHandler) DeleteRoleOverride(w http.ResponseWriter, r *http.Request) {
	if err := h.employees.DeleteRoleOverride(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
