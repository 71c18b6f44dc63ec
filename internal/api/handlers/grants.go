// grants.go — обработчики разрешений на правку завершённой анкеты.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arturkryukov/staffstore/employee-module/internal/service"
)

// issueGrantRequest — запрос выдачи разрешения. Ключи в maps —
// имена полей хранилища (first_name, phone, ...).
type issueGrantRequest struct {
	CanEditBasicInfo    bool            `json:"canEditBasicInfo"`
	BasicInfoFields     map[string]bool `json:"basicInfoFields"`
	CanEditPersonalInfo bool            `json:"canEditPersonalInfo"`
	PersonalInfoFields  map[string]bool `json:"personalInfoFields"`
}

// IssueGrant — выдача разрешения сотруднику.
// Предыдущее активное разрешение заменяется.
func (h *APIHandler) IssueGrant(w http.ResponseWriter, r *http.Request) {
	var req issueGrantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, err := h.grants.Issue(r.Context(), chi.URLParam(r, "id"), &service.IssueGrantRequest{
		CanEditBasicInfo:    req.CanEditBasicInfo,
		BasicInfoFields:     req.BasicInfoFields,
		CanEditPersonalInfo: req.CanEditPersonalInfo,
		PersonalInfoFields:  req.PersonalInfoFields,
	}, requestUsername(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGrantResponse(g))
}

// ListGrants — история разрешений сотрудника.
func (h *APIHandler) ListGrants(w http.ResponseWriter, r *http.Request) {
	grants, err := h.grants.ListForEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]*grantResponse, 0, len(grants))
	for _, g := range grants {
		items = append(items, toGrantResponse(g))
	}

	writeJSON(w, http.StatusOK, map[string]any{"grants": items})
}

// GetActiveGrant — активное разрешение сотрудника.
func (h *APIHandler) GetActiveGrant(w http.ResponseWriter, r *http.Request) {
	g, err := h.grants.GetActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGrantResponse(g))
}

// RevokeGrant — отзыв непотреблённого разрешения.
func (h *APIHandler) RevokeGrant(w http.ResponseWriter, r *http.Request) {
	err := h.grants.Revoke(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "grantId"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
