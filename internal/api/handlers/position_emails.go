// position_emails.go — обработчики маппинга должностей на адреса уведомлений.
// Ресурс ключуется должностью, а не UUID.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime/types"
)

// positionEmailRequest — запрос создания или обновления маппинга.
type positionEmailRequest struct {
	Position string      `json:"position"`
	Email    types.Email `json:"email"`
}

// ListPositionEmails — все маппинги.
func (h *APIHandler) ListPositionEmails(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.positionEmails.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]*positionEmailResponse, 0, len(mappings))
	for _, pe := range mappings {
		items = append(items, toPositionEmailResponse(pe))
	}

	writeJSON(w, http.StatusOK, map[string]any{"positionEmails": items})
}

// CreatePositionEmail — создание маппинга.
func (h *APIHandler) CreatePositionEmail(w http.ResponseWriter, r *http.Request) {
	var req positionEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pe, err := h.positionEmails.Create(r.Context(), req.Position, string(req.Email))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPositionEmailResponse(pe))
}

// GetPositionEmail — маппинг по должности.
func (h *APIHandler) GetPositionEmail(w http.ResponseWriter, r *http.Request) {
	pe, err := h.positionEmails.Get(r.Context(), chi.URLParam(r, "position"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPositionEmailResponse(pe))
}

// UpdatePositionEmail — обновление адреса для должности.
func (h *APIHandler) UpdatePositionEmail(w http.ResponseWriter, r *http.Request) {
	var req positionEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pe, err := h.positionEmails.Update(r.Context(), chi.URLParam(r, "position"), string(req.Email))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPositionEmailResponse(pe))
}

// DeletePositionEmail — удаление маппинга.
func (h *APIHandler) DeletePositionEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.positionEmails.Delete(r.Context(), chi.URLParam(r, "position")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
