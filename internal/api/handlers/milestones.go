// milestones.go — обработчики вех проекта и заметок.
// Дерево features присылается одним куском и заменяет хранимое целиком.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime/types"

	apierrors "github.com/arturkryukov/staffstore/employee-module/internal/api/errors"
	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
	"github.com/arturkryukov/staffstore/employee-module/internal/service"
)

// milestoneRequest — запрос создания или обновления вехи.
type milestoneRequest struct {
	Title    string                   `json:"title"`
	DueDate  *types.Date              `json:"dueDate"`
	Features []model.MilestoneFeature `json:"features"`
}

func (req *milestoneRequest) toService() *service.MilestoneRequest {
	return &service.MilestoneRequest{
		Title:    req.Title,
		DueDate:  fromDate(req.DueDate),
		Features: req.Features,
	}
}

// CreateMilestone — создание вехи проекта.
func (h *APIHandler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	var req milestoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.milestones.Create(r.Context(), chi.URLParam(r, "id"), req.toService())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMilestoneResponse(m))
}

// ListMilestones — вехи проекта.
func (h *APIHandler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.milestones.ListByProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]*milestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		items = append(items, toMilestoneResponse(m))
	}

	writeJSON(w, http.StatusOK, map[string]any{"milestones": items})
}

// GetMilestone — веха по id.
func (h *APIHandler) GetMilestone(w http.ResponseWriter, r *http.Request) {
	m, err := h.milestones.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMilestoneResponse(m))
}

// UpdateMilestone — обновление вехи. Дерево заменяется целиком,
// заметки не затрагиваются.
func (h *APIHandler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	var req milestoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.milestones.Update(r.Context(), chi.URLParam(r, "id"), req.toService())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMilestoneResponse(m))
}

// DeleteMilestone — удаление вехи.
func (h *APIHandler) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	if err := h.milestones.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Заметки ---

// noteRequest — запрос добавления заметки.
type noteRequest struct {
	Text string `json:"text"`
}

// AddMilestoneNote — добавление заметки к вехе.
func (h *APIHandler) AddMilestoneNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.milestones.AddNote(r.Context(), chi.URLParam(r, "id"), req.Text, requestUsername(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMilestoneResponse(m))
}

// RemoveMilestoneNote — удаление заметки по индексу.
func (h *APIHandler) RemoveMilestoneNote(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		apierrors.ValidationError(w, "индекс заметки должен быть числом")
		return
	}

	m, err := h.milestones.RemoveNote(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMilestoneResponse(m))
}
