// profile.go — обработчики личного кабинета и частичного обновления анкеты.
// PATCH-запрос несёт плоский объект кандидатов; что из него фактически
// запишется, решает reconciler в сервисном слое.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime/types"

	apierrors "github.com/arturkryukov/staffstore/employee-module/internal/api/errors"
	"github.com/arturkryukov/staffstore/employee-module/internal/api/middleware"
	"github.com/arturkryukov/staffstore/employee-module/internal/service"
)

// profileUpdateRequest — кандидаты частичного обновления анкеты.
// Отсутствующее поле (null) означает «не предлагается».
type profileUpdateRequest struct {
	FirstName        *string     `json:"firstName"`
	LastName         *string     `json:"lastName"`
	Department       *string     `json:"department"`
	Position         *string     `json:"position"`
	Salary           *float64    `json:"salary"`
	HireDate         *types.Date `json:"hireDate"`
	Skills           []string    `json:"skills"`
	Phone            *string     `json:"phone"`
	Address          *string     `json:"address"`
	EmergencyContact *string     `json:"emergencyContact"`
	CompleteProfile  bool        `json:"completeProfile"`
}

// profileUpdateResponse — итог частичного обновления.
type profileUpdateResponse struct {
	Message            string            `json:"message"`
	Employee           *employeeResponse `json:"employee"`
	ChangedFields      []string          `json:"changedFields"`
	PermissionsRevoked bool              `json:"permissionsRevoked"`
}

// GetMe — учётная запись и анкета текущего пользователя.
func (h *APIHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "требуется аутентификация")
		return
	}

	e, p, err := h.employees.GetByKeycloakUserID(r.Context(), claims.Subject)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(e, p))
}

// UpdateMyProfile — частичное обновление собственной анкеты.
func (h *APIHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "требуется аутентификация")
		return
	}

	e, _, err := h.employees.GetByKeycloakUserID(r.Context(), claims.Subject)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.applyProfileUpdate(w, r, e.ID)
}

// UpdateEmployeeProfile — частичное обновление анкеты сотрудника
// администратором. Проходит через тот же reconciler: завершённая
// анкета и для администратора правится только по разрешению.
func (h *APIHandler) UpdateEmployeeProfile(w http.ResponseWriter, r *http.Request) {
	h.applyProfileUpdate(w, r, chi.URLParam(r, "id"))
}

// applyProfileUpdate разбирает кандидатов и применяет частичное обновление.
func (h *APIHandler) applyProfileUpdate(w http.ResponseWriter, r *http.Request, employeeID string) {
	var req profileUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.profiles.ApplyPartialUpdate(r.Context(), employeeID, &service.ProfileUpdateRequest{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Department:       req.Department,
		Position:         req.Position,
		Salary:           req.Salary,
		HireDate:         fromDate(req.HireDate),
		Skills:           req.Skills,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		CompleteProfile:  req.CompleteProfile,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	changed := result.ChangedFields
	if changed == nil {
		changed = []string{}
	}
	writeJSON(w, http.StatusOK, profileUpdateResponse{
		Message:            outcomeMessage(result.Outcome),
		Employee:           toEmployeeResponse(result.Employee, result.Profile),
		ChangedFields:      changed,
		PermissionsRevoked: result.GrantConsumed,
	})
}

// GetMyGrant — активное разрешение на правку для текущего пользователя.
func (h *APIHandler) GetMyGrant(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "требуется аутентификация")
		return
	}

	e, _, err := h.employees.GetByKeycloakUserID(r.Context(), claims.Subject)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	g, err := h.grants.GetActive(r.Context(), e.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGrantResponse(g))
}

// outcomeMessage — человекочитаемое сообщение по итогу обновления.
func outcomeMessage(outcome string) string {
	switch outcome {
	case service.OutcomeNoChanges:
		return "изменений нет"
	case service.OutcomePermissionsRevoked:
		return "анкета обновлена, разрешение на правку использовано"
	default:
		return "анкета обновлена"
	}
}
