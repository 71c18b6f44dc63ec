// handler.go — основной обработчик API Employee Module.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	apierrors "github.com/arturkryukov/staffstore/employee-module/internal/api/errors"
	"github.com/arturkryukov/staffstore/employee-module/internal/api/middleware"
	"github.com/arturkryukov/staffstore/employee-module/internal/service"
)

// APIHandler — основной обработчик API Employee Module.
// Делегирует запросы в сервисный слой.
type APIHandler struct {
	health         *HealthHandler
	profiles       *service.ProfileService
	employees      *service.EmployeeService
	grants         *service.GrantService
	projects       *service.ProjectService
	tasks          *service.TaskService
	milestones     *service.MilestoneService
	positionEmails *service.PositionEmailService
	documents      *service.DocumentService
	dashboard      *service.DashboardService
	logger         *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	profiles *service.ProfileService,
	employees *service.EmployeeService,
	grants *service.GrantService,
	projects *service.ProjectService,
	tasks *service.TaskService,
	milestones *service.MilestoneService,
	positionEmails *service.PositionEmailService,
	documents *service.DocumentService,
	dashboard *service.DashboardService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:         health,
		profiles:       profiles,
		employees:      employees,
		grants:         grants,
		projects:       projects,
		tasks:          tasks,
		milestones:     milestones,
		positionEmails: positionEmails,
		documents:      documents,
		dashboard:      dashboard,
		logger:         logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON разбирает тело запроса в dst.
// При ошибке отвечает 400 и возвращает false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apierrors.ValidationError(w, fmt.Sprintf("некорректное тело запроса: %v", err))
		return false
	}
	return true
}

// paginationFromQuery извлекает limit и offset из query string.
func paginationFromQuery(r *http.Request) (int, int) {
	var limit, offset *int
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = &n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = &n
		}
	}
	return paginationDefaults(limit, offset)
}

// paginationDefaults нормализует параметры пагинации.
// Возвращает корректные limit и offset.
func paginationDefaults(limit *int, offset *int) (int, int) {
	l := 100
	o := 0

	if limit != nil {
		l = *limit
		if l < 1 {
			l = 1
		}
		if l > 1000 {
			l = 1000
		}
	}

	if offset != nil {
		o = *offset
		if o < 0 {
			o = 0
		}
	}

	return l, o
}

// queryString возвращает указатель на значение query-параметра
// или nil, если параметр не задан.
func queryString(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

// requestUsername возвращает username текущего пользователя из claims
// или пустую строку, если запрос не аутентифицирован.
func requestUsername(r *http.Request) string {
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		return claims.PreferredUsername
	}
	return ""
}

// writeServiceError переводит ошибку сервисного слоя в HTTP-ответ
// стандартного формата. Неопознанные ошибки логируются и маскируются 500.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveGrant), errors.Is(err, service.ErrNothingPermitted):
		apierrors.PolicyViolation(w, err.Error())
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidStatus):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "ресурс не найден")
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, err.Error())
	case errors.Is(err, service.ErrIDPUnavailable):
		apierrors.IDPUnavailable(w, "Keycloak недоступен")
	case errors.Is(err, service.ErrDocstoreUnavailable):
		apierrors.DocstoreUnavailable(w, "сервис хранения файлов недоступен")
	default:
		h.logger.Error("Внутренняя ошибка обработки запроса",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		apierrors.InternalError(w, "внутренняя ошибка сервера")
	}
}
