package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arturkryukov/staffstore/employee-module/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestPaginationDefaults — нормализация параметров пагинации.
func TestPaginationDefaults(t *testing.T) {
	intPtr := func(n int) *int { return &n }

	tests := []struct {
		name       string
		limit      *int
		offset     *int
		wantLimit  int
		wantOffset int
	}{
		{"значения по умолчанию", nil, nil, 100, 0},
		{"явные значения", intPtr(50), intPtr(10), 50, 10},
		{"limit меньше 1", intPtr(0), nil, 1, 0},
		{"limit выше максимума", intPtr(5000), nil, 1000, 0},
		{"отрицательный offset", nil, intPtr(-5), 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, o := paginationDefaults(tt.limit, tt.offset)
			if l != tt.wantLimit || o != tt.wantOffset {
				t.Errorf("ожидалось (%d, %d), получено (%d, %d)", tt.wantLimit, tt.wantOffset, l, o)
			}
		})
	}
}

// TestPaginationFromQuery — разбор limit/offset из query string.
func TestPaginationFromQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/employees?limit=25&offset=50", nil)
	l, o := paginationFromQuery(r)
	if l != 25 || o != 50 {
		t.Errorf("ожидалось (25, 50), получено (%d, %d)", l, o)
	}

	// Мусор в параметрах игнорируется
	r = httptest.NewRequest(http.MethodGet, "/api/v1/employees?limit=abc", nil)
	l, o = paginationFromQuery(r)
	if l != 100 || o != 0 {
		t.Errorf("ожидались значения по умолчанию, получено (%d, %d)", l, o)
	}
}

// errorEnvelope — тело ответа ошибки для разбора в тестах.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// TestWriteServiceError — маппинг ошибок сервисного слоя на HTTP-ответы.
func TestWriteServiceError(t *testing.T) {
	h := NewAPIHandler(nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, testLogger())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"нет активного разрешения", service.ErrNoActiveGrant, http.StatusBadRequest, "POLICY_VIOLATION"},
		{"разрешение не покрывает поля", service.ErrNothingPermitted, http.StatusBadRequest, "POLICY_VIOLATION"},
		{"ошибка валидации", service.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"недопустимая роль", service.ErrInvalidRole, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"не найдено", service.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"конфликт", service.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"IdP недоступен", service.ErrIDPUnavailable, http.StatusBadGateway, "IDP_UNAVAILABLE"},
		{"docstore недоступен", service.ErrDocstoreUnavailable, http.StatusBadGateway, "DOCSTORE_UNAVAILABLE"},
		{"неизвестная ошибка", errors.New("что-то пошло не так"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)

			h.writeServiceError(w, r, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("ожидался статус %d, получен %d", tt.wantStatus, w.Code)
			}

			var body errorEnvelope
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Ошибка разбора тела ответа: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("ожидался код %s, получен %s", tt.wantCode, body.Error.Code)
			}
		})
	}
}

// TestWriteServiceError_WrappedErrors — завёрнутые ошибки распознаются
// через errors.Is.
func TestWriteServiceError_WrappedErrors(t *testing.T) {
	h := NewAPIHandler(nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, testLogger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/me/profile", nil)

	wrapped := errors.Join(errors.New("контекст операции"), service.ErrNoActiveGrant)
	h.writeServiceError(w, r, wrapped)

	if w.Code != http.StatusBadRequest {
		t.Errorf("ожидался статус 400, получен %d", w.Code)
	}

	var body errorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "POLICY_VIOLATION" {
		t.Errorf("ожидался код POLICY_VIOLATION, получен %s", body.Error.Code)
	}
}

// TestOutcomeMessage — сообщения по итогам обновления анкеты.
func TestOutcomeMessage(t *testing.T) {
	if msg := outcomeMessage(service.OutcomeNoChanges); msg != "изменений нет" {
		t.Errorf("неожиданное сообщение для no_changes: %s", msg)
	}
	if msg := outcomeMessage(service.OutcomePermissionsRevoked); msg == "" {
		t.Error("пустое сообщение для permissions_revoked")
	}
	if msg := outcomeMessage(service.OutcomeUpdated); msg != "анкета обновлена" {
		t.Errorf("неожиданное сообщение для updated: %s", msg)
	}
}

// TestDecodeJSON_Invalid — некорректное тело запроса даёт 400.
func TestDecodeJSON_Invalid(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/employees", io.NopCloser(badReader{}))

	var dst struct{}
	if decodeJSON(w, r, &dst) {
		t.Error("ожидался отказ разбора")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("ожидался статус 400, получен %d", w.Code)
	}
}

type badReader struct{}

func (badReader) Read([]byte) (int, error) { return 0, errors.New("обрыв соединения") }
