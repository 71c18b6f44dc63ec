package idp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupMockKeycloak создаёт mock HTTP-сервер Keycloak.
// tokenHandler обрабатывает запросы на получение токена.
// adminHandler обрабатывает запросы к Admin REST API.
func setupMockKeycloak(t *testing.T, tokenHandler, adminHandler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()

	// Token endpoint
	mux.HandleFunc("/realms/staffstore/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		if tokenHandler != nil {
			tokenHandler(w, r)
			return
		}
		// Дефолтный ответ: валидный токен на 300 секунд
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "test-access-token",
			TokenType:   "Bearer",
			ExpiresIn:   300,
		})
	})

	// Admin REST API
	mux.HandleFunc("/admin/realms/staffstore/", func(w http.ResponseWriter, r *http.Request) {
		if adminHandler != nil {
			adminHandler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := New(
		server.URL,
		"staffstore",
		"employee-module",
		"test-secret",
		server.Client(),
		testLogger(),
	)

	return server, client
}

// TestClient_TokenCaching проверяет кэширование токена.
func TestClient_TokenCaching(t *testing.T) {
	tokenRequests := 0

	_, client := setupMockKeycloak(t,
		func(w http.ResponseWriter, r *http.Request) {
			tokenRequests++
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(TokenResponse{
				AccessToken: "cached-token",
				TokenType:   "Bearer",
				ExpiresIn:   300,
			})
		},
		nil,
	)

	ctx := context.Background()

	// Первый запрос — получение токена
	token1, err := client.getToken(ctx)
	if err != nil {
		t.Fatalf("Ошибка получения токена: %v", err)
	}
	if token1 != "cached-token" {
		t.Errorf("ожидался cached-token, получен %s", token1)
	}

	// Второй запрос — из кэша (не должен вызывать HTTP)
	token2, err := client.getToken(ctx)
	if err != nil {
		t.Fatalf("Ошибка получения токена: %v", err)
	}
	if token2 != "cached-token" {
		t.Errorf("ожидался cached-token, получен %s", token2)
	}

	if tokenRequests != 1 {
		t.Errorf("ожидался 1 запрос токена, было %d", tokenRequests)
	}
}

// TestClient_TokenRefresh проверяет обновление истёкшего токена.
func TestClient_TokenRefresh(t *testing.T) {
	tokenRequests := 0

	_, client := setupMockKeycloak(t,
		func(w http.ResponseWriter, r *http.Request) {
			tokenRequests++
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(TokenResponse{
				AccessToken: "refreshed-token",
				TokenType:   "Bearer",
				ExpiresIn:   300,
			})
		},
		nil,
	)

	// Устанавливаем «просроченный» токен в кэш
	client.accessToken = "old-token"
	client.tokenExpiry = time.Now().Add(-time.Second)

	ctx := context.Background()
	token, err := client.getToken(ctx)
	if err != nil {
		t.Fatalf("Ошибка обновления токена: %v", err)
	}
	if token != "refreshed-token" {
		t.Errorf("ожидался refreshed-token, получен %s", token)
	}
	if tokenRequests != 1 {
		t.Errorf("ожидался 1 запрос токена, было %d", tokenRequests)
	}
}

// TestClient_ClientCredentialsFlow проверяет формат запроса Client Credentials.
func TestClient_ClientCredentialsFlow(t *testing.T) {
	_, client := setupMockKeycloak(t,
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("ожидался POST, получен %s", r.Method)
			}
			ct := r.Header.Get("Content-Type")
			if ct != "application/x-www-form-urlencoded" {
				t.Errorf("ожидался Content-Type application/x-www-form-urlencoded, получен %s", ct)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("Ошибка парсинга формы: %v", err)
			}
			if r.Form.Get("grant_type") != "client_credentials" {
				t.Errorf("ожидался grant_type=client_credentials, получен %s", r.Form.Get("grant_type"))
			}
			if r.Form.Get("client_id") != "employee-module" {
				t.Errorf("ожидался client_id=employee-module, получен %s", r.Form.Get("client_id"))
			}
			if r.Form.Get("client_secret") != "test-secret" {
				t.Errorf("ожидался client_secret=test-secret, получен %s", r.Form.Get("client_secret"))
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(TokenResponse{
				AccessToken: "ok",
				TokenType:   "Bearer",
				ExpiresIn:   300,
			})
		},
		nil,
	)

	_, err := client.getToken(context.Background())
	if err != nil {
		t.Fatalf("Ошибка: %v", err)
	}
}

// TestClient_TokenError проверяет обработку ошибки получения токена.
func TestClient_TokenError(t *testing.T) {
	_, client := setupMockKeycloak(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_client"}`))
		},
		nil,
	)

	_, err := client.getToken(context.Background())
	if err == nil {
		t.Fatal("ожидалась ошибка, получен nil")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("ожидалась ошибка со статусом 401, получена: %v", err)
	}
}

// TestClient_ListUsers проверяет ListUsers.
func TestClient_ListUsers(t *testing.T) {
	_, client := setupMockKeycloak(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			// Проверяем Authorization header
			auth := r.Header.Get("Authorization")
			if auth != "Bearer test-access-token" {
				t.Errorf("ожидался Bearer test-access-token, получен %s", auth)
			}

			if strings.HasSuffix(r.URL.Path, "/users") || strings.Contains(r.URL.Path, "/users?") {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode([]User{
					{ID: "user-1", Username: "ipetrov", Email: "ipetrov@test.com", Enabled: true},
					{ID: "user-2", Username: "asidorova", Email: "asidorova@test.com", Enabled: true},
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		},
	)

	users, err := client.ListUsers(context.Background(), "", 0, 100)
	if err != nil {
		t.Fatalf("Ошибка ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("ожидалось 2 пользователя, получено %d", len(users))
	}
	if users[0].Username != "ipetrov" {
		t.Errorf("ожидался username=ipetrov, получен %s", users[0].Username)
	}
}

// TestClient_GetUser проверяет GetUser.
func TestClient_GetUser(t *testing.T) {
	_, client := setupMockKeycloak(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/users/user-123") {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(User{
					ID:       "user-123",
					Username: "ipetrov",
					Email:    "ipetrov@test.com",
					Enabled:  true,
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		},
	)

	user, err := client.GetUser(context.Background(), "user-123")
	if err != nil {
		t.Fatalf("Ошибка GetUser: %v", err)
	}
	if user.ID != "user-123" {
		t.Errorf("ожидался ID=user-123, получен %s", user.ID)
	}
}

// TestClient_GetUserGroups проверяет GetUserGroups.
func TestClient_GetUserGroups(t *testing.T) {
	_, client := setupMockKeycloak(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/users/user-123/groups") {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode([]Group{
					{ID: "g-1", Name: "staffstore-hr", Path: "/staffstore-hr"},
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		},
	)

	groups, err := client.GetUserGroups(context.Background(), "user-123")
	if err != nil {
		t.Fatalf("Ошибка GetUserGroups: %v", err)
	}
	if len(groups) != 1 {
		t.Errorf("ожидалась 1 группа, получено %d", len(groups))
	}
	if groups[0].Name != "staffstore-hr" {
		t.Errorf("ожидалось имя staffstore-hr, получено %s", groups[0].Name)
	}
}

// TestClient_UpdateUserName проверяет UpdateUserName.
func TestClient_UpdateUserName(t *testing.T) {
	_, client := setupMockKeycloak(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/users/user-123") {
				var req userUpdateRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("Ошибка декодирования: %v", err)
				}
				if req.FirstName != "Сергей" {
					t.Errorf("ожидался firstName=Сергей, получен %s", req.FirstName)
				}
				if req.LastName != "" {
					t.Errorf("фамилия не должна передаваться, получена %s", req.LastName)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		},
	)

	first := "Сергей"
	if err := client.UpdateUserName(context.Background(), "user-123", &first, nil); err != nil {
		t.Fatalf("Ошибка UpdateUserName: %v", err)
	}
}

// TestClient_UpdateUserName_Error проверяет обработку ошибки Keycloak.
func TestClient_UpdateUserName_Error(t *testing.T) {
	_, client := setupMockKeycloak(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"User not found"}`))
		},
	)

	first := "Сергей"
	err := client.UpdateUserName(context.Background(), "missing", &first, nil)
	if err == nil {
		t.Fatal("ожидалась ошибка, получен nil")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("ожидалась ошибка со статусом 404, получена: %v", err)
	}
}

// TestClient_RealmInfo проверяет RealmInfo.
func TestClient_RealmInfo(t *testing.T) {
	_, client := setupMockKeycloak(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			// Realm info запрос идёт к /admin/realms/staffstore (без доп. пути)
			path := strings.TrimPrefix(r.URL.Path, "/admin/realms/staffstore")
			if path == "" || path == "/" {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(RealmRepresentation{
					Realm:   "staffstore",
					Enabled: true,
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		},
	)

	realm, err := client.RealmInfo(context.Background())
	if err != nil {
		t.Fatalf("Ошибка RealmInfo: %v", err)
	}
	if realm.Realm != "staffstore" {
		t.Errorf("ожидался realm=staffstore, получен %s", realm.Realm)
	}
	if !realm.Enabled {
		t.Error("ожидался enabled=true")
	}
}

// TestClient_CheckReady проверяет CheckReady.
func TestClient_CheckReady(t *testing.T) {
	_, client := setupMockKeycloak(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			path := strings.TrimPrefix(r.URL.Path, "/admin/realms/staffstore")
			if path == "" || path == "/" {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(RealmRepresentation{
					Realm:   "staffstore",
					Enabled: true,
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		},
	)

	status, msg := client.CheckReady()
	if status != "ok" {
		t.Errorf("ожидался status=ok, получен %s: %s", status, msg)
	}
}

// TestClient_CheckReady_Fail проверяет CheckReady при недоступности.
func TestClient_CheckReady_Fail(t *testing.T) {
	client := New(
		"http://localhost:1", // Несуществующий адрес
		"staffstore",
		"employee-module",
		"secret",
		&http.Client{Timeout: 100 * time.Millisecond},
		testLogger(),
	)

	status, _ := client.CheckReady()
	if status != "fail" {
		t.Errorf("ожидался status=fail, получен %s", status)
	}
}

// TestClient_TokenProvider проверяет TokenProvider.
func TestClient_TokenProvider(t *testing.T) {
	_, client := setupMockKeycloak(t, nil, nil)

	provider := client.TokenProvider()
	token, err := provider(context.Background())
	if err != nil {
		t.Fatalf("Ошибка TokenProvider: %v", err)
	}
	if token != "test-access-token" {
		t.Errorf("ожидался test-access-token, получен %s", token)
	}
}

// TestCreatedAtTime проверяет конвертацию timestamp.
func TestCreatedAtTime(t *testing.T) {
	user := &User{
		CreatedAt: 1708617600000, // 2024-02-22T16:00:00Z в миллисекундах
	}
	ts := user.CreatedAtTime()
	if ts.Year() != 2024 || ts.Month() != time.February || ts.Day() != 22 {
		t.Errorf("неожиданная дата: %v", ts)
	}
}
