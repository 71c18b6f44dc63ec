// metrics.go — Prometheus HTTP метрики для Employee Module.
// Регистрирует метрики: em_http_requests_total, em_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "em_http_requests_total",
			Help: "Общее количество HTTP-запросов к Employee Module",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "em_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Employee Module в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (заменяем UUID на {id} для предотвращения кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет UUID-сегменты пути на {id} для предотвращения
// взрывного роста кардинальности метрик.
// /api/v1/employees/a1b2c3d4-... → /api/v1/employees/{id}
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/api/v1/me", "/api/v1/me/profile",
		"/api/v1/employees",
		"/api/v1/projects",
		"/api/v1/tasks",
		"/api/v1/position-emails",
		"/api/v1/documents",
		"/api/v1/dashboard":
		return path
	}

	// Динамические пути с UUID
	prefixes := []struct {
		prefix string
		result string
	}{
		{"/api/v1/employees/", "/api/v1/employees/{id}"},
		{"/api/v1/projects/", "/api/v1/projects/{id}"},
		{"/api/v1/tasks/", "/api/v1/tasks/{id}"},
		{"/api/v1/milestones/", "/api/v1/milestones/{id}"},
		{"/api/v1/documents/", "/api/v1/documents/{id}"},
	}

	for _, p := range prefixes {
		if len(path) > len(p.prefix) && path[:len(p.prefix)] == p.prefix {
			suffix := ""
			// Проверяем суффиксы после UUID (36 символов)
			if len(path) > len(p.prefix)+36 {
				suffix = path[len(p.prefix)+36:]
			}
			switch {
			case suffix == "/grants":
				return p.result + "/grants"
			case suffix == "/role-override":
				return p.result + "/role-override"
			case suffix == "/profile":
				return p.result + "/profile"
			case suffix == "/members":
				return p.result + "/members"
			case suffix == "/milestones":
				return p.result + "/milestones"
			case suffix == "/notes":
				return p.result + "/notes"
			case suffix == "/download":
				return p.result + "/download"
			case strings.HasPrefix(suffix, "/members/"):
				return p.result + "/members/{id}"
			case strings.HasPrefix(suffix, "/grants/"):
				return p.result + "/grants/{id}"
			default:
				return p.result
			}
		}
	}

	// Маппинг должностей использует свободный текст вместо UUID
	if strings.HasPrefix(path, "/api/v1/position-emails/") {
		return "/api/v1/position-emails/{position}"
	}

	return path
}
