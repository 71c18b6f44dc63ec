// Пакет server — HTTP-сервер Employee Module с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arturkryukov/staffstore/employee-module/internal/api/handlers"
	"github.com/arturkryukov/staffstore/employee-module/internal/api/middleware"
	"github.com/arturkryukov/staffstore/employee-module/internal/config"
	"github.com/arturkryukov/staffstore/employee-module/internal/domain/rbac"
)

// Server — HTTP-сервер Employee Module.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// jwtAuth — JWT middleware (может быть nil для тестирования без auth).
func New(cfg *config.Config, logger *slog.Logger, h *handlers.APIHandler, jwtAuth *middleware.JWTAuth) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// JWT middleware с исключениями для публичных endpoints.
	// Health и metrics проверяются Kubernetes напрямую, без API Gateway.
	if jwtAuth != nil {
		router.Use(jwtAuthWithExclusions(jwtAuth, "/health/", "/metrics"))
	}

	registerRoutes(router, h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// registerRoutes настраивает маршруты API.
// Роли: admin — полное управление; manager — проекты, задачи и вехи;
// employee — личный кабинет и чтение.
func registerRoutes(router chi.Router, h *handlers.APIHandler) {
	// Публичные endpoints (без JWT)
	router.Get("/health/live", h.HealthLive)
	router.Get("/health/ready", h.HealthReady)
	router.Get("/metrics", h.GetMetrics)

	router.Route("/api/v1", func(r chi.Router) {
		// Личный кабинет — доступен любой аутентифицированной роли
		r.Get("/me", h.GetMe)
		r.Patch("/me/profile", h.UpdateMyProfile)
		r.Get("/me/grant", h.GetMyGrant)

		// Сводка
		r.Get("/dashboard", h.GetDashboard)

		// Сотрудники
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.With(requireAdmin()).Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.With(requireAdmin()).Patch("/{id}/profile", h.UpdateEmployeeProfile)
			r.With(requireAdmin()).Put("/{id}/active", h.SetEmployeeActive)
			r.With(requireAdmin()).Put("/{id}/role-override", h.SetRoleOverride)
			r.With(requireAdmin()).Delete("/{id}/role-override", h.DeleteRoleOverride)

			// Разрешения на правку завершённой анкеты
			r.With(requireManager()).Post("/{id}/grants", h.IssueGrant)
			r.With(requireManager()).Get("/{id}/grants", h.ListGrants)
			r.With(requireManager()).Get("/{id}/grants/active", h.GetActiveGrant)
			r.With(requireManager()).Delete("/{id}/grants/{grantId}", h.RevokeGrant)
		})

		// Проекты
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.With(requireManager()).Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.With(requireManager()).Put("/{id}", h.UpdateProject)
			r.With(requireAdmin()).Delete("/{id}", h.DeleteProject)

			r.Get("/{id}/members", h.ListProjectMembers)
			r.With(requireManager()).Post("/{id}/members", h.AddProjectMember)
			r.With(requireManager()).Delete("/{id}/members/{employeeId}", h.RemoveProjectMember)

			r.Get("/{id}/milestones", h.ListMilestones)
			r.With(requireManager()).Post("/{id}/milestones", h.CreateMilestone)
		})

		// Вехи
		r.Route("/milestones", func(r chi.Router) {
			r.Get("/{id}", h.GetMilestone)
			r.With(requireManager()).Put("/{id}", h.UpdateMilestone)
			r.With(requireManager()).Delete("/{id}", h.DeleteMilestone)
			r.With(requireManager()).Post("/{id}/notes", h.AddMilestoneNote)
			r.With(requireManager()).Delete("/{id}/notes/{index}", h.RemoveMilestoneNote)
		})

		// Задачи
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Get("/{id}", h.GetTask)
			r.Put("/{id}", h.UpdateTask)
			r.With(requireManager()).Delete("/{id}", h.DeleteTask)
		})

		// Маппинг должностей на адреса уведомлений
		r.Route("/position-emails", func(r chi.Router) {
			r.Get("/", h.ListPositionEmails)
			r.With(requireAdmin()).Post("/", h.CreatePositionEmail)
			r.Get("/{position}", h.GetPositionEmail)
			r.With(requireAdmin()).Put("/{position}", h.UpdatePositionEmail)
			r.With(requireAdmin()).Delete("/{position}", h.DeletePositionEmail)
		})

		// Вложения
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", h.ListDocuments)
			r.Post("/", h.UploadDocument)
			r.Get("/{id}", h.GetDocument)
			r.Get("/{id}/download", h.DownloadDocument)
			r.With(requireManager()).Delete("/{id}", h.DeleteDocument)
		})
	})
}

// requireAdmin — доступ только для admin.
func requireAdmin() func(http.Handler) http.Handler {
	return middleware.RequireRole(rbac.RoleAdmin)
}

// requireManager — доступ для manager и admin.
func requireManager() func(http.Handler) http.Handler {
	return middleware.RequireRole(rbac.RoleManager, rbac.RoleAdmin)
}

// jwtAuthWithExclusions оборачивает JWTAuth.Middleware(), пропуская указанные пути.
// Запросы к путям, начинающимся с любого из excludePrefixes, проходят без JWT.
func jwtAuthWithExclusions(jwtAuth *middleware.JWTAuth, excludePrefixes ...string) func(http.Handler) http.Handler {
	jwtMiddleware := jwtAuth.Middleware()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Проверяем, начинается ли путь с исключённого префикса
			for _, prefix := range excludePrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			// Применяем JWT middleware
			jwtMiddleware(next).ServeHTTP(w, r)
		})
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
