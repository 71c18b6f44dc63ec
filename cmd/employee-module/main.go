// Точка входа Employee Module — модуль управления сотрудниками Staffstore.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// инициализирует Keycloak и docstore клиенты, создаёт сервисный слой и
// API handlers, запускает topologymetrics, HTTP-сервер с JWT middleware
// и graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/arturkryukov/staffstore/employee-module/internal/api/handlers"
	"github.com/arturkryukov/staffstore/employee-module/internal/api/middleware"
	"github.com/arturkryukov/staffstore/employee-module/internal/config"
	"github.com/arturkryukov/staffstore/employee-module/internal/database"
	"github.com/arturkryukov/staffstore/employee-module/internal/docstore"
	"github.com/arturkryukov/staffstore/employee-module/internal/idp"
	"github.com/arturkryukov/staffstore/employee-module/internal/repository"
	"github.com/arturkryukov/staffstore/employee-module/internal/server"
	"github.com/arturkryukov/staffstore/employee-module/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Employee Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// Предупреждение о дефолтных значениях topologymetrics
	if os.Getenv("EM_DEPHEALTH_GROUP") == "" {
		logger.Warn("EM_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL будет идти через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Keycloak Admin API клиент (name-sync + readiness)
	idpClient := idp.New(
		cfg.KeycloakURL,
		cfg.KeycloakRealm,
		cfg.KeycloakClientID,
		cfg.KeycloakClientSecret,
		nil, // стандартный пул CA
		logger,
	)
	logger.Info("Keycloak клиент создан",
		slog.String("url", cfg.KeycloakURL),
		slog.String("realm", cfg.KeycloakRealm),
	)

	// 6. Docstore клиент (вложения). URL может быть пустым —
	// тогда операции с вложениями отвечают 502.
	docClient, err := docstore.New(cfg.DocstoreURL, cfg.CACertPath, idpClient.TokenProvider(), logger)
	if err != nil {
		logger.Error("Ошибка создания docstore-клиента", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !docClient.Configured() {
		logger.Warn("EM_DOCSTORE_URL не задан, вложения недоступны")
	}

	// 7. Repositories
	employeeRepo := repository.NewEmployeeRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	grantRepo := repository.NewEditGrantRepository(pool)
	roleRepo := repository.NewRoleOverrideRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	milestoneRepo := repository.NewMilestoneRepository(pool)
	positionRepo := repository.NewPositionEmailRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)

	// 8. Services
	profileSvc := service.NewProfileService(
		employeeRepo, profileRepo, grantRepo, positionRepo,
		idpClient,
		&service.LogPositionNotifier{Logger: logger},
		logger,
	)
	employeeSvc := service.NewEmployeeService(employeeRepo, profileRepo, roleRepo, logger)
	grantSvc := service.NewGrantService(grantRepo, employeeRepo, logger)
	projectSvc := service.NewProjectService(projectRepo, employeeRepo, logger)
	taskSvc := service.NewTaskService(taskRepo, projectRepo, employeeRepo, logger)
	milestoneSvc := service.NewMilestoneService(milestoneRepo, projectRepo, logger)
	positionEmailSvc := service.NewPositionEmailService(positionRepo, logger)
	documentSvc := service.NewDocumentService(documentRepo, employeeRepo, docClient, logger)
	dashboardSvc := service.NewDashboardService(
		employeeRepo, profileRepo, grantRepo, projectRepo, taskRepo, logger,
	)

	// 9. Readiness checkers (PostgreSQL + Keycloak)
	pgChecker := database.NewReadinessChecker(pool)
	healthHandler := handlers.NewHealthHandler(pgChecker, idpClient)

	// 10. API handler
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		profileSvc,
		employeeSvc,
		grantSvc,
		projectSvc,
		taskSvc,
		milestoneSvc,
		positionEmailSvc,
		documentSvc,
		dashboardSvc,
		logger,
	)

	// 11. JWT middleware
	// Адаптер RoleOverrideRepository → middleware.RoleOverrideProvider
	roleProvider := &roleOverrideAdapter{repo: roleRepo}

	jwtAuth, err := middleware.NewJWTAuth(
		cfg.JWTJWKSURL,
		cfg.CACertPath,
		cfg.JWTIssuer,
		roleProvider,
		cfg.RoleAdminGroups,
		cfg.RoleManagerGroups,
		cfg.RoleEmployeeGroups,
		cfg.JWKSRefreshInterval,
		cfg.JWTLeeway,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer jwtAuth.Close()
	logger.Info("JWT middleware инициализирован",
		slog.String("jwks_url", cfg.JWTJWKSURL),
		slog.String("issuer", cfg.JWTIssuer),
	)

	// 12. topologymetrics — мониторинг зависимостей (PostgreSQL + Keycloak)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"employee-module",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.JWTJWKSURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 13. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, jwtAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 14. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Employee Module остановлен")
}

// roleOverrideAdapter — адаптер RoleOverrideRepository → middleware.RoleOverrideProvider.
// Преобразует *model.RoleOverride в *string (additional_role).
type roleOverrideAdapter struct {
	repo repository.RoleOverrideRepository
}

// GetRoleOverride возвращает дополнительную роль для пользователя.
// Если override не найден — возвращает nil, nil.
func (a *roleOverrideAdapter) GetRoleOverride(ctx context.Context, keycloakUserID string) (*string, error) {
	ro, err := a.repo.GetByKeycloakUserID(ctx, keycloakUserID)
	if err != nil {
		// Если override не найден — возвращаем nil (нет дополнительной роли)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if ro == nil {
		return nil, nil
	}
	return &ro.AdditionalRole, nil
}
