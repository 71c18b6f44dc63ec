// Пакет config — загрузка и валидация конфигурации Employee Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Employee Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера (диапазон 8000-8009)
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Keycloak ---

	// URL Keycloak (например, https://keycloak.kryukov.lan)
	KeycloakURL string
	// Имя realm в Keycloak
	KeycloakRealm string
	// Client ID для доступа к Keycloak Admin API (name-sync)
	KeycloakClientID string
	// Client Secret для доступа к Keycloak Admin API
	KeycloakClientSecret string

	// --- JWT (fallback-валидация, основная на API Gateway) ---

	// Issuer JWT (авто-вычисляется из KeycloakURL, если не задан)
	JWTIssuer string
	// URL JWKS endpoint (авто-вычисляется из KeycloakURL, если не задан)
	JWTJWKSURL string
	// Интервал обновления JWKS-ключей
	JWKSRefreshInterval time.Duration
	// Допустимое отклонение времени при проверке JWT
	JWTLeeway time.Duration

	// --- Document Store ---

	// URL сервиса хранения файлов (вложения сотрудников и проектов)
	DocstoreURL string
	// Путь к CA-сертификату для TLS-соединений с docstore и Keycloak (опционально)
	CACertPath string

	// --- Мониторинг зависимостей ---

	// Группа topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration

	// --- Маппинг групп → ролей ---

	// Группы Keycloak, дающие роль admin (через запятую)
	RoleAdminGroups []string
	// Группы Keycloak, дающие роль manager (через запятую)
	RoleManagerGroups []string
	// Группы Keycloak, дающие роль employee (через запятую)
	RoleEmployeeGroups []string

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// EM_PORT — порт HTTP-сервера (по умолчанию 8003)
	cfg.Port, err = getEnvInt("EM_PORT", 8003)
	if err != nil {
		return nil, fmt.Errorf("EM_PORT: %w", err)
	}
	if cfg.Port < 8000 || cfg.Port > 8009 {
		return nil, fmt.Errorf("EM_PORT: значение %d вне допустимого диапазона 8000-8009", cfg.Port)
	}

	// EM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("EM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("EM_LOG_LEVEL: %w", err)
	}

	// EM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("EM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("EM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// EM_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("EM_DB_HOST")
	if err != nil {
		return nil, err
	}

	// EM_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("EM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("EM_DB_PORT: %w", err)
	}

	// EM_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("EM_DB_NAME")
	if err != nil {
		return nil, err
	}

	// EM_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("EM_DB_USER")
	if err != nil {
		return nil, err
	}

	// EM_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("EM_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// EM_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("EM_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("EM_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Keycloak ---

	// EM_KEYCLOAK_URL — обязательный
	cfg.KeycloakURL, err = getEnvRequired("EM_KEYCLOAK_URL")
	if err != nil {
		return nil, err
	}
	// Убираем trailing slash
	cfg.KeycloakURL = strings.TrimRight(cfg.KeycloakURL, "/")

	// EM_KEYCLOAK_REALM — realm (по умолчанию staffstore)
	cfg.KeycloakRealm = getEnvDefault("EM_KEYCLOAK_REALM", "staffstore")

	// EM_KEYCLOAK_CLIENT_ID — обязательный
	cfg.KeycloakClientID, err = getEnvRequired("EM_KEYCLOAK_CLIENT_ID")
	if err != nil {
		return nil, err
	}

	// EM_KEYCLOAK_CLIENT_SECRET — обязательный
	cfg.KeycloakClientSecret, err = getEnvRequired("EM_KEYCLOAK_CLIENT_SECRET")
	if err != nil {
		return nil, err
	}

	// --- JWT ---

	// EM_JWT_ISSUER — авто-вычисляется из KeycloakURL, если не задан
	cfg.JWTIssuer = getEnvDefault("EM_JWT_ISSUER",
		fmt.Sprintf("%s/realms/%s", cfg.KeycloakURL, cfg.KeycloakRealm))

	// EM_JWT_JWKS_URL — авто-вычисляется из KeycloakURL, если не задан
	cfg.JWTJWKSURL = getEnvDefault("EM_JWT_JWKS_URL",
		fmt.Sprintf("%s/realms/%s/protocol/openid-connect/certs", cfg.KeycloakURL, cfg.KeycloakRealm))

	// EM_JWKS_REFRESH_INTERVAL — интервал обновления JWKS-ключей (по умолчанию 5m)
	cfg.JWKSRefreshInterval, err = getEnvDuration("EM_JWKS_REFRESH_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("EM_JWKS_REFRESH_INTERVAL: %w", err)
	}

	// EM_JWT_LEEWAY — допустимое отклонение времени (по умолчанию 30s)
	cfg.JWTLeeway, err = getEnvDuration("EM_JWT_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("EM_JWT_LEEWAY: %w", err)
	}

	// --- Document Store ---

	// EM_DOCSTORE_URL — URL сервиса хранения файлов (опционально,
	// без него endpoints вложений возвращают 502)
	cfg.DocstoreURL = strings.TrimRight(getEnvDefault("EM_DOCSTORE_URL", ""), "/")

	// EM_CA_CERT_PATH — путь к CA-сертификату (опционально)
	cfg.CACertPath = getEnvDefault("EM_CA_CERT_PATH", "")

	// --- Мониторинг зависимостей ---

	// EM_DEPHEALTH_GROUP — группа topologymetrics (по умолчанию staffstore)
	cfg.DephealthGroup = getEnvDefault("EM_DEPHEALTH_GROUP", "staffstore")

	// EM_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("EM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("EM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Маппинг групп → ролей ---

	// EM_ROLE_ADMIN_GROUPS — группы для роли admin (по умолчанию "staffstore-hr")
	cfg.RoleAdminGroups = parseCSV(getEnvDefault("EM_ROLE_ADMIN_GROUPS", "staffstore-hr"))

	// EM_ROLE_MANAGER_GROUPS — группы для роли manager (по умолчанию "staffstore-managers")
	cfg.RoleManagerGroups = parseCSV(getEnvDefault("EM_ROLE_MANAGER_GROUPS", "staffstore-managers"))

	// EM_ROLE_EMPLOYEE_GROUPS — группы для роли employee (по умолчанию "staffstore-employees")
	cfg.RoleEmployeeGroups = parseCSV(getEnvDefault("EM_ROLE_EMPLOYEE_GROUPS", "staffstore-employees"))

	// --- Graceful shutdown ---

	// EM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("EM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("EM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для topologymetrics).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
