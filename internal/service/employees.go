// employees.go — сервис управления сотрудниками.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
	"github.com/arturkryukov/staffstore/employee-module/internal/domain/rbac"
	"github.com/arturkryukov/staffstore/employee-module/internal/repository"
)

// EmployeeService — сервис учётных записей сотрудников и role overrides.
type EmployeeService struct {
	employees repository.EmployeeRepository
	profiles  repository.ProfileRepository
	roles     repository.RoleOverrideRepository
	logger    *slog.Logger
}

// NewEmployeeService создаёт сервис сотрудников.
func NewEmployeeService(
	employees repository.EmployeeRepository,
	profiles repository.ProfileRepository,
	roles repository.RoleOverrideRepository,
	logger *slog.Logger,
) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		profiles:  profiles,
		roles:     roles,
		logger:    logger.With(slog.String("component", "employee_service")),
	}
}

// CreateEmployeeRequest — запрос создания сотрудника.
type CreateEmployeeRequest struct {
	KeycloakUserID string
	Username       string
	Email          string
	FirstName      string
	LastName       string
}

// Create создаёт сотрудника вместе с пустой анкетой.
// Обязательные поля проверяются совокупно: в ошибке перечисляются
// все отсутствующие, а не первое попавшееся.
func (s *EmployeeService) Create(ctx context.Context, req *CreateEmployeeRequest) (*model.Employee, error) {
	var missing []string
	if strings.TrimSpace(req.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(req.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(req.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: отсутствуют обязательные поля: %s", ErrValidation, strings.Join(missing, ", "))
	}

	e := &model.Employee{
		ID:             uuid.NewString(),
		KeycloakUserID: req.KeycloakUserID,
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.TrimSpace(req.Email),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Active:         true,
	}
	p := &model.Profile{ID: uuid.NewString()}

	if err := s.employees.CreateWithProfile(ctx, e, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("создание сотрудника: %w", err)
	}

	s.logger.Info("Сотрудник создан",
		slog.String("employee_id", e.ID),
		slog.String("username", e.Username),
	)

	return e, nil
}

// List возвращает сотрудников с общим количеством для пагинации.
func (s *EmployeeService) List(ctx context.Context, active *bool, limit, offset int) ([]*model.Employee, int, error) {
	employees, err := s.employees.List(ctx, active, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("получение списка сотрудников: %w", err)
	}

	total, err := s.employees.Count(ctx, active)
	if err != nil {
		return nil, 0, fmt.Errorf("подсчёт сотрудников: %w", err)
	}

	return employees, total, nil
}

// Get возвращает сотрудника с анкетой.
func (s *EmployeeService) Get(ctx context.Context, id string) (*model.Employee, *model.Profile, error) {
	e, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("получение сотрудника: %w", err)
	}

	p, err := s.profiles.GetByEmployeeID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("получение анкеты: %w", err)
	}

	return e, p, nil
}

// GetByKeycloakUserID возвращает сотрудника по идентификатору IdP (sub).
// Используется endpoint'ами /me.
func (s *EmployeeService) GetByKeycloakUserID(ctx context.Context, keycloakUserID string) (*model.Employee, *model.Profile, error) {
	e, err := s.employees.GetByKeycloakUserID(ctx, keycloakUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("получение сотрудника по идентификатору IdP: %w", err)
	}

	p, err := s.profiles.GetByEmployeeID(ctx, e.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("получение анкеты: %w", err)
	}

	return e, p, nil
}

// SetActive включает или выключает сотрудника.
// Удаление учётных записей не поддерживается — только деактивация.
func (s *EmployeeService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.employees.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("изменение активности сотрудника: %w", err)
	}

	s.logger.Info("Активность сотрудника изменена",
		slog.String("employee_id", id),
		slog.Bool("active", active),
	)
	return nil
}

// SetRoleOverride устанавливает локальное повышение роли сотрудника.
// Override никогда не понижает роль из IdP — итоговая роль считается
// как максимум в middleware.
func (s *EmployeeService) SetRoleOverride(ctx context.Context, employeeID, role, createdBy string) error {
	if !rbac.IsValidRole(role) {
		return ErrInvalidRole
	}

	e, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("получение сотрудника: %w", err)
	}

	ro := &model.RoleOverride{
		KeycloakUserID: e.KeycloakUserID,
		Username:       e.Username,
		AdditionalRole: role,
		CreatedBy:      createdBy,
	}
	if err := s.roles.Upsert(ctx, ro); err != nil {
		return fmt.Errorf("установка role override: %w", err)
	}

	s.logger.Info("Role override установлен",
		slog.String("employee_id", employeeID),
		slog.String("role", role),
		slog.String("created_by", createdBy),
	)
	return nil
}

// DeleteRoleOverride удаляет локальное повышение роли сотрудника.
func (s *EmployeeService) DeleteRoleOverride(ctx context.Context, employeeID string) error {
	e, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("получение сотрудника: %w", err)
	}

	if err := s.roles.Delete(ctx, e.KeycloakUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление role override: %w", err)
	}
	return nil
}
