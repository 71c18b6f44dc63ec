// grants.go — сервис одноразовых разрешений на правку завершённой анкеты.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
	"github.com/arturkryukov/staffstore/employee-module/internal/repository"
)

// Допустимые поля по категориям разрешения.
var (
	grantBasicFields = map[string]bool{
		model.FieldFirstName: true,
		model.FieldLastName:  true,
	}
	grantPersonalFields = map[string]bool{
		model.FieldDepartment:       true,
		model.FieldPosition:         true,
		model.FieldSalary:           true,
		model.FieldHireDate:         true,
		model.FieldSkills:           true,
		model.FieldPhone:            true,
		model.FieldAddress:          true,
		model.FieldEmergencyContact: true,
	}
)

// GrantService — выдача, просмотр и отзыв разрешений.
// Потребление разрешений — зона ответственности ProfileService.
type GrantService struct {
	grants    repository.EditGrantRepository
	employees repository.EmployeeRepository
	logger    *slog.Logger
}

// NewGrantService создаёт сервис разрешений.
func NewGrantService(
	grants repository.EditGrantRepository,
	employees repository.EmployeeRepository,
	logger *slog.Logger,
) *GrantService {
	return &GrantService{
		grants:    grants,
		employees: employees,
		logger:    logger.With(slog.String("component", "grant_service")),
	}
}

// IssueGrantRequest — запрос выдачи разрешения.
type IssueGrantRequest struct {
	CanEditBasicInfo    bool
	BasicInfoFields     map[string]bool
	CanEditPersonalInfo bool
	PersonalInfoFields  map[string]bool
}

// Issue выдаёт сотруднику разрешение на правку. Предыдущее активное
// разрешение заменяется: на сотрудника — не больше одного активного.
func (s *GrantService) Issue(ctx context.Context, employeeID string, req *IssueGrantRequest, issuedBy string) (*model.EditGrant, error) {
	if !req.CanEditBasicInfo && !req.CanEditPersonalInfo {
		return nil, fmt.Errorf("%w: не включена ни одна категория полей", ErrValidation)
	}
	for field := range req.BasicInfoFields {
		if !grantBasicFields[field] {
			return nil, fmt.Errorf("%w: неизвестное базовое поле %q", ErrValidation, field)
		}
	}
	for field := range req.PersonalInfoFields {
		if !grantPersonalFields[field] {
			return nil, fmt.Errorf("%w: неизвестное поле анкеты %q", ErrValidation, field)
		}
	}

	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение сотрудника: %w", err)
	}

	g := &model.EditGrant{
		ID:                  uuid.NewString(),
		EmployeeID:          employeeID,
		CanEditBasicInfo:    req.CanEditBasicInfo,
		BasicInfoFields:     req.BasicInfoFields,
		CanEditPersonalInfo: req.CanEditPersonalInfo,
		PersonalInfoFields:  req.PersonalInfoFields,
		Active:              true,
		IssuedBy:            issuedBy,
	}
	if g.BasicInfoFields == nil {
		g.BasicInfoFields = map[string]bool{}
	}
	if g.PersonalInfoFields == nil {
		g.PersonalInfoFields = map[string]bool{}
	}

	if err := s.grants.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("создание разрешения: %w", err)
	}

	s.logger.Info("Разрешение на правку выдано",
		slog.String("employee_id", employeeID),
		slog.String("grant_id", g.ID),
		slog.String("issued_by", issuedBy),
	)

	return g, nil
}

// ListForEmployee возвращает разрешения сотрудника.
func (s *GrantService) ListForEmployee(ctx context.Context, employeeID string) ([]*model.EditGrant, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение сотрудника: %w", err)
	}

	grants, err := s.grants.ListByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("получение списка разрешений: %w", err)
	}
	return grants, nil
}

// GetActive возвращает активное разрешение сотрудника.
// Используется сотрудником для просмотра ожидающего разрешения.
func (s *GrantService) GetActive(ctx context.Context, employeeID string) (*model.EditGrant, error) {
	g, err := s.grants.GetActiveByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение активного разрешения: %w", err)
	}
	return g, nil
}

// Revoke отзывает непотреблённое разрешение сотрудника.
func (s *GrantService) Revoke(ctx context.Context, employeeID, grantID string) error {
	grants, err := s.grants.ListByEmployeeID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("получение списка разрешений: %w", err)
	}

	found := false
	for _, g := range grants {
		if g.ID == grantID {
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}

	if err := s.grants.Delete(ctx, grantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("отзыв разрешения: %w", err)
	}

	s.logger.Info("Разрешение отозвано",
		slog.String("employee_id", employeeID),
		slog.String("grant_id", grantID),
	)
	return nil
}
