// projects.go — сервис проектов и участников.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
	"github.com/arturkryukov/staffstore/employee-module/internal/repository"
)

// validProjectStatus проверяет статус проекта.
func validProjectStatus(s string) bool {
	return s == model.ProjectStatusActive || s == model.ProjectStatusOnHold || s == model.ProjectStatusCompleted
}

// ProjectService — CRUD проектов и управление участниками.
type ProjectService struct {
	projects  repository.ProjectRepository
	employees repository.EmployeeRepository
	logger    *slog.Logger
}

// NewProjectService создаёт сервис проектов.
func NewProjectService(
	projects repository.ProjectRepository,
	employees repository.EmployeeRepository,
	logger *slog.Logger,
) *ProjectService {
	return &ProjectService{
		projects:  projects,
		employees: employees,
		logger:    logger.With(slog.String("component", "project_service")),
	}
}

// ProjectRequest — запрос создания или обновления проекта.
type ProjectRequest struct {
	Name        string
	Description string
	Status      string
	OwnerID     string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Create создаёт проект.
func (s *ProjectService) Create(ctx context.Context, req *ProjectRequest) (*model.Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: отсутствуют обязательные поля: name", ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = model.ProjectStatusActive
	}
	if !validProjectStatus(status) {
		return nil, fmt.Errorf("%w проекта: %q", ErrInvalidStatus, status)
	}

	p := &model.Project{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      status,
		OwnerID:     req.OwnerID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	if err := s.projects.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("создание проекта: %w", err)
	}

	s.logger.Info("Проект создан",
		slog.String("project_id", p.ID),
		slog.String("name", p.Name),
	)
	return p, nil
}

// List возвращает проекты с общим количеством для пагинации.
func (s *ProjectService) List(ctx context.Context, status *string, limit, offset int) ([]*model.Project, int, error) {
	if status != nil && !validProjectStatus(*status) {
		return nil, 0, fmt.Errorf("%w проекта: %q", ErrInvalidStatus, *status)
	}

	projects, err := s.projects.List(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("получение списка проектов: %w", err)
	}

	total, err := s.projects.Count(ctx, status)
	if err != nil {
		return nil, 0, fmt.Errorf("подсчёт проектов: %w", err)
	}

	return projects, total, nil
}

// Get возвращает проект по UUID.
func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение проекта: %w", err)
	}
	return p, nil
}

// Update обновляет проект.
func (s *ProjectService) Update(ctx context.Context, id string, req *ProjectRequest) (*model.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) != "" {
		p.Name = strings.TrimSpace(req.Name)
	}
	p.Description = req.Description
	if req.Status != "" {
		if !validProjectStatus(req.Status) {
			return nil, fmt.Errorf("%w проекта: %q", ErrInvalidStatus, req.Status)
		}
		p.Status = req.Status
	}
	if req.OwnerID != "" {
		p.OwnerID = req.OwnerID
	}
	p.StartDate = req.StartDate
	p.EndDate = req.EndDate

	if err := s.projects.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление проекта: %w", err)
	}
	return p, nil
}

// Delete удаляет проект.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление проекта: %w", err)
	}

	s.logger.Info("Проект удалён", slog.String("project_id", id))
	return nil
}

// AddMember добавляет сотрудника в проект.
func (s *ProjectService) AddMember(ctx context.Context, projectID, employeeID, role string) (*model.ProjectMember, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение сотрудника: %w", err)
	}

	m := &model.ProjectMember{
		ProjectID:  projectID,
		EmployeeID: employeeID,
		Role:       role,
	}
	if err := s.projects.AddMember(ctx, m); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("добавление участника проекта: %w", err)
	}
	return m, nil
}

// RemoveMember удаляет сотрудника из проекта.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, employeeID string) error {
	if err := s.projects.RemoveMember(ctx, projectID, employeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление участника проекта: %w", err)
	}
	return nil
}

// ListMembers возвращает участников проекта.
func (s *ProjectService) ListMembers(ctx context.Context, projectID string) ([]*model.ProjectMember, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	members, err := s.projects.ListMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("получение участников проекта: %w", err)
	}
	return members, nil
}
