// tasks.go — сервис задач.
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

// TaskService — CRUD задач.
type TaskService struct {
	tasks     repository.TaskRepository
	projects  repository.ProjectRepository
	employees repository.EmployeeRepository
	logger    *slog.Logger
}

// NewTaskService создаёт сервис задач.
func NewTaskService(
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	employees repository.EmployeeRepository,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		tasks:     tasks,
		projects:  projects,
		employees: employees,
		logger:    logger.With(slog.String("component", "task_service")),
	}
}

// TaskRequest — запрос создания или обновления задачи.
type TaskRequest struct {
	ProjectID   *string
	Title       string
	Description string
	Status      string
	AssigneeID  *string
	DueDate     *time.Time
}

// Create создаёт задачу.
func (s *TaskService) Create(ctx context.Context, req *TaskRequest, createdBy string) (*model.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: отсутствуют обязательные поля: title", ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = model.TaskStatusTodo
	}
	if !model.ValidTaskStatus(status) {
		return nil, fmt.Errorf("%w задачи: %q", ErrInvalidStatus, status)
	}

	if req.ProjectID != nil {
		if _, err := s.projects.GetByID(ctx, *req.ProjectID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("получение проекта: %w", err)
		}
	}
	if req.AssigneeID != nil {
		if _, err := s.employees.GetByID(ctx, *req.AssigneeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("получение исполнителя: %w", err)
		}
	}

	t := &model.Task{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      status,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		CreatedBy:   createdBy,
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	s.logger.Info("Задача создана",
		slog.String("task_id", t.ID),
		slog.String("title", t.Title),
	)
	return t, nil
}

// List возвращает задачи с фильтрацией по проекту, исполнителю и статусу.
func (s *TaskService) List(ctx context.Context, projectID, assigneeID, status *string, limit, offset int) ([]*model.Task, error) {
	if status != nil && !model.ValidTaskStatus(*status) {
		return nil, fmt.Errorf("%w задачи: %q", ErrInvalidStatus, *status)
	}

	tasks, err := s.tasks.List(ctx, projectID, assigneeID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("получение списка задач: %w", err)
	}
	return tasks, nil
}

// Get возвращает задачу по UUID.
func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// Update обновляет задачу.
func (s *TaskService) Update(ctx context.Context, id string, req *TaskRequest) (*model.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) != "" {
		t.Title = strings.TrimSpace(req.Title)
	}
	t.Description = req.Description
	if req.Status != "" {
		if !model.ValidTaskStatus(req.Status) {
			return nil, fmt.Errorf("%w задачи: %q", ErrInvalidStatus, req.Status)
		}
		t.Status = req.Status
	}
	if req.AssigneeID != nil {
		if _, err := s.employees.GetByID(ctx, *req.AssigneeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("получение исполнителя: %w", err)
		}
	}
	t.AssigneeID = req.AssigneeID
	t.DueDate = req.DueDate

	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return t, nil
}

// Delete удаляет задачу.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}
