// dashboard.go — сервис агрегированных счётчиков для дашборда.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arturkryukov/staffstore/employee-module/internal/repository"
)

// DashboardSummary — агрегированные счётчики.
type DashboardSummary struct {
	// TotalEmployees — всего сотрудников
	TotalEmployees int
	// ActiveEmployees — активных сотрудников
	ActiveEmployees int
	// IncompleteProfiles — незавершённых анкет
	IncompleteProfiles int
	// TotalProjects — всего проектов
	TotalProjects int
	// ActiveProjects — активных проектов
	ActiveProjects int
	// TasksByStatus — задач по статусам (todo, in_progress, done)
	TasksByStatus map[string]int
	// PendingGrants — активных (невостребованных) разрешений на правку
	PendingGrants int
}

// DashboardService — агрегация счётчиков по всем доменам.
type DashboardService struct {
	employees repository.EmployeeRepository
	profiles  repository.ProfileRepository
	grants    repository.EditGrantRepository
	projects  repository.ProjectRepository
	tasks     repository.TaskRepository
	logger    *slog.Logger
}

// NewDashboardService создаёт сервис дашборда.
func NewDashboardService(
	employees repository.EmployeeRepository,
	profiles repository.ProfileRepository,
	grants repository.EditGrantRepository,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		employees: employees,
		profiles:  profiles,
		grants:    grants,
		projects:  projects,
		tasks:     tasks,
		logger:    logger.With(slog.String("component", "dashboard_service")),
	}
}

// Summary собирает счётчики дашборда.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	var err error
	if summary.TotalEmployees, err = s.employees.Count(ctx, nil); err != nil {
		return nil, fmt.Errorf("подсчёт сотрудников: %w", err)
	}

	active := true
	if summary.ActiveEmployees, err = s.employees.Count(ctx, &active); err != nil {
		return nil, fmt.Errorf("подсчёт активных сотрудников: %w", err)
	}

	if summary.IncompleteProfiles, err = s.profiles.CountIncomplete(ctx); err != nil {
		return nil, fmt.Errorf("подсчёт незавершённых анкет: %w", err)
	}

	if summary.TotalProjects, err = s.projects.Count(ctx, nil); err != nil {
		return nil, fmt.Errorf("подсчёт проектов: %w", err)
	}

	activeStatus := "active"
	if summary.ActiveProjects, err = s.projects.Count(ctx, &activeStatus); err != nil {
		return nil, fmt.Errorf("подсчёт активных проектов: %w", err)
	}

	if summary.TasksByStatus, err = s.tasks.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("подсчёт задач по статусам: %w", err)
	}

	if summary.PendingGrants, err = s.grants.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("подсчёт активных разрешений: %w", err)
	}

	return summary, nil
}
