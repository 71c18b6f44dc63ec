package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

// TestDashboardSummary — агрегация счётчиков по всем доменам.
func TestDashboardSummary(t *testing.T) {
	profiles := newFakeProfileRepo()
	employees := newFakeEmployeeRepo(profiles)
	grants := newFakeGrantRepo()
	projects := newFakeProjectRepo()
	tasks := newFakeTaskRepo()

	svc := NewDashboardService(employees, profiles, grants, projects, tasks, testLogger())

	// Два сотрудника, один неактивен; одна анкета завершена
	e1 := &model.Employee{ID: uuid.NewString(), Username: "u1", Email: "u1@staffstore.lan", Active: true}
	e2 := &model.Employee{ID: uuid.NewString(), Username: "u2", Email: "u2@staffstore.lan", Active: false}
	if err := employees.CreateWithProfile(context.Background(), e1, &model.Profile{ID: uuid.NewString()}); err != nil {
		t.Fatal(err)
	}
	if err := employees.CreateWithProfile(context.Background(), e2, &model.Profile{ID: uuid.NewString()}); err != nil {
		t.Fatal(err)
	}
	if _, err := profiles.ApplyPatch(context.Background(), e1.ID, &model.ProfilePatch{Complete: true}); err != nil {
		t.Fatal(err)
	}

	// Активное разрешение
	if err := grants.Create(context.Background(), &model.EditGrant{
		ID:                 uuid.NewString(),
		EmployeeID:         e1.ID,
		Active:             true,
		BasicInfoFields:    map[string]bool{},
		PersonalInfoFields: map[string]bool{},
	}); err != nil {
		t.Fatal(err)
	}

	// Проекты: один активный, один завершённый
	for _, status := range []string{model.ProjectStatusActive, model.ProjectStatusCompleted} {
		if err := projects.Create(context.Background(), &model.Project{
			ID:     uuid.NewString(),
			Name:   "p-" + status,
			Status: status,
		}); err != nil {
			t.Fatal(err)
		}
	}

	// Задачи по статусам
	for _, status := range []string{model.TaskStatusTodo, model.TaskStatusTodo, model.TaskStatusDone} {
		if err := tasks.Create(context.Background(), &model.Task{
			ID:     uuid.NewString(),
			Title:  "t",
			Status: status,
		}); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Ошибка агрегации: %v", err)
	}

	if summary.TotalEmployees != 2 {
		t.Errorf("ожидалось 2 сотрудника, получено %d", summary.TotalEmployees)
	}
	if summary.ActiveEmployees != 1 {
		t.Errorf("ожидался 1 активный сотрудник, получено %d", summary.ActiveEmployees)
	}
	if summary.IncompleteProfiles != 1 {
		t.Errorf("ожидалась 1 незавершённая анкета, получено %d", summary.IncompleteProfiles)
	}
	if summary.TotalProjects != 2 {
		t.Errorf("ожидалось 2 проекта, получено %d", summary.TotalProjects)
	}
	if summary.ActiveProjects != 1 {
		t.Errorf("ожидался 1 активный проект, получено %d", summary.ActiveProjects)
	}
	if summary.TasksByStatus[model.TaskStatusTodo] != 2 {
		t.Errorf("ожидалось 2 задачи todo, получено %d", summary.TasksByStatus[model.TaskStatusTodo])
	}
	if summary.TasksByStatus[model.TaskStatusDone] != 1 {
		t.Errorf("ожидалась 1 задача done, получено %d", summary.TasksByStatus[model.TaskStatusDone])
	}
	if summary.PendingGrants != 1 {
		t.Errorf("ожидалось 1 активное разрешение, получено %d", summary.PendingGrants)
	}
}
