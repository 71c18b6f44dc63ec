package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

func newMilestoneFixture(t *testing.T) (*MilestoneService, *model.Project) {
	t.Helper()

	projects := newFakeProjectRepo()
	milestones := newFakeMilestoneRepo()

	p := &model.Project{
		ID:     uuid.NewString(),
		Name:   "Staffstore",
		Status: model.ProjectStatusActive,
	}
	if err := projects.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	return NewMilestoneService(milestones, projects, testLogger()), p
}

// TestMilestoneCreateAndProgress — создание вехи и подсчёт прогресса.
func TestMilestoneCreateAndProgress(t *testing.T) {
	svc, p := newMilestoneFixture(t)

	m, err := svc.Create(context.Background(), p.ID, &MilestoneRequest{
		Title: "Релиз 1.0",
		Features: []model.MilestoneFeature{
			{
				Title: "Анкеты",
				Items: []model.MilestoneItem{
					{Text: "Заполнение", Done: true},
					{Text: "Завершение", Done: false},
				},
			},
			{
				Title: "Разрешения",
				Items: []model.MilestoneItem{
					{Text: "Выдача", Done: true},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("Ошибка создания вехи: %v", err)
	}

	done, total := m.Progress()
	if done != 2 || total != 3 {
		t.Errorf("ожидался прогресс 2/3, получен %d/%d", done, total)
	}
}

// TestMilestoneCreate_ProjectNotFound — веха для несуществующего проекта.
func TestMilestoneCreate_ProjectNotFound(t *testing.T) {
	svc, _ := newMilestoneFixture(t)

	_, err := svc.Create(context.Background(), uuid.NewString(), &MilestoneRequest{Title: "Релиз"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получена: %v", err)
	}
}

// TestMilestoneUpdate_ReplacesFeatures — обновление заменяет дерево
// целиком, не трогая заметки.
func TestMilestoneUpdate_ReplacesFeatures(t *testing.T) {
	svc, p := newMilestoneFixture(t)

	m, err := svc.Create(context.Background(), p.ID, &MilestoneRequest{
		Title: "Релиз 1.0",
		Features: []model.MilestoneFeature{
			{Title: "Старая", Items: []model.MilestoneItem{{Text: "x"}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddNote(context.Background(), m.ID, "заметка", "ipetrov"); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(context.Background(), m.ID, &MilestoneRequest{
		Title: "Релиз 1.1",
		Features: []model.MilestoneFeature{
			{Title: "Новая", Items: []model.MilestoneItem{{Text: "y", Done: true}}},
		},
	})
	if err != nil {
		t.Fatalf("Ошибка обновления: %v", err)
	}

	if updated.Title != "Релиз 1.1" {
		t.Errorf("заголовок не обновлён: %s", updated.Title)
	}
	if len(updated.Features) != 1 || updated.Features[0].Title != "Новая" {
		t.Errorf("дерево не заменено: %+v", updated.Features)
	}

	got, err := svc.Get(context.Background(), m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Notes) != 1 || got.Notes[0].Text != "заметка" {
		t.Errorf("заметки затронуты обновлением дерева: %+v", got.Notes)
	}
}

// TestMilestoneNotes — добавление и удаление заметок.
func TestMilestoneNotes(t *testing.T) {
	svc, p := newMilestoneFixture(t)

	m, err := svc.Create(context.Background(), p.ID, &MilestoneRequest{Title: "Релиз"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddNote(context.Background(), m.ID, "первая", "ipetrov"); err != nil {
		t.Fatal(err)
	}
	withNotes, err := svc.AddNote(context.Background(), m.ID, "вторая", "asidorov")
	if err != nil {
		t.Fatal(err)
	}

	if len(withNotes.Notes) != 2 {
		t.Fatalf("ожидалось 2 заметки, получено %d", len(withNotes.Notes))
	}
	if withNotes.Notes[1].Author != "asidorov" {
		t.Errorf("неожиданный автор: %s", withNotes.Notes[1].Author)
	}

	// Пустая заметка отклоняется
	if _, err := svc.AddNote(context.Background(), m.ID, "   ", "ipetrov"); !errors.Is(err, ErrValidation) {
		t.Errorf("ожидалась ErrValidation, получена: %v", err)
	}

	// Удаление по индексу
	afterRemove, err := svc.RemoveNote(context.Background(), m.ID, 0)
	if err != nil {
		t.Fatalf("Ошибка удаления заметки: %v", err)
	}
	if len(afterRemove.Notes) != 1 || afterRemove.Notes[0].Text != "вторая" {
		t.Errorf("удалена не та заметка: %+v", afterRemove.Notes)
	}

	// Индекс за пределами
	if _, err := svc.RemoveNote(context.Background(), m.ID, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получена: %v", err)
	}
}

// TestMilestoneListByProject — вехи возвращаются по проекту.
func TestMilestoneListByProject(t *testing.T) {
	svc, p := newMilestoneFixture(t)

	for _, title := range []string{"Альфа", "Бета"} {
		if _, err := svc.Create(context.Background(), p.ID, &MilestoneRequest{Title: title}); err != nil {
			t.Fatal(err)
		}
	}

	milestones, err := svc.ListByProject(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Ошибка получения вех: %v", err)
	}
	if len(milestones) != 2 {
		t.Errorf("ожидалось 2 вехи, получено %d", len(milestones))
	}

	if _, err := svc.ListByProject(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получена: %v", err)
	}
}
