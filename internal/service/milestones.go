// milestones.go — сервис вех проекта.
// Дерево features → items присылается и сохраняется целиком (JSONB),
// заметки добавляются и удаляются по одной.
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

// MilestoneService — CRUD вех и их заметок.
type MilestoneService struct {
	milestones repository.MilestoneRepository
	projects   repository.ProjectRepository
	logger     *slog.Logger
}

// NewMilestoneService создаёт сервис вех.
func NewMilestoneService(
	milestones repository.MilestoneRepository,
	projects repository.ProjectRepository,
	logger *slog.Logger,
) *MilestoneService {
	return &MilestoneService{
		milestones: milestones,
		projects:   projects,
		logger:     logger.With(slog.String("component", "milestone_service")),
	}
}

// MilestoneRequest — запрос создания или обновления вехи.
type MilestoneRequest struct {
	Title    string
	DueDate  *time.Time
	Features []model.MilestoneFeature
}

// Create создаёт веху проекта.
func (s *MilestoneService) Create(ctx context.Context, projectID string, req *MilestoneRequest) (*model.Milestone, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: отсутствуют обязательные поля: title", ErrValidation)
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение проекта: %w", err)
	}

	m := &model.Milestone{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     strings.TrimSpace(req.Title),
		DueDate:   req.DueDate,
		Features:  req.Features,
	}

	if err := s.milestones.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("создание вехи: %w", err)
	}

	s.logger.Info("Веха создана",
		slog.String("milestone_id", m.ID),
		slog.String("project_id", projectID),
	)
	return m, nil
}

// ListByProject возвращает вехи проекта.
func (s *MilestoneService) ListByProject(ctx context.Context, projectID string) ([]*model.Milestone, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение проекта: %w", err)
	}

	milestones, err := s.milestones.ListByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("получение вех проекта: %w", err)
	}
	return milestones, nil
}

// Get возвращает веху по UUID.
func (s *MilestoneService) Get(ctx context.Context, id string) (*model.Milestone, error) {
	m, err := s.milestones.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение вехи: %w", err)
	}
	return m, nil
}

// Update заменяет заголовок, срок и дерево features вехи целиком.
// Заметки при этом не затрагиваются.
func (s *MilestoneService) Update(ctx context.Context, id string, req *MilestoneRequest) (*model.Milestone, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) != "" {
		m.Title = strings.TrimSpace(req.Title)
	}
	m.DueDate = req.DueDate
	m.Features = req.Features

	if err := s.milestones.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление вехи: %w", err)
	}
	return m, nil
}

// AddNote добавляет заметку к вехе.
func (s *MilestoneService) AddNote(ctx context.Context, id, text, author string) (*model.Milestone, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: отсутствуют обязательные поля: text", ErrValidation)
	}

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	notes := append(m.Notes, model.MilestoneNote{
		Text:      text,
		Author:    author,
		CreatedAt: time.Now(),
	})

	updated, err := s.milestones.SetNotes(ctx, id, notes)
	if err != nil {
		return nil, fmt.Errorf("добавление заметки: %w", err)
	}
	return updated, nil
}

// RemoveNote удаляет заметку по индексу.
func (s *MilestoneService) RemoveNote(ctx context.Context, id string, index int) (*model.Milestone, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(m.Notes) {
		return nil, ErrNotFound
	}

	notes := append(m.Notes[:index:index], m.Notes[index+1:]...)

	updated, err := s.milestones.SetNotes(ctx, id, notes)
	if err != nil {
		return nil, fmt.Errorf("удаление заметки: %w", err)
	}
	return updated, nil
}

// Delete удаляет веху.
func (s *MilestoneService) Delete(ctx context.Context, id string) error {
	if err := s.milestones.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление вехи: %w", err)
	}
	return nil
}
