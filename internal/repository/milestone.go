package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

// MilestoneRepository — интерфейс CRUD для таблицы milestones.
// Дерево features и список notes хранятся как JSONB-документы.
type MilestoneRepository interface {
	// Create создаёт веху.
	Create(ctx context.Context, m *model.Milestone) error
	// GetByID возвращает веху по UUID.
	GetByID(ctx context.Context, id string) (*model.Milestone, error)
	// ListByProjectID возвращает вехи проекта.
	ListByProjectID(ctx context.Context, projectID string) ([]*model.Milestone, error)
	// Update заменяет заголовок, срок и дерево features.
	Update(ctx context.Context, m *model.Milestone) error
	// SetNotes заменяет список заметок.
	SetNotes(ctx context.Context, id string, notes []model.MilestoneNote) (*model.Milestone, error)
	// Delete удаляет веху.
	Delete(ctx context.Context, id string) error
}

// milestoneRepo — реализация MilestoneRepository.
type milestoneRepo struct {
	db DBTX
}

// NewMilestoneRepository создаёт репозиторий вех.
func NewMilestoneRepository(db DBTX) MilestoneRepository {
	return &milestoneRepo{db: db}
}

const milestoneColumns = `id, project_id, title, due_date, features, notes, created_at, updated_at`

// scanMilestone сканирует строку результата в модель Milestone.
func scanMilestone(row pgx.Row) (*model.Milestone, error) {
	m := &model.Milestone{}
	err := row.Scan(
		&m.ID, &m.ProjectID, &m.Title, &m.DueDate, &m.Features, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *milestoneRepo) Create(ctx context.Context, m *model.Milestone) error {
	if m.Features == nil {
		m.Features = []model.MilestoneFeature{}
	}
	if m.Notes == nil {
		m.Notes = []model.MilestoneNote{}
	}

	query := `
		INSERT INTO milestones (id, project_id, title, due_date, features, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		m.ID, m.ProjectID, m.Title, m.DueDate, m.Features, m.Notes,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания вехи: %w", err)
	}
	return nil
}

func (r *milestoneRepo) GetByID(ctx context.Context, id string) (*model.Milestone, error) {
	query := fmt.Sprintf(`SELECT %s FROM milestones WHERE id = $1`, milestoneColumns)
	m, err := scanMilestone(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения вехи: %w", err)
	}
	return m, nil
}

func (r *milestoneRepo) ListByProjectID(ctx context.Context, projectID string) ([]*model.Milestone, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM milestones
		WHERE project_id = $1
		ORDER BY due_date NULLS LAST, created_at`, milestoneColumns)

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения вех проекта: %w", err)
	}
	defer rows.Close()

	var result []*model.Milestone
	for rows.Next() {
		m := &model.Milestone{}
		if err := rows.Scan(
			&m.ID, &m.ProjectID, &m.Title, &m.DueDate, &m.Features, &m.Notes,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования вехи: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *milestoneRepo) Update(ctx context.Context, m *model.Milestone) error {
	if m.Features == nil {
		m.Features = []model.MilestoneFeature{}
	}

	query := `
		UPDATE milestones
		SET title = $2, due_date = $3, features = $4, updated_at = now()
		WHERE id = $1
		RETURNING notes, updated_at`

	err := r.db.QueryRow(ctx, query,
		m.ID, m.Title, m.DueDate, m.Features,
	).Scan(&m.Notes, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления вехи: %w", err)
	}
	return nil
}

func (r *milestoneRepo) SetNotes(ctx context.Context, id string, notes []model.MilestoneNote) (*model.Milestone, error) {
	if notes == nil {
		notes = []model.MilestoneNote{}
	}

	query := fmt.Sprintf(`
		UPDATE milestones
		SET notes = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, milestoneColumns)

	m, err := scanMilestone(r.db.QueryRow(ctx, query, id, notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления заметок вехи: %w", err)
	}
	return m, nil
}

func (r *milestoneRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM milestones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления вехи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
