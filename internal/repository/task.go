package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

// TaskRepository — интерфейс CRUD для таблицы tasks.
type TaskRepository interface {
	// Create создаёт задачу.
	Create(ctx context.Context, t *model.Task) error
	// GetByID возвращает задачу по UUID.
	GetByID(ctx context.Context, id string) (*model.Task, error)
	// List возвращает задачи с фильтрацией по проекту, исполнителю и статусу.
	List(ctx context.Context, projectID, assigneeID, status *string, limit, offset int) ([]*model.Task, error)
	// Update обновляет задачу.
	Update(ctx context.Context, t *model.Task) error
	// Delete удаляет задачу.
	Delete(ctx context.Context, id string) error
	// CountByStatus возвращает количество задач по статусам.
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// taskRepo — реализация TaskRepository.
type taskRepo struct {
	db DBTX
}

// NewTaskRepository создаёт репозиторий задач.
func NewTaskRepository(db DBTX) TaskRepository {
	return &taskRepo{db: db}
}

const taskColumns = `id, project_id, title, description, status, assignee_id, due_date,
	created_by, created_at, updated_at`

// scanTask сканирует строку результата в модель Task.
func scanTask(row pgx.Row) (*model.Task, error) {
	t := &model.Task{}
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.AssigneeID, &t.DueDate,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *taskRepo) Create(ctx context.Context, t *model.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, title, description, status, assignee_id, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.AssigneeID, t.DueDate, t.CreatedBy,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания задачи: %w", err)
	}
	return nil
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)
	t, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения задачи: %w", err)
	}
	return t, nil
}

func (r *taskRepo) List(ctx context.Context, projectID, assigneeID, status *string, limit, offset int) ([]*model.Task, error) {
	var conditions []string
	var args []any
	argNum := 1

	addCondition := func(expr string, value any) {
		conditions = append(conditions, fmt.Sprintf(expr, argNum))
		args = append(args, value)
		argNum++
	}

	if projectID != nil {
		addCondition("project_id = $%d", *projectID)
	}
	if assigneeID != nil {
		addCondition("assignee_id = $%d", *assigneeID)
	}
	if status != nil {
		addCondition("status = $%d", *status)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, taskColumns, where, argNum, argNum+1)

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка задач: %w", err)
	}
	defer rows.Close()

	var result []*model.Task
	for rows.Next() {
		t := &model.Task{}
		if err := rows.Scan(
			&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.AssigneeID, &t.DueDate,
			&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования задачи: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *taskRepo) Update(ctx context.Context, t *model.Task) error {
	query := `
		UPDATE tasks
		SET project_id = $2, title = $3, description = $4, status = $5,
			assignee_id = $6, due_date = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.AssigneeID, t.DueDate,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления задачи: %w", err)
	}
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taskRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта задач: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования счётчика задач: %w", err)
		}
		result[status] = count
	}
	return result, rows.Err()
}
