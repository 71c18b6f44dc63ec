package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

// ProjectRepository — интерфейс CRUD для таблиц projects и project_members.
type ProjectRepository interface {
	// Create создаёт проект.
	Create(ctx context.Context, p *model.Project) error
	// GetByID возвращает проект по UUID.
	GetByID(ctx context.Context, id string) (*model.Project, error)
	// List возвращает список проектов с фильтрацией по статусу.
	List(ctx context.Context, status *string, limit, offset int) ([]*model.Project, error)
	// Count возвращает количество проектов.
	Count(ctx context.Context, status *string) (int, error)
	// Update обновляет проект.
	Update(ctx context.Context, p *model.Project) error
	// Delete удаляет проект.
	Delete(ctx context.Context, id string) error
	// AddMember добавляет сотрудника в проект.
	AddMember(ctx context.Context, m *model.ProjectMember) error
	// RemoveMember удаляет сотрудника из проекта.
	RemoveMember(ctx context.Context, projectID, employeeID string) error
	// ListMembers возвращает участников проекта.
	ListMembers(ctx context.Context, projectID string) ([]*model.ProjectMember, error)
}

// projectRepo — реализация ProjectRepository.
type projectRepo struct {
	db DBTX
}

// NewProjectRepository создаёт репозиторий проектов.
func NewProjectRepository(db DBTX) ProjectRepository {
	return &projectRepo{db: db}
}

const projectColumns = `id, name, description, status, owner_id, start_date, end_date,
	created_at, updated_at`

// scanProject сканирует строку результата в модель Project.
func scanProject(row pgx.Row) (*model.Project, error) {
	p := &model.Project{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.OwnerID, &p.StartDate, &p.EndDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	query := `
		INSERT INTO projects (id, name, description, status, owner_id, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Status, p.OwnerID, p.StartDate, p.EndDate,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания проекта: %w", err)
	}
	return nil
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)
	p, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения проекта: %w", err)
	}
	return p, nil
}

func (r *projectRepo) List(ctx context.Context, status *string, limit, offset int) ([]*model.Project, error) {
	var conditions []string
	var args []any
	argNum := 1

	if status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, *status)
		argNum++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, projectColumns, where, argNum, argNum+1)

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка проектов: %w", err)
	}
	defer rows.Close()

	var result []*model.Project
	for rows.Next() {
		p := &model.Project{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Status, &p.OwnerID, &p.StartDate, &p.EndDate,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования проекта: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *projectRepo) Count(ctx context.Context, status *string) (int, error) {
	query := `SELECT COUNT(*) FROM projects`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта проектов: %w", err)
	}
	return count, nil
}

func (r *projectRepo) Update(ctx context.Context, p *model.Project) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3, status = $4, start_date = $5, end_date = $6,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Status, p.StartDate, p.EndDate,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления проекта: %w", err)
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления проекта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepo) AddMember(ctx context.Context, m *model.ProjectMember) error {
	query := `
		INSERT INTO project_members (project_id, employee_id, role)
		VALUES ($1, $2, $3)
		RETURNING added_at`

	err := r.db.QueryRow(ctx, query, m.ProjectID, m.EmployeeID, m.Role).Scan(&m.AddedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: сотрудник уже в проекте", ErrConflict)
		}
		return fmt.Errorf("ошибка добавления участника: %w", err)
	}
	return nil
}

func (r *projectRepo) RemoveMember(ctx context.Context, projectID, employeeID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND employee_id = $2`,
		projectID, employeeID)
	if err != nil {
		return fmt.Errorf("ошибка удаления участника: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepo) ListMembers(ctx context.Context, projectID string) ([]*model.ProjectMember, error) {
	rows, err := r.db.Query(ctx,
		`SELECT project_id, employee_id, role, added_at
		 FROM project_members
		 WHERE project_id = $1
		 ORDER BY added_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения участников проекта: %w", err)
	}
	defer rows.Close()

	var result []*model.ProjectMember
	for rows.Next() {
		m := &model.ProjectMember{}
		if err := rows.Scan(&m.ProjectID, &m.EmployeeID, &m.Role, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования участника: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
