package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

// DocumentRepository — интерфейс CRUD для таблицы documents (реестр вложений).
type DocumentRepository interface {
	// Create регистрирует вложение.
	Create(ctx context.Context, d *model.Document) error
	// GetByID возвращает вложение по UUID.
	GetByID(ctx context.Context, id string) (*model.Document, error)
	// List возвращает вложения с фильтрацией по сотруднику и проекту.
	List(ctx context.Context, employeeID, projectID *string, limit, offset int) ([]*model.Document, error)
	// Delete удаляет запись о вложении.
	Delete(ctx context.Context, id string) error
}

// documentRepo — реализация DocumentRepository.
type documentRepo struct {
	db DBTX
}

// NewDocumentRepository создаёт репозиторий вложений.
func NewDocumentRepository(db DBTX) DocumentRepository {
	return &documentRepo{db: db}
}

const documentColumns = `id, employee_id, project_id, file_id, filename, content_type,
	size, description, uploaded_by, created_at`

// scanDocument сканирует строку результата в модель Document.
func scanDocument(row pgx.Row) (*model.Document, error) {
	d := &model.Document{}
	err := row.Scan(
		&d.ID, &d.EmployeeID, &d.ProjectID, &d.FileID, &d.Filename, &d.ContentType,
		&d.Size, &d.Description, &d.UploadedBy, &d.CreatedAt,
	)
	return d, err
}

func (r *documentRepo) Create(ctx context.Context, d *model.Document) error {
	query := `
		INSERT INTO documents (id, employee_id, project_id, file_id, filename, content_type,
			size, description, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		d.ID, d.EmployeeID, d.ProjectID, d.FileID, d.Filename, d.ContentType,
		d.Size, d.Description, d.UploadedBy,
	).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка регистрации вложения: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*model.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents WHERE id = $1`, documentColumns)
	d, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения вложения: %w", err)
	}
	return d, nil
}

func (r *documentRepo) List(ctx context.Context, employeeID, projectID *string, limit, offset int) ([]*model.Document, error) {
	var conditions []string
	var args []any
	argNum := 1

	if employeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argNum))
		args = append(args, *employeeID)
		argNum++
	}
	if projectID != nil {
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", argNum))
		args = append(args, *projectID)
		argNum++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM documents
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, documentColumns, where, argNum, argNum+1)

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка вложений: %w", err)
	}
	defer rows.Close()

	var result []*model.Document
	for rows.Next() {
		d := &model.Document{}
		if err := rows.Scan(
			&d.ID, &d.EmployeeID, &d.ProjectID, &d.FileID, &d.Filename, &d.ContentType,
			&d.Size, &d.Description, &d.UploadedBy, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования вложения: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления вложения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
