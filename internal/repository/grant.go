package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

// EditGrantRepository — интерфейс доступа к таблице edit_grants (grant store).
// Grant — одноразовый capability token: потребление реализовано как
// условное удаление delete-if-still-active, атомарность гарантирует
// PostgreSQL, без прикладных блокировок.
type EditGrantRepository interface {
	// Create создаёт grant, удаляя предыдущий активный grant сотрудника.
	Create(ctx context.Context, g *model.EditGrant) error
	// GetActiveByEmployeeID возвращает активный grant сотрудника.
	GetActiveByEmployeeID(ctx context.Context, employeeID string) (*model.EditGrant, error)
	// ListByEmployeeID возвращает grant'ы сотрудника.
	ListByEmployeeID(ctx context.Context, employeeID string) ([]*model.EditGrant, error)
	// Consume атомарно потребляет grant (delete-if-still-active).
	// Если grant уже потреблён конкурентным запросом — ErrNotFound.
	Consume(ctx context.Context, id string) error
	// Delete удаляет grant по UUID (отзыв руководством).
	Delete(ctx context.Context, id string) error
	// CountActive возвращает количество активных grant'ов.
	CountActive(ctx context.Context) (int, error)
}

// editGrantRepo — реализация EditGrantRepository.
type editGrantRepo struct {
	db DBTX
}

// NewEditGrantRepository создаёт репозиторий grant'ов.
func NewEditGrantRepository(db DBTX) EditGrantRepository {
	return &editGrantRepo{db: db}
}

const grantColumns = `id, employee_id, can_edit_basic_info, basic_info_fields,
	can_edit_personal_info, personal_info_fields, is_active, issued_by, created_at`

// scanGrant сканирует строку результата в модель EditGrant.
func scanGrant(row pgx.Row) (*model.EditGrant, error) {
	g := &model.EditGrant{}
	err := row.Scan(
		&g.ID, &g.EmployeeID, &g.CanEditBasicInfo, &g.BasicInfoFields,
		&g.CanEditPersonalInfo, &g.PersonalInfoFields, &g.Active, &g.IssuedBy, &g.CreatedAt,
	)
	return g, err
}

func (r *editGrantRepo) Create(ctx context.Context, g *model.EditGrant) error {
	// Новый grant заменяет предыдущий активный: инвариант «не больше
	// одного активного на сотрудника» дополнительно защищён частичным
	// уникальным индексом.
	if _, err := r.db.Exec(ctx,
		`DELETE FROM edit_grants WHERE employee_id = $1 AND is_active`, g.EmployeeID); err != nil {
		return fmt.Errorf("ошибка удаления предыдущего grant: %w", err)
	}

	query := `
		INSERT INTO edit_grants (id, employee_id, can_edit_basic_info, basic_info_fields,
			can_edit_personal_info, personal_info_fields, is_active, issued_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		g.ID, g.EmployeeID, g.CanEditBasicInfo, g.BasicInfoFields,
		g.CanEditPersonalInfo, g.PersonalInfoFields, g.Active, g.IssuedBy,
	).Scan(&g.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: у сотрудника уже есть активный grant", ErrConflict)
		}
		return fmt.Errorf("ошибка создания grant: %w", err)
	}
	return nil
}

func (r *editGrantRepo) GetActiveByEmployeeID(ctx context.Context, employeeID string) (*model.EditGrant, error) {
	query := fmt.Sprintf(`SELECT %s FROM edit_grants WHERE employee_id = $1 AND is_active`, grantColumns)
	g, err := scanGrant(r.db.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения активного grant: %w", err)
	}
	return g, nil
}

func (r *editGrantRepo) ListByEmployeeID(ctx context.Context, employeeID string) ([]*model.EditGrant, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM edit_grants
		WHERE employee_id = $1
		ORDER BY created_at DESC`, grantColumns)

	rows, err := r.db.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка grant'ов: %w", err)
	}
	defer rows.Close()

	var result []*model.EditGrant
	for rows.Next() {
		g := &model.EditGrant{}
		if err := rows.Scan(
			&g.ID, &g.EmployeeID, &g.CanEditBasicInfo, &g.BasicInfoFields,
			&g.CanEditPersonalInfo, &g.PersonalInfoFields, &g.Active, &g.IssuedBy, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования grant: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func (r *editGrantRepo) Consume(ctx context.Context, id string) error {
	// Условное удаление: из двух конкурентных потребителей выигрывает
	// ровно один, второй получает ErrNotFound.
	tag, err := r.db.Exec(ctx,
		`DELETE FROM edit_grants WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("ошибка потребления grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *editGrantRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM edit_grants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *editGrantRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM edit_grants WHERE is_active`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта активных grant'ов: %w", err)
	}
	return count, nil
}
