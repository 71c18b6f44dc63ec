package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

// EmployeeRepository — интерфейс CRUD для таблицы employees (identity store).
type EmployeeRepository interface {
	// CreateWithProfile создаёт сотрудника вместе с пустой анкетой в одной транзакции.
	CreateWithProfile(ctx context.Context, e *model.Employee, p *model.Profile) error
	// GetByID возвращает сотрудника по UUID.
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	// GetByKeycloakUserID возвращает сотрудника по идентификатору IdP (sub).
	GetByKeycloakUserID(ctx context.Context, keycloakUserID string) (*model.Employee, error)
	// List возвращает список сотрудников с фильтрацией по активности.
	List(ctx context.Context, active *bool, limit, offset int) ([]*model.Employee, error)
	// Count возвращает количество сотрудников.
	Count(ctx context.Context, active *bool) (int, error)
	// UpdateName обновляет имя и фамилию. nil-поле не трогается.
	UpdateName(ctx context.Context, id string, firstName, lastName *string) (*model.Employee, error)
	// SetActive включает/выключает сотрудника.
	SetActive(ctx context.Context, id string, active bool) error
}

// employeeRepo — реализация EmployeeRepository.
type employeeRepo struct {
	db DB
}

// NewEmployeeRepository создаёт репозиторий сотрудников.
func NewEmployeeRepository(db DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

const employeeColumns = `id, keycloak_user_id, username, email, first_name, last_name,
	active, created_at, updated_at`

// scanEmployee сканирует строку результата в модель Employee.
func scanEmployee(row pgx.Row) (*model.Employee, error) {
	e := &model.Employee{}
	err := row.Scan(
		&e.ID, &e.KeycloakUserID, &e.Username, &e.Email, &e.FirstName, &e.LastName,
		&e.Active, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepo) CreateWithProfile(ctx context.Context, e *model.Employee, p *model.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // откат после коммита — no-op

	query := `
		INSERT INTO employees (id, keycloak_user_id, username, email, first_name, last_name, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		e.ID, e.KeycloakUserID, e.Username, e.Email, e.FirstName, e.LastName, e.Active,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: сотрудник с таким username или email уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка создания сотрудника: %w", err)
	}

	profileQuery := `
		INSERT INTO profiles (id, employee_id)
		VALUES ($1, $2)
		RETURNING created_at, updated_at`

	p.EmployeeID = e.ID
	if err := tx.QueryRow(ctx, profileQuery, p.ID, p.EmployeeID).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("ошибка создания анкеты: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1`, employeeColumns)
	e, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения сотрудника: %w", err)
	}
	return e, nil
}

func (r *employeeRepo) GetByKeycloakUserID(ctx context.Context, keycloakUserID string) (*model.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE keycloak_user_id = $1`, employeeColumns)
	e, err := scanEmployee(r.db.QueryRow(ctx, query, keycloakUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения сотрудника по keycloak_user_id: %w", err)
	}
	return e, nil
}

func (r *employeeRepo) List(ctx context.Context, active *bool, limit, offset int) ([]*model.Employee, error) {
	var conditions []string
	var args []any
	argNum := 1

	if active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", argNum))
		args = append(args, *active)
		argNum++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		%s
		ORDER BY last_name, first_name
		LIMIT $%d OFFSET $%d`, employeeColumns, where, argNum, argNum+1)

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка сотрудников: %w", err)
	}
	defer rows.Close()

	var result []*model.Employee
	for rows.Next() {
		e := &model.Employee{}
		if err := rows.Scan(
			&e.ID, &e.KeycloakUserID, &e.Username, &e.Email, &e.FirstName, &e.LastName,
			&e.Active, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сотрудника: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *employeeRepo) Count(ctx context.Context, active *bool) (int, error) {
	query := `SELECT COUNT(*) FROM employees`
	var args []any
	if active != nil {
		query += ` WHERE active = $1`
		args = append(args, *active)
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта сотрудников: %w", err)
	}
	return count, nil
}

func (r *employeeRepo) UpdateName(ctx context.Context, id string, firstName, lastName *string) (*model.Employee, error) {
	query := fmt.Sprintf(`
		UPDATE employees
		SET first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, employeeColumns)

	e, err := scanEmployee(r.db.QueryRow(ctx, query, id, firstName, lastName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления имени сотрудника: %w", err)
	}
	return e, nil
}

func (r *employeeRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE employees SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("ошибка изменения активности сотрудника: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
