package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

// ProfileRepository — интерфейс доступа к таблице profiles (profile store).
type ProfileRepository interface {
	// GetByEmployeeID возвращает анкету сотрудника.
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.Profile, error)
	// ApplyPatch применяет частичное обновление одним UPDATE
	// и возвращает обновлённую анкету. Поля, не заданные в patch,
	// не затрагиваются. Защёлка завершения ставится не больше одного
	// раза: completed_at сохраняет первоначальное значение.
	ApplyPatch(ctx context.Context, employeeID string, patch *model.ProfilePatch) (*model.Profile, error)
	// CountIncomplete возвращает количество незавершённых анкет.
	CountIncomplete(ctx context.Context) (int, error)
}

// profileRepo — реализация ProfileRepository.
type profileRepo struct {
	db DBTX
}

// NewProfileRepository создаёт репозиторий анкет.
func NewProfileRepository(db DBTX) ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `id, employee_id, department, position, salary, hire_date, skills,
	phone, address, emergency_contact, completed, completed_at, created_at, updated_at`

// scanProfile сканирует строку результата в модель Profile.
func scanProfile(row pgx.Row) (*model.Profile, error) {
	p := &model.Profile{}
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Department, &p.Position, &p.Salary, &p.HireDate, &p.Skills,
		&p.Phone, &p.Address, &p.EmergencyContact, &p.Completed, &p.CompletedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *profileRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*model.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE employee_id = $1`, profileColumns)
	p, err := scanProfile(r.db.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения анкеты: %w", err)
	}
	return p, nil
}

func (r *profileRepo) ApplyPatch(ctx context.Context, employeeID string, patch *model.ProfilePatch) (*model.Profile, error) {
	sets := []string{"updated_at = now()"}
	args := []any{employeeID}
	argNum := 2

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if patch.Department != nil {
		set("department", *patch.Department)
	}
	if patch.Position != nil {
		set("position", *patch.Position)
	}
	if patch.Salary != nil {
		set("salary", *patch.Salary)
	}
	if patch.HireDate != nil {
		set("hire_date", *patch.HireDate)
	}
	if patch.Skills != nil {
		set("skills", patch.Skills)
	}
	if patch.Phone != nil {
		set("phone", *patch.Phone)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.EmergencyContact != nil {
		set("emergency_contact", *patch.EmergencyContact)
	}
	if patch.Complete {
		// completed_at ставится ровно один раз
		sets = append(sets,
			"completed = TRUE",
			"completed_at = COALESCE(completed_at, now())",
		)
	}

	query := fmt.Sprintf(`
		UPDATE profiles
		SET %s
		WHERE employee_id = $1
		RETURNING %s`, strings.Join(sets, ", "), profileColumns)

	p, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления анкеты: %w", err)
	}
	return p, nil
}

func (r *profileRepo) CountIncomplete(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE NOT completed`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта незавершённых анкет: %w", err)
	}
	return count, nil
}
