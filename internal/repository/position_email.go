package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

// PositionEmailRepository — интерфейс CRUD для таблицы position_emails.
type PositionEmailRepository interface {
	// Create создаёт маппинг должность → email.
	Create(ctx context.Context, pe *model.PositionEmail) error
	// GetByPosition возвращает маппинг по должности.
	GetByPosition(ctx context.Context, position string) (*model.PositionEmail, error)
	// List возвращает все маппинги.
	List(ctx context.Context) ([]*model.PositionEmail, error)
	// Update обновляет email маппинга.
	Update(ctx context.Context, pe *model.PositionEmail) error
	// Delete удаляет маппинг по должности.
	Delete(ctx context.Context, position string) error
}

// positionEmailRepo — реализация PositionEmailRepository.
type positionEmailRepo struct {
	db DBTX
}

// NewPositionEmailRepository создаёт репозиторий маппингов должностей.
func NewPositionEmailRepository(db DBTX) PositionEmailRepository {
	return &positionEmailRepo{db: db}
}

const positionEmailColumns = `id, position, email, created_at, updated_at`

func (r *positionEmailRepo) Create(ctx context.Context, pe *model.PositionEmail) error {
	query := `
		INSERT INTO position_emails (id, position, email)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, pe.ID, pe.Position, pe.Email).Scan(&pe.CreatedAt, &pe.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: маппинг для этой должности уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка создания маппинга должности: %w", err)
	}
	return nil
}

func (r *positionEmailRepo) GetByPosition(ctx context.Context, position string) (*model.PositionEmail, error) {
	query := fmt.Sprintf(`SELECT %s FROM position_emails WHERE position = $1`, positionEmailColumns)

	pe := &model.PositionEmail{}
	err := r.db.QueryRow(ctx, query, position).Scan(
		&pe.ID, &pe.Position, &pe.Email, &pe.CreatedAt, &pe.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения маппинга должности: %w", err)
	}
	return pe, nil
}

func (r *positionEmailRepo) List(ctx context.Context) ([]*model.PositionEmail, error) {
	query := fmt.Sprintf(`SELECT %s FROM position_emails ORDER BY position`, positionEmailColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка маппингов: %w", err)
	}
	defer rows.Close()

	var result []*model.PositionEmail
	for rows.Next() {
		pe := &model.PositionEmail{}
		if err := rows.Scan(&pe.ID, &pe.Position, &pe.Email, &pe.CreatedAt, &pe.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования маппинга: %w", err)
		}
		result = append(result, pe)
	}
	return result, rows.Err()
}

func (r *positionEmailRepo) Update(ctx context.Context, pe *model.PositionEmail) error {
	query := `
		UPDATE position_emails
		SET email = $2, updated_at = now()
		WHERE position = $1
		RETURNING id, updated_at`

	err := r.db.QueryRow(ctx, query, pe.Position, pe.Email).Scan(&pe.ID, &pe.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления маппинга должности: %w", err)
	}
	return nil
}

func (r *positionEmailRepo) Delete(ctx context.Context, position string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM position_emails WHERE position = $1`, position)
	if err != nil {
		return fmt.Errorf("ошибка удаления маппинга должности: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
