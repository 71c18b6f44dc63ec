package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

// RoleOverrideRepository — интерфейс CRUD для таблицы role_overrides.
type RoleOverrideRepository interface {
	// Upsert создаёт или обновляет role override по keycloak_user_id.
	Upsert(ctx context.Context, ro *model.RoleOverride) error
	// GetByKeycloakUserID возвращает override по идентификатору IdP.
	GetByKeycloakUserID(ctx context.Context, keycloakUserID string) (*model.RoleOverride, error)
	// Delete удаляет override по keycloak_user_id.
	Delete(ctx context.Context, keycloakUserID string) error
}

// roleOverrideRepo — реализация RoleOverrideRepository.
type roleOverrideRepo struct {
	db DBTX
}

// NewRoleOverrideRepository создаёт репозиторий role overrides.
func NewRoleOverrideRepository(db DBTX) RoleOverrideRepository {
	return &roleOverrideRepo{db: db}
}

const roleOverrideColumns = `id, keycloak_user_id, username, additional_role,
	created_by, created_at, updated_at`

func (r *roleOverrideRepo) Upsert(ctx context.Context, ro *model.RoleOverride) error {
	query := `
		INSERT INTO role_overrides (id, keycloak_user_id, username, additional_role, created_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (keycloak_user_id) DO UPDATE
		SET username = EXCLUDED.username,
			additional_role = EXCLUDED.additional_role,
			created_by = EXCLUDED.created_by,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		ro.ID, ro.KeycloakUserID, ro.Username, ro.AdditionalRole, ro.CreatedBy,
	).Scan(&ro.ID, &ro.CreatedAt, &ro.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка upsert role override: %w", err)
	}
	return nil
}

func (r *roleOverrideRepo) GetByKeycloakUserID(ctx context.Context, keycloakUserID string) (*model.RoleOverride, error) {
	query := fmt.Sprintf(`SELECT %s FROM role_overrides WHERE keycloak_user_id = $1`, roleOverrideColumns)

	ro := &model.RoleOverride{}
	err := r.db.QueryRow(ctx, query, keycloakUserID).Scan(
		&ro.ID, &ro.KeycloakUserID, &ro.Username, &ro.AdditionalRole,
		&ro.CreatedBy, &ro.CreatedAt, &ro.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения role override: %w", err)
	}
	return ro, nil
}

func (r *roleOverrideRepo) Delete(ctx context.Context, keycloakUserID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM role_overrides WHERE keycloak_user_id = $1`, keycloakUserID)
	if err != nil {
		return fmt.Errorf("ошибка удаления role override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
