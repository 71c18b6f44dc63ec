// position_emails.go — сервис маппингов должность → адрес уведомлений.
// Маппинги питают position-sync: при смене должности сотрудника
// уведомление уходит на адрес новой должности.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
	"github.com/arturkryukov/staffstore/employee-module/internal/repository"
)

// PositionEmailService — CRUD маппингов должностей.
type PositionEmailService struct {
	positions repository.PositionEmailRepository
	logger    *slog.Logger
}

// NewPositionEmailService создаёт сервис маппингов должностей.
func NewPositionEmailService(positions repository.PositionEmailRepository, logger *slog.Logger) *PositionEmailService {
	return &PositionEmailService{
		positions: positions,
		logger:    logger.With(slog.String("component", "position_email_service")),
	}
}

// validateMapping проверяет обязательные поля маппинга совокупно.
func validateMapping(position, email string) error {
	var missing []string
	if strings.TrimSpace(position) == "" {
		missing = append(missing, "position")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: отсутствуют обязательные поля: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: некорректный email %q", ErrValidation, email)
	}
	return nil
}

// Create создаёт маппинг должность → email.
func (s *PositionEmailService) Create(ctx context.Context, position, email string) (*model.PositionEmail, error) {
	if err := validateMapping(position, email); err != nil {
		return nil, err
	}

	pe := &model.PositionEmail{
		ID:       uuid.NewString(),
		Position: strings.TrimSpace(position),
		Email:    strings.TrimSpace(email),
	}

	if err := s.positions.Create(ctx, pe); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("создание маппинга должности: %w", err)
	}

	s.logger.Info("Маппинг должности создан",
		slog.String("position", pe.Position),
		slog.String("email", pe.Email),
	)
	return pe, nil
}

// List возвращает все маппинги.
func (s *PositionEmailService) List(ctx context.Context) ([]*model.PositionEmail, error) {
	mappings, err := s.positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение маппингов должностей: %w", err)
	}
	return mappings, nil
}

// Get возвращает маппинг по должности.
func (s *PositionEmailService) Get(ctx context.Context, position string) (*model.PositionEmail, error) {
	pe, err := s.positions.GetByPosition(ctx, position)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение маппинга должности: %w", err)
	}
	return pe, nil
}

// Update обновляет email маппинга.
func (s *PositionEmailService) Update(ctx context.Context, position, email string) (*model.PositionEmail, error) {
	if err := validateMapping(position, email); err != nil {
		return nil, err
	}

	pe := &model.PositionEmail{
		Position: strings.TrimSpace(position),
		Email:    strings.TrimSpace(email),
	}
	if err := s.positions.Update(ctx, pe); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление маппинга должности: %w", err)
	}

	return s.Get(ctx, pe.Position)
}

// Delete удаляет маппинг должности.
func (s *PositionEmailService) Delete(ctx context.Context, position string) error {
	if err := s.positions.Delete(ctx, position); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление маппинга должности: %w", err)
	}
	return nil
}
