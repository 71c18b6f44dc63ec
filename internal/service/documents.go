// documents.go — сервис вложений. Метаданные хранятся в PostgreSQL,
// содержимое — во внешнем сервисе хранения (docstore). Недоступность
// docstore никогда не портит метаданные.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/arturkryukov/staffstore/employee-module/internal/docstore"
	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
	"github.com/arturkryukov/staffstore/employee-module/internal/repository"
)

// DocumentStore — операции внешнего хранилища файлов.
// Реализуется docstore.Client.
type DocumentStore interface {
	Configured() bool
	Upload(ctx context.Context, filename, contentType string, content io.Reader) (*docstore.UploadResult, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, string, int64, error)
	Delete(ctx context.Context, fileID string) error
}

// DocumentService — реестр вложений поверх docstore.
type DocumentService struct {
	documents repository.DocumentRepository
	employees repository.EmployeeRepository
	store     DocumentStore
	logger    *slog.Logger
}

// NewDocumentService создаёт сервис вложений.
func NewDocumentService(
	documents repository.DocumentRepository,
	employees repository.EmployeeRepository,
	store DocumentStore,
	logger *slog.Logger,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		employees: employees,
		store:     store,
		logger:    logger.With(slog.String("component", "document_service")),
	}
}

// UploadDocumentRequest — запрос загрузки вложения.
type UploadDocumentRequest struct {
	EmployeeID  string
	ProjectID   *string
	Description *string
	Filename    string
	ContentType string
	Content     io.Reader
	UploadedBy  string
}

// Upload загружает файл в docstore и регистрирует вложение.
// При ошибке регистрации загруженный файл удаляется best-effort.
func (s *DocumentService) Upload(ctx context.Context, req *UploadDocumentRequest) (*model.Document, error) {
	if !s.store.Configured() {
		return nil, ErrDocstoreUnavailable
	}
	if strings.TrimSpace(req.Filename) == "" {
		return nil, fmt.Errorf("%w: отсутствуют обязательные поля: filename", ErrValidation)
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение сотрудника: %w", err)
	}

	uploaded, err := s.store.Upload(ctx, req.Filename, req.ContentType, req.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocstoreUnavailable, err)
	}

	d := &model.Document{
		ID:          uuid.NewString(),
		EmployeeID:  req.EmployeeID,
		ProjectID:   req.ProjectID,
		FileID:      uploaded.FileID,
		Filename:    req.Filename,
		ContentType: uploaded.ContentType,
		Size:        uploaded.Size,
		Description: req.Description,
		UploadedBy:  req.UploadedBy,
	}
	if d.ContentType == "" {
		d.ContentType = req.ContentType
	}

	if err := s.documents.Create(ctx, d); err != nil {
		// Метаданные не записались — подчищаем содержимое
		if delErr := s.store.Delete(ctx, uploaded.FileID); delErr != nil {
			s.logger.Warn("Не удалось удалить осиротевший файл из docstore",
				slog.String("file_id", uploaded.FileID),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("регистрация вложения: %w", err)
	}

	s.logger.Info("Вложение загружено",
		slog.String("document_id", d.ID),
		slog.String("employee_id", d.EmployeeID),
		slog.String("filename", d.Filename),
		slog.Int64("size", d.Size),
	)
	return d, nil
}

// List возвращает вложения с фильтрацией по сотруднику и проекту.
func (s *DocumentService) List(ctx context.Context, employeeID, projectID *string, limit, offset int) ([]*model.Document, error) {
	documents, err := s.documents.List(ctx, employeeID, projectID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("получение списка вложений: %w", err)
	}
	return documents, nil
}

// Get возвращает метаданные вложения.
func (s *DocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	d, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение вложения: %w", err)
	}
	return d, nil
}

// Download возвращает метаданные и содержимое вложения.
// Вызывающий обязан закрыть io.ReadCloser.
func (s *DocumentService) Download(ctx context.Context, id string) (*model.Document, io.ReadCloser, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if !s.store.Configured() {
		return nil, nil, ErrDocstoreUnavailable
	}

	body, _, _, err := s.store.Download(ctx, d.FileID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDocstoreUnavailable, err)
	}
	return d, body, nil
}

// Delete удаляет вложение. Содержимое в docstore удаляется best-effort:
// ошибка логируется, реестр очищается в любом случае.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if s.store.Configured() {
		if err := s.store.Delete(ctx, d.FileID); err != nil {
			s.logger.Warn("Не удалось удалить файл из docstore",
				slog.String("document_id", d.ID),
				slog.String("file_id", d.FileID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.documents.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление вложения: %w", err)
	}

	s.logger.Info("Вложение удалено", slog.String("document_id", id))
	return nil
}
