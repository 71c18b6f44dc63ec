package model

import "time"

// Document — метаданные вложения. Само содержимое хранится во внешнем
// сервисе хранения (docstore), здесь только реестр.
type Document struct {
	// ID — UUID записи
	ID string
	// EmployeeID — UUID сотрудника-владельца
	EmployeeID string
	// ProjectID — UUID проекта (nil для личных документов)
	ProjectID *string
	// FileID — идентификатор файла в docstore
	FileID string
	// Filename — исходное имя файла
	Filename string
	// ContentType — MIME-тип
	ContentType string
	// Size — размер в байтах
	Size int64
	// Description — описание
	Description *string
	// UploadedBy — username загрузившего
	UploadedBy string
	// CreatedAt — время регистрации вложения
	CreatedAt time.Time
}

// PositionEmail — маппинг должности на адрес уведомлений.
// Используется position-sync: при смене должности сотрудника
// на этот адрес уходит best-effort уведомление.
type PositionEmail struct {
	// ID — UUID записи
	ID string
	// Position — должность (уникальна)
	Position string
	// Email — адрес уведомлений
	Email string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
