package model

import "time"

// Статусы проекта.
const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
)

// Project — проект компании.
type Project struct {
	// ID — UUID записи
	ID string
	// Name — название проекта
	Name string
	// Description — описание
	Description string
	// Status — статус (active, on_hold, completed)
	Status string
	// OwnerID — UUID руководителя проекта
	OwnerID string
	// StartDate — дата начала
	StartDate *time.Time
	// EndDate — дата завершения
	EndDate *time.Time
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// ProjectMember — участие сотрудника в проекте.
type ProjectMember struct {
	// ProjectID — UUID проекта
	ProjectID string
	// EmployeeID — UUID сотрудника
	EmployeeID string
	// Role — роль в проекте (свободный текст: lead, developer, ...)
	Role string
	// AddedAt — время добавления в проект
	AddedAt time.Time
}
