package model

import "time"

// Статусы задачи.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// ValidTaskStatus проверяет, является ли строка допустимым статусом задачи.
func ValidTaskStatus(s string) bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress || s == TaskStatusDone
}

// Task — задача в рамках проекта.
type Task struct {
	// ID — UUID записи
	ID string
	// ProjectID — UUID проекта (может быть nil для внепроектных задач)
	ProjectID *string
	// Title — заголовок
	Title string
	// Description — описание
	Description string
	// Status — статус (todo, in_progress, done)
	Status string
	// AssigneeID — UUID исполнителя (может быть nil)
	AssigneeID *string
	// DueDate — срок выполнения
	DueDate *time.Time
	// CreatedBy — username автора
	CreatedBy string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
