package model

import "time"

// Profile — анкета сотрудника, отдельная от учётной записи.
// Незаполненные поля моделируются как nil/пустой срез, а не
// магическими значениями по умолчанию: «не задано» — полноценное состояние.
type Profile struct {
	// ID — UUID записи
	ID string
	// EmployeeID — UUID сотрудника (1:1)
	EmployeeID string

	// --- Рабочие поля ---

	// Department — отдел
	Department *string
	// Position — должность
	Position *string
	// Salary — оклад
	Salary *float64
	// HireDate — дата приёма на работу
	HireDate *time.Time
	// Skills — навыки (упорядоченный список)
	Skills []string

	// --- Персональные поля ---

	// Phone — телефон
	Phone *string
	// Address — почтовый адрес
	Address *string
	// EmergencyContact — телефон контактного лица на экстренный случай
	EmergencyContact *string

	// --- Завершение анкеты ---

	// Completed — одноразовая защёлка: после true прямые правки запрещены
	Completed bool
	// CompletedAt — момент завершения анкеты, ставится ровно один раз
	CompletedAt *time.Time

	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// ProfilePatch — частичное обновление анкеты.
// nil-поле означает «не трогать». Заполняется reconciler'ом,
// репозиторий применяет его одним UPDATE.
type ProfilePatch struct {
	Department       *string
	Position         *string
	Salary           *float64
	HireDate         *time.Time
	Skills           []string
	Phone            *string
	Address          *string
	EmergencyContact *string
	// Complete — установить защёлку завершения (false — не трогать)
	Complete bool
}

// Empty сообщает, меняет ли patch хотя бы одно поле анкеты
// (без учёта защёлки завершения).
func (p *ProfilePatch) Empty() bool {
	return p.Department == nil && p.Position == nil && p.Salary == nil &&
		p.HireDate == nil && p.Skills == nil &&
		p.Phone == nil && p.Address == nil && p.EmergencyContact == nil
}
