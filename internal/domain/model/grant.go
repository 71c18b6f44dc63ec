package model

import "time"

// Поля, доступные для grant'ов, сгруппированные по категориям.
const (
	// Базовые поля (учётная запись)
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"

	// Поля анкеты
	FieldDepartment       = "department"
	FieldPosition         = "position"
	FieldSalary           = "salary"
	FieldHireDate         = "hire_date"
	FieldSkills           = "skills"
	FieldPhone            = "phone"
	FieldAddress          = "address"
	FieldEmergencyContact = "emergency_contact"
)

// EditGrant — одноразовое разрешение на правку завершённой анкеты.
// Выдаётся руководством, потребляется и удаляется при первой успешной
// записи. На сотрудника одновременно не больше одного активного grant'а
// (частичный уникальный индекс в БД).
type EditGrant struct {
	// ID — UUID записи
	ID string
	// EmployeeID — UUID сотрудника, которому выдан grant
	EmployeeID string

	// CanEditBasicInfo — категория «базовые данные» (имя, фамилия)
	CanEditBasicInfo bool
	// BasicInfoFields — флаги отдельных базовых полей
	BasicInfoFields map[string]bool

	// CanEditPersonalInfo — категория «анкетные данные»
	CanEditPersonalInfo bool
	// PersonalInfoFields — флаги отдельных полей анкеты
	PersonalInfoFields map[string]bool

	// Active — grant ещё не потреблён
	Active bool
	// IssuedBy — username администратора, выдавшего grant
	IssuedBy string
	// CreatedAt — время выдачи
	CreatedAt time.Time
}

// AllowsBasic сообщает, разрешает ли grant правку указанного базового поля:
// требуется и флаг категории, и флаг конкретного поля.
func (g *EditGrant) AllowsBasic(field string) bool {
	return g.CanEditBasicInfo && g.BasicInfoFields[field]
}

// AllowsPersonal сообщает, разрешает ли grant правку указанного поля анкеты.
func (g *EditGrant) AllowsPersonal(field string) bool {
	return g.CanEditPersonalInfo && g.PersonalInfoFields[field]
}
