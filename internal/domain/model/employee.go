// Пакет model — доменные модели Employee Module.
package model

import "time"

// Employee — учётная запись сотрудника (identity).
// Имя и фамилия хранятся здесь, а не в Profile: это проекция
// учётной записи IdP с локальными дополнениями.
type Employee struct {
	// ID — UUID записи
	ID string
	// KeycloakUserID — идентификатор пользователя в Keycloak (sub)
	KeycloakUserID string
	// Username — имя пользователя в IdP
	Username string
	// Email — адрес электронной почты
	Email string
	// FirstName — имя
	FirstName string
	// LastName — фамилия
	LastName string
	// Active — активен ли сотрудник
	Active bool
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// RoleOverride — локальное дополнение роли сотрудника.
// Хранится в таблице role_overrides.
type RoleOverride struct {
	// ID — UUID записи
	ID string
	// KeycloakUserID — идентификатор пользователя в Keycloak (sub)
	KeycloakUserID string
	// Username — кэшированное имя пользователя
	Username string
	// AdditionalRole — дополнительная роль (admin, manager, employee)
	AdditionalRole string
	// CreatedBy — кто установил override (username администратора)
	CreatedBy string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
