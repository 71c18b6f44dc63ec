// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrInvalidRole — некорректная роль.
	ErrInvalidRole = errors.New("некорректная роль: допустимые значения — admin, manager, employee")
	// ErrInvalidStatus — некорректный статус.
	ErrInvalidStatus = errors.New("некорректный статус")
	// ErrNoActiveGrant — анкета завершена, активного разрешения на правку нет.
	// Правки возможны только через разрешение, выданное руководством.
	ErrNoActiveGrant = errors.New("анкета завершена — обратитесь к руководству за разрешением на правку")
	// ErrNothingPermitted — активное разрешение есть, но ни одно поле запроса
	// им не разрешено. Разрешение при этом не потребляется.
	ErrNothingPermitted = errors.New("ни одно поле запроса не разрешено выданным разрешением")
	// ErrIDPUnavailable — Identity Provider (Keycloak) недоступен.
	ErrIDPUnavailable = errors.New("Identity Provider недоступен")
	// ErrDocstoreUnavailable — сервис хранения файлов недоступен или не настроен.
	ErrDocstoreUnavailable = errors.New("сервис хранения файлов недоступен")
)
