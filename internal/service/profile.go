// Пакет service — бизнес-логика Employee Module.
// profile.go — reconciler частичного обновления анкеты.
//
// Операция ApplyPartialUpdate работает в двух взаимоисключающих режимах,
// выбираемых по защёлке Profile.Completed:
//
//   - анкета не завершена: fill-only merge — кандидат записывается только
//     в пустое поле, заполненные поля не перезаписываются;
//   - анкета завершена: правка возможна только по активному одноразовому
//     разрешению (EditGrant); разрешение потребляется атомарно до записи,
//     из двух конкурентных запросов выигрывает ровно один.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
	"github.com/arturkryukov/staffstore/employee-module/internal/repository"
)

// Итоги частичного обновления анкеты.
const (
	// OutcomeUpdated — хотя бы одно поле записано (или поставлена защёлка).
	OutcomeUpdated = "updated"
	// OutcomeNoChanges — ни одно поле не изменилось; это не ошибка.
	OutcomeNoChanges = "no_changes"
	// OutcomePermissionsRevoked — поля записаны по разрешению,
	// разрешение потреблено и удалено.
	OutcomePermissionsRevoked = "permissions_revoked"
)

// sideEffectTimeout — таймаут фоновых side-effect вызовов (name-sync, position-sync).
const sideEffectTimeout = 10 * time.Second

// NameSyncer — коллаборатор синхронизации имени с IdP.
// Реализуется idp.Client. Вызов best-effort: ошибка логируется и
// не откатывает основную запись.
type NameSyncer interface {
	UpdateUserName(ctx context.Context, userID string, firstName, lastName *string) error
}

// PositionNotifier — коллаборатор уведомления о смене должности.
// email берётся из маппинга position_emails для новой должности.
type PositionNotifier interface {
	NotifyPositionChange(ctx context.Context, employee *model.Employee, oldPosition, newPosition, email string) error
}

// LogPositionNotifier — реализация PositionNotifier, которая только
// логирует уведомление. Доставка почты выполняется внешним сервисом,
// подписанным на эти записи.
type LogPositionNotifier struct {
	Logger *slog.Logger
}

// NotifyPositionChange логирует смену должности сотрудника.
func (n *LogPositionNotifier) NotifyPositionChange(_ context.Context, employee *model.Employee, oldPosition, newPosition, email string) error {
	n.Logger.Info("Уведомление о смене должности",
		slog.String("employee_id", employee.ID),
		slog.String("username", employee.Username),
		slog.String("old_position", oldPosition),
		slog.String("new_position", newPosition),
		slog.String("notify_email", email),
	)
	return nil
}

// ProfileUpdateRequest — разреженный набор кандидатов на запись.
// nil-поле означает «не прислано». Пустые после trim строки
// приравниваются к неприсланным в обоих режимах.
type ProfileUpdateRequest struct {
	FirstName        *string
	LastName         *string
	Department       *string
	Position         *string
	Salary           *float64
	HireDate         *time.Time
	Skills           []string
	Phone            *string
	Address          *string
	EmergencyContact *string
	// CompleteProfile — поставить защёлку завершения (только для
	// незавершённой анкеты; для завершённой игнорируется).
	CompleteProfile bool
}

// ProfileUpdateResult — итог частичного обновления.
type ProfileUpdateResult struct {
	// Employee — учётная запись после обновления
	Employee *model.Employee
	// Profile — анкета после обновления
	Profile *model.Profile
	// ChangedFields — какие поля фактически записаны
	ChangedFields []string
	// Outcome — итог: updated, no_changes, permissions_revoked
	Outcome string
	// GrantConsumed — было ли потреблено разрешение
	GrantConsumed bool
}

// ProfileService — reconciler анкеты и её view для API.
type ProfileService struct {
	employees repository.EmployeeRepository
	profiles  repository.ProfileRepository
	grants    repository.EditGrantRepository
	positions repository.PositionEmailRepository
	nameSync  NameSyncer
	notifier  PositionNotifier
	logger    *slog.Logger
}

// NewProfileService создаёт сервис анкет.
// nameSync и notifier могут быть nil — тогда соответствующий
// side-effect пропускается.
func NewProfileService(
	employees repository.EmployeeRepository,
	profiles repository.ProfileRepository,
	grants repository.EditGrantRepository,
	positions repository.PositionEmailRepository,
	nameSync NameSyncer,
	notifier PositionNotifier,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		employees: employees,
		profiles:  profiles,
		grants:    grants,
		positions: positions,
		nameSync:  nameSync,
		notifier:  notifier,
		logger:    logger.With(slog.String("component", "profile_service")),
	}
}

// Get возвращает учётную запись и анкету сотрудника.
func (s *ProfileService) Get(ctx context.Context, employeeID string) (*model.Employee, *model.Profile, error) {
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("получение сотрудника: %w", err)
	}

	profile, err := s.profiles.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("получение анкеты: %w", err)
	}

	return employee, profile, nil
}

// ApplyPartialUpdate применяет частичное обновление анкеты сотрудника.
//
// Режим выбирается по Profile.Completed:
//   - незавершённая анкета — fill-only merge плюс опциональная защёлка
//     завершения (CompleteProfile=true срабатывает даже при нуле
//     изменённых полей);
//   - завершённая анкета — требуется активное разрешение; записывается
//     только пересечение запроса с флагами разрешения (флаг категории
//     И флаг конкретного поля); разрешение потребляется до записи.
//
// Ошибки: ErrNotFound (нет сотрудника/анкеты), ErrNoActiveGrant,
// ErrNothingPermitted.
func (s *ProfileService) ApplyPartialUpdate(ctx context.Context, employeeID string, req *ProfileUpdateRequest) (*ProfileUpdateResult, error) {
	employee, profile, err := s.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	req = req.normalized()

	if !profile.Completed {
		return s.applyIncomplete(ctx, employee, profile, req)
	}
	return s.applyCompleted(ctx, employee, profile, req)
}

// applyIncomplete — режим незавершённой анкеты: fill-only merge.
// Кандидат записывается только в пустое поле.
func (s *ProfileService) applyIncomplete(ctx context.Context, employee *model.Employee, profile *model.Profile, req *ProfileUpdateRequest) (*ProfileUpdateResult, error) {
	var changed []string
	var newFirst, newLast *string
	patch := &model.ProfilePatch{}

	if req.FirstName != nil && employee.FirstName == "" {
		newFirst = req.FirstName
		changed = append(changed, model.FieldFirstName)
	}
	if req.LastName != nil && employee.LastName == "" {
		newLast = req.LastName
		changed = append(changed, model.FieldLastName)
	}

	if req.Department != nil && profile.Department == nil {
		patch.Department = req.Department
		changed = append(changed, model.FieldDepartment)
	}
	if req.Position != nil && profile.Position == nil {
		patch.Position = req.Position
		changed = append(changed, model.FieldPosition)
	}
	if req.Salary != nil && profile.Salary == nil {
		patch.Salary = req.Salary
		changed = append(changed, model.FieldSalary)
	}
	if req.HireDate != nil && profile.HireDate == nil {
		patch.HireDate = req.HireDate
		changed = append(changed, model.FieldHireDate)
	}
	if req.Skills != nil && len(profile.Skills) == 0 {
		patch.Skills = req.Skills
		changed = append(changed, model.FieldSkills)
	}
	if req.Phone != nil && profile.Phone == nil {
		patch.Phone = req.Phone
		changed = append(changed, model.FieldPhone)
	}
	if req.Address != nil && profile.Address == nil {
		patch.Address = req.Address
		changed = append(changed, model.FieldAddress)
	}
	if req.EmergencyContact != nil && profile.EmergencyContact == nil {
		patch.EmergencyContact = req.EmergencyContact
		changed = append(changed, model.FieldEmergencyContact)
	}

	// Защёлка ставится даже при нуле принятых полей: завершение
	// фиксирует то, что уже заполнено.
	patch.Complete = req.CompleteProfile && !profile.Completed

	if len(changed) == 0 && !patch.Complete {
		// Повторная отправка уже заполненных полей — no-op, не ошибка
		return &ProfileUpdateResult{
			Employee: employee,
			Profile:  profile,
			Outcome:  OutcomeNoChanges,
		}, nil
	}

	result, err := s.write(ctx, employee, profile, newFirst, newLast, patch)
	if err != nil {
		return nil, err
	}
	result.ChangedFields = changed
	result.Outcome = OutcomeUpdated
	return result, nil
}

// applyCompleted — режим завершённой анкеты: правка по разрешению.
// Разрешение потребляется атомарным условным удалением до записи полей,
// поэтому из двух конкурентных запросов выигрывает ровно один, второй
// наблюдает отсутствие активного разрешения.
func (s *ProfileService) applyCompleted(ctx context.Context, employee *model.Employee, profile *model.Profile, req *ProfileUpdateRequest) (*ProfileUpdateResult, error) {
	grant, err := s.grants.GetActiveByEmployeeID(ctx, employee.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveGrant
		}
		return nil, fmt.Errorf("получение активного разрешения: %w", err)
	}

	// Разрешённое подмножество: флаг категории И флаг конкретного поля.
	// В этом режиме перезапись заполненных полей допустима.
	var changed []string
	var newFirst, newLast *string
	patch := &model.ProfilePatch{}

	if req.FirstName != nil && grant.AllowsBasic(model.FieldFirstName) {
		newFirst = req.FirstName
		changed = append(changed, model.FieldFirstName)
	}
	if req.LastName != nil && grant.AllowsBasic(model.FieldLastName) {
		newLast = req.LastName
		changed = append(changed, model.FieldLastName)
	}

	if req.Department != nil && grant.AllowsPersonal(model.FieldDepartment) {
		patch.Department = req.Department
		changed = append(changed, model.FieldDepartment)
	}
	if req.Position != nil && grant.AllowsPersonal(model.FieldPosition) {
		patch.Position = req.Position
		changed = append(changed, model.FieldPosition)
	}
	if req.Salary != nil && grant.AllowsPersonal(model.FieldSalary) {
		patch.Salary = req.Salary
		changed = append(changed, model.FieldSalary)
	}
	if req.HireDate != nil && grant.AllowsPersonal(model.FieldHireDate) {
		patch.HireDate = req.HireDate
		changed = append(changed, model.FieldHireDate)
	}
	if req.Skills != nil && grant.AllowsPersonal(model.FieldSkills) {
		patch.Skills = req.Skills
		changed = append(changed, model.FieldSkills)
	}
	if req.Phone != nil && grant.AllowsPersonal(model.FieldPhone) {
		patch.Phone = req.Phone
		changed = append(changed, model.FieldPhone)
	}
	if req.Address != nil && grant.AllowsPersonal(model.FieldAddress) {
		patch.Address = req.Address
		changed = append(changed, model.FieldAddress)
	}
	if req.EmergencyContact != nil && grant.AllowsPersonal(model.FieldEmergencyContact) {
		patch.EmergencyContact = req.EmergencyContact
		changed = append(changed, model.FieldEmergencyContact)
	}

	if len(changed) == 0 {
		// Ни одно поле не разрешено — разрешение не трогаем
		return nil, ErrNothingPermitted
	}

	// Потребление до записи: условное удаление — арбитр конкурентных
	// запросов. Проигравший наблюдает отсутствие активного разрешения.
	if err := s.grants.Consume(ctx, grant.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveGrant
		}
		return nil, fmt.Errorf("потребление разрешения: %w", err)
	}

	s.logger.Info("Разрешение на правку потреблено",
		slog.String("employee_id", employee.ID),
		slog.String("grant_id", grant.ID),
		slog.Any("fields", changed),
	)

	result, err := s.write(ctx, employee, profile, newFirst, newLast, patch)
	if err != nil {
		return nil, err
	}
	result.ChangedFields = changed
	result.Outcome = OutcomePermissionsRevoked
	result.GrantConsumed = true
	return result, nil
}

// write применяет вычисленные изменения: имя — в учётную запись,
// остальное — одним UPDATE анкеты. Затем запускает best-effort
// side-effect'ы синхронизации имени и должности.
func (s *ProfileService) write(ctx context.Context, employee *model.Employee, profile *model.Profile, newFirst, newLast *string, patch *model.ProfilePatch) (*ProfileUpdateResult, error) {
	oldPosition := ""
	if profile.Position != nil {
		oldPosition = *profile.Position
	}

	if newFirst != nil || newLast != nil {
		updated, err := s.employees.UpdateName(ctx, employee.ID, newFirst, newLast)
		if err != nil {
			return nil, fmt.Errorf("обновление имени сотрудника: %w", err)
		}
		employee = updated
	}

	if !patch.Empty() || patch.Complete {
		updated, err := s.profiles.ApplyPatch(ctx, employee.ID, patch)
		if err != nil {
			return nil, fmt.Errorf("обновление анкеты: %w", err)
		}
		profile = updated
	}

	if newFirst != nil || newLast != nil {
		s.spawnNameSync(ctx, employee, newFirst, newLast)
	}
	if patch.Position != nil && *patch.Position != oldPosition {
		s.spawnPositionSync(ctx, employee, oldPosition, *patch.Position)
	}

	return &ProfileUpdateResult{Employee: employee, Profile: profile}, nil
}

// spawnNameSync запускает фоновую синхронизацию имени с IdP.
// Ошибка логируется и поглощается: основная запись уже зафиксирована.
func (s *ProfileService) spawnNameSync(ctx context.Context, employee *model.Employee, firstName, lastName *string) {
	if s.nameSync == nil || employee.KeycloakUserID == "" {
		return
	}

	go func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
		defer cancel()

		if err := s.nameSync.UpdateUserName(ctx, employee.KeycloakUserID, firstName, lastName); err != nil {
			s.logger.Warn("Синхронизация имени с IdP не удалась",
				slog.String("employee_id", employee.ID),
				slog.String("keycloak_user_id", employee.KeycloakUserID),
				slog.String("error", err.Error()),
			)
			return
		}

		s.logger.Debug("Имя сотрудника синхронизировано с IdP",
			slog.String("employee_id", employee.ID),
		)
	}(context.WithoutCancel(ctx))
}

// spawnPositionSync запускает фоновое уведомление о смене должности.
// Адрес берётся из маппинга position_emails для новой должности;
// отсутствие маппинга — не ошибка.
func (s *ProfileService) spawnPositionSync(ctx context.Context, employee *model.Employee, oldPosition, newPosition string) {
	if s.notifier == nil {
		return
	}

	go func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
		defer cancel()

		pe, err := s.positions.GetByPosition(ctx, newPosition)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.Debug("Нет маппинга email для должности",
					slog.String("position", newPosition),
				)
				return
			}
			s.logger.Warn("Ошибка получения маппинга должности",
				slog.String("position", newPosition),
				slog.String("error", err.Error()),
			)
			return
		}

		if err := s.notifier.NotifyPositionChange(ctx, employee, oldPosition, newPosition, pe.Email); err != nil {
			s.logger.Warn("Уведомление о смене должности не удалось",
				slog.String("employee_id", employee.ID),
				slog.String("new_position", newPosition),
				slog.String("error", err.Error()),
			)
		}
	}(context.WithoutCancel(ctx))
}

// --- Нормализация запроса ---

// normalized возвращает копию запроса с отброшенными пустыми кандидатами:
// строки после TrimSpace, навыки — после удаления пустых элементов.
// Пустой после trim кандидат приравнивается к неприсланному.
func (r *ProfileUpdateRequest) normalized() *ProfileUpdateRequest {
	n := &ProfileUpdateRequest{
		FirstName:        trimmed(r.FirstName),
		LastName:         trimmed(r.LastName),
		Department:       trimmed(r.Department),
		Position:         trimmed(r.Position),
		Salary:           r.Salary,
		HireDate:         r.HireDate,
		Phone:            trimmed(r.Phone),
		Address:          trimmed(r.Address),
		EmergencyContact: trimmed(r.EmergencyContact),
		CompleteProfile:  r.CompleteProfile,
	}

	if r.Skills != nil {
		skills := make([]string, 0, len(r.Skills))
		for _, sk := range r.Skills {
			if t := strings.TrimSpace(sk); t != "" {
				skills = append(skills, t)
			}
		}
		if len(skills) > 0 {
			n.Skills = skills
		}
	}

	return n
}

// trimmed возвращает указатель на строку после TrimSpace,
// nil — если строка отсутствует или пуста.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
