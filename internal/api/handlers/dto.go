// dto.go — JSON-представления доменных моделей для API.
// Даты без времени (hireDate, dueDate, startDate) сериализуются
// как YYYY-MM-DD через types.Date.
package handlers

import (
	"time"

	"github.com/oapi-codegen/runtime/types"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
)

// employeeResponse — учётная запись сотрудника с вложенной анкетой.
type employeeResponse struct {
	ID             string           `json:"id"`
	KeycloakUserID string           `json:"keycloakUserId,omitempty"`
	Username       string           `json:"username"`
	Email          string           `json:"email"`
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Active         bool             `json:"active"`
	Profile        *profileResponse `json:"profile,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// profileResponse — анкета сотрудника.
// Незаполненные поля отдаются как null, а не опускаются: клиент
// различает «не задано» и «отсутствует в ответе».
type profileResponse struct {
	Department       *string     `json:"department"`
	Position         *string     `json:"position"`
	Salary           *float64    `json:"salary"`
	HireDate         *types.Date `json:"hireDate"`
	Skills           []string    `json:"skills"`
	Phone            *string     `json:"phone"`
	Address          *string     `json:"address"`
	EmergencyContact *string     `json:"emergencyContact"`
	Completed        bool        `json:"completed"`
	CompletedAt      *time.Time  `json:"completedAt"`
}

// toEmployeeResponse собирает ответ из учётной записи и анкеты.
// profile может быть nil (списки без анкет).
func toEmployeeResponse(e *model.Employee, p *model.Profile) *employeeResponse {
	resp := &employeeResponse{
		ID:             e.ID,
		KeycloakUserID: e.KeycloakUserID,
		Username:       e.Username,
		Email:          e.Email,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Active:         e.Active,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if p != nil {
		resp.Profile = &profileResponse{
			Department:       p.Department,
			Position:         p.Position,
			Salary:           p.Salary,
			HireDate:         toDate(p.HireDate),
			Skills:           p.Skills,
			Phone:            p.Phone,
			Address:          p.Address,
			EmergencyContact: p.EmergencyContact,
			Completed:        p.Completed,
			CompletedAt:      p.CompletedAt,
		}
	}
	return resp
}

// grantResponse — разрешение на правку завершённой анкеты.
type grantResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employeeId"`
	CanEditBasicInfo    bool            `json:"canEditBasicInfo"`
	BasicInfoFields     map[string]bool `json:"basicInfoFields"`
	CanEditPersonalInfo bool            `json:"canEditPersonalInfo"`
	PersonalInfoFields  map[string]bool `json:"personalInfoFields"`
	Active              bool            `json:"active"`
	IssuedBy            string          `json:"issuedBy"`
	CreatedAt           time.Time       `json:"createdAt"`
}

func toGrantResponse(g *model.EditGrant) *grantResponse {
	return &grantResponse{
		ID:                  g.ID,
		EmployeeID:          g.EmployeeID,
		CanEditBasicInfo:    g.CanEditBasicInfo,
		BasicInfoFields:     g.BasicInfoFields,
		CanEditPersonalInfo: g.CanEditPersonalInfo,
		PersonalInfoFields:  g.PersonalInfoFields,
		Active:              g.Active,
		IssuedBy:            g.IssuedBy,
		CreatedAt:           g.CreatedAt,
	}
}

// projectResponse — проект.
type projectResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	OwnerID     string      `json:"ownerId,omitempty"`
	StartDate   *types.Date `json:"startDate"`
	EndDate     *types.Date `json:"endDate"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func toProjectResponse(p *model.Project) *projectResponse {
	return &projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		OwnerID:     p.OwnerID,
		StartDate:   toDate(p.StartDate),
		EndDate:     toDate(p.EndDate),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// taskResponse — задача.
type taskResponse struct {
	ID          string      `json:"id"`
	ProjectID   *string     `json:"projectId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	AssigneeID  *string     `json:"assigneeId"`
	DueDate     *types.Date `json:"dueDate"`
	CreatedBy   string      `json:"createdBy"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func toTaskResponse(t *model.Task) *taskResponse {
	return &taskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		AssigneeID:  t.AssigneeID,
		DueDate:     toDate(t.DueDate),
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// milestoneResponse — веха проекта с деревом и прогрессом.
type milestoneResponse struct {
	ID        string                   `json:"id"`
	ProjectID string                   `json:"projectId"`
	Title     string                   `json:"title"`
	DueDate   *types.Date              `json:"dueDate"`
	Features  []model.MilestoneFeature `json:"features"`
	Notes     []model.MilestoneNote    `json:"notes"`
	Done      int                      `json:"done"`
	Total     int                      `json:"total"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

func toMilestoneResponse(m *model.Milestone) *milestoneResponse {
	done, total := m.Progress()
	return &milestoneResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		Title:     m.Title,
		DueDate:   toDate(m.DueDate),
		Features:  m.Features,
		Notes:     m.Notes,
		Done:      done,
		Total:     total,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// documentResponse — метаданные вложения.
type documentResponse struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	ProjectID   *string   `json:"projectId"`
	FileID      string    `json:"fileId"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Description *string   `json:"description"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toDocumentResponse(d *model.Document) *documentResponse {
	return &documentResponse{
		ID:          d.ID,
		EmployeeID:  d.EmployeeID,
		ProjectID:   d.ProjectID,
		FileID:      d.FileID,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Size:        d.Size,
		Description: d.Description,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
	}
}

// positionEmailResponse — маппинг должности на адрес уведомлений.
type positionEmailResponse struct {
	ID        string      `json:"id"`
	Position  string      `json:"position"`
	Email     types.Email `json:"email"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func toPositionEmailResponse(pe *model.PositionEmail) *positionEmailResponse {
	return &positionEmailResponse{
		ID:        pe.ID,
		Position:  pe.Position,
		Email:     types.Email(pe.Email),
		CreatedAt: pe.CreatedAt,
		UpdatedAt: pe.UpdatedAt,
	}
}

// toDate переводит *time.Time в *types.Date (только дата, без времени).
func toDate(t *time.Time) *types.Date {
	if t == nil {
		return nil
	}
	return &types.Date{Time: *t}
}

// fromDate переводит *types.Date обратно в *time.Time.
func fromDate(d *types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
