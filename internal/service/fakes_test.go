// fakes_test.go — in-memory реализации репозиториев для unit-тестов
// сервисного слоя. Повторяют семантику SQL-реализаций: копии при
// возврате, COALESCE при обновлении имени, условное удаление grant'а.
package service

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/arturkryukov/staffstore/employee-module/internal/domain/model"
	"github.com/arturkryukov/staffstore/employee-module/internal/repository"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- fakeEmployeeRepo ---

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]*model.Employee
	profiles  *fakeProfileRepo
}

func newFakeEmployeeRepo(profiles *fakeProfileRepo) *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		employees: make(map[string]*model.Employee),
		profiles:  profiles,
	}
}

func copyEmployee(e *model.Employee) *model.Employee {
	c := *e
	return &c
}

func (r *fakeEmployeeRepo) CreateWithProfile(_ context.Context, e *model.Employee, p *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.employees {
		if existing.Username == e.Username || existing.Email == e.Email {
			return repository.ErrConflict
		}
	}

	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	r.employees[e.ID] = copyEmployee(e)

	p.EmployeeID = e.ID
	p.CreatedAt, p.UpdatedAt = now, now
	r.profiles.put(p)
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyEmployee(e), nil
}

func (r *fakeEmployeeRepo) GetByKeycloakUserID(_ context.Context, keycloakUserID string) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.employees {
		if e.KeycloakUserID == keycloakUserID {
			return copyEmployee(e), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeEmployeeRepo) List(_ context.Context, active *bool, limit, offset int) ([]*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.Employee
	for _, e := range r.employees {
		if active != nil && e.Active != *active {
			continue
		}
		result = append(result, copyEmployee(e))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LastName < result[j].LastName })

	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeEmployeeRepo) Count(_ context.Context, active *bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, e := range r.employees {
		if active == nil || e.Active == *active {
			count++
		}
	}
	return count, nil
}

func (r *fakeEmployeeRepo) UpdateName(_ context.Context, id string, firstName, lastName *string) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if firstName != nil {
		e.FirstName = *firstName
	}
	if lastName != nil {
		e.LastName = *lastName
	}
	e.UpdatedAt = time.Now()
	return copyEmployee(e), nil
}

func (r *fakeEmployeeRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Active = active
	e.UpdatedAt = time.Now()
	return nil
}

// --- fakeProfileRepo ---

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile // ключ — employee_id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
}

func copyProfile(p *model.Profile) *model.Profile {
	c := *p
	if p.Skills != nil {
		c.Skills = append([]string(nil), p.Skills...)
	}
	return &c
}

func (r *fakeProfileRepo) put(p *model.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.EmployeeID] = copyProfile(p)
}

func (r *fakeProfileRepo) GetByEmployeeID(_ context.Context, employeeID string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[employeeID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyProfile(p), nil
}

func (r *fakeProfileRepo) ApplyPatch(_ context.Context, employeeID string, patch *model.ProfilePatch) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[employeeID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if patch.Department != nil {
		p.Department = patch.Department
	}
	if patch.Position != nil {
		p.Position = patch.Position
	}
	if patch.Salary != nil {
		p.Salary = patch.Salary
	}
	if patch.HireDate != nil {
		p.HireDate = patch.HireDate
	}
	if patch.Skills != nil {
		p.Skills = append([]string(nil), patch.Skills...)
	}
	if patch.Phone != nil {
		p.Phone = patch.Phone
	}
	if patch.Address != nil {
		p.Address = patch.Address
	}
	if patch.EmergencyContact != nil {
		p.EmergencyContact = patch.EmergencyContact
	}
	if patch.Complete {
		p.Completed = true
		if p.CompletedAt == nil {
			now := time.Now()
			p.CompletedAt = &now
		}
	}
	p.UpdatedAt = time.Now()
	return copyProfile(p), nil
}

func (r *fakeProfileRepo) CountIncomplete(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, p := range r.profiles {
		if !p.Completed {
			count++
		}
	}
	return count, nil
}

// --- fakeGrantRepo ---

type fakeGrantRepo struct {
	mu     sync.Mutex
	grants map[string]*model.EditGrant
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{grants: make(map[string]*model.EditGrant)}
}

func copyGrant(g *model.EditGrant) *model.EditGrant {
	c := *g
	c.BasicInfoFields = make(map[string]bool, len(g.BasicInfoFields))
	for k, v := range g.BasicInfoFields {
		c.BasicInfoFields[k] = v
	}
	c.PersonalInfoFields = make(map[string]bool, len(g.PersonalInfoFields))
	for k, v := range g.PersonalInfoFields {
		c.PersonalInfoFields[k] = v
	}
	return &c
}

func (r *fakeGrantRepo) Create(_ context.Context, g *model.EditGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.grants {
		if existing.EmployeeID == g.EmployeeID && existing.Active {
			delete(r.grants, id)
		}
	}
	g.CreatedAt = time.Now()
	r.grants[g.ID] = copyGrant(g)
	return nil
}

func (r *fakeGrantRepo) GetActiveByEmployeeID(_ context.Context, employeeID string) (*model.EditGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range r.grants {
		if g.EmployeeID == employeeID && g.Active {
			return copyGrant(g), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeGrantRepo) ListByEmployeeID(_ context.Context, employeeID string) ([]*model.EditGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.EditGrant
	for _, g := range r.grants {
		if g.EmployeeID == employeeID {
			result = append(result, copyGrant(g))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// Consume повторяет условное удаление delete-if-still-active:
// под мьютексом из двух конкурентов выигрывает ровно один.
func (r *fakeGrantRepo) Consume(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.grants[id]
	if !ok || !g.Active {
		return repository.ErrNotFound
	}
	delete(r.grants, id)
	return nil
}

func (r *fakeGrantRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.grants[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.grants, id)
	return nil
}

func (r *fakeGrantRepo) CountActive(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, g := range r.grants {
		if g.Active {
			count++
		}
	}
	return count, nil
}

// --- fakePositionEmailRepo ---

type fakePositionEmailRepo struct {
	mu       sync.Mutex
	mappings map[string]*model.PositionEmail // ключ — position
}

func newFakePositionEmailRepo() *fakePositionEmailRepo {
	return &fakePositionEmailRepo{mappings: make(map[string]*model.PositionEmail)}
}

func (r *fakePositionEmailRepo) Create(_ context.Context, pe *model.PositionEmail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.mappings[pe.Position]; ok {
		return repository.ErrConflict
	}
	pe.CreatedAt = time.Now()
	pe.UpdatedAt = pe.CreatedAt
	c := *pe
	r.mappings[pe.Position] = &c
	return nil
}

func (r *fakePositionEmailRepo) GetByPosition(_ context.Context, position string) (*model.PositionEmail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pe, ok := r.mappings[position]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *pe
	return &c, nil
}

func (r *fakePositionEmailRepo) List(_ context.Context) ([]*model.PositionEmail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.PositionEmail
	for _, pe := range r.mappings {
		c := *pe
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (r *fakePositionEmailRepo) Update(_ context.Context, pe *model.PositionEmail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.mappings[pe.Position]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Email = pe.Email
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *fakePositionEmailRepo) Delete(_ context.Context, position string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.mappings[position]; !ok {
		return repository.ErrNotFound
	}
	delete(r.mappings, position)
	return nil
}

// --- fakeRoleOverrideRepo ---

type fakeRoleOverrideRepo struct {
	mu        sync.Mutex
	overrides map[string]*model.RoleOverride // ключ — keycloak_user_id
}

func newFakeRoleOverrideRepo() *fakeRoleOverrideRepo {
	return &fakeRoleOverrideRepo{overrides: make(map[string]*model.RoleOverride)}
}

func (r *fakeRoleOverrideRepo) Upsert(_ context.Context, ro *model.RoleOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.overrides[ro.KeycloakUserID]
	if ok {
		existing.AdditionalRole = ro.AdditionalRole
		existing.CreatedBy = ro.CreatedBy
		existing.UpdatedAt = time.Now()
		return nil
	}
	now := time.Now()
	ro.CreatedAt, ro.UpdatedAt = now, now
	c := *ro
	r.overrides[ro.KeycloakUserID] = &c
	return nil
}

func (r *fakeRoleOverrideRepo) GetByKeycloakUserID(_ context.Context, keycloakUserID string) (*model.RoleOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ro, ok := r.overrides[keycloakUserID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *ro
	return &c, nil
}

func (r *fakeRoleOverrideRepo) Delete(_ context.Context, keycloakUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.overrides[keycloakUserID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.overrides, keycloakUserID)
	return nil
}

// --- fakeProjectRepo ---

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*model.Project
	members  map[string][]*model.ProjectMember // ключ — project_id
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: make(map[string]*model.Project),
		members:  make(map[string][]*model.ProjectMember),
	}
}

func copyProject(p *model.Project) *model.Project {
	c := *p
	return &c
}

func (r *fakeProjectRepo) Create(_ context.Context, p *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.projects[p.ID] = copyProject(p)
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyProject(p), nil
}

func (r *fakeProjectRepo) List(_ context.Context, status *string, limit, offset int) ([]*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.Project
	for _, p := range r.projects {
		if status != nil && p.Status != *status {
			continue
		}
		result = append(result, copyProject(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeProjectRepo) Count(_ context.Context, status *string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, p := range r.projects {
		if status == nil || p.Status == *status {
			count++
		}
	}
	return count, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, p *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	r.projects[p.ID] = copyProject(p)
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.projects, id)
	delete(r.members, id)
	return nil
}

func (r *fakeProjectRepo) AddMember(_ context.Context, m *model.ProjectMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.members[m.ProjectID] {
		if existing.EmployeeID == m.EmployeeID {
			return repository.ErrConflict
		}
	}
	m.AddedAt = time.Now()
	c := *m
	r.members[m.ProjectID] = append(r.members[m.ProjectID], &c)
	return nil
}

func (r *fakeProjectRepo) RemoveMember(_ context.Context, projectID, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.members[projectID]
	for i, m := range members {
		if m.EmployeeID == employeeID {
			r.members[projectID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeProjectRepo) ListMembers(_ context.Context, projectID string) ([]*model.ProjectMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.ProjectMember
	for _, m := range r.members[projectID] {
		c := *m
		result = append(result, &c)
	}
	return result, nil
}

// --- fakeTaskRepo ---

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*model.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*model.Task)}
}

func copyTask(t *model.Task) *model.Task {
	c := *t
	return &c
}

func (r *fakeTaskRepo) Create(_ context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	r.tasks[t.ID] = copyTask(t)
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTask(t), nil
}

func (r *fakeTaskRepo) List(_ context.Context, projectID, assigneeID, status *string, limit, offset int) ([]*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.Task
	for _, t := range r.tasks {
		if projectID != nil && (t.ProjectID == nil || *t.ProjectID != *projectID) {
			continue
		}
		if assigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *assigneeID) {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		result = append(result, copyTask(t))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })

	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.ID]; !ok {
		return repository.ErrNotFound
	}
	t.UpdatedAt = time.Now()
	r.tasks[t.ID] = copyTask(t)
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make(map[string]int)
	for _, t := range r.tasks {
		result[t.Status]++
	}
	return result, nil
}

// --- fakeMilestoneRepo ---

type fakeMilestoneRepo struct {
	mu         sync.Mutex
	milestones map[string]*model.Milestone
}

func newFakeMilestoneRepo() *fakeMilestoneRepo {
	return &fakeMilestoneRepo{milestones: make(map[string]*model.Milestone)}
}

func copyMilestone(m *model.Milestone) *model.Milestone {
	c := *m
	c.Features = append([]model.MilestoneFeature(nil), m.Features...)
	c.Notes = append([]model.MilestoneNote(nil), m.Notes...)
	return &c
}

func (r *fakeMilestoneRepo) Create(_ context.Context, m *model.Milestone) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	if m.Features == nil {
		m.Features = []model.MilestoneFeature{}
	}
	if m.Notes == nil {
		m.Notes = []model.MilestoneNote{}
	}
	r.milestones[m.ID] = copyMilestone(m)
	return nil
}

func (r *fakeMilestoneRepo) GetByID(_ context.Context, id string) (*model.Milestone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.milestones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyMilestone(m), nil
}

func (r *fakeMilestoneRepo) ListByProjectID(_ context.Context, projectID string) ([]*model.Milestone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.Milestone
	for _, m := range r.milestones {
		if m.ProjectID == projectID {
			result = append(result, copyMilestone(m))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (r *fakeMilestoneRepo) Update(_ context.Context, m *model.Milestone) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.milestones[m.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Title = m.Title
	existing.DueDate = m.DueDate
	existing.Features = append([]model.MilestoneFeature(nil), m.Features...)
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *fakeMilestoneRepo) SetNotes(_ context.Context, id string, notes []model.MilestoneNote) (*model.Milestone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.milestones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m.Notes = append([]model.MilestoneNote(nil), notes...)
	m.UpdatedAt = time.Now()
	return copyMilestone(m), nil
}

func (r *fakeMilestoneRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.milestones[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.milestones, id)
	return nil
}

// --- fakeDocumentRepo ---

type fakeDocumentRepo struct {
	mu        sync.Mutex
	documents map[string]*model.Document
	createErr error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{documents: make(map[string]*model.Document)}
}

func (r *fakeDocumentRepo) Create(_ context.Context, d *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	d.CreatedAt = time.Now()
	c := *d
	r.documents[d.ID] = &c
	return nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, id string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.documents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *d
	return &c, nil
}

func (r *fakeDocumentRepo) List(_ context.Context, employeeID, projectID *string, limit, offset int) ([]*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.Document
	for _, d := range r.documents {
		if employeeID != nil && d.EmployeeID != *employeeID {
			continue
		}
		if projectID != nil && (d.ProjectID == nil || *d.ProjectID != *projectID) {
			continue
		}
		c := *d
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Filename < result[j].Filename })

	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.documents[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.documents, id)
	return nil
}

// --- Коллабораторы side-effect'ов ---

// nameSyncCall — записанный вызов синхронизации имени.
type nameSyncCall struct {
	userID    string
	firstName *string
	lastName  *string
}

// recordingNameSyncer записывает вызовы UpdateUserName в канал.
type recordingNameSyncer struct {
	calls chan nameSyncCall
	err   error
}

func newRecordingNameSyncer() *recordingNameSyncer {
	return &recordingNameSyncer{calls: make(chan nameSyncCall, 8)}
}

func (s *recordingNameSyncer) UpdateUserName(_ context.Context, userID string, firstName, lastName *string) error {
	s.calls <- nameSyncCall{userID: userID, firstName: firstName, lastName: lastName}
	return s.err
}

// positionCall — записанный вызов уведомления о смене должности.
type positionCall struct {
	employeeID  string
	oldPosition string
	newPosition string
	email       string
}

// recordingPositionNotifier записывает вызовы NotifyPositionChange в канал.
type recordingPositionNotifier struct {
	calls chan positionCall
}

func newRecordingPositionNotifier() *recordingPositionNotifier {
	return &recordingPositionNotifier{calls: make(chan positionCall, 8)}
}

func (n *recordingPositionNotifier) NotifyPositionChange(_ context.Context, employee *model.Employee, oldPosition, newPosition, email string) error {
	n.calls <- positionCall{
		employeeID:  employee.ID,
		oldPosition: oldPosition,
		newPosition: newPosition,
		email:       email,
	}
	return nil
}
