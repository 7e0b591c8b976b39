package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.t.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("create user: %w (users_email_key)", repository.ErrConflict)
		}
	}
	r.s.stamp(&user.Base)
	r.s.t.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.t.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", repository.ErrNotFound)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.t.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", repository.ErrNotFound)
}

func (r *userRepo) List(_ context.Context, page model.Page) ([]*model.User, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var users []*model.User
	for _, id := range sortedIDs(r.s.t.users) {
		u := r.s.t.users[id]
		users = append(users, &u)
	}
	return paginate(users, page), len(users), nil
}

type clinicianRepo struct{ s *Store }

func (r *clinicianRepo) checkRefs(c *model.Clinician) error {
	if _, ok := r.s.t.users[c.UserID]; !ok {
		return fmt.Errorf("clinician user: %w", repository.ErrInvalidReference)
	}
	if _, ok := r.s.t.departments[c.DepartmentID]; !ok {
		return fmt.Errorf("clinician department: %w", repository.ErrInvalidReference)
	}
	return nil
}

func (r *clinicianRepo) Create(_ context.Context, clinician *model.Clinician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(clinician); err != nil {
		return err
	}
	for _, c := range r.s.t.clinicians {
		if c.UserID == clinician.UserID {
			return fmt.Errorf("create clinician: %w (clinicians_user_id_key)", repository.ErrConflict)
		}
	}
	r.s.stamp(&clinician.Base)
	r.s.t.clinicians[clinician.ID] = *clinician
	return nil
}

func (r *clinicianRepo) GetByID(_ context.Context, id int64, scope model.Scope) (*model.Clinician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.t.clinicians[id]
	if !ok || !visible(c.SoftDelete, scope) {
		return nil, fmt.Errorf("get clinician: %w", repository.ErrNotFound)
	}
	return &c, nil
}

func (r *clinicianRepo) GetByUserID(_ context.Context, userID int64) (*model.Clinician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.t.clinicians {
		if c.UserID == userID && c.DeletedAt == nil {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("get clinician by user: %w", repository.ErrNotFound)
}

func (r *clinicianRepo) Update(_ context.Context, clinician *model.Clinician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.t.clinicians[clinician.ID]
	if !ok || cur.DeletedAt != nil {
		return fmt.Errorf("update clinician: %w", repository.ErrNotFound)
	}
	if err := r.checkRefs(clinician); err != nil {
		return err
	}
	cur.DepartmentID = clinician.DepartmentID
	cur.Name = clinician.Name
	cur.UpdatedAt = r.s.now()
	r.s.t.clinicians[cur.ID] = cur
	clinician.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *clinicianRepo) SoftDelete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.t.clinicians[id]
	if !ok || c.DeletedAt != nil {
		return fmt.Errorf("delete clinician: %w", repository.ErrNotFound)
	}
	now := r.s.now()
	c.DeletedAt, c.UpdatedAt = &now, now
	r.s.t.clinicians[id] = c
	return nil
}

func (r *clinicianRepo) List(_ context.Context, filter model.ClinicianFilter) ([]*model.Clinician, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Clinician
	for _, c := range r.s.t.clinicians {
		if !visible(c.SoftDelete, filter.Scope) {
			continue
		}
		if filter.DepartmentID != nil && c.DepartmentID != *filter.DepartmentID {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, filter.Page), len(out), nil
}

type patientRepo struct{ s *Store }

func (r *patientRepo) checkUser(p *model.Patient) error {
	if p.UserID == nil {
		return nil
	}
	if _, ok := r.s.t.users[*p.UserID]; !ok {
		return fmt.Errorf("patient user: %w", repository.ErrInvalidReference)
	}
	for _, other := range r.s.t.patients {
		if other.ID != p.ID && other.UserID != nil && *other.UserID == *p.UserID {
			return fmt.Errorf("patient user: %w (patients_user_id_key)", repository.ErrConflict)
		}
	}
	return nil
}

func (r *patientRepo) Create(_ context.Context, patient *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUser(patient); err != nil {
		return err
	}
	r.s.stamp(&patient.Base)
	r.s.t.patients[patient.ID] = *patient
	return nil
}

func (r *patientRepo) GetByID(_ context.Context, id int64, scope model.Scope) (*model.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.t.patients[id]
	if !ok || !visible(p.SoftDelete, scope) {
		return nil, fmt.Errorf("get patient: %w", repository.ErrNotFound)
	}
	return &p, nil
}

func (r *patientRepo) GetByEmail(_ context.Context, email string) (*model.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range sortedIDs(r.s.t.patients) {
		p := r.s.t.patients[id]
		if p.DeletedAt == nil && p.Email != nil && strings.EqualFold(*p.Email, email) {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("get patient by email: %w", repository.ErrNotFound)
}

func (r *patientRepo) Update(_ context.Context, patient *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.t.patients[patient.ID]
	if !ok || cur.DeletedAt != nil {
		return fmt.Errorf("update patient: %w", repository.ErrNotFound)
	}
	if err := r.checkUser(patient); err != nil {
		return err
	}
	patient.CreatedAt = cur.CreatedAt
	patient.DeletedAt = nil
	patient.UpdatedAt = r.s.now()
	r.s.t.patients[patient.ID] = *patient
	return nil
}

func (r *patientRepo) SoftDelete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.t.patients[id]
	if !ok || p.DeletedAt != nil {
		return fmt.Errorf("delete patient: %w", repository.ErrNotFound)
	}
	now := r.s.now()
	p.DeletedAt, p.UpdatedAt = &now, now
	r.s.t.patients[id] = p
	return nil
}

func (r *patientRepo) List(_ context.Context, filter model.PatientFilter) ([]*model.Patient, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var out []*model.Patient
	for _, p := range r.s.t.patients {
		if !visible(p.SoftDelete, filter.Scope) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			(p.Email == nil || !strings.Contains(strings.ToLower(*p.Email), search)) {
			continue
		}
		if filter.LinkedClinicianID != nil && !r.s.activeLink(p.ID, *filter.LinkedClinicianID) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, filter.Page), len(out), nil
}

// activeLink expects s.mu to be held.
func (s *Store) activeLink(patientID, clinicianID int64) bool {
	for _, pc := range s.t.patientClinicians {
		if pc.PatientID == patientID && pc.ClinicianID == clinicianID && pc.IsActive() {
			return true
		}
	}
	return false
}
