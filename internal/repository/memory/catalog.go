package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

type departmentRepo struct{ s *Store }

func (r *departmentRepo) unique(dept *model.Department) error {
	for _, d := range r.s.t.departments {
		if d.ID != dept.ID && d.Name == dept.Name {
			return fmt.Errorf("department name: %w (departments_name_key)", repository.ErrConflict)
		}
	}
	return nil
}

func (r *departmentRepo) Create(_ context.Context, dept *model.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.unique(dept); err != nil {
		return err
	}
	r.s.stamp(&dept.Base)
	r.s.t.departments[dept.ID] = *dept
	return nil
}

func (r *departmentRepo) GetByID(_ context.Context, id int64) (*model.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.t.departments[id]
	if !ok {
		return nil, fmt.Errorf("get department: %w", repository.ErrNotFound)
	}
	return &d, nil
}

func (r *departmentRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.t.departments {
		if d.Name == name {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("get department by name: %w", repository.ErrNotFound)
}

func (r *departmentRepo) Update(_ context.Context, dept *model.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.t.departments[dept.ID]
	if !ok {
		return fmt.Errorf("update department: %w", repository.ErrNotFound)
	}
	if err := r.unique(dept); err != nil {
		return err
	}
	dept.CreatedAt = cur.CreatedAt
	dept.UpdatedAt = r.s.now()
	r.s.t.departments[dept.ID] = *dept
	return nil
}

func (r *departmentRepo) List(_ context.Context, filter model.DepartmentFilter) ([]*model.Department, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Department
	for _, d := range r.s.t.departments {
		if filter.ActiveOnly && !d.IsActive {
			continue
		}
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, filter.Page), len(out), nil
}

type procedureTypeRepo struct{ s *Store }

func (r *procedureTypeRepo) check(pt *model.ProcedureType) error {
	for _, other := range r.s.t.procedureTypes {
		if other.ID != pt.ID && other.Code == pt.Code {
			return fmt.Errorf("procedure type code: %w (procedure_types_code_key)", repository.ErrConflict)
		}
	}
	if pt.DepartmentID != nil {
		if _, ok := r.s.t.departments[*pt.DepartmentID]; !ok {
			return fmt.Errorf("procedure type department: %w", repository.ErrInvalidReference)
		}
	}
	return nil
}

func (r *procedureTypeRepo) Create(_ context.Context, pt *model.ProcedureType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(pt); err != nil {
		return err
	}
	r.s.stamp(&pt.Base)
	r.s.t.procedureTypes[pt.ID] = *pt
	return nil
}

func (r *procedureTypeRepo) GetByID(_ context.Context, id int64) (*model.ProcedureType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pt, ok := r.s.t.procedureTypes[id]
	if !ok {
		return nil, fmt.Errorf("get procedure type: %w", repository.ErrNotFound)
	}
	return &pt, nil
}

func (r *procedureTypeRepo) GetByCode(_ context.Context, code string) (*model.ProcedureType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, pt := range r.s.t.procedureTypes {
		if pt.Code == code {
			return &pt, nil
		}
	}
	return nil, fmt.Errorf("get procedure type by code: %w", repository.ErrNotFound)
}

func (r *procedureTypeRepo) Update(_ context.Context, pt *model.ProcedureType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.t.procedureTypes[pt.ID]
	if !ok {
		return fmt.Errorf("update procedure type: %w", repository.ErrNotFound)
	}
	if err := r.check(pt); err != nil {
		return err
	}
	pt.CreatedAt = cur.CreatedAt
	pt.UpdatedAt = r.s.now()
	r.s.t.procedureTypes[pt.ID] = *pt
	return nil
}

func (r *procedureTypeRepo) List(_ context.Context, filter model.ProcedureTypeFilter) ([]*model.ProcedureType, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.ProcedureType
	for _, pt := range r.s.t.procedureTypes {
		if filter.ActiveOnly && !pt.IsActive {
			continue
		}
		if filter.DepartmentID != nil && (pt.DepartmentID == nil || *pt.DepartmentID != *filter.DepartmentID) {
			continue
		}
		pt := pt
		out = append(out, &pt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, filter.Page), len(out), nil
}

type patientClinicianRepo struct{ s *Store }

func (r *patientClinicianRepo) Create(_ context.Context, link *model.PatientClinician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.patients[link.PatientID]; !ok {
		return fmt.Errorf("link patient: %w", repository.ErrInvalidReference)
	}
	if _, ok := r.s.t.clinicians[link.ClinicianID]; !ok {
		return fmt.Errorf("link clinician: %w", repository.ErrInvalidReference)
	}
	for _, pc := range r.s.t.patientClinicians {
		if pc.PatientID == link.PatientID && pc.ClinicianID == link.ClinicianID &&
			pc.RelationshipStart.Equal(link.RelationshipStart) {
			return fmt.Errorf("create patient clinician: %w (patient_clinicians_period_key)", repository.ErrConflict)
		}
	}
	r.s.stamp(&link.Base)
	r.s.t.patientClinicians[link.ID] = *link
	return nil
}

func (r *patientClinicianRepo) GetByID(_ context.Context, id int64, scope model.Scope) (*model.PatientClinician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pc, ok := r.s.t.patientClinicians[id]
	if !ok || !visible(pc.SoftDelete, scope) {
		return nil, fmt.Errorf("get patient clinician: %w", repository.ErrNotFound)
	}
	return &pc, nil
}

func (r *patientClinicianRepo) Update(_ context.Context, link *model.PatientClinician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.t.patientClinicians[link.ID]
	if !ok || cur.DeletedAt != nil {
		return fmt.Errorf("update patient clinician: %w", repository.ErrNotFound)
	}
	cur.IsPrimary = link.IsPrimary
	cur.RelationshipEnd = link.RelationshipEnd
	cur.Notes = link.Notes
	cur.UpdatedAt = r.s.now()
	r.s.t.patientClinicians[cur.ID] = cur
	link.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *patientClinicianRepo) SoftDelete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pc, ok := r.s.t.patientClinicians[id]
	if !ok || pc.DeletedAt != nil {
		return fmt.Errorf("delete patient clinician: %w", repository.ErrNotFound)
	}
	now := r.s.now()
	pc.DeletedAt, pc.UpdatedAt = &now, now
	r.s.t.patientClinicians[id] = pc
	return nil
}

func (r *patientClinicianRepo) List(_ context.Context, filter model.PatientClinicianFilter) ([]*model.PatientClinician, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.PatientClinician
	for _, pc := range r.s.t.patientClinicians {
		if !visible(pc.SoftDelete, filter.Scope) {
			continue
		}
		if filter.PatientID != nil && pc.PatientID != *filter.PatientID {
			continue
		}
		if filter.ClinicianID != nil && pc.ClinicianID != *filter.ClinicianID {
			continue
		}
		if filter.ActiveOnly && pc.RelationshipEnd != nil {
			continue
		}
		pc := pc
		out = append(out, &pc)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RelationshipStart.Equal(out[j].RelationshipStart) {
			return out[i].RelationshipStart.After(out[j].RelationshipStart)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, filter.Page), len(out), nil
}

func (r *patientClinicianRepo) HasActiveLink(_ context.Context, patientID, clinicianID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.activeLink(patientID, clinicianID), nil
}

func (r *patientClinicianRepo) DemotePrimary(_ context.Context, patientID, keepID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for id, pc := range r.s.t.patientClinicians {
		if pc.PatientID == patientID && id != keepID && pc.IsPrimary && pc.IsActive() {
			pc.IsPrimary = false
			pc.UpdatedAt = now
			r.s.t.patientClinicians[id] = pc
		}
	}
	return nil
}
