package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

type procedureRepo struct{ s *Store }

// withRefs fills the joined summaries; expects s.mu to be held.
func (r *procedureRepo) withRefs(p model.Procedure) *model.Procedure {
	pt := r.s.t.procedureTypes[p.ProcedureTypeID]
	pa := r.s.t.patients[p.PatientID]
	c := r.s.t.clinicians[p.ClinicianID]
	p.ProcedureType = model.Ref{ID: pt.ID, Name: pt.Name}
	p.Patient = model.Ref{ID: pa.ID, Name: pa.Name}
	p.Clinician = model.Ref{ID: c.ID, Name: c.Name}
	return &p
}

func (r *procedureRepo) Create(_ context.Context, p *model.Procedure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.procedureTypes[p.ProcedureTypeID]; !ok {
		return fmt.Errorf("procedure type: %w", repository.ErrInvalidReference)
	}
	if _, ok := r.s.t.patients[p.PatientID]; !ok {
		return fmt.Errorf("procedure patient: %w", repository.ErrInvalidReference)
	}
	if _, ok := r.s.t.clinicians[p.ClinicianID]; !ok {
		return fmt.Errorf("procedure clinician: %w", repository.ErrInvalidReference)
	}
	r.s.stamp(&p.Base)
	stored := *p
	stored.ProcedureType, stored.Patient, stored.Clinician = model.Ref{}, model.Ref{}, model.Ref{}
	r.s.t.procedures[p.ID] = stored
	return nil
}

func (r *procedureRepo) GetByID(_ context.Context, id int64, scope model.Scope) (*model.Procedure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.t.procedures[id]
	if !ok || !visible(p.SoftDelete, scope) {
		return nil, fmt.Errorf("get procedure: %w", repository.ErrNotFound)
	}
	return r.withRefs(p), nil
}

func (r *procedureRepo) Update(_ context.Context, p *model.Procedure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.t.procedures[p.ID]
	if !ok || cur.DeletedAt != nil {
		return fmt.Errorf("update procedure: %w", repository.ErrNotFound)
	}
	cur.Name = p.Name
	cur.ScheduledAt = p.ScheduledAt
	cur.DurationMinutes = p.DurationMinutes
	cur.Status = p.Status
	cur.Notes = p.Notes
	cur.UpdatedAt = r.s.now()
	r.s.t.procedures[cur.ID] = cur
	p.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *procedureRepo) SoftDelete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.t.procedures[id]
	if !ok || p.DeletedAt != nil {
		return fmt.Errorf("delete procedure: %w", repository.ErrNotFound)
	}
	now := r.s.now()
	p.DeletedAt, p.UpdatedAt = &now, now
	r.s.t.procedures[id] = p
	return nil
}

func (r *procedureRepo) List(_ context.Context, filter model.ProcedureFilter) ([]*model.Procedure, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Procedure
	for _, p := range r.s.t.procedures {
		switch {
		case !visible(p.SoftDelete, filter.Scope),
			filter.PatientID != nil && p.PatientID != *filter.PatientID,
			filter.ClinicianID != nil && p.ClinicianID != *filter.ClinicianID,
			filter.ProcedureTypeID != nil && p.ProcedureTypeID != *filter.ProcedureTypeID,
			filter.Status != "" && p.Status != filter.Status:
			continue
		}
		out = append(out, r.withRefs(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, filter.Page), len(out), nil
}

type reportRepo struct{ s *Store }

func (r *reportRepo) ClinicianPatientCounts(_ context.Context, filter model.ClinicianPatientCountFilter) ([]*model.ClinicianPatientCount, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.ClinicianPatientCount
	for _, c := range r.s.t.clinicians {
		if c.DeletedAt != nil ||
			filter.DepartmentID != nil && c.DepartmentID != *filter.DepartmentID ||
			filter.ClinicianID != nil && c.ID != *filter.ClinicianID {
			continue
		}
		patients := map[int64]struct{}{}
		for _, pc := range r.s.t.patientClinicians {
			if pc.ClinicianID != c.ID || !pc.IsActive() {
				continue
			}
			if pa, ok := r.s.t.patients[pc.PatientID]; ok && pa.DeletedAt == nil {
				patients[pa.ID] = struct{}{}
			}
		}
		out = append(out, &model.ClinicianPatientCount{
			Clinician:    model.Ref{ID: c.ID, Name: c.Name},
			DepartmentID: c.DepartmentID,
			PatientCount: len(patients),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Clinician.Name != out[j].Clinician.Name {
			return out[i].Clinician.Name < out[j].Clinician.Name
		}
		return out[i].Clinician.ID < out[j].Clinician.ID
	})
	return paginate(out, filter.Page), len(out), nil
}

func (r *reportRepo) ScheduledPatients(_ context.Context, filter model.ScheduledPatientsFilter) ([]*model.ScheduledPatient, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var from, until time.Time
	if filter.DateFrom != nil {
		from = dayStart(*filter.DateFrom)
	}
	if filter.DateTo != nil {
		until = dayStart(*filter.DateTo).AddDate(0, 0, 1)
	}

	var out []*model.ScheduledPatient
	for _, p := range r.s.t.procedures {
		if p.ProcedureTypeID != filter.ProcedureTypeID || p.DeletedAt != nil || !p.Status.IsOpen() {
			continue
		}
		if filter.DateFrom != nil && p.ScheduledAt.Before(from) {
			continue
		}
		if filter.DateTo != nil && !p.ScheduledAt.Before(until) {
			continue
		}
		if filter.ClinicianID != nil && p.ClinicianID != *filter.ClinicianID {
			continue
		}
		pa, ok := r.s.t.patients[p.PatientID]
		if !ok || pa.DeletedAt != nil {
			continue
		}
		c, ok := r.s.t.clinicians[p.ClinicianID]
		if !ok || c.DeletedAt != nil {
			continue
		}
		if filter.DepartmentID != nil && c.DepartmentID != *filter.DepartmentID {
			continue
		}
		out = append(out, &model.ScheduledPatient{
			Procedure: model.ScheduledProcedure{
				ID:              p.ID,
				Status:          p.Status,
				ScheduledAt:     p.ScheduledAt,
				DurationMinutes: p.DurationMinutes,
			},
			Patient:   model.PatientSummary{ID: pa.ID, Name: pa.Name, Gender: pa.Gender},
			Clinician: model.Ref{ID: c.ID, Name: c.Name},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Procedure, out[j].Procedure
		if !a.ScheduledAt.Equal(b.ScheduledAt) {
			return a.ScheduledAt.Before(b.ScheduledAt)
		}
		return a.ID < b.ID
	})
	return paginate(out, filter.Page), len(out), nil
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
