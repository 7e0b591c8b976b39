// Package memory is a process-local implementation of the repositories,
// used by tests and by the "memory" storage driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

type tables struct {
	seq               int64
	users             map[int64]model.User
	departments       map[int64]model.Department
	clinicians        map[int64]model.Clinician
	patients          map[int64]model.Patient
	patientClinicians map[int64]model.PatientClinician
	procedureTypes    map[int64]model.ProcedureType
	procedures        map[int64]model.Procedure
}

func newTables() tables {
	return tables{
		users:             map[int64]model.User{},
		departments:       map[int64]model.Department{},
		clinicians:        map[int64]model.Clinician{},
		patients:          map[int64]model.Patient{},
		patientClinicians: map[int64]model.PatientClinician{},
		procedureTypes:    map[int64]model.ProcedureType{},
		procedures:        map[int64]model.Procedure{},
	}
}

func (t tables) clone() tables {
	return tables{
		seq:               t.seq,
		users:             cloneMap(t.users),
		departments:       cloneMap(t.departments),
		clinicians:        cloneMap(t.clinicians),
		patients:          cloneMap(t.patients),
		patientClinicians: cloneMap(t.patientClinicians),
		procedureTypes:    cloneMap(t.procedureTypes),
		procedures:        cloneMap(t.procedures),
	}
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store holds every table behind one mutex. Row values are copied in and
// out so callers never share memory with the store.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	t    tables
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{t: newTables(), now: func() time.Time { return time.Now().UTC() }}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Tx:                s,
		Users:             &userRepo{s},
		Departments:       &departmentRepo{s},
		Clinicians:        &clinicianRepo{s},
		Patients:          &patientRepo{s},
		PatientClinicians: &patientClinicianRepo{s},
		ProcedureTypes:    &procedureTypeRepo{s},
		Procedures:        &procedureRepo{s},
		Reports:           &reportRepo{s},
	}
}

type txKey struct{}

// WithinTx serializes transactions and restores the pre-transaction
// snapshot when fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.t.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.t = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) nextID() int64 {
	s.t.seq++
	return s.t.seq
}

func (s *Store) stamp(b *model.Base) {
	now := s.now()
	b.ID = s.nextID()
	b.CreatedAt = now
	b.UpdatedAt = now
}

func visible(sd model.SoftDelete, scope model.Scope) bool {
	return scope.IncludeDeleted || sd.DeletedAt == nil
}

// paginate returns the window of items selected by page.
func paginate[T any](items []T, page model.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return items[page.Offset:end]
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
