package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/internal/service"
	"github.com/jwalitptl/hospital-scheduling/internal/service/event"
	"github.com/jwalitptl/hospital-scheduling/pkg/metrics"
)

const msgCodeTaken = "A procedure type with this code already exists."

// Service manages procedure types. Lookups by id go through a TTL cache
// that every write invalidates.
type Service struct {
	repos   repository.Repositories
	events  event.Emitter
	cache   *cache.Cache
	metrics *metrics.Metrics
}

func NewService(repos repository.Repositories, events event.Emitter, ttl, cleanup time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		repos:   repos,
		events:  events,
		cache:   cache.New(ttl, cleanup),
		metrics: m,
	}
}

func key(id int64) string {
	return "procedure_type:" + strconv.FormatInt(id, 10)
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.CacheLookups.WithLabelValues("procedure_types", result).Inc()
	}
}

// Lookup returns the procedure type with id, or repository.ErrNotFound.
// Callers get their own copy.
func (s *Service) Lookup(ctx context.Context, id int64) (*model.ProcedureType, error) {
	if cached, found := s.cache.Get(key(id)); found {
		s.observe("hit")
		pt := cached.(model.ProcedureType)
		return &pt, nil
	}
	s.observe("miss")

	pt, err := s.repos.ProcedureTypes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key(id), *pt, cache.DefaultExpiration)
	return pt, nil
}

func (s *Service) checkDepartment(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.repos.Departments.GetByID(ctx, *id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			fields := service.Fields{}
			fields.Add("department_id", service.MsgDoesNotExist)
			return fields.Err()
		}
		return service.RepoError(err, "department", "")
	}
	return nil
}

func (s *Service) CreateProcedureType(ctx context.Context, req *model.CreateProcedureTypeRequest) (*model.ProcedureType, error) {
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	pt := &model.ProcedureType{
		Name:                   strings.TrimSpace(req.Name),
		Code:                   strings.TrimSpace(req.Code),
		DefaultDurationMinutes: req.DefaultDurationMinutes,
		DepartmentID:           req.DepartmentID,
		IsActive:               true,
	}
	if req.IsActive != nil {
		pt.IsActive = *req.IsActive
	}

	if err := s.repos.ProcedureTypes.Create(ctx, pt); err != nil {
		return nil, service.RepoError(err, "procedure type", msgCodeTaken)
	}
	s.events.Emit(ctx, event.ProcedureTypeCreated, pt.ID, pt)
	return pt, nil
}

func (s *Service) GetProcedureType(ctx context.Context, id int64) (*model.ProcedureType, error) {
	pt, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "procedure type", "")
	}
	return pt, nil
}

func (s *Service) UpdateProcedureType(ctx context.Context, id int64, req *model.UpdateProcedureTypeRequest) (*model.ProcedureType, error) {
	pt, err := s.repos.ProcedureTypes.GetByID(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "procedure type", "")
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		pt.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		pt.Code = strings.TrimSpace(*req.Code)
	}
	if req.DefaultDurationMinutes != nil {
		pt.DefaultDurationMinutes = req.DefaultDurationMinutes
	}
	if req.DepartmentID != nil {
		pt.DepartmentID = req.DepartmentID
	}
	if req.IsActive != nil {
		pt.IsActive = *req.IsActive
	}

	s.cache.Delete(key(id))
	if err := s.repos.ProcedureTypes.Update(ctx, pt); err != nil {
		return nil, service.RepoError(err, "procedure type", msgCodeTaken)
	}
	s.cache.Delete(key(id))

	s.events.Emit(ctx, event.ProcedureTypeUpdated, pt.ID, pt)
	return pt, nil
}

func (s *Service) ListProcedureTypes(ctx context.Context, filter model.ProcedureTypeFilter) ([]*model.ProcedureType, int, error) {
	types, total, err := s.repos.ProcedureTypes.List(ctx, filter)
	if err != nil {
		return nil, 0, service.RepoError(err, "procedure type", "")
	}
	return types, total, nil
}
