package department

import (
	"context"
	"strings"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/internal/service"
	"github.com/jwalitptl/hospital-scheduling/internal/service/event"
)

const msgNameTaken = "A department with this name already exists."

type Service struct {
	repo   repository.DepartmentRepository
	events event.Emitter
}

func NewService(repo repository.DepartmentRepository, events event.Emitter) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) CreateDepartment(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error) {
	dept := &model.Department{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, service.RepoError(err, "department", msgNameTaken)
	}
	s.events.Emit(ctx, event.DepartmentCreated, dept.ID, dept)
	return dept, nil
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (*model.Department, error) {
	dept, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "department", "")
	}
	return dept, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id int64, req *model.UpdateDepartmentRequest) (*model.Department, error) {
	dept, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "department", "")
	}

	if req.Name != nil {
		dept.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		dept.Description = req.Description
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, service.RepoError(err, "department", msgNameTaken)
	}
	s.events.Emit(ctx, event.DepartmentUpdated, dept.ID, dept)
	return dept, nil
}

func (s *Service) ListDepartments(ctx context.Context, filter model.DepartmentFilter) ([]*model.Department, int, error) {
	depts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, service.RepoError(err, "department", "")
	}
	return depts, total, nil
}
