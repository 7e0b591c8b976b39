package user

import (
	"context"
	"strings"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/internal/service"
	"github.com/jwalitptl/hospital-scheduling/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
	"github.com/jwalitptl/hospital-scheduling/pkg/security"
)

type UserService interface {
	CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context, page model.Page) ([]*model.User, int, error)
}

type Service struct {
	repo   repository.UserRepository
	hasher security.PasswordHasher
	events event.Emitter
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, events event.Emitter) *Service {
	return &Service{repo: repo, hasher: hasher, events: events}
}

func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, service.RepoError(err, "user", "A user with this email already exists.")
	}

	s.events.Emit(ctx, event.UserCreated, user.ID, nil)
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "user", "")
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, page model.Page) ([]*model.User, int, error) {
	users, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, service.RepoError(err, "user", "")
	}
	return users, total, nil
}
