package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/pkg/auth"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
	"github.com/jwalitptl/hospital-scheduling/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	users      repository.UserRepository
	clinicians repository.ClinicianRepository
	hasher     security.PasswordHasher
	jwtSvc     auth.JWTService
	expiry     time.Duration
}

func NewService(users repository.UserRepository, clinicians repository.ClinicianRepository,
	hasher security.PasswordHasher, jwtSvc auth.JWTService, expiry time.Duration) *Service {
	return &Service{
		users:      users,
		clinicians: clinicians,
		hasher:     hasher,
		jwtSvc:     jwtSvc,
		expiry:     expiry,
	}
}

// Login verifies the credentials and issues an access token carrying the
// caller's role.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(ErrInvalidCredentials)
		}
		return nil, apperrors.Internal(err)
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	principal, err := s.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtSvc.GenerateAccessToken(auth.Claims{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        string(principal.Role),
		ClinicianID: principal.ClinicianID,
	})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.expiry.Seconds()),
		Role:        principal.Role,
	}, nil
}

// Resolve works out the role of user: admins first, then clinicians.
func (s *Service) Resolve(ctx context.Context, user *model.User) (*model.Principal, error) {
	p := &model.Principal{UserID: user.ID, Email: user.Email}
	if user.IsAdmin {
		p.Role = model.RoleAdmin
		return p, nil
	}

	clinician, err := s.clinicians.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		p.Role = model.RoleClinician
		p.ClinicianID = &clinician.ID
	case errors.Is(err, repository.ErrNotFound):
		p.Role = model.RoleNone
	default:
		return nil, apperrors.Internal(err)
	}
	return p, nil
}

// PrincipalFromClaims rebuilds the caller from a validated token.
func PrincipalFromClaims(c *auth.Claims) *model.Principal {
	p := &model.Principal{
		UserID:      c.UserID,
		Email:       c.Email,
		Role:        model.Role(c.Role),
		ClinicianID: c.ClinicianID,
	}
	if p.UserID == 0 && c.Subject != "" {
		p.UserID, _ = strconv.ParseInt(c.Subject, 10, 64)
	}
	return p
}
