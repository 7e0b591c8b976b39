package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository/memory"
	"github.com/jwalitptl/hospital-scheduling/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
	"github.com/jwalitptl/hospital-scheduling/pkg/security"
)

func TestCreateUser(t *testing.T) {
	repos := memory.NewStore().Repositories()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	svc := NewService(repos.Users, hasher, event.Nop{})
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, &model.CreateUserRequest{Email: " Nurse@Hospital.com ", Password: "nurse1234"})
	require.NoError(t, err)
	assert.Equal(t, "nurse@hospital.com", u.Email)
	assert.True(t, u.IsActive)
	assert.NoError(t, hasher.Compare(u.PasswordHash, "nurse1234"))

	_, err = svc.CreateUser(ctx, &model.CreateUserRequest{Email: "nurse@hospital.com", Password: "nurse1234"})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	_, err = svc.CreateUser(ctx, &model.CreateUserRequest{Email: "short@hospital.com", Password: "abc"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "password")
	assert.ErrorIs(t, err, security.ErrPasswordTooShort)
}
