package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

const (
	MinPasswordLen = 8
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordLen = 72
)

var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
)

// PasswordHasher hashes account passwords and checks login attempts.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher falls back to bcrypt.DefaultCost for out-of-range costs.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

// ValidatePassword returns a "password" field error carrying
// ErrPasswordTooShort or ErrPasswordTooLong.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLen:
		return passwordError(ErrPasswordTooShort, fmt.Sprintf("Ensure this field has at least %d characters.", MinPasswordLen))
	case len(password) > MaxPasswordLen:
		return passwordError(ErrPasswordTooLong, fmt.Sprintf("Ensure this field has no more than %d characters.", MaxPasswordLen))
	}
	return nil
}

func passwordError(cause error, msg string) error {
	return &apperrors.AppError{
		Code:    apperrors.ErrValidation,
		Message: "validation failed",
		Fields:  map[string][]string{"password": {msg}},
		Err:     cause,
	}
}

func (b *bcryptHasher) Hash(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (b *bcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
