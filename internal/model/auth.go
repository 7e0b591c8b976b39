package model

import "context"

type Role string

const (
	RoleAdmin     Role = "patient_admin"
	RoleClinician Role = "clinician"
	RoleNone      Role = ""
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID      int64
	Email       string
	Role        Role
	ClinicianID *int64
}

// SystemPrincipal acts with admin rights; used when auth is disabled and by the seeder.
var SystemPrincipal = &Principal{Role: RoleAdmin}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// IsClinician is true only for clinicians without admin rights.
func (p *Principal) IsClinician() bool {
	return p != nil && p.Role == RoleClinician && p.ClinicianID != nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller, or nil when none was attached.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Role        Role   `json:"role"`
}
