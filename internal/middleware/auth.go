package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	authsvc "github.com/jwalitptl/hospital-scheduling/internal/service/auth"
	"github.com/jwalitptl/hospital-scheduling/pkg/auth"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
	"github.com/jwalitptl/hospital-scheduling/pkg/httputil"
)

const ContextPrincipal = "principal"

var (
	errMissingToken = errors.New("missing authorization header")
	errTokenFormat  = errors.New("invalid authorization format")
)

type AuthMiddleware struct {
	jwtSvc  auth.JWTService
	enabled bool
}

// NewAuthMiddleware returns the bearer-token middleware. With enabled=false
// every request runs as model.SystemPrincipal.
func NewAuthMiddleware(jwtSvc auth.JWTService, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc, enabled: enabled}
}

// Authenticate verifies the JWT token and attaches the caller to the request context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			setPrincipal(c, model.SystemPrincipal)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized(errMissingToken))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized(errTokenFormat))
			return
		}

		claims, err := m.jwtSvc.ValidateToken(parts[1])
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			return
		}

		setPrincipal(c, authsvc.PrincipalFromClaims(claims))
		c.Next()
	}
}

func setPrincipal(c *gin.Context, p *model.Principal) {
	c.Set(ContextPrincipal, p)
	c.Request = c.Request.WithContext(model.WithPrincipal(c.Request.Context(), p))
}

// RequireRole lets the request through only when the caller holds one of roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := model.PrincipalFromContext(c.Request.Context())
		if p == nil {
			httputil.RespondWithError(c, apperrors.Unauthorized(errMissingToken))
			return
		}
		for _, r := range roles {
			if p.Role == r && (r != model.RoleClinician || p.IsClinician()) {
				c.Next()
				return
			}
		}
		httputil.RespondWithError(c, apperrors.Forbidden(""))
	}
}
