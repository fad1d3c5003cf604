package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/pkg/auth"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/httputil"
)

const (
	ContextCaller = "caller"

	// HeaderPatient is the legacy identity header sent by older clients.
	HeaderPatient = "patient"
)

type AuthMiddleware struct {
	jwt                *auth.JWTManager
	allowPatientHeader bool
}

func NewAuthMiddleware(jwt *auth.JWTManager, allowPatientHeader bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwt:                jwt,
		allowPatientHeader: allowPatientHeader,
	}
}

// Authenticate resolves the caller from a bearer token, or from the
// patient header when that is enabled, and stores it in the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.RespondWithError(c, errors.Unauthorized(nil))
				return
			}

			claims, err := m.jwt.Verify(parts[1])
			if err != nil {
				httputil.RespondWithError(c, errors.Unauthorized(err))
				return
			}

			profileID, err := uuid.Parse(claims.Subject)
			if err != nil {
				httputil.RespondWithError(c, errors.Unauthorized(err))
				return
			}

			c.Set(ContextCaller, model.Caller{ProfileID: profileID, Role: claims.Role})
			c.Next()
			return
		}

		if m.allowPatientHeader {
			if id, err := uuid.Parse(c.GetHeader(HeaderPatient)); err == nil {
				c.Set(ContextCaller, model.Caller{ProfileID: id, Role: model.RolePatient})
				c.Next()
				return
			}
		}

		httputil.RespondWithError(c, errors.Unauthorized(nil))
	}
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			httputil.RespondWithError(c, errors.Unauthorized(nil))
			return
		}
		for _, role := range roles {
			if caller.Role == role {
				c.Next()
				return
			}
		}
		httputil.RespondWithError(c, errors.Forbidden("permission denied"))
	}
}

func CallerFrom(c *gin.Context) (model.Caller, bool) {
	v, ok := c.Get(ContextCaller)
	if !ok {
		return model.Caller{}, false
	}
	caller, ok := v.(model.Caller)
	return caller, ok
}

// CanAccess reports whether the caller may act on data owned by ownerID.
// Patients reach only their own data; staff roles reach any patient.
func CanAccess(c *gin.Context, ownerID uuid.UUID) bool {
	caller, ok := CallerFrom(c)
	if !ok {
		return false
	}
	if caller.Role != model.RolePatient {
		return true
	}
	return caller.ProfileID == ownerID
}
