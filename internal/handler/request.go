// Package handler holds the request helpers shared by the per-domain
// handler packages.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/care-sync/internal/middleware"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/httputil"
)

// PathID parses the named path parameter, writing a 400 on failure.
func PathID(c *gin.Context, param, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid "+name+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// QueryID parses an optional query UUID. ok is false only after a 400
// was written; a missing value yields nil.
func QueryID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid "+key)
		return nil, false
	}
	return &id, true
}

// RequiredQueryID is QueryID for parameters that must be present.
func RequiredQueryID(c *gin.Context, key string) (uuid.UUID, bool) {
	id, ok := QueryID(c, key)
	if !ok {
		return uuid.Nil, false
	}
	if id == nil {
		httputil.RespondWithBadRequest(c, key+" is required")
		return uuid.Nil, false
	}
	return *id, true
}

// BindJSON binds and validates the body, writing a 400 on failure.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return false
	}
	return true
}

// Authorize writes a 403 unless the caller may access data of at least one
// of the owners.
func Authorize(c *gin.Context, ownerIDs ...uuid.UUID) bool {
	for _, id := range ownerIDs {
		if middleware.CanAccess(c, id) {
			return true
		}
	}
	httputil.RespondWithError(c, errors.Forbidden("access denied"))
	return false
}
