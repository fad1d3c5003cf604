package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-sync/internal/middleware"
	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository/mock"
	"github.com/jwalitptl/care-sync/internal/service/profile"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(repo *mock.ProfileRepository, caller model.Caller) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextCaller, caller)
		c.Next()
	})
	NewHandler(profile.NewService(repo, nil, logger.Nop())).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestGetProfile(t *testing.T) {
	id := uuid.New()
	repo := &mock.ProfileRepository{
		GetFn: func(_ context.Context, got uuid.UUID) (*model.Profile, error) {
			if got != id {
				return nil, errors.NotFound("profile", nil)
			}
			return &model.Profile{ID: id, Role: model.RolePatient, Name: "Asha", Email: "asha@example.com"}, nil
		},
	}

	w := httptest.NewRecorder()
	newRouter(repo, model.Caller{ProfileID: id, Role: model.RolePatient}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profiles/"+id.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	var p model.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Asha", p.Name)

	w = httptest.NewRecorder()
	newRouter(repo, model.Caller{ProfileID: uuid.New(), Role: model.RolePatient}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profiles/"+id.String(), nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	other := uuid.New()
	w = httptest.NewRecorder()
	newRouter(repo, model.Caller{ProfileID: other, Role: model.RolePatient}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profiles/"+other.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	id := uuid.New()
	var updated *model.Profile
	repo := &mock.ProfileRepository{
		GetFn: func(context.Context, uuid.UUID) (*model.Profile, error) {
			return &model.Profile{ID: id, Role: model.RolePatient, Name: "Asha", Email: "asha@example.com"}, nil
		},
		UpdateFn: func(_ context.Context, p *model.Profile) error {
			updated = p
			return nil
		},
	}
	r := newRouter(repo, model.Caller{ProfileID: id, Role: model.RolePatient})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/profiles/"+id.String(), strings.NewReader(`{"name":"Asha R"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, updated)
	assert.Equal(t, "Asha R", updated.Name)
	assert.Equal(t, "asha@example.com", updated.Email)

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/profiles/"+id.String(), strings.NewReader(`{"blood_group":"Q+"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
