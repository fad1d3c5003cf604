package workout

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
	"github.com/jwalitptl/care-sync/internal/service/workout"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(repo *mock.WorkoutRepository, caller model.Caller) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextCaller, caller)
		c.Next()
	})
	NewHandler(workout.NewService(repo, nil, logger.Nop())).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListSessions(t *testing.T) {
	userID := uuid.New()
	repo := &mock.WorkoutRepository{
		ListByUserFn: func(_ context.Context, id uuid.UUID) ([]*model.WorkoutSession, error) {
			if id != userID {
				return nil, nil
			}
			return []*model.WorkoutSession{{ID: uuid.New(), UserID: userID, Title: "Run", Date: "2024-05-01"}}, nil
		},
	}

	t.Run("own sessions", func(t *testing.T) {
		r := newRouter(repo, model.Caller{ProfileID: userID, Role: model.RolePatient})
		w := do(r, http.MethodGet, "/api/v1/workout-sessions?userId="+userID.String(), "")

		require.Equal(t, http.StatusOK, w.Code)
		var sessions []model.WorkoutSession
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sessions))
		require.Len(t, sessions, 1)
		assert.Equal(t, "Run", sessions[0].Title)
	})

	t.Run("someone else", func(t *testing.T) {
		r := newRouter(repo, model.Caller{ProfileID: uuid.New(), Role: model.RolePatient})
		w := do(r, http.MethodGet, "/api/v1/workout-sessions?userId="+userID.String(), "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing user", func(t *testing.T) {
		r := newRouter(repo, model.Caller{ProfileID: userID, Role: model.RolePatient})
		w := do(r, http.MethodGet, "/api/v1/workout-sessions", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		r := newRouter(repo, model.Caller{ProfileID: uuid.New(), Role: model.RoleDoctor})
		w := do(r, http.MethodGet, "/api/v1/workout-sessions?userId="+uuid.NewString(), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestCreateSession(t *testing.T) {
	userID := uuid.New()
	var created *model.WorkoutSession
	repo := &mock.WorkoutRepository{
		CreateFn: func(_ context.Context, s *model.WorkoutSession) error {
			s.ID = uuid.New()
			created = s
			return nil
		},
	}
	r := newRouter(repo, model.Caller{ProfileID: userID, Role: model.RolePatient})

	w := do(r, http.MethodPost, "/api/v1/workout-sessions",
		`{"user_id":"`+userID.String()+`","title":"Swim","date":"2024-05-02","duration_minutes":30}`)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, created)
	assert.Equal(t, "Swim", created.Title)
	assert.Contains(t, w.Body.String(), `"duration_minutes":30`)

	w = do(r, http.MethodPost, "/api/v1/workout-sessions", `{"user_id":"`+userID.String()+`","date":"bad"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSession(t *testing.T) {
	userID := uuid.New()
	session := &model.WorkoutSession{ID: uuid.New(), UserID: userID, Title: "Yoga", Date: "2024-05-03"}
	deleted := false
	repo := &mock.WorkoutRepository{
		GetFn: func(_ context.Context, id uuid.UUID) (*model.WorkoutSession, error) {
			if id != session.ID {
				return nil, errors.NotFound("workout session", nil)
			}
			copied := *session
			return &copied, nil
		},
		DeleteFn: func(_ context.Context, id uuid.UUID) error {
			deleted = id == session.ID
			return nil
		},
	}

	r := newRouter(repo, model.Caller{ProfileID: uuid.New(), Role: model.RolePatient})
	w := do(r, http.MethodDelete, "/api/v1/workout-sessions/"+session.ID.String(), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, deleted)

	r = newRouter(repo, model.Caller{ProfileID: userID, Role: model.RolePatient})
	w = do(r, http.MethodDelete, "/api/v1/workout-sessions/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/workout-sessions/"+session.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, deleted)
}

func TestUpdateSession(t *testing.T) {
	userID := uuid.New()
	session := &model.WorkoutSession{ID: uuid.New(), UserID: userID, Title: "Walk", Date: "2024-05-04"}
	repo := &mock.WorkoutRepository{
		GetFn: func(_ context.Context, _ uuid.UUID) (*model.WorkoutSession, error) {
			copied := *session
			return &copied, nil
		},
	}
	r := newRouter(repo, model.Caller{ProfileID: userID, Role: model.RolePatient})

	w := do(r, http.MethodPatch, "/api/v1/workout-sessions/"+session.ID.String(), `{"completed":true}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got model.WorkoutSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Completed)
	assert.Equal(t, "Walk", got.Title)

	w = do(r, http.MethodPatch, "/api/v1/workout-sessions/not-a-uuid", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
