package journal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-sync/internal/middleware"
	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository/mock"
	"github.com/jwalitptl/care-sync/internal/service/journal"
	"github.com/jwalitptl/care-sync/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(repo *mock.JournalRepository, caller model.Caller) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextCaller, caller)
		c.Next()
	})
	NewHandler(journal.NewService(repo, nil, logger.Nop())).RegisterRoutes(r.Group(""))
	return r
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateEntry(t *testing.T) {
	patientID := uuid.New()
	repo := &mock.JournalRepository{
		CreateFn: func(_ context.Context, e *model.JournalEntry) error {
			e.ID = uuid.New()
			e.CreatedAt = time.Now()
			return nil
		},
	}

	r := newRouter(repo, model.Caller{ProfileID: patientID, Role: model.RolePatient})
	w := send(r, http.MethodPost, "/patient-journal/entries",
		`{"patient_id":"`+patientID.String()+`","content":"slept well","date":"2024-06-01"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"content":"slept well"`)
	assert.Contains(t, w.Body.String(), `"date":"2024-06-01T00:00:00Z"`)

	w = send(r, http.MethodPost, "/patient-journal/entries",
		`{"patient_id":"`+uuid.NewString()+`","content":"not mine"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(r, http.MethodPost, "/patient-journal/entries",
		`{"patient_id":"`+patientID.String()+`","content":"x","date":"June 1st"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlagEntry(t *testing.T) {
	entry := &model.JournalEntry{ID: uuid.New(), PatientID: uuid.New(), Content: "rough day"}
	repo := &mock.JournalRepository{
		SetFlaggedFn: func(_ context.Context, id uuid.UUID, flagged bool) error {
			if id == entry.ID {
				entry.Flagged = flagged
			}
			return nil
		},
		GetFn: func(context.Context, uuid.UUID) (*model.JournalEntry, error) {
			copied := *entry
			return &copied, nil
		},
	}

	r := newRouter(repo, model.Caller{ProfileID: entry.PatientID, Role: model.RolePatient})
	w := send(r, http.MethodPut, "/patient-journal/entries/"+entry.ID.String()+"/flag", `{"flagged":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, entry.Flagged)

	r = newRouter(repo, model.Caller{ProfileID: uuid.New(), Role: model.RoleDoctor})
	w = send(r, http.MethodPut, "/patient-journal/entries/"+entry.ID.String()+"/flag", `{"flagged":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, entry.Flagged)
	assert.Contains(t, w.Body.String(), `"flagged":true`)
}

func TestListEntries(t *testing.T) {
	patientID := uuid.New()
	repo := &mock.JournalRepository{}

	r := newRouter(repo, model.Caller{ProfileID: patientID, Role: model.RolePatient})
	w := send(r, http.MethodGet, "/patient-journal/entries/"+patientID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = send(r, http.MethodGet, "/patient-journal/entries/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
