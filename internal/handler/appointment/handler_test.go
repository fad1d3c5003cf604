package appointment

import (
	"context"
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
	"github.com/jwalitptl/care-sync/internal/service/appointment"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	repo     *mock.AppointmentRepository
	profiles *mock.ProfileRepository
	patient  *model.Profile
	doctor   *model.Profile
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &mock.AppointmentRepository{},
		profiles: &mock.ProfileRepository{},
		patient:  &model.Profile{ID: uuid.New(), Role: model.RolePatient, Name: "Pat"},
		doctor:   &model.Profile{ID: uuid.New(), Role: model.RoleDoctor, Name: "Doc"},
	}
	f.profiles.GetFn = func(_ context.Context, id uuid.UUID) (*model.Profile, error) {
		switch id {
		case f.patient.ID:
			return f.patient, nil
		case f.doctor.ID:
			return f.doctor, nil
		}
		return nil, errors.NotFound("profile", nil)
	}
	return f
}

func (f *fixture) router(caller model.Caller) *gin.Engine {
	svc := appointment.NewService(f.repo, f.profiles, nil, nil, logger.Nop())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextCaller, caller)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func (f *fixture) stored(status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		ID:      uuid.New(),
		Patient: model.PartyRef{ID: f.patient.ID, Name: f.patient.Name},
		Doctor:  model.PartyRef{ID: f.doctor.ID, Name: f.doctor.Name},
		Date:    "2024-07-01",
		Time:    "10:00",
		Status:  status,
		Type:    model.AppointmentTypeConsultation,
		Mode:    model.AppointmentModeOnline,
	}
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListAppointmentsScopesPatients(t *testing.T) {
	f := newFixture()
	var got *model.AppointmentFilters
	f.repo.ListFn = func(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
		got = filters
		return nil, nil
	}

	r := f.router(model.Caller{ProfileID: f.patient.ID, Role: model.RolePatient})
	w := serve(r, http.MethodGet, "/api/v1/appointments?status=upcoming", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())
	require.NotNil(t, got.PatientID)
	assert.Equal(t, f.patient.ID, *got.PatientID)
	assert.Equal(t, model.AppointmentStatusUpcoming, got.Status)

	w = serve(r, http.MethodGet, "/api/v1/appointments?patientId="+uuid.NewString(), "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	got = nil
	r = f.router(model.Caller{ProfileID: f.doctor.ID, Role: model.RoleDoctor})
	w = serve(r, http.MethodGet, "/api/v1/appointments?doctorId="+f.doctor.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, got.PatientID)
	require.NotNil(t, got.DoctorID)
	assert.Equal(t, f.doctor.ID, *got.DoctorID)

	w = serve(r, http.MethodGet, "/api/v1/appointments?doctorId=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointment(t *testing.T) {
	f := newFixture()
	var created *model.Appointment
	f.repo.CreateFn = func(_ context.Context, a *model.Appointment) error {
		a.ID = uuid.New()
		created = a
		return nil
	}
	f.repo.GetFn = func(context.Context, uuid.UUID) (*model.Appointment, error) {
		return created, nil
	}

	body := `{"patientId":"` + f.patient.ID.String() + `","doctorId":"` + f.doctor.ID.String() +
		`","date":"2024-07-01","time":"10:00","type":"consultation","mode":"online"}`

	r := f.router(model.Caller{ProfileID: uuid.New(), Role: model.RolePatient})
	w := serve(r, http.MethodPost, "/api/v1/appointments", body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, created)

	r = f.router(model.Caller{ProfileID: f.patient.ID, Role: model.RolePatient})
	w = serve(r, http.MethodPost, "/api/v1/appointments", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"upcoming"`)
	assert.Contains(t, w.Body.String(), `"dataShared":false`)

	w = serve(r, http.MethodPost, "/api/v1/appointments", `{"patientId":"`+f.patient.ID.String()+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAppointment(t *testing.T) {
	f := newFixture()
	current := f.stored(model.AppointmentStatusCancelled)
	f.repo.GetFn = func(context.Context, uuid.UUID) (*model.Appointment, error) {
		copied := *current
		return &copied, nil
	}

	r := f.router(model.Caller{ProfileID: f.doctor.ID, Role: model.RoleDoctor})
	w := serve(r, http.MethodPatch, "/api/v1/appointments/"+current.ID.String(), `{"status":"completed"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(r, http.MethodPatch, "/api/v1/appointments/"+current.ID.String(), `{"notes":"follow up in 2 weeks"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"notes":"follow up in 2 weeks"`)

	r = f.router(model.Caller{ProfileID: uuid.New(), Role: model.RolePatient})
	w = serve(r, http.MethodGet, "/api/v1/appointments/"+current.ID.String(), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
