package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-sync/internal/handler"
	"github.com/jwalitptl/care-sync/internal/middleware"
	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/service/appointment"
	"github.com/jwalitptl/care-sync/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PATCH("/:id", h.UpdateAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	if !handler.Authorize(c, req.PatientID) {
		return
	}

	apt, err := h.service.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, apt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "appointment")
	if !ok {
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if !handler.Authorize(c, apt.Patient.ID, apt.Doctor.ID) {
		return
	}

	c.JSON(http.StatusOK, apt)
}

// ListAppointments filters by doctorId, patientId and status. Patients
// only ever see their own appointments.
func (h *Handler) ListAppointments(c *gin.Context) {
	patientID, ok := handler.QueryID(c, "patientId")
	if !ok {
		return
	}
	doctorID, ok := handler.QueryID(c, "doctorId")
	if !ok {
		return
	}

	if caller, _ := middleware.CallerFrom(c); caller.Role == model.RolePatient {
		if patientID != nil && !handler.Authorize(c, *patientID) {
			return
		}
		patientID = &caller.ProfileID
	}

	filters := &model.AppointmentFilters{
		PatientID: patientID,
		DoctorID:  doctorID,
		Status:    model.AppointmentStatus(c.Query("status")),
	}

	items, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if items == nil {
		items = []*model.Appointment{}
	}

	c.JSON(http.StatusOK, model.AppointmentList{Items: items})
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "appointment")
	if !ok {
		return
	}

	var req model.UpdateAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	current, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if !handler.Authorize(c, current.Patient.ID, current.Doctor.ID) {
		return
	}

	apt, err := h.service.UpdateAppointment(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, apt)
}
