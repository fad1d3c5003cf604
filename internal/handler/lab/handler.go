package lab

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-sync/internal/handler"
	"github.com/jwalitptl/care-sync/internal/middleware"
	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/service/lab"
	"github.com/jwalitptl/care-sync/pkg/httputil"
)

type Handler struct {
	service *lab.Service
}

func NewHandler(service *lab.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/lab-tests", h.ListTests)

	bookings := r.Group("/booked-lab-tests")
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", h.BookTest)
		bookings.PATCH("/:id/cancel", h.CancelBooking)
		bookings.PATCH("/:id/complete",
			middleware.RequireRole(model.RoleLabTechnician, model.RoleDoctor, model.RoleAdmin), h.CompleteBooking)
		bookings.GET("/:id/report", h.Report)
	}
}

func (h *Handler) ListTests(c *gin.Context) {
	tests, err := h.service.ListTests(c.Request.Context(), c.Query("category"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if tests == nil {
		tests = []*model.LabTest{}
	}

	c.JSON(http.StatusOK, tests)
}

func (h *Handler) BookTest(c *gin.Context) {
	var req model.BookLabTestRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	if !handler.Authorize(c, req.PatientID) {
		return
	}

	booking, err := h.service.BookTest(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *Handler) ListBookings(c *gin.Context) {
	patientID, ok := handler.RequiredQueryID(c, "patientId")
	if !ok || !handler.Authorize(c, patientID) {
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if bookings == nil {
		bookings = []*model.BookedLabTest{}
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	booking, ok := h.authorizedBooking(c)
	if !ok {
		return
	}

	updated, err := h.service.CancelBooking(c.Request.Context(), booking.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "lab booking")
	if !ok {
		return
	}

	var req model.CompleteLabTestRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.CompleteBooking(c.Request.Context(), id, req.ReportURL)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Report streams a PDF summary of the booking.
func (h *Handler) Report(c *gin.Context) {
	booking, ok := h.authorizedBooking(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.WriteReport(c.Request.Context(), booking.ID, &buf); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="lab-report-%s.pdf"`, booking.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) authorizedBooking(c *gin.Context) (*model.BookedLabTest, bool) {
	id, ok := handler.PathID(c, "id", "lab booking")
	if !ok {
		return nil, false
	}

	booking, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return nil, false
	}
	if !handler.Authorize(c, booking.PatientID) {
		return nil, false
	}
	return booking, true
}
