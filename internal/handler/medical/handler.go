package medical

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-sync/internal/handler"
	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/service/medical"
	"github.com/jwalitptl/care-sync/pkg/httputil"
)

type Handler struct {
	service *medical.Service
}

func NewHandler(service *medical.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/medical-records")
	{
		records.GET("", h.ListRecords)
		records.POST("", h.CreateRecord)
		records.GET("/:id", h.GetRecord)
		records.PATCH("/:id", h.UpdateRecord)
		records.DELETE("/:id", h.DeleteRecord)
	}
}

func (h *Handler) CreateRecord(c *gin.Context) {
	var req model.CreateMedicalRecordRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	if !handler.Authorize(c, req.PatientID) {
		return
	}

	record, err := h.service.CreateRecord(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *Handler) GetRecord(c *gin.Context) {
	record, ok := h.authorizedRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) UpdateRecord(c *gin.Context) {
	current, ok := h.authorizedRecord(c)
	if !ok {
		return
	}

	var req model.UpdateMedicalRecordRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	record, err := h.service.UpdateRecord(c.Request.Context(), current.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	current, ok := h.authorizedRecord(c)
	if !ok {
		return
	}

	if err := h.service.DeleteRecord(c.Request.Context(), current.ID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListRecords(c *gin.Context) {
	patientID, ok := handler.RequiredQueryID(c, "patientId")
	if !ok || !handler.Authorize(c, patientID) {
		return
	}

	records, err := h.service.ListRecords(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if records == nil {
		records = []*model.MedicalRecord{}
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) authorizedRecord(c *gin.Context) (*model.MedicalRecord, bool) {
	id, ok := handler.PathID(c, "id", "medical record")
	if !ok {
		return nil, false
	}

	record, err := h.service.GetRecord(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return nil, false
	}
	if !handler.Authorize(c, record.PatientID) {
		return nil, false
	}
	return record, true
}
