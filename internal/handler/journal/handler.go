package journal

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-sync/internal/handler"
	"github.com/jwalitptl/care-sync/internal/middleware"
	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/service/journal"
	"github.com/jwalitptl/care-sync/pkg/httputil"
)

type Handler struct {
	service *journal.Service
}

func NewHandler(service *journal.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	entries := r.Group("/patient-journal/entries")
	{
		entries.POST("", h.CreateEntry)
		entries.GET("/:patientId", h.ListEntries)
		entries.PUT("/:id/flag",
			middleware.RequireRole(model.RoleDoctor, model.RoleNutritionist, model.RoleAdmin), h.FlagEntry)
	}
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var req model.CreateJournalEntryRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	if !handler.Authorize(c, req.PatientID) {
		return
	}

	entry, err := h.service.CreateEntry(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) ListEntries(c *gin.Context) {
	patientID, ok := handler.PathID(c, "patientId", "patient")
	if !ok || !handler.Authorize(c, patientID) {
		return
	}

	entries, err := h.service.ListEntries(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if entries == nil {
		entries = []*model.JournalEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// FlagEntry marks an entry for clinician follow-up.
func (h *Handler) FlagEntry(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "journal entry")
	if !ok {
		return
	}

	var req model.FlagJournalEntryRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.FlagEntry(c.Request.Context(), id, req.Flagged)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}
