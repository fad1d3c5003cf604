package workout

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-sync/internal/handler"
	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/service/workout"
	"github.com/jwalitptl/care-sync/pkg/httputil"
)

type Handler struct {
	service *workout.Service
}

func NewHandler(service *workout.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/workout-sessions")
	{
		sessions.GET("", h.ListSessions)
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.PATCH("/:id", h.UpdateSession)
		sessions.DELETE("/:id", h.DeleteSession)
	}
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req model.CreateWorkoutRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	if !handler.Authorize(c, req.UserID) {
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *Handler) GetSession(c *gin.Context) {
	session, ok := h.authorizedSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) UpdateSession(c *gin.Context) {
	current, ok := h.authorizedSession(c)
	if !ok {
		return
	}

	var req model.UpdateWorkoutRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	session, err := h.service.UpdateSession(c.Request.Context(), current.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	current, ok := h.authorizedSession(c)
	if !ok {
		return
	}

	if err := h.service.DeleteSession(c.Request.Context(), current.ID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListSessions(c *gin.Context) {
	userID, ok := handler.RequiredQueryID(c, "userId")
	if !ok || !handler.Authorize(c, userID) {
		return
	}

	sessions, err := h.service.ListSessions(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if sessions == nil {
		sessions = []*model.WorkoutSession{}
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *Handler) authorizedSession(c *gin.Context) (*model.WorkoutSession, bool) {
	id, ok := handler.PathID(c, "id", "workout session")
	if !ok {
		return nil, false
	}

	session, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return nil, false
	}
	if !handler.Authorize(c, session.UserID) {
		return nil, false
	}
	return session, true
}
