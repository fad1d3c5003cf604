package fitness

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-sync/internal/handler"
	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/service/fitness"
	"github.com/jwalitptl/care-sync/pkg/httputil"
)

type Handler struct {
	service *fitness.Service
}

func NewHandler(service *fitness.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/fitness", h.GetState)
	r.POST("/fitness", h.UpdateState)
}

func (h *Handler) GetState(c *gin.Context) {
	userID, ok := handler.RequiredQueryID(c, "userId")
	if !ok || !handler.Authorize(c, userID) {
		return
	}

	state, err := h.service.GetState(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// UpdateState merges {userId, updates} into the stored state and returns
// the result.
func (h *Handler) UpdateState(c *gin.Context) {
	var req model.UpdateFitnessRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	if !handler.Authorize(c, req.UserID) {
		return
	}

	state, err := h.service.UpdateState(c.Request.Context(), req.UserID, req.Updates)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}
