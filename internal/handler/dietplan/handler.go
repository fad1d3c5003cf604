package dietplan

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-sync/internal/handler"
	"github.com/jwalitptl/care-sync/internal/middleware"
	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/service/dietplan"
	"github.com/jwalitptl/care-sync/pkg/httputil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *dietplan.Service
}

func NewHandler(service *dietplan.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	plans := r.Group("/diet-plans")
	staff := middleware.RequireRole(model.RoleNutritionist, model.RoleDoctor, model.RoleAdmin)
	{
		plans.GET("/assigned", h.ListAssigned)
		plans.GET("/export", staff, h.Export)
		plans.GET("/patient/:patientId", h.ListForPatient)
		plans.POST("", staff, h.CreatePlan)
		plans.PATCH("/:id", staff, h.UpdatePlan)
	}
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var req model.CreateDietPlanRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

func (h *Handler) UpdatePlan(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "diet plan")
	if !ok {
		return
	}

	var req model.UpdateDietPlanRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	plan, err := h.service.UpdatePlan(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *Handler) ListAssigned(c *gin.Context) {
	nutritionistID, ok := handler.RequiredQueryID(c, "nutritionistId")
	if !ok || !handler.Authorize(c, nutritionistID) {
		return
	}

	plans, err := h.service.ListAssigned(c.Request.Context(), nutritionistID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(plans))
}

func (h *Handler) ListForPatient(c *gin.Context) {
	patientID, ok := handler.PathID(c, "patientId", "patient")
	if !ok || !handler.Authorize(c, patientID) {
		return
	}

	plans, err := h.service.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(plans))
}

// Export downloads the nutritionist's plans as a spreadsheet.
func (h *Handler) Export(c *gin.Context) {
	nutritionistID, ok := handler.RequiredQueryID(c, "nutritionistId")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportAssigned(c.Request.Context(), nutritionistID, &buf); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="diet-plans-%s.xlsx"`, nutritionistID))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func nonNil(plans []*model.DietPlan) []*model.DietPlan {
	if plans == nil {
		return []*model.DietPlan{}
	}
	return plans
}
