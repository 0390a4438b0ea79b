package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	planningapp "github.com/mrp/backend/internal/application/planning"
)

// PlanHandler handles requirement plan API endpoints
type PlanHandler struct {
	BaseHandler
	planService *planningapp.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService *planningapp.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// Create godoc
// @Summary      Create a requirement plan
// @Description  Create a plan with a planning window and optional initial source orders
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        request body planningapp.CreatePlanRequest true "Plan creation request"
// @Success      201 {object} dto.Response{data=planningapp.PlanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /planning/plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	var req planningapp.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, plan)
}

// GetByID godoc
// @Summary      Get plan by ID
// @Description  Retrieve a plan including its requirement lines and linked orders
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} dto.Response{data=planningapp.PlanResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /planning/plans/{id} [get]
func (h *PlanHandler) GetByID(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID format")
		return
	}

	plan, err := h.planService.GetByID(c.Request.Context(), planID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plan)
}

// List godoc
// @Summary      List requirement plans
// @Tags         plans
// @Produce      json
// @Param        search query string false "Search term (reference number, notes)"
// @Param        status query string false "Plan status" Enums(DRAFT, CALCULATED, PROCESSING, COMPLETED, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]planningapp.PlanListResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /planning/plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	var filter planningapp.PlanListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	plans, total, err := h.planService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, plans, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a draft plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Param        request body planningapp.UpdatePlanRequest true "Plan update request"
// @Success      200 {object} dto.Response{data=planningapp.PlanResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /planning/plans/{id} [put]
func (h *PlanHandler) Update(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID format")
		return
	}

	var req planningapp.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), planID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plan)
}

// LinkOrders godoc
// @Summary      Link production orders to a plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Param        request body planningapp.LinkOrdersRequest true "Order IDs to link"
// @Success      200 {object} dto.Response{data=planningapp.PlanResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /planning/plans/{id}/orders [post]
func (h *PlanHandler) LinkOrders(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID format")
		return
	}

	var req planningapp.LinkOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	plan, err := h.planService.LinkOrders(c.Request.Context(), planID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plan)
}

// UnlinkOrder godoc
// @Summary      Unlink a production order from a plan
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Param        order_id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=planningapp.PlanResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /planning/plans/{id}/orders/{order_id} [delete]
func (h *PlanHandler) UnlinkOrder(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID format")
		return
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	plan, err := h.planService.UnlinkOrder(c.Request.Context(), planID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plan)
}

// Calculate godoc
// @Summary      Run the MRP calculation for a plan
// @Description  Explodes BOMs for linked orders, nets against stock and produces requirement lines
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} dto.Response{data=planningapp.PlanResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /planning/plans/{id}/calculate [post]
func (h *PlanHandler) Calculate(c *gin.Context) {
	h.transition(c, h.planService.Calculate)
}

// StartProcessing godoc
// @Summary      Mark a calculated plan as being processed
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} dto.Response{data=planningapp.PlanResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /planning/plans/{id}/start [post]
func (h *PlanHandler) StartProcessing(c *gin.Context) {
	h.transition(c, h.planService.StartProcessing)
}

// Complete godoc
// @Summary      Complete a processed plan
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} dto.Response{data=planningapp.PlanResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /planning/plans/{id}/complete [post]
func (h *PlanHandler) Complete(c *gin.Context) {
	h.transition(c, h.planService.Complete)
}

// Cancel godoc
// @Summary      Cancel a plan
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} dto.Response{data=planningapp.PlanResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /planning/plans/{id}/cancel [post]
func (h *PlanHandler) Cancel(c *gin.Context) {
	h.transition(c, h.planService.Cancel)
}

// Delete godoc
// @Summary      Delete a plan
// @Tags         plans
// @Param        id path string true "Plan ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /planning/plans/{id} [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID format")
		return
	}

	if err := h.planService.Delete(c.Request.Context(), planID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// transition handles the shared pattern of status transition endpoints
func (h *PlanHandler) transition(c *gin.Context, fn func(ctx context.Context, planID uuid.UUID) (*planningapp.PlanResponse, error)) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plan ID format")
		return
	}

	plan, err := fn(c.Request.Context(), planID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plan)
}
