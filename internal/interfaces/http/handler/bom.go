package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/mrp/backend/internal/application/catalog"
	"github.com/shopspring/decimal"
)

// BOMHandler handles bill of materials API endpoints
type BOMHandler struct {
	BaseHandler
	bomService *catalogapp.BOMService
}

// NewBOMHandler creates a new BOMHandler
func NewBOMHandler(bomService *catalogapp.BOMService) *BOMHandler {
	return &BOMHandler{
		bomService: bomService,
	}
}

// UpdateBOMLineRequest represents a request to change a line quantity
type UpdateBOMLineRequest struct {
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit" binding:"required"`
}

// Create godoc
// @Summary      Create a bill of materials
// @Description  Create a BOM for a product with optional initial lines
// @Tags         boms
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateBOMRequest true "BOM creation request"
// @Success      201 {object} dto.Response{data=catalogapp.BOMResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/boms [post]
func (h *BOMHandler) Create(c *gin.Context) {
	var req catalogapp.CreateBOMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bom, err := h.bomService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, bom)
}

// GetByID godoc
// @Summary      Get BOM by ID
// @Tags         boms
// @Produce      json
// @Param        id path string true "BOM ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.BOMResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/boms/{id} [get]
func (h *BOMHandler) GetByID(c *gin.Context) {
	bomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID format")
		return
	}

	bom, err := h.bomService.GetByID(c.Request.Context(), bomID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bom)
}

// ListByProduct godoc
// @Summary      List BOM versions for a product
// @Tags         boms
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.BOMResponse}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/boms [get]
func (h *BOMHandler) ListByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	boms, err := h.bomService.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, boms)
}

// GetActiveByProduct godoc
// @Summary      Get the active BOM for a product
// @Tags         boms
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.BOMResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/boms/active [get]
func (h *BOMHandler) GetActiveByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	bom, err := h.bomService.GetActiveByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bom)
}

// AddLine godoc
// @Summary      Add a component line to a BOM
// @Tags         boms
// @Accept       json
// @Produce      json
// @Param        id path string true "BOM ID" format(uuid)
// @Param        request body catalogapp.BOMLineRequest true "Component line"
// @Success      200 {object} dto.Response{data=catalogapp.BOMResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/boms/{id}/lines [post]
func (h *BOMHandler) AddLine(c *gin.Context) {
	bomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID format")
		return
	}

	var req catalogapp.BOMLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bom, err := h.bomService.AddLine(c.Request.Context(), bomID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bom)
}

// UpdateLineQuantity godoc
// @Summary      Update the quantity of a BOM line
// @Tags         boms
// @Accept       json
// @Produce      json
// @Param        id path string true "BOM ID" format(uuid)
// @Param        line_id path string true "Line ID" format(uuid)
// @Param        request body UpdateBOMLineRequest true "New quantity"
// @Success      200 {object} dto.Response{data=catalogapp.BOMResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/boms/{id}/lines/{line_id} [put]
func (h *BOMHandler) UpdateLineQuantity(c *gin.Context) {
	bomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID format")
		return
	}

	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	var req UpdateBOMLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bom, err := h.bomService.UpdateLineQuantity(c.Request.Context(), bomID, lineID, req.QuantityPerUnit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bom)
}

// RemoveLine godoc
// @Summary      Remove a component line from a BOM
// @Tags         boms
// @Produce      json
// @Param        id path string true "BOM ID" format(uuid)
// @Param        line_id path string true "Line ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.BOMResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/boms/{id}/lines/{line_id} [delete]
func (h *BOMHandler) RemoveLine(c *gin.Context) {
	bomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID format")
		return
	}

	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	bom, err := h.bomService.RemoveLine(c.Request.Context(), bomID, lineID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bom)
}

// Activate godoc
// @Summary      Activate a BOM version
// @Description  Activates this BOM and deactivates other versions for the same product
// @Tags         boms
// @Produce      json
// @Param        id path string true "BOM ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.BOMResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/boms/{id}/activate [post]
func (h *BOMHandler) Activate(c *gin.Context) {
	bomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID format")
		return
	}

	bom, err := h.bomService.Activate(c.Request.Context(), bomID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bom)
}

// Deactivate godoc
// @Summary      Deactivate a BOM version
// @Tags         boms
// @Produce      json
// @Param        id path string true "BOM ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.BOMResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/boms/{id}/deactivate [post]
func (h *BOMHandler) Deactivate(c *gin.Context) {
	bomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID format")
		return
	}

	bom, err := h.bomService.Deactivate(c.Request.Context(), bomID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bom)
}

// Delete godoc
// @Summary      Delete a BOM
// @Tags         boms
// @Param        id path string true "BOM ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/boms/{id} [delete]
func (h *BOMHandler) Delete(c *gin.Context) {
	bomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID format")
		return
	}

	if err := h.bomService.Delete(c.Request.Context(), bomID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
