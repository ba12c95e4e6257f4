package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// InventoryHandler handles inventory HTTP requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// List handles listing inventory items
func (h *InventoryHandler) List(c *gin.Context) {
	var filter request.InventoryFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.InventoryFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:  filter.Search,
		LowOnly: filter.LowStock,
	}

	result, err := h.inventoryService.ListItems(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Inventory retrieved successfully", result)
}

// Get handles fetching a single item
func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "inventory item")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory item retrieved successfully", item)
}

// Create handles inventory item creation
func (h *InventoryHandler) Create(c *gin.Context) {
	var req request.CreateInventoryItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), &service.CreateItemInput{
		Name:         req.Name,
		SKU:          req.SKU,
		Unit:         req.Unit,
		CurrentStock: req.CurrentStock,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Inventory item created successfully", item)
}

// Adjust applies a stock adjustment
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := pathID(c, "inventory item")
	if !ok {
		return
	}
	var req request.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.AdjustStock(c.Request.Context(), id, &service.AdjustStockInput{
		Delta:   req.Delta,
		Reason:  req.Reason,
		StaffID: GetStaffID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", item)
}

// LowStock lists items at or below their reorder level
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventoryService.ListLowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock items retrieved successfully", items)
}
