package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/internal/app/service"
	apperrors "github.com/hanbyul/storefront-backend/internal/errors"
	"github.com/hanbyul/storefront-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

type ItemController struct {
	itemService service.ItemService
}

func NewItemController(itemService service.ItemService) *ItemController {
	return &ItemController{
		itemService: itemService,
	}
}

// Price is a pointer so that "required" means present, not non-zero;
// a free item is a valid item.
type CreateItemRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string           `json:"image_url"`
}

type UpdateItemRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Status      string           `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ListItems returns the active catalog
// GET /api/v1/items
func (ctrl *ItemController) ListItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	items, err := ctrl.itemService.ListActiveItems()
	if err != nil {
		log.Error("Failed to list items", err)
		apperrors.InternalError(c, "Failed to fetch items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetItem returns one active item
// GET /api/v1/items/:id
func (ctrl *ItemController) GetItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ctrl.itemService.GetActiveItem(id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			log.Debug("Item not found", map[string]interface{}{
				"item_id": id,
			})
			apperrors.NotFound(c, apperrors.ItemNotFound, "Item not found")
			return
		}
		log.Error("Failed to fetch item", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item": item,
	})
}

// ListAllItems returns the full catalog, inactive items included
// GET /api/v1/admin/items
func (ctrl *ItemController) ListAllItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	items, err := ctrl.itemService.ListAllItems()
	if err != nil {
		log.Error("Failed to list all items", err)
		apperrors.InternalError(c, "Failed to fetch items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// CreateItem adds a catalog item
// POST /api/v1/admin/items
func (ctrl *ItemController) CreateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create item request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid item data")
		return
	}

	item, err := ctrl.itemService.CreateItem(req.Name, req.Description, *req.Price, req.ImageURL)
	if err != nil {
		if errors.Is(err, service.ErrNegativePrice) {
			log.Warn("Rejected negative item price", map[string]interface{}{
				"name":  req.Name,
				"price": req.Price,
			})
			apperrors.BadRequest(c, apperrors.ItemPriceBelowZero, "Item price must not be negative")
			return
		}
		log.Error("Failed to create item", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create item")
		return
	}

	log.Info("Item created", map[string]interface{}{
		"item_id": item.ID,
		"name":    item.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item created successfully",
		"item":    item,
	})
}

// UpdateItem edits a catalog item
// PUT /api/v1/admin/items/:id
func (ctrl *ItemController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update item request", map[string]interface{}{
			"item_id": id,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid item data")
		return
	}

	item, err := ctrl.itemService.UpdateItem(id, req.Name, req.Description, *req.Price, model.ItemStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.ItemNotFound, "Item not found")
			return
		}
		if errors.Is(err, service.ErrNegativePrice) {
			apperrors.BadRequest(c, apperrors.ItemPriceBelowZero, "Item price must not be negative")
			return
		}
		log.Error("Failed to update item", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update item")
		return
	}

	log.Info("Item updated", map[string]interface{}{
		"item_id": item.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item updated successfully",
		"item":    item,
	})
}

// DeleteItem removes a catalog item
// DELETE /api/v1/admin/items/:id
func (ctrl *ItemController) DeleteItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.itemService.DeleteItem(id); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.ItemNotFound, "Item not found")
			return
		}
		log.Error("Failed to delete item", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete item")
		return
	}

	log.Info("Item deleted", map[string]interface{}{
		"item_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item deleted successfully",
	})
}

// parseIDParam reads a numeric path parameter, responding 400 on garbage.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log := middleware.GetLoggerFromContext(c)
		log.Warn("Invalid ID parameter", map[string]interface{}{
			"param": name,
			"value": idStr,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}
