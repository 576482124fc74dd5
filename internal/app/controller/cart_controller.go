package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hanbyul/storefront-backend/internal/app/service"
	apperrors "github.com/hanbyul/storefront-backend/internal/errors"
	"github.com/hanbyul/storefront-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddCartItemRequest struct {
	ItemID uint `json:"item_id" binding:"required"`
}

// GetCart returns the user's active cart with its items and total
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized access to cart", nil)
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	contents, err := ctrl.cartService.GetCartContents(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get cart")
		return
	}

	log.Info("Cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"cart_id": contents.Cart.ID,
		"count":   len(contents.Items),
		"total":   contents.Total,
	})

	c.JSON(http.StatusOK, gin.H{
		"cart":       contents.Cart,
		"cart_items": contents.Items,
		"count":      len(contents.Items),
		"total":      contents.Total,
	})
}

// AddItem puts an item into the active cart
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to add to cart", nil)
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	err := ctrl.cartService.AddItem(userID, req.ItemID)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			log.Warn("Item not found for cart", map[string]interface{}{
				"user_id": userID,
				"item_id": req.ItemID,
			})
			apperrors.NotFound(c, apperrors.ItemNotFound, "Item not found")
			return
		}
		if errors.Is(err, service.ErrItemAlreadyInCart) {
			log.Info("Item already in cart", map[string]interface{}{
				"user_id": userID,
				"item_id": req.ItemID,
			})
			apperrors.Conflict(c, apperrors.CartItemExists, "Item is already in the cart")
			return
		}
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id": userID,
			"item_id": req.ItemID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add cart item")
		return
	}

	log.Info("Item added to cart successfully", map[string]interface{}{
		"user_id": userID,
		"item_id": req.ItemID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to cart successfully",
	})
}

// RemoveItem takes an item out of the active cart
// DELETE /api/v1/cart/items/:item_id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to remove cart item", nil)
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	err := ctrl.cartService.RemoveItem(userID, itemID)
	if err != nil {
		if errors.Is(err, service.ErrItemNotInCart) {
			log.Warn("Item not in cart for removal", map[string]interface{}{
				"user_id": userID,
				"item_id": itemID,
			})
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Item is not in the cart")
			return
		}
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"user_id": userID,
			"item_id": itemID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove cart item")
		return
	}

	log.Info("Cart item removed successfully", map[string]interface{}{
		"user_id": userID,
		"item_id": itemID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
	})
}
