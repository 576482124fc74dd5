package repository

import (
	"time"

	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	CreateCart(cart *model.Cart) error
	FindCartByID(id uint) (*model.Cart, error)
	FindActiveByUserID(userID uint) (*model.Cart, error)
	UpdateCartStatus(id uint, status model.CartStatus) error

	CreateCartItem(cartItem *model.CartItem) error
	FindCartItems(cartID uint) ([]model.CartItem, error)
	FindCartItem(cartID, itemID uint) (*model.CartItem, error)
	DeleteCartItem(cartID, itemID uint) error
	DeleteItemsFromStaleActiveCarts(cutoff time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) CreateCart(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": cart.UserID,
		"status":  cart.Status,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

func (r *cartRepository) FindCartByID(id uint) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.First(&cart, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart by ID in database", err, map[string]interface{}{
				"cart_id": id,
			})
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindActiveByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
		First(&cart).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find active cart in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) UpdateCartStatus(id uint, status model.CartStatus) error {
	logger.Debug("Updating cart status in database", map[string]interface{}{
		"cart_id": id,
		"status":  status,
	})

	if err := r.db.Model(&model.Cart{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update cart status in database", err, map[string]interface{}{
			"cart_id": id,
			"status":  status,
		})
		return err
	}
	return nil
}

func (r *cartRepository) CreateCartItem(cartItem *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":  cartItem.CartID,
		"item_id":  cartItem.ItemID,
		"quantity": cartItem.Quantity,
	})

	if err := r.db.Create(cartItem).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id": cartItem.CartID,
			"item_id": cartItem.ItemID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"cart_id":      cartItem.CartID,
		"item_id":      cartItem.ItemID,
	})
	return nil
}

func (r *cartRepository) FindCartItems(cartID uint) ([]model.CartItem, error) {
	var cartItems []model.CartItem
	err := r.db.Where("cart_id = ?", cartID).
		Preload("Item").
		Order("created_at ASC").
		Find(&cartItems).Error
	if err != nil {
		logger.Error("Failed to find cart items in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}
	return cartItems, nil
}

func (r *cartRepository) FindCartItem(cartID, itemID uint) (*model.CartItem, error) {
	var cartItem model.CartItem
	err := r.db.Where("cart_id = ? AND item_id = ?", cartID, itemID).
		First(&cartItem).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart item in database", err, map[string]interface{}{
				"cart_id": cartID,
				"item_id": itemID,
			})
		}
		return nil, err
	}
	return &cartItem, nil
}

func (r *cartRepository) DeleteCartItem(cartID, itemID uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_id": cartID,
		"item_id": itemID,
	})

	result := r.db.Where("cart_id = ? AND item_id = ?", cartID, itemID).
		Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete cart item from database", result.Error, map[string]interface{}{
			"cart_id": cartID,
			"item_id": itemID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteItemsFromStaleActiveCarts clears items out of active carts that have
// not been touched since cutoff. The carts themselves stay active and empty.
func (r *cartRepository) DeleteItemsFromStaleActiveCarts(cutoff time.Time) (int64, error) {
	staleCarts := r.db.Model(&model.Cart{}).
		Select("id").
		Where("status = ? AND updated_at < ?", model.CartStatusActive, cutoff)

	result := r.db.Where("cart_id IN (?)", staleCarts).
		Where("updated_at < ?", cutoff).
		Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to clear stale cart items from database", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
