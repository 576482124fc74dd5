package repository

import (
	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	CreateWithCartRotation(order *model.Order, newCart *model.Cart) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindAll() ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id": order.UserID,
		"cart_id": order.CartID,
		"total":   order.Total,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
			"cart_id": order.CartID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.Total,
	})
	return nil
}

// CreateWithCartRotation records the order, marks its cart checked out and
// opens a fresh active cart, all in one transaction. Either the whole
// checkout lands or none of it does.
func (r *orderRepository) CreateWithCartRotation(order *model.Order, newCart *model.Cart) error {
	logger.Debug("Starting checkout transaction", map[string]interface{}{
		"user_id": order.UserID,
		"cart_id": order.CartID,
		"total":   order.Total,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Cart{}).
			Where("id = ?", order.CartID).
			Update("status", model.CartStatusCheckedOut).Error; err != nil {
			return err
		}

		return tx.Create(newCart).Error
	})
	if err != nil {
		logger.Error("Checkout transaction failed", err, map[string]interface{}{
			"user_id": order.UserID,
			"cart_id": order.CartID,
		})
		return err
	}

	logger.Debug("Checkout transaction committed", map[string]interface{}{
		"order_id":    order.ID,
		"cart_id":     order.CartID,
		"new_cart_id": newCart.ID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

// FindByUserID returns the user's order history, most recent first
func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

// FindAll returns every order with its user, for the admin export
func (r *orderRepository) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find all orders in database", err)
		return nil, err
	}
	return orders, nil
}
