package service

import (
	"errors"
	"fmt"

	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/internal/app/repository"
	"github.com/hanbyul/storefront-backend/internal/metrics"
	"github.com/hanbyul/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart     = errors.New("cannot checkout an empty cart")
	ErrOrderNotFound = errors.New("order not found")
)

// OrderDetail is the single-order projection: the order plus the line
// items of the cart it was created from.
type OrderDetail struct {
	Order *model.Order     `json:"order"`
	Items []model.CartItem `json:"items"`
}

type OrderService interface {
	Checkout(userID uint) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*OrderDetail, error)
	ExportOrders() (*excelize.File, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	collector *metrics.Collector
	notifier  Notifier
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	collector *metrics.Collector,
	notifier Notifier,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		collector: collector,
		notifier:  notifier,
	}
}

// Checkout turns the user's active cart into an order. The total is the
// exact decimal sum of price times quantity over the cart's rows. The
// order insert, the cart status flip and the fresh cart all commit in a
// single transaction, so a failure leaves the cart untouched.
func (s *orderService) Checkout(userID uint) (*model.Order, error) {
	logger.Info("Checkout started", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Checkout failed: no active cart", map[string]interface{}{
				"user_id": userID,
			})
			s.recordFailure("empty_cart")
			return nil, ErrEmptyCart
		}
		logger.Error("Failed to resolve active cart for checkout", err, map[string]interface{}{
			"user_id": userID,
		})
		s.recordFailure("cart_lookup")
		return nil, err
	}

	cartItems, err := s.cartRepo.FindCartItems(cart.ID)
	if err != nil {
		logger.Error("Failed to fetch cart items for checkout", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
		s.recordFailure("cart_items_lookup")
		return nil, err
	}
	if len(cartItems) == 0 {
		logger.Warn("Checkout failed: cart is empty", map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
		s.recordFailure("empty_cart")
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	for _, ci := range cartItems {
		total = total.Add(ci.Item.Price.Mul(decimal.NewFromInt(int64(ci.Quantity))))
	}

	order := &model.Order{
		UserID: userID,
		CartID: cart.ID,
		Total:  total,
		Status: model.OrderStatusCompleted,
	}
	newCart := &model.Cart{
		UserID: userID,
		Status: model.CartStatusActive,
	}

	if err := s.orderRepo.CreateWithCartRotation(order, newCart); err != nil {
		s.recordFailure("transaction")
		return nil, err
	}

	if s.collector != nil {
		s.collector.RecordOrderCreated()
	}
	if s.notifier != nil {
		s.notifier.NotifyUser(userID, EventOrderCreated, map[string]interface{}{
			"order_id": order.ID,
			"total":    order.Total,
		})
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
		"cart_id":  cart.ID,
		"total":    total,
		"items":    len(cartItems),
	})
	return order, nil
}

func (s *orderService) recordFailure(reason string) {
	if s.collector != nil {
		s.collector.RecordCheckoutFailure(reason)
	}
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	logger.Debug("Order history fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

// GetOrderByID returns the order with its line items. Orders belonging to
// another user read as not found rather than forbidden, so order IDs leak
// nothing about other accounts.
func (s *orderService) GetOrderByID(userID, orderID uint) (*OrderDetail, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: owner mismatch", map[string]interface{}{
			"order_id":    orderID,
			"owner_id":    order.UserID,
			"accessor_id": userID,
		})
		return nil, ErrOrderNotFound
	}

	items, err := s.cartRepo.FindCartItems(order.CartID)
	if err != nil {
		logger.Error("Failed to fetch order line items", err, map[string]interface{}{
			"order_id": orderID,
			"cart_id":  order.CartID,
		})
		return nil, err
	}

	return &OrderDetail{
		Order: order,
		Items: items,
	}, nil
}

// ExportOrders builds an XLSX workbook of every order for the admin
// download surface.
func (s *orderService) ExportOrders() (*excelize.File, error) {
	orders, err := s.orderRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Orders"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Order ID", "User Email", "Cart ID", "Total", "Status", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, order := range orders {
		values := []interface{}{
			order.ID,
			order.User.Email,
			order.CartID,
			order.Total.StringFixed(2),
			string(order.Status),
			order.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write order %d: %w", order.ID, err)
			}
		}
	}

	logger.Info("Order export generated", map[string]interface{}{
		"count": len(orders),
	})
	return f, nil
}
