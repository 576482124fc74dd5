package service

import (
	"errors"
	"time"

	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/internal/app/repository"
	apperrors "github.com/hanbyul/storefront-backend/internal/errors"
	"github.com/hanbyul/storefront-backend/internal/metrics"
	"github.com/hanbyul/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrItemAlreadyInCart = errors.New("item is already in the cart")
	ErrItemNotInCart     = errors.New("item is not in the cart")
	ErrCartCreateFailed  = errors.New("failed to create cart")
)

// CartContents is the view-cart projection: the cart, its item rows with
// item details attached, and the exact decimal total.
type CartContents struct {
	Cart  *model.Cart      `json:"cart"`
	Items []model.CartItem `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

type CartService interface {
	GetActiveCart(userID uint) (*model.Cart, error)
	GetCartContents(userID uint) (*CartContents, error)
	AddItem(userID, itemID uint) error
	RemoveItem(userID, itemID uint) error
	ClearStaleCarts(olderThan time.Duration) (int64, error)
}

type cartService struct {
	cartRepo  repository.CartRepository
	itemRepo  repository.ItemRepository
	collector *metrics.Collector
	notifier  Notifier
}

// NewCartService wires the cart orchestrator. collector and notifier may be
// nil; both are side channels, never part of the contract.
func NewCartService(
	cartRepo repository.CartRepository,
	itemRepo repository.ItemRepository,
	collector *metrics.Collector,
	notifier Notifier,
) CartService {
	return &cartService{
		cartRepo:  cartRepo,
		itemRepo:  itemRepo,
		collector: collector,
		notifier:  notifier,
	}
}

// GetActiveCart resolves the user's single active cart, creating one on
// first use. When the create loses a race against another session, the
// partial unique index rejects it and the winner's cart is re-read.
func (s *cartService) GetActiveCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindActiveByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up active cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("No active cart, creating one", map[string]interface{}{
		"user_id": userID,
	})

	newCart := &model.Cart{
		UserID: userID,
		Status: model.CartStatusActive,
	}
	if err := s.cartRepo.CreateCart(newCart); err != nil {
		if apperrors.IsUniqueViolation(err) {
			logger.Debug("Lost cart creation race, re-reading winner", map[string]interface{}{
				"user_id": userID,
			})
			return s.cartRepo.FindActiveByUserID(userID)
		}
		logger.Error("Failed to create active cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrCartCreateFailed
	}

	logger.Info("Active cart created", map[string]interface{}{
		"user_id": userID,
		"cart_id": newCart.ID,
	})
	return newCart, nil
}

func (s *cartService) GetCartContents(userID uint) (*CartContents, error) {
	cart, err := s.GetActiveCart(userID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.FindCartItems(cart.ID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
		return nil, err
	}

	total := decimal.Zero
	for _, ci := range items {
		total = total.Add(ci.Item.Price.Mul(decimal.NewFromInt(int64(ci.Quantity))))
	}

	logger.Debug("Cart contents fetched", map[string]interface{}{
		"user_id": userID,
		"cart_id": cart.ID,
		"count":   len(items),
		"total":   total,
	})

	return &CartContents{
		Cart:  cart,
		Items: items,
		Total: total,
	}, nil
}

// AddItem puts an item into the user's active cart with quantity 1.
// Adding an item that is already there is a no-op reported as
// ErrItemAlreadyInCart; the unique (cart, item) index backs up the
// pre-check when two sessions add simultaneously.
func (s *cartService) AddItem(userID, itemID uint) error {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id": userID,
		"item_id": itemID,
	})

	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: item not found", map[string]interface{}{
				"user_id": userID,
				"item_id": itemID,
			})
			return ErrItemNotFound
		}
		logger.Error("Failed to fetch item", err, map[string]interface{}{
			"item_id": itemID,
		})
		return err
	}
	if item.Status != model.ItemStatusActive {
		logger.Warn("Cannot add to cart: item not active", map[string]interface{}{
			"user_id": userID,
			"item_id": itemID,
			"status":  item.Status,
		})
		return ErrItemNotFound
	}

	cart, err := s.GetActiveCart(userID)
	if err != nil {
		return err
	}

	existing, err := s.cartRepo.FindCartItem(cart.ID, itemID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"cart_id": cart.ID,
			"item_id": itemID,
		})
		return err
	}
	if existing != nil {
		logger.Info("Item already in cart, nothing to do", map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
			"item_id": itemID,
		})
		return ErrItemAlreadyInCart
	}

	cartItem := &model.CartItem{
		CartID:   cart.ID,
		ItemID:   itemID,
		Quantity: 1,
	}
	if err := s.cartRepo.CreateCartItem(cartItem); err != nil {
		if apperrors.IsUniqueViolation(err) {
			// concurrent add beat us to the insert
			logger.Debug("Concurrent add detected by unique index", map[string]interface{}{
				"cart_id": cart.ID,
				"item_id": itemID,
			})
			return ErrItemAlreadyInCart
		}
		logger.Error("Failed to create cart item", err, map[string]interface{}{
			"cart_id": cart.ID,
			"item_id": itemID,
		})
		return err
	}

	if s.collector != nil {
		s.collector.RecordCartItemAdded()
	}
	if s.notifier != nil {
		s.notifier.NotifyUser(userID, EventCartItemAdded, map[string]interface{}{
			"cart_id": cart.ID,
			"item_id": itemID,
		})
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":      userID,
		"cart_id":      cart.ID,
		"item_id":      itemID,
		"cart_item_id": cartItem.ID,
	})
	return nil
}

func (s *cartService) RemoveItem(userID, itemID uint) error {
	cart, err := s.GetActiveCart(userID)
	if err != nil {
		return err
	}

	if err := s.cartRepo.DeleteCartItem(cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Item not in cart for removal", map[string]interface{}{
				"user_id": userID,
				"cart_id": cart.ID,
				"item_id": itemID,
			})
			return ErrItemNotInCart
		}
		logger.Error("Failed to remove cart item", err, map[string]interface{}{
			"cart_id": cart.ID,
			"item_id": itemID,
		})
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyUser(userID, EventCartItemRemoved, map[string]interface{}{
			"cart_id": cart.ID,
			"item_id": itemID,
		})
	}

	logger.Info("Item removed from cart", map[string]interface{}{
		"user_id": userID,
		"cart_id": cart.ID,
		"item_id": itemID,
	})
	return nil
}

// ClearStaleCarts empties active carts untouched for longer than olderThan.
// Run by the janitor scheduler.
func (s *cartService) ClearStaleCarts(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	removed, err := s.cartRepo.DeleteItemsFromStaleActiveCarts(cutoff)
	if err != nil {
		logger.Error("Failed to clear stale carts", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, err
	}

	if removed > 0 {
		logger.Info("Stale cart items cleared", map[string]interface{}{
			"removed": removed,
			"cutoff":  cutoff,
		})
	}
	return removed, nil
}
