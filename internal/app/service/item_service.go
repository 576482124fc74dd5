package service

import (
	"errors"

	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/internal/app/repository"
	"github.com/hanbyul/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrNegativePrice = errors.New("item price must not be negative")
)

type ItemService interface {
	ListActiveItems() ([]model.Item, error)
	GetActiveItem(id uint) (*model.Item, error)

	// Admin surface
	ListAllItems() ([]model.Item, error)
	CreateItem(name, description string, price decimal.Decimal, imageURL string) (*model.Item, error)
	UpdateItem(id uint, name, description string, price decimal.Decimal, status model.ItemStatus) (*model.Item, error)
	SetItemImage(id uint, imageURL string) error
	DeleteItem(id uint) error
}

type itemService struct {
	itemRepo repository.ItemRepository
}

func NewItemService(itemRepo repository.ItemRepository) ItemService {
	return &itemService{itemRepo: itemRepo}
}

func (s *itemService) ListActiveItems() ([]model.Item, error) {
	items, err := s.itemRepo.FindActive()
	if err != nil {
		logger.Error("Failed to list active items", err)
		return nil, err
	}

	logger.Debug("Active items listed", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

// GetActiveItem returns an item only if shoppers are allowed to see it.
// Inactive items read as not found, same as the read policy.
func (s *itemService) GetActiveItem(id uint) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		logger.Error("Failed to fetch item", err, map[string]interface{}{
			"item_id": id,
		})
		return nil, err
	}

	if item.Status != model.ItemStatusActive {
		logger.Debug("Item hidden from shopper: not active", map[string]interface{}{
			"item_id": id,
			"status":  item.Status,
		})
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (s *itemService) ListAllItems() ([]model.Item, error) {
	return s.itemRepo.FindAll()
}

func (s *itemService) CreateItem(name, description string, price decimal.Decimal, imageURL string) (*model.Item, error) {
	if price.IsNegative() {
		logger.Warn("Rejected item with negative price", map[string]interface{}{
			"name":  name,
			"price": price,
		})
		return nil, ErrNegativePrice
	}

	item := &model.Item{
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		Status:      model.ItemStatusActive,
	}

	if err := s.itemRepo.Create(item); err != nil {
		logger.Error("Failed to create item", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Info("Item created", map[string]interface{}{
		"item_id": item.ID,
		"name":    item.Name,
		"price":   item.Price,
	})
	return item, nil
}

func (s *itemService) UpdateItem(id uint, name, description string, price decimal.Decimal, status model.ItemStatus) (*model.Item, error) {
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}

	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	item.Name = name
	item.Description = description
	item.Price = price
	if status != "" {
		item.Status = status
	}

	if err := s.itemRepo.Update(item); err != nil {
		logger.Error("Failed to update item", err, map[string]interface{}{
			"item_id": id,
		})
		return nil, err
	}

	logger.Info("Item updated", map[string]interface{}{
		"item_id": item.ID,
		"status":  item.Status,
	})
	return item, nil
}

func (s *itemService) SetItemImage(id uint, imageURL string) error {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	item.ImageURL = imageURL
	if err := s.itemRepo.Update(item); err != nil {
		logger.Error("Failed to set item image", err, map[string]interface{}{
			"item_id": id,
		})
		return err
	}

	logger.Info("Item image updated", map[string]interface{}{
		"item_id":   id,
		"image_url": imageURL,
	})
	return nil
}

func (s *itemService) DeleteItem(id uint) error {
	if _, err := s.itemRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	if err := s.itemRepo.Delete(id); err != nil {
		logger.Error("Failed to delete item", err, map[string]interface{}{
			"item_id": id,
		})
		return err
	}

	logger.Info("Item deleted", map[string]interface{}{
		"item_id": id,
	})
	return nil
}
