package repository

import (
	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(item *model.Item) error
	BulkCreate(items []model.Item, batchSize int) error
	FindActive() ([]model.Item, error)
	FindAll() ([]model.Item, error)
	FindByID(id uint) (*model.Item, error)
	Update(item *model.Item) error
	Delete(id uint) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(item *model.Item) error {
	logger.Debug("Creating item in database", map[string]interface{}{
		"name":  item.Name,
		"price": item.Price,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create item in database", err, map[string]interface{}{
			"name": item.Name,
		})
		return err
	}

	logger.Debug("Item created in database", map[string]interface{}{
		"item_id": item.ID,
		"name":    item.Name,
	})
	return nil
}

// BulkCreate inserts items in batches, used by the catalog importer
func (r *itemRepository) BulkCreate(items []model.Item, batchSize int) error {
	if err := r.db.CreateInBatches(items, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create items in database", err, map[string]interface{}{
			"count": len(items),
		})
		return err
	}

	logger.Info("Items bulk created in database", map[string]interface{}{
		"count": len(items),
	})
	return nil
}

// FindActive returns the shopper-visible catalog, newest first
func (r *itemRepository) FindActive() ([]model.Item, error) {
	var items []model.Item
	err := r.db.Where("status = ?", model.ItemStatusActive).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find active items in database", err)
		return nil, err
	}
	return items, nil
}

// FindAll returns every item regardless of status, for the admin surface
func (r *itemRepository) FindAll() ([]model.Item, error) {
	var items []model.Item
	err := r.db.Order("created_at DESC").Find(&items).Error
	if err != nil {
		logger.Error("Failed to find items in database", err)
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) FindByID(id uint) (*model.Item, error) {
	var item model.Item
	if err := r.db.First(&item, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find item by ID in database", err, map[string]interface{}{
				"item_id": id,
			})
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Update(item *model.Item) error {
	logger.Debug("Updating item in database", map[string]interface{}{
		"item_id": item.ID,
		"name":    item.Name,
		"status":  item.Status,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update item in database", err, map[string]interface{}{
			"item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *itemRepository) Delete(id uint) error {
	logger.Debug("Deleting item from database", map[string]interface{}{
		"item_id": id,
	})

	if err := r.db.Delete(&model.Item{}, id).Error; err != nil {
		logger.Error("Failed to delete item from database", err, map[string]interface{}{
			"item_id": id,
		})
		return err
	}
	return nil
}
