package model

import (
	"time"

	"gorm.io/gorm"
)

type CartStatus string

const (
	CartStatusActive     CartStatus = "active"
	CartStatusCheckedOut CartStatus = "checked_out"
)

// Cart holds a user's in-progress selection. The partial unique index keeps
// at most one active cart per user while allowing any number of checked-out
// carts to accumulate as order history.
type Cart struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;index;uniqueIndex:idx_carts_user_active,where:status = 'active'" json:"user_id"`
	Status    CartStatus     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User      User       `gorm:"foreignKey:UserID" json:"-"`
	CartItems []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"cart_items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem rows are hard deleted. A soft delete would keep the removed row
// in the unique (cart_id, item_id) index and block re-adding the item.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_items_cart_item" json:"cart_id"`
	ItemID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_items_cart_item" json:"item_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Cart Cart `gorm:"foreignKey:CartID" json:"-"`
	Item Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
