package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
)

// Order is the immutable record of a checkout. CartID points at the
// checked-out cart the order was created from, one order per cart.
type Order struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	CartID    uint            `gorm:"not null;uniqueIndex" json:"cart_id"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status    OrderStatus     `gorm:"type:varchar(20);default:'completed'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Cart Cart `gorm:"foreignKey:CartID" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}
