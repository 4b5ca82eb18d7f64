package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant is a size-distinguished variant with its own stock count and
// optional price override.
type ProductVariant struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Size          string    `gorm:"column:size;not null"`
	StockQuantity int       `gorm:"column:stock_quantity;not null;default:0"`
	PriceCents    *int      `gorm:"column:price_cents"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
