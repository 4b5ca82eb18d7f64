package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/yeezuz2020/store-api/pkg/enums"
)

// Product is a catalog entry owning zero or more variants and images.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Description string              `gorm:"column:description"`
	PriceCents  int                 `gorm:"column:price_cents;not null"`
	Status      enums.ProductStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	Variants    []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images      []ProductImage      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
