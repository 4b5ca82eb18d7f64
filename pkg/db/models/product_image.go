package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage is an ordered product photo. SortOrder values are unique and
// contiguous per product; slot 0 is the primary image.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	URL       string    `gorm:"column:url;not null"`
	Alt       string    `gorm:"column:alt"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
