package products

import (
	"github.com/google/uuid"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
	"github.com/yeezuz2020/store-api/pkg/pagination"
)

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	PriceCents  int
	Status      *enums.ProductStatus
	Variants    []VariantInput
	Images      []ImageInput
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	PriceCents  *int
	Status      *enums.ProductStatus
}

// VariantInput describes one size variant.
type VariantInput struct {
	Size          string
	StockQuantity int
	PriceCents    *int
}

// ImageInput describes one product image to append.
type ImageInput struct {
	URL string
	Alt string
}

// Filters describe the admin product list inputs.
type Filters struct {
	Status *enums.ProductStatus
	Query  string
}

// ProductList wraps one page of products plus its page envelope.
type ProductList struct {
	Products []models.Product `json:"products"`
	Page     pagination.Page  `json:"page"`
}

// ReorderInput carries the full desired image ordering for one product.
type ReorderInput struct {
	ProductID uuid.UUID
	ImageIDs  []uuid.UUID
}
