package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/logger"
	"github.com/yeezuz2020/store-api/pkg/pagination"
)

// txRunner runs a function inside one database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog management for the admin API and public reads for
// the storefront.
type Service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Logger *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &Service{repo: params.Repo, tx: params.Tx, logg: params.Logger}, nil
}

// Create persists a product together with its initial variants and images.
// Images get contiguous sort orders in input order, starting at zero.
func (s *Service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "priceCents must not be negative")
	}

	status := enums.ProductStatusDraft
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product status").
				WithDetails(map[string]any{"status": input.Status.String()})
		}
		status = *input.Status
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Status:      status,
	}
	for _, v := range input.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{
			Size:          v.Size,
			StockQuantity: v.StockQuantity,
			PriceCents:    v.PriceCents,
		})
	}
	for i, img := range input.Images {
		product.Images = append(product.Images, models.ProductImage{
			URL:       img.URL,
			Alt:       img.Alt,
			SortOrder: i,
		})
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create product")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "product_id", created.ID.String()), "product created")
	}
	return created, nil
}

// Get loads one product with its variants and ordered images.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	return product, nil
}

// List returns one admin page of products matching the filters.
func (s *Service) List(ctx context.Context, params pagination.Params, filters Filters) (*ProductList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list products")
	}
	return list, nil
}

// ListPublic returns one storefront page, restricted to active products.
func (s *Service) ListPublic(ctx context.Context, params pagination.Params, query string) (*ProductList, error) {
	active := enums.ProductStatusActive
	return s.List(ctx, params, Filters{Status: &active, Query: query})
}

// Update applies the provided optional fields to a product.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "priceCents must not be negative")
		}
		updates["price_cents"] = *input.PriceCents
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product status").
				WithDetails(map[string]any{"status": input.Status.String()})
		}
		updates["status"] = *input.Status
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update product")
	}
	return s.Get(ctx, id)
}

// Delete removes a product; variants and images go with it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete product")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "product_id", id.String()), "product deleted")
	}
	return nil
}

// AddVariant appends a size variant to a product.
func (s *Service) AddVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*models.Product, error) {
	if input.Size == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size is required")
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stockQuantity must not be negative")
	}
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}

	variant := &models.ProductVariant{
		ProductID:     productID,
		Size:          input.Size,
		StockQuantity: input.StockQuantity,
		PriceCents:    input.PriceCents,
	}
	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create variant")
	}
	return s.Get(ctx, productID)
}

// UpdateVariant adjusts stock or price override on one variant.
func (s *Service) UpdateVariant(ctx context.Context, id uuid.UUID, stock *int, priceCents *int) error {
	updates := map[string]any{}
	if stock != nil {
		if *stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "stockQuantity must not be negative")
		}
		updates["stock_quantity"] = *stock
	}
	if priceCents != nil {
		updates["price_cents"] = *priceCents
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if err := s.repo.UpdateVariant(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update variant")
	}
	return nil
}

// RemoveVariant deletes one variant.
func (s *Service) RemoveVariant(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteVariant(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete variant")
	}
	return nil
}

// AddImage appends an image at the end of the product's ordering.
func (s *Service) AddImage(ctx context.Context, productID uuid.UUID, input ImageInput) (*models.Product, error) {
	if input.URL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "url is required")
	}
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.ImagesByProduct(ctx, productID)
		if err != nil {
			return err
		}
		return repo.CreateImage(ctx, &models.ProductImage{
			ProductID: productID,
			URL:       input.URL,
			Alt:       input.Alt,
			SortOrder: len(existing),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to add image")
	}
	return s.Get(ctx, productID)
}

// RemoveImage deletes one image and closes the sort gap it leaves, so the
// remaining orders stay contiguous from zero.
func (s *Service) RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteImage(ctx, imageID); err != nil {
			return err
		}
		remaining, err := repo.ImagesByProduct(ctx, productID)
		if err != nil {
			return err
		}
		for i, img := range remaining {
			if img.SortOrder == i {
				continue
			}
			if err := repo.SetImageOrder(ctx, img.ID, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to remove image")
	}
	return nil
}

// ReorderImages applies a complete new ordering. The input must list every
// image of the product exactly once; position zero becomes the primary image.
func (s *Service) ReorderImages(ctx context.Context, input ReorderInput) (*models.Product, error) {
	if len(input.ImageIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "imageIds is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.ImagesByProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if len(existing) != len(input.ImageIDs) {
			return pkgerrors.New(pkgerrors.CodeValidation, "imageIds must cover every product image").
				WithDetails(map[string]any{"expected": len(existing), "got": len(input.ImageIDs)})
		}
		known := make(map[uuid.UUID]bool, len(existing))
		for _, img := range existing {
			known[img.ID] = true
		}
		seen := make(map[uuid.UUID]bool, len(input.ImageIDs))
		for _, id := range input.ImageIDs {
			if !known[id] {
				return pkgerrors.New(pkgerrors.CodeValidation, "imageIds contains an unknown image").
					WithDetails(map[string]any{"image_id": id.String()})
			}
			if seen[id] {
				return pkgerrors.New(pkgerrors.CodeValidation, "imageIds contains a duplicate").
					WithDetails(map[string]any{"image_id": id.String()})
			}
			seen[id] = true
		}
		// the unique (product_id, sort_order) key rejects a direct swap,
		// so park every image in a free slot range first
		offset := len(input.ImageIDs)
		for i, id := range input.ImageIDs {
			if err := repo.SetImageOrder(ctx, id, i+offset); err != nil {
				return err
			}
		}
		for i, id := range input.ImageIDs {
			if err := repo.SetImageOrder(ctx, id, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil {
			return nil, coded
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to reorder images")
	}
	return s.Get(ctx, input.ProductID)
}
