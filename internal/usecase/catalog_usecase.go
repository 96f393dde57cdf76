package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CatalogItemInput is the create/update payload for a catalog item.
// Active is optional and defaults to true.
type CatalogItemInput struct {
	Name        string
	Description string
	Price       float64
	InStock     bool
	Icon        string
	Active      *bool
}

// CatalogUsecase defines catalog operations.
type CatalogUsecase interface {
	// ListActive returns the public catalog.
	ListActive(ctx context.Context) ([]*entity.CatalogItem, error)

	// GetActive returns one public item.
	GetActive(ctx context.Context, id int64) (*entity.CatalogItem, error)

	// ListAll returns every item, inactive ones included.
	ListAll(ctx context.Context) ([]*entity.CatalogItem, error)

	Create(ctx context.Context, input CatalogItemInput) (*entity.CatalogItem, error)
	Update(ctx context.Context, id int64, input CatalogItemInput) (*entity.CatalogItem, error)

	// Delete hard-deletes an item and returns what was removed.
	Delete(ctx context.Context, id int64) (*entity.CatalogItem, error)
}
