package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
)

var (
	// ErrCatalogItemNotFound is returned when no catalog item matches the lookup.
	ErrCatalogItemNotFound = errors.New("catalog item not found")
	// ErrDuplicateCatalogName is returned when a write violates the case-insensitive name constraint.
	ErrDuplicateCatalogName = errors.New("catalog item name already exists")
)

// CatalogRepository defines the persistence operations for catalog items.
type CatalogRepository interface {
	// FindByID retrieves an item regardless of its active flag.
	FindByID(ctx context.Context, id int64) (*entity.CatalogItem, error)

	// FindActiveByID retrieves an item only if it is active.
	FindActiveByID(ctx context.Context, id int64) (*entity.CatalogItem, error)

	// ListActive returns active items ordered by id ascending.
	ListActive(ctx context.Context) ([]*entity.CatalogItem, error)

	// ListAll returns every item ordered by id ascending.
	ListAll(ctx context.Context) ([]*entity.CatalogItem, error)

	// NameTaken reports whether another item (id != excludeID) has the same
	// name ignoring case. Pass excludeID = 0 to check against every item.
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)

	// Count returns the number of stored items.
	Count(ctx context.Context) (int64, error)

	// Create persists a new item and fills in its ID and timestamps.
	Create(ctx context.Context, item *entity.CatalogItem) error

	// Update overwrites every mutable field and refreshes UpdatedAt.
	Update(ctx context.Context, item *entity.CatalogItem) error

	// Delete hard-deletes the item with the given ID.
	Delete(ctx context.Context, id int64) error
}
