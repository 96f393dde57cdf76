package entity

import (
	"regexp"
	"time"
)

const (
	// MinCatalogNameLength is the shortest accepted item name.
	MinCatalogNameLength = 3
	// MinCatalogDescriptionLength is the shortest accepted description.
	MinCatalogDescriptionLength = 10
	// DefaultCatalogIcon is the storage fallback for rows written without an icon.
	// API requests must always name one.
	DefaultCatalogIcon = "bi-gear"
)

// IconPattern constrains icon identifiers to Bootstrap Icons class names.
var IconPattern = regexp.MustCompile(`^bi-[\w-]+$`)

// CatalogItem is a purchasable service shown in the storefront.
type CatalogItem struct {
	ID          int64
	Name        string // unique, compared case-insensitively
	Description string
	Price       float64
	InStock     bool
	Icon        string
	Active      bool // false hides the item from public listings
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsValidIcon reports whether icon matches IconPattern.
func IsValidIcon(icon string) bool {
	return IconPattern.MatchString(icon)
}
