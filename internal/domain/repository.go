package domain

import (
	"context"
	"time"
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*Product, error)

	// ListUsedInRecipes returns every product that appears in at least
	// one recipe, with its usage count populated.
	ListUsedInRecipes(ctx context.Context) ([]Product, error)

	// ApplyFieldChanges overwrites the named product fields with the
	// new values from changes. All writes happen in a single
	// transaction; partial updates are never visible.
	ApplyFieldChanges(ctx context.Context, productID string, changes map[string]ValueChange) error
}

// RecipeRepository defines read operations for recipes.
type RecipeRepository interface {
	// GetWithIngredients loads a recipe with its ordered ingredient
	// rows joined to the referenced products' per-base-unit values.
	GetWithIngredients(ctx context.Context, id string) (*Recipe, error)
}

// UnitRepository exposes the unit conversion lookup table.
type UnitRepository interface {
	Conversions(ctx context.Context) ([]UnitConversion, error)
}

// CacheRepository defines the interface for caching operations. Values
// round-trip through JSON so memory and redis implementations behave
// identically.
type CacheRepository interface {
	// Get unmarshals the cached value under key into dest, or returns
	// ErrCacheMiss.
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
