package domain

import "errors"

var (
	// ErrInvalidInput is returned when input parameters are malformed,
	// e.g. non-digit characters passed to check digit computation
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced product, recipe or
	// catalog article does not exist
	ErrNotFound = errors.New("record not found")

	// ErrNoChangesRequested is returned when a match is applied with
	// every update flag disabled
	ErrNoChangesRequested = errors.New("no changes requested")

	// ErrIngredientProductNotFound is returned when a recipe ingredient
	// references a product that no longer exists. Aggregation never
	// skips an ingredient: silently understating totals would corrupt
	// nutrition labels.
	ErrIngredientProductNotFound = errors.New("ingredient references missing product")

	// ErrConfiguration is returned for invalid stored configuration,
	// e.g. a recipe with zero or negative portion count
	ErrConfiguration = errors.New("configuration error")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
