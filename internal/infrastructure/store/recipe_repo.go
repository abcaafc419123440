package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/matlens/backend/internal/domain"
)

// RecipeRepository implements domain.RecipeRepository on gorm.
type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// GetWithIngredients loads a recipe with its ingredient rows in recipe
// order, each joined to the referenced product's per-base-unit values.
// A dangling product reference surfaces as an ingredient without
// values; the aggregator decides how hard to fail.
func (r *RecipeRepository) GetWithIngredients(ctx context.Context, id string) (*domain.Recipe, error) {
	var rec RecipeRecord
	err := r.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.position ASC")
		}).
		Preload("Ingredients.Product").
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: recipe %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading recipe %s: %w", id, err)
	}
	return rec.toDomain(), nil
}
