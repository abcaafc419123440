package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/matlens/backend/internal/domain"
)

// UnitConverter converts an ingredient amount declared in some unit
// into the product's base unit.
type UnitConverter interface {
	Convert(amount float64, unit string) float64
}

// tableConverter applies the factors from the unit conversion table.
// Units missing from the table, or flagged out of calculation, pass
// through with factor 1.
type tableConverter struct {
	factors map[string]float64
}

// NewTableConverter builds a converter from the unit conversion table.
func NewTableConverter(conversions []domain.UnitConversion) UnitConverter {
	factors := make(map[string]float64, len(conversions))
	for _, c := range conversions {
		if !c.InCalculation {
			continue
		}
		factors[strings.ToLower(c.Unit)] = c.DisplayFactor
	}
	return tableConverter{factors: factors}
}

func (t tableConverter) Convert(amount float64, unit string) float64 {
	factor, ok := t.factors[strings.ToLower(unit)]
	if !ok {
		factor = 1
	}
	return amount * factor
}

// NutritionService computes nutrient and cost totals for recipes.
type NutritionService struct {
	recipes domain.RecipeRepository
	units   domain.UnitRepository
	logger  *zap.Logger
}

// NewNutritionService creates a nutrition service with dependencies.
func NewNutritionService(recipes domain.RecipeRepository, units domain.UnitRepository, logger *zap.Logger) *NutritionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NutritionService{recipes: recipes, units: units, logger: logger}
}

// ComputeRecipeTotals loads the recipe and computes its totals using
// the stored unit conversion table.
func (s *NutritionService) ComputeRecipeTotals(ctx context.Context, recipeID string) (*domain.RecipeNutrition, error) {
	recipe, err := s.recipes.GetWithIngredients(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	converter, err := s.converter(ctx)
	if err != nil {
		return nil, err
	}
	return s.ComputeTotals(recipe, converter)
}

// ComputeTotals sums each ingredient's contribution: its per-base-unit
// values times the converted amount. An ingredient whose product
// reference cannot be resolved is a hard error, never skipped.
// Per-portion values divide the recipe totals by the portion count.
func (s *NutritionService) ComputeTotals(recipe *domain.Recipe, converter UnitConverter) (*domain.RecipeNutrition, error) {
	if recipe == nil {
		return nil, fmt.Errorf("%w: nil recipe", domain.ErrInvalidInput)
	}
	if recipe.PortionCount <= 0 {
		return nil, fmt.Errorf("%w: recipe %q has portion count %d", domain.ErrConfiguration, recipe.Name, recipe.PortionCount)
	}

	totals := domain.NutritionTotals{Cost: decimal.Zero}
	for i, ing := range recipe.Ingredients {
		if ing.PerUnit == nil {
			return nil, fmt.Errorf("%w: recipe %q ingredient %d (product %q)",
				domain.ErrIngredientProductNotFound, recipe.Name, i, ing.ProductID)
		}

		amount := converter.Convert(ing.Amount, ing.Unit)
		totals.Calories += ing.PerUnit.Calories * amount
		totals.Protein += ing.PerUnit.Protein * amount
		totals.Fat += ing.PerUnit.Fat * amount
		totals.Carbs += ing.PerUnit.Carbs * amount
		totals.Fiber += ing.PerUnit.Fiber * amount
		totals.Salt += ing.PerUnit.Salt * amount
		totals.Cost = totals.Cost.Add(ing.PerUnit.Cost.Mul(decimal.NewFromFloat(amount)))
	}

	return &domain.RecipeNutrition{
		Recipe:       totals,
		PerPortion:   totals.PerPortion(recipe.PortionCount),
		PortionCount: recipe.PortionCount,
	}, nil
}

// ScaleRecipeByID loads the recipe and rescales it using the stored
// unit conversion table.
func (s *NutritionService) ScaleRecipeByID(ctx context.Context, recipeID string, newPortions int) (*domain.ScaleResult, error) {
	recipe, err := s.recipes.GetWithIngredients(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	converter, err := s.converter(ctx)
	if err != nil {
		return nil, err
	}
	return s.ScaleRecipe(recipe, newPortions, converter)
}

// ScaleRecipe multiplies every ingredient amount by
// newPortions/original portions and recomputes totals from the scaled
// amounts. Totals are deliberately not multiplied by the factor: the
// recompute-from-source contract stays correct even when a conversion
// rounds non-linearly.
func (s *NutritionService) ScaleRecipe(recipe *domain.Recipe, newPortions int, converter UnitConverter) (*domain.ScaleResult, error) {
	if recipe == nil {
		return nil, fmt.Errorf("%w: nil recipe", domain.ErrInvalidInput)
	}
	if recipe.PortionCount <= 0 {
		return nil, fmt.Errorf("%w: recipe %q has portion count %d", domain.ErrConfiguration, recipe.Name, recipe.PortionCount)
	}
	if newPortions <= 0 {
		return nil, fmt.Errorf("%w: target portion count %d", domain.ErrConfiguration, newPortions)
	}

	factor := float64(newPortions) / float64(recipe.PortionCount)

	scaled := domain.Recipe{
		ID:           recipe.ID,
		Name:         recipe.Name,
		PortionCount: newPortions,
		Ingredients:  make([]domain.Ingredient, len(recipe.Ingredients)),
	}
	copy(scaled.Ingredients, recipe.Ingredients)
	for i := range scaled.Ingredients {
		scaled.Ingredients[i].Amount *= factor
	}

	nutrition, err := s.ComputeTotals(&scaled, converter)
	if err != nil {
		return nil, err
	}

	return &domain.ScaleResult{
		ScaleFactor: factor,
		Ingredients: scaled.Ingredients,
		Nutrition:   *nutrition,
	}, nil
}

// converter builds the table converter from the unit repository.
func (s *NutritionService) converter(ctx context.Context) (UnitConverter, error) {
	conversions, err := s.units.Conversions(ctx)
	if err != nil {
		return nil, err
	}
	return NewTableConverter(conversions), nil
}
