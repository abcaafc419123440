package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/matlens/backend/internal/domain"
)

// mockRecipeRepo is a hand-rolled domain.RecipeRepository.
type mockRecipeRepo struct {
	recipes map[string]*domain.Recipe
}

func (m *mockRecipeRepo) GetWithIngredients(ctx context.Context, id string) (*domain.Recipe, error) {
	r, ok := m.recipes[id]
	if !ok {
		return nil, fmt.Errorf("%w: recipe %s", domain.ErrNotFound, id)
	}
	return r, nil
}

// mockUnitRepo is a hand-rolled domain.UnitRepository.
type mockUnitRepo struct {
	conversions []domain.UnitConversion
	err         error
}

func (m *mockUnitRepo) Conversions(ctx context.Context) ([]domain.UnitConversion, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conversions, nil
}

// roundingConverter floors converted amounts, making conversion
// deliberately non-linear for the scaling contract test.
type roundingConverter struct{}

func (roundingConverter) Convert(amount float64, unit string) float64 {
	return math.Floor(amount)
}

func testConversions() []domain.UnitConversion {
	return []domain.UnitConversion{
		{Unit: "g", DisplayFactor: 1, InCalculation: true},
		{Unit: "kg", DisplayFactor: 1000, InCalculation: true},
		{Unit: "ss", DisplayFactor: 15, InCalculation: false}, // display only
	}
}

func testRecipe() *domain.Recipe {
	return &domain.Recipe{
		ID:           "r1",
		Name:         "Kjøttsaus",
		PortionCount: 4,
		Ingredients: []domain.Ingredient{
			{
				ProductID:   "a",
				ProductName: "Kjøttdeig",
				Amount:      100,
				Unit:        "g",
				PerUnit: &domain.IngredientValues{
					Calories: 2.5, Protein: 0.2, Fat: 0.14, Carbs: 0, Fiber: 0, Salt: 0.01,
					Cost: decimal.RequireFromString("0.05"),
				},
			},
			{
				ProductID:   "b",
				ProductName: "Egg",
				Amount:      2,
				Unit:        "stk", // not in the conversion table: factor 1
				PerUnit: &domain.IngredientValues{
					Calories: 70, Protein: 6, Fat: 5, Carbs: 0.5, Fiber: 0, Salt: 0.2,
					Cost: decimal.RequireFromString("3.50"),
				},
			},
		},
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeTotals(t *testing.T) {
	svc := NewNutritionService(nil, nil, nil)
	converter := NewTableConverter(testConversions())

	t.Run("sums per-unit values times converted amounts", func(t *testing.T) {
		got, err := svc.ComputeTotals(testRecipe(), converter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// 100 g * 2.5 + 2 stk * 70
		if !approxEqual(got.Recipe.Calories, 390) {
			t.Errorf("Calories = %v, want 390", got.Recipe.Calories)
		}
		if !approxEqual(got.Recipe.Protein, 32) {
			t.Errorf("Protein = %v, want 32", got.Recipe.Protein)
		}
		if !approxEqual(got.Recipe.Salt, 1.4) {
			t.Errorf("Salt = %v, want 1.4", got.Recipe.Salt)
		}
		// 100 * 0.05 + 2 * 3.50
		if !got.Recipe.Cost.Equal(decimal.RequireFromString("12")) {
			t.Errorf("Cost = %s, want 12", got.Recipe.Cost)
		}
	})

	t.Run("per-portion values divide by portion count", func(t *testing.T) {
		got, err := svc.ComputeTotals(testRecipe(), converter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !approxEqual(got.PerPortion.Calories, 97.5) {
			t.Errorf("per-portion Calories = %v, want 97.5", got.PerPortion.Calories)
		}
		if !got.PerPortion.Cost.Equal(decimal.RequireFromString("3")) {
			t.Errorf("per-portion Cost = %s, want 3", got.PerPortion.Cost)
		}
		if got.PortionCount != 4 {
			t.Errorf("PortionCount = %d, want 4", got.PortionCount)
		}
	})

	t.Run("applies participating conversion factors", func(t *testing.T) {
		recipe := testRecipe()
		recipe.Ingredients = recipe.Ingredients[:1]
		recipe.Ingredients[0].Amount = 0.5
		recipe.Ingredients[0].Unit = "kg"

		got, err := svc.ComputeTotals(recipe, converter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 0.5 kg -> 500 g -> 500 * 2.5
		if !approxEqual(got.Recipe.Calories, 1250) {
			t.Errorf("Calories = %v, want 1250", got.Recipe.Calories)
		}
	})

	t.Run("non-participating units fall back to factor 1", func(t *testing.T) {
		recipe := testRecipe()
		recipe.Ingredients = recipe.Ingredients[:1]
		recipe.Ingredients[0].Amount = 2
		recipe.Ingredients[0].Unit = "ss"

		got, err := svc.ComputeTotals(recipe, converter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !approxEqual(got.Recipe.Calories, 5) {
			t.Errorf("Calories = %v, want 5 (factor 1, not the display factor)", got.Recipe.Calories)
		}
	})

	t.Run("dangling product reference is a hard error", func(t *testing.T) {
		recipe := testRecipe()
		recipe.Ingredients[1].PerUnit = nil

		_, err := svc.ComputeTotals(recipe, converter)
		if !errors.Is(err, domain.ErrIngredientProductNotFound) {
			t.Errorf("error = %v, want ErrIngredientProductNotFound", err)
		}
	})

	t.Run("zero portion count is a configuration error", func(t *testing.T) {
		recipe := testRecipe()
		recipe.PortionCount = 0

		_, err := svc.ComputeTotals(recipe, converter)
		if !errors.Is(err, domain.ErrConfiguration) {
			t.Errorf("error = %v, want ErrConfiguration", err)
		}
	})

	t.Run("negative portion count is a configuration error", func(t *testing.T) {
		recipe := testRecipe()
		recipe.PortionCount = -2

		_, err := svc.ComputeTotals(recipe, converter)
		if !errors.Is(err, domain.ErrConfiguration) {
			t.Errorf("error = %v, want ErrConfiguration", err)
		}
	})

	t.Run("nil recipe is invalid input", func(t *testing.T) {
		_, err := svc.ComputeTotals(nil, converter)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestComputeRecipeTotals(t *testing.T) {
	ctx := context.Background()

	t.Run("loads recipe and conversion table", func(t *testing.T) {
		svc := NewNutritionService(
			&mockRecipeRepo{recipes: map[string]*domain.Recipe{"r1": testRecipe()}},
			&mockUnitRepo{conversions: testConversions()},
			nil,
		)
		got, err := svc.ComputeRecipeTotals(ctx, "r1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !approxEqual(got.Recipe.Calories, 390) {
			t.Errorf("Calories = %v, want 390", got.Recipe.Calories)
		}
	})

	t.Run("unknown recipe propagates not found", func(t *testing.T) {
		svc := NewNutritionService(
			&mockRecipeRepo{recipes: map[string]*domain.Recipe{}},
			&mockUnitRepo{conversions: testConversions()},
			nil,
		)
		_, err := svc.ComputeRecipeTotals(ctx, "ghost")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unit table failure propagates", func(t *testing.T) {
		svc := NewNutritionService(
			&mockRecipeRepo{recipes: map[string]*domain.Recipe{"r1": testRecipe()}},
			&mockUnitRepo{err: errors.New("connection lost")},
			nil,
		)
		if _, err := svc.ComputeRecipeTotals(ctx, "r1"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestScaleRecipe(t *testing.T) {
	svc := NewNutritionService(nil, nil, nil)
	converter := NewTableConverter(testConversions())

	t.Run("scale factor is new over original portions", func(t *testing.T) {
		got, err := svc.ScaleRecipe(testRecipe(), 10, converter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !approxEqual(got.ScaleFactor, 2.5) {
			t.Errorf("ScaleFactor = %v, want 2.5", got.ScaleFactor)
		}
		if !approxEqual(got.Ingredients[0].Amount, 250) {
			t.Errorf("ingredient amount = %v, want 250", got.Ingredients[0].Amount)
		}
		if got.Nutrition.PortionCount != 10 {
			t.Errorf("PortionCount = %d, want 10", got.Nutrition.PortionCount)
		}
	})

	t.Run("totals are recomputed from scaled amounts", func(t *testing.T) {
		got, err := svc.ScaleRecipe(testRecipe(), 10, converter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Linear converter: recomputing equals scaling the totals.
		if !approxEqual(got.Nutrition.Recipe.Calories, 390*2.5) {
			t.Errorf("Calories = %v, want %v", got.Nutrition.Recipe.Calories, 390*2.5)
		}
	})

	t.Run("original recipe is untouched", func(t *testing.T) {
		recipe := testRecipe()
		if _, err := svc.ScaleRecipe(recipe, 10, converter); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !approxEqual(recipe.Ingredients[0].Amount, 100) {
			t.Errorf("source amount mutated to %v", recipe.Ingredients[0].Amount)
		}
		if recipe.PortionCount != 4 {
			t.Errorf("source portion count mutated to %d", recipe.PortionCount)
		}
	})

	t.Run("rounding conversions break the shortcut, not the contract", func(t *testing.T) {
		recipe := &domain.Recipe{
			ID:           "r2",
			Name:         "Vafler",
			PortionCount: 2,
			Ingredients: []domain.Ingredient{
				{
					ProductID: "a", Amount: 3, Unit: "stk",
					PerUnit: &domain.IngredientValues{Calories: 10, Cost: decimal.RequireFromString("1")},
				},
			},
		}
		rounding := roundingConverter{}

		original, err := svc.ComputeTotals(recipe, rounding)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		scaled, err := svc.ScaleRecipe(recipe, 3, rounding)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// floor(3) = 3 originally; scaled amount 4.5 floors to 4.
		if !approxEqual(original.Recipe.Calories, 30) {
			t.Fatalf("original Calories = %v, want 30", original.Recipe.Calories)
		}
		if !approxEqual(scaled.Nutrition.Recipe.Calories, 40) {
			t.Errorf("scaled Calories = %v, want 40 (recomputed from source)", scaled.Nutrition.Recipe.Calories)
		}
		if shortcut := original.Recipe.Calories * scaled.ScaleFactor; approxEqual(scaled.Nutrition.Recipe.Calories, shortcut) {
			t.Errorf("scaled totals equal totals*factor (%v); scaling must recompute from amounts", shortcut)
		}
	})

	t.Run("invalid portion counts are configuration errors", func(t *testing.T) {
		if _, err := svc.ScaleRecipe(testRecipe(), 0, converter); !errors.Is(err, domain.ErrConfiguration) {
			t.Errorf("error = %v, want ErrConfiguration", err)
		}
		bad := testRecipe()
		bad.PortionCount = 0
		if _, err := svc.ScaleRecipe(bad, 4, converter); !errors.Is(err, domain.ErrConfiguration) {
			t.Errorf("error = %v, want ErrConfiguration", err)
		}
	})
}
