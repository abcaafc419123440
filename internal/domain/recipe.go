package domain

import "github.com/shopspring/decimal"

// IngredientValues holds a product's nutrient and cost values per base
// unit. Nutrients are grams (kcal for calories); cost is money and kept
// as a decimal.
type IngredientValues struct {
	Calories float64         `json:"calories"`
	Protein  float64         `json:"protein"`
	Fat      float64         `json:"fat"`
	Carbs    float64         `json:"carbs"`
	Fiber    float64         `json:"fiber"`
	Salt     float64         `json:"salt"`
	Cost     decimal.Decimal `json:"cost"`
}

// Ingredient is one recipe line: a product reference with an amount in
// a declared unit. PerUnit is nil when the product reference is
// dangling; the aggregator treats that as a hard error.
type Ingredient struct {
	ProductID   string            `json:"productId"`
	ProductName string            `json:"productName"`
	Amount      float64           `json:"amount"`
	Unit        string            `json:"unit"`
	PerUnit     *IngredientValues `json:"-"`
}

// Recipe with its ordered ingredient list.
type Recipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	PortionCount int          `json:"portionCount"`
	Ingredients  []Ingredient `json:"ingredients"`
}

// NutritionTotals is the componentwise sum of ingredient contributions
// for one recipe (or one portion of it).
type NutritionTotals struct {
	Calories float64         `json:"calories"`
	Protein  float64         `json:"protein"`
	Fat      float64         `json:"fat"`
	Carbs    float64         `json:"carbs"`
	Fiber    float64         `json:"fiber"`
	Salt     float64         `json:"salt"`
	Cost     decimal.Decimal `json:"cost"`
}

// PerPortion divides the totals by the given portion count. The caller
// guarantees portions > 0.
func (t NutritionTotals) PerPortion(portions int) NutritionTotals {
	p := float64(portions)
	return NutritionTotals{
		Calories: t.Calories / p,
		Protein:  t.Protein / p,
		Fat:      t.Fat / p,
		Carbs:    t.Carbs / p,
		Fiber:    t.Fiber / p,
		Salt:     t.Salt / p,
		Cost:     t.Cost.Div(decimal.NewFromInt(int64(portions))),
	}
}

// RecipeNutrition pairs recipe-level and portion-level totals.
type RecipeNutrition struct {
	Recipe       NutritionTotals `json:"recipe"`
	PerPortion   NutritionTotals `json:"perPortion"`
	PortionCount int             `json:"portionCount"`
}

// ScaleResult is a recipe rescaled to a new portion count, with totals
// recomputed from the scaled ingredient amounts.
type ScaleResult struct {
	ScaleFactor float64         `json:"scaleFactor"`
	Ingredients []Ingredient    `json:"ingredients"`
	Nutrition   RecipeNutrition `json:"nutrition"`
}

// UnitConversion is one row of the unit conversion lookup table. A unit
// missing from the table, or present with InCalculation false, converts
// with factor 1.
type UnitConversion struct {
	Unit          string  `json:"unit"`
	DisplayFactor float64 `json:"displayFactor"`
	InCalculation bool    `json:"inCalculation"`
}
