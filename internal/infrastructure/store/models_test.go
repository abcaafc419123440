package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestProductRecordToDomain(t *testing.T) {
	t.Run("dereferences optional columns", func(t *testing.T) {
		rec := ProductRecord{
			ID:           "p1",
			Name:         "Kjøttdeig",
			GTIN:         strptr("7037610141635"),
			SupplierCode: strptr("101544"),
		}
		p := rec.toDomain(4)
		assert.Equal(t, "7037610141635", p.GTIN)
		assert.Equal(t, "101544", p.SupplierCode)
		assert.Equal(t, 4, p.RecipeUsageCount)
	})

	t.Run("nil columns become empty strings", func(t *testing.T) {
		p := ProductRecord{ID: "p2", Name: "Ny vare"}.toDomain(0)
		assert.Empty(t, p.GTIN)
		assert.Empty(t, p.SupplierCode)
	})
}

func TestRecipeRecordToDomain(t *testing.T) {
	product := &ProductRecord{
		ID:          "p1",
		Name:        "Lettmelk 1%",
		Calories:    42,
		Protein:     3.5,
		CostPerUnit: decimal.RequireFromString("1.85"),
	}
	rec := RecipeRecord{
		ID:           "r1",
		Name:         "Pannekaker",
		PortionCount: 4,
		Ingredients: []RecipeIngredientRecord{
			{ProductID: strptr("p1"), Amount: 500, Unit: "ml", Product: product},
			{ProductID: strptr("gone"), Amount: 2, Unit: "stk"},
		},
	}

	recipe := rec.toDomain()
	assert.Equal(t, 4, recipe.PortionCount)
	assert.Len(t, recipe.Ingredients, 2)

	resolved := recipe.Ingredients[0]
	assert.Equal(t, "Lettmelk 1%", resolved.ProductName)
	if assert.NotNil(t, resolved.PerUnit) {
		assert.Equal(t, 42.0, resolved.PerUnit.Calories)
		assert.True(t, resolved.PerUnit.Cost.Equal(decimal.RequireFromString("1.85")))
	}

	// Dangling reference: the line survives, the values do not.
	dangling := recipe.Ingredients[1]
	assert.Equal(t, "gone", dangling.ProductID)
	assert.Nil(t, dangling.PerUnit)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	if v := nullable("x"); assert.NotNil(t, v) {
		assert.Equal(t, "x", *v)
	}
}
