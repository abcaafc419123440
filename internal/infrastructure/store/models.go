package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/matlens/backend/internal/domain"
)

// ProductRecord is the products table. Nutrient and cost columns are
// per base unit.
type ProductRecord struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"type:varchar(255);not null;index"`
	GTIN         *string         `gorm:"column:gtin;type:varchar(14);index"`
	SupplierCode *string         `gorm:"type:varchar(32);index"`
	BaseUnit     string          `gorm:"type:varchar(16);not null;default:'g'"`
	CostPerUnit  decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	Calories     float64         `gorm:"not null;default:0"`
	Protein      float64         `gorm:"not null;default:0"`
	Fat          float64         `gorm:"not null;default:0"`
	Carbs        float64         `gorm:"not null;default:0"`
	Fiber        float64         `gorm:"not null;default:0"`
	Salt         float64         `gorm:"not null;default:0"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (ProductRecord) TableName() string { return "products" }

func (p *ProductRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// RecipeRecord is the recipes table.
type RecipeRecord struct {
	ID           string                   `gorm:"type:uuid;primaryKey"`
	Name         string                   `gorm:"type:varchar(255);not null"`
	PortionCount int                      `gorm:"not null;default:1"`
	Ingredients  []RecipeIngredientRecord `gorm:"foreignKey:RecipeID"`
	CreatedAt    time.Time                `gorm:"autoCreateTime"`
	UpdatedAt    time.Time                `gorm:"autoUpdateTime"`
}

func (RecipeRecord) TableName() string { return "recipes" }

func (r *RecipeRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// RecipeIngredientRecord is one recipe line. ProductID is nullable so a
// deleted product leaves a visible dangling reference instead of
// silently vanishing from the recipe.
type RecipeIngredientRecord struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	RecipeID  string         `gorm:"type:uuid;not null;index"`
	ProductID *string        `gorm:"type:uuid;index"`
	Amount    float64        `gorm:"not null"`
	Unit      string         `gorm:"type:varchar(16);not null"`
	Position  int            `gorm:"not null;default:0"`
	Product   *ProductRecord `gorm:"foreignKey:ProductID"`
}

func (RecipeIngredientRecord) TableName() string { return "recipe_ingredients" }

func (i *RecipeIngredientRecord) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// UnitRecord is the unit conversion lookup table.
type UnitRecord struct {
	ID            string  `gorm:"type:uuid;primaryKey"`
	Name          string  `gorm:"type:varchar(32);not null;uniqueIndex"`
	DisplayFactor float64 `gorm:"not null;default:1"`
	InCalculation bool    `gorm:"not null;default:true"`
}

func (UnitRecord) TableName() string { return "units" }

func (u *UnitRecord) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// Migrate creates or updates the tables for all records.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ProductRecord{},
		&RecipeRecord{},
		&RecipeIngredientRecord{},
		&UnitRecord{},
	)
}

func (p ProductRecord) toDomain(usageCount int) domain.Product {
	return domain.Product{
		ID:               p.ID,
		Name:             p.Name,
		GTIN:             deref(p.GTIN),
		SupplierCode:     deref(p.SupplierCode),
		RecipeUsageCount: usageCount,
	}
}

func (p ProductRecord) values() *domain.IngredientValues {
	return &domain.IngredientValues{
		Calories: p.Calories,
		Protein:  p.Protein,
		Fat:      p.Fat,
		Carbs:    p.Carbs,
		Fiber:    p.Fiber,
		Salt:     p.Salt,
		Cost:     p.CostPerUnit,
	}
}

func (i RecipeIngredientRecord) toDomain() domain.Ingredient {
	ing := domain.Ingredient{
		ProductID: deref(i.ProductID),
		Amount:    i.Amount,
		Unit:      i.Unit,
	}
	if i.Product != nil {
		ing.ProductName = i.Product.Name
		ing.PerUnit = i.Product.values()
	}
	return ing
}

func (r RecipeRecord) toDomain() *domain.Recipe {
	recipe := &domain.Recipe{
		ID:           r.ID,
		Name:         r.Name,
		PortionCount: r.PortionCount,
		Ingredients:  make([]domain.Ingredient, 0, len(r.Ingredients)),
	}
	for _, ing := range r.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, ing.toDomain())
	}
	return recipe
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
