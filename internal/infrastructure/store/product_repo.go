package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/matlens/backend/internal/domain"
)

// ProductRepository implements domain.ProductRepository on gorm.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var rec ProductRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading product %s: %w", id, err)
	}
	product := rec.toDomain(0)
	return &product, nil
}

// productUsageRow carries a product row plus its recipe usage count.
type productUsageRow struct {
	ProductRecord
	UsageCount int
}

func (r *ProductRepository) ListUsedInRecipes(ctx context.Context) ([]domain.Product, error) {
	var rows []productUsageRow
	err := r.db.WithContext(ctx).
		Model(&ProductRecord{}).
		Select("products.*, COUNT(recipe_ingredients.id) AS usage_count").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.product_id = products.id").
		Group("products.id").
		Order("products.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing products used in recipes: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.ProductRecord.toDomain(row.UsageCount))
	}
	return products, nil
}

// ApplyFieldChanges overwrites the named fields inside one transaction.
// The row is locked for the duration so concurrent applies serialize.
func (r *ProductRepository) ApplyFieldChanges(ctx context.Context, productID string, changes map[string]domain.ValueChange) error {
	if len(changes) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec ProductRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rec, "id = ?", productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
		}
		if err != nil {
			return fmt.Errorf("loading product %s for update: %w", productID, err)
		}

		updates := make(map[string]interface{}, len(changes))
		for field, change := range changes {
			switch field {
			case domain.FieldGTIN:
				updates["gtin"] = nullable(change.New)
			case domain.FieldName:
				updates["name"] = change.New
			case domain.FieldSupplierCode:
				updates["supplier_code"] = nullable(change.New)
			default:
				return fmt.Errorf("%w: unknown product field %q", domain.ErrInvalidInput, field)
			}
		}
		return tx.Model(&rec).Updates(updates).Error
	})
}
