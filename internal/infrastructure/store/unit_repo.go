package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/matlens/backend/internal/domain"
)

// UnitRepository implements domain.UnitRepository on gorm.
type UnitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

func (r *UnitRepository) Conversions(ctx context.Context) ([]domain.UnitConversion, error) {
	var recs []UnitRecord
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("loading unit conversions: %w", err)
	}

	conversions := make([]domain.UnitConversion, 0, len(recs))
	for _, rec := range recs {
		conversions = append(conversions, domain.UnitConversion{
			Unit:          rec.Name,
			DisplayFactor: rec.DisplayFactor,
			InCalculation: rec.InCalculation,
		})
	}
	return conversions, nil
}
