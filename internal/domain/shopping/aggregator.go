package shopping

import (
	"context"

	"gorm.io/gorm"

	"foodgram/internal/domain/relation"
)

// LineTotal is one consolidated shopping-list row.
type LineTotal struct {
	IngredientName  string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// Service merges ingredient quantities across every recipe in a user's cart.
type Service struct {
	db       *gorm.DB
	register *relation.Service
}

func NewService(db *gorm.DB, register *relation.Service) *Service {
	return &Service{db: db, register: register}
}

type lineRow struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// Aggregate groups cart lines by the (name, unit) pair and sums amounts.
// The key is deliberately the name+unit text, not the ingredient id: two
// distinct ingredient rows that share name and unit merge into one total.
// Rows come out in first-seen order over a fixed scan order, so the result
// is deterministic without being sorted. An empty cart yields an empty
// slice.
func (s *Service) Aggregate(ctx context.Context, userID int64) ([]LineTotal, error) {
	recipeIDs, err := s.register.ListObjectIDs(ctx, relation.KindCart, userID)
	if err != nil {
		return nil, err
	}
	if len(recipeIDs) == 0 {
		return []LineTotal{}, nil
	}

	var rows []lineRow
	err = s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN ?", recipeIDs).
		Order("recipe_ingredients.recipe_id, recipe_ingredients.position").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	type key struct{ name, unit string }
	index := make(map[key]int, len(rows))
	totals := make([]LineTotal, 0, len(rows))

	for _, row := range rows {
		k := key{name: row.Name, unit: row.MeasurementUnit}
		if i, ok := index[k]; ok {
			totals[i].Amount += row.Amount
			continue
		}
		index[k] = len(totals)
		totals = append(totals, LineTotal{
			IngredientName:  row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	return totals, nil
}
