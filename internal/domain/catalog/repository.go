package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListIngredients returns ingredients, optionally narrowed to a name prefix
// (case-insensitive), mirroring the ingredient search box on the frontend.
func (r *Repository) ListIngredients(ctx context.Context, namePrefix string) ([]Ingredient, error) {
	var ingredients []Ingredient

	q := r.db.WithContext(ctx).Model(&Ingredient{})
	if s := strings.ToLower(strings.TrimSpace(namePrefix)); s != "" {
		q = q.Where("LOWER(name) LIKE ?", s+"%")
	}

	err := q.Order("name").Find(&ingredients).Error
	return ingredients, err
}

func (r *Repository) GetIngredientByID(ctx context.Context, id int64) (*Ingredient, error) {
	var ingredient Ingredient
	err := r.db.WithContext(ctx).First(&ingredient, id).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// GetIngredientsByIDs resolves a set of referenced ingredient ids. The caller
// detects dangling references by comparing lengths.
func (r *Repository) GetIngredientsByIDs(ctx context.Context, ids []int64) ([]Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ingredients []Ingredient
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error
	return ingredients, err
}

func (r *Repository) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	err := r.db.WithContext(ctx).Order("id").Find(&tags).Error
	return tags, err
}

func (r *Repository) GetTagByID(ctx context.Context, id int64) (*Tag, error) {
	var tag Tag
	err := r.db.WithContext(ctx).First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *Repository) GetTagsByIDs(ctx context.Context, ids []int64) ([]Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []Tag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}
