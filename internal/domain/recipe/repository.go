package recipe

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/domain/catalog"
	"foodgram/internal/domain/relation"
)

// Filters narrow the recipe listing. The HTTP layer fills them from query
// parameters; the repository only sees the already-parsed values.
type Filters struct {
	AuthorID    int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
	Limit       int
	Offset      int
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists the recipe together with its ingredient lines and tag
// associations as one atomic unit.
func (r *Repository) Create(ctx context.Context, rec *Recipe, lines []IngredientLine, tags []catalog.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].RecipeID = rec.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		return tx.Model(rec).Association("Tags").Replace(tags)
	})
}

// Replace updates the scalar fields and swaps the full composition: the old
// ingredient lines and tag set are discarded wholesale and the new ones
// installed, all in one transaction.
func (r *Repository) Replace(ctx context.Context, rec *Recipe, updates map[string]any, lines []IngredientLine, tags []catalog.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Recipe{ID: rec.ID}).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", rec.ID).Delete(&IngredientLine{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].RecipeID = rec.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		return tx.Model(&Recipe{ID: rec.ID}).Association("Tags").Replace(tags)
	})
}

// Delete removes the recipe, its composition and every favorite/cart edge
// pointing at it, atomically, so no edge ever dangles.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&IngredientLine{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Where("kind IN ? AND object_id = ?",
			[]relation.Kind{relation.KindFavorite, relation.KindCart}, id).
			Delete(&relation.Edge{}).Error
	})
}

// GetByID loads the full aggregate: author, tags and ingredient lines with
// their reference rows, lines in stored order.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Recipe, error) {
	var rec Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("Ingredients.Ingredient").
		First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// List returns a page of recipes plus the total count, newest first.
func (r *Repository) List(ctx context.Context, f Filters) ([]Recipe, int64, error) {
	q := r.db.WithContext(ctx).Model(&Recipe{})

	if f.AuthorID > 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		sub := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("id IN (?)", sub)
	}
	if f.FavoritedBy > 0 {
		q = q.Where("id IN (?)", r.edgeObjects(relation.KindFavorite, f.FavoritedBy))
	}
	if f.InCartOf > 0 {
		q = q.Where("id IN (?)", r.edgeObjects(relation.KindCart, f.InCartOf))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []Recipe
	err := q.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("Ingredients.Ingredient").
		Order("id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&recipes).Error

	return recipes, total, err
}

func (r *Repository) edgeObjects(kind relation.Kind, subjectID int64) *gorm.DB {
	return r.db.Model(&relation.Edge{}).
		Select("object_id").
		Where("kind = ? AND subject_id = ?", kind, subjectID)
}

// Exists implements relation.RecipeSource for the relationship register.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Card implements relation.RecipeSource: the shortened recipe returned by
// toggle endpoints.
func (r *Repository) Card(ctx context.Context, id int64) (*relation.RecipeCard, error) {
	var card relation.RecipeCard
	err := r.db.WithContext(ctx).
		Model(&Recipe{}).
		Select("id", "name", "image", "cooking_time").
		Where("id = ?", id).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &card, nil
}

// CardsByAuthor implements relation.RecipeSource for subscription listings.
func (r *Repository) CardsByAuthor(ctx context.Context, authorID int64) ([]relation.RecipeCard, error) {
	var cards []relation.RecipeCard
	err := r.db.WithContext(ctx).
		Model(&Recipe{}).
		Select("id", "name", "image", "cooking_time").
		Where("author_id = ?", authorID).
		Order("id DESC").
		Find(&cards).Error
	return cards, err
}
