package recipe

import (
	"time"

	"foodgram/internal/domain/catalog"
	"foodgram/internal/domain/user"
)

// Recipe is the aggregate root. Its tag set and ingredient lines only ever
// change together with the scalar fields, inside one transaction, so readers
// never observe a half-updated composition.
type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"-" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Text        string    `json:"text" gorm:"type:text"`
	CookingTime int       `json:"cooking_time" gorm:"not null"`
	Image       string    `json:"image" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Author      *user.User       `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Tags        []catalog.Tag    `json:"tags" gorm:"many2many:recipe_tags"`
	Ingredients []IngredientLine `json:"ingredients" gorm:"foreignKey:RecipeID"`
}

func (Recipe) TableName() string { return "recipes" }

// IngredientLine quantifies one ingredient within a recipe. Position keeps
// the caller-supplied order for presentation; the unique index forbids two
// lines for the same ingredient.
type IngredientLine struct {
	ID           int64 `json:"-" gorm:"primaryKey"`
	RecipeID     int64 `json:"-" gorm:"not null;index;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64 `json:"id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Amount       int   `json:"amount" gorm:"not null"`
	Position     int   `json:"-" gorm:"not null"`

	Ingredient *catalog.Ingredient `json:"-" gorm:"foreignKey:IngredientID"`
}

func (IngredientLine) TableName() string { return "recipe_ingredients" }
