package catalog

// Ingredient is shared reference data, managed by the admin site and
// read-only to this API. Recipes quantify ingredients per line, so the
// measurement unit lives here, not on the recipe.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;index;not null"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null"`
}

func (Ingredient) TableName() string { return "ingredients" }

// Tag is shared reference data. Slug is used by the recipe list filter.
type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;uniqueIndex;not null"`
	Color string `json:"color" gorm:"size:7"`
	Slug  string `json:"slug" gorm:"size:200;uniqueIndex;not null"`
}

func (Tag) TableName() string { return "tags" }
