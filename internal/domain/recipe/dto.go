package recipe

import (
	"foodgram/internal/domain/catalog"
	"foodgram/internal/domain/user"
)

// AuthorView is the author block embedded in recipe responses.
type AuthorView struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// LineView flattens an ingredient line with its reference row.
type LineView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// View is the full recipe representation with per-identity derived flags.
type View struct {
	ID               int64         `json:"id"`
	Tags             []catalog.Tag `json:"tags"`
	Author           AuthorView    `json:"author"`
	Ingredients      []LineView    `json:"ingredients"`
	IsFavorited      bool          `json:"is_favorited"`
	IsInShoppingCart bool          `json:"is_in_shopping_cart"`
	Name             string        `json:"name"`
	Image            string        `json:"image"`
	Text             string        `json:"text"`
	CookingTime      int           `json:"cooking_time"`
}

// Flags are the identity-dependent booleans computed on read paths.
type Flags struct {
	Favorited  bool
	InCart     bool
	Subscribed bool
}

// NewView assembles the response shape from a loaded aggregate.
func NewView(rec *Recipe, flags Flags) View {
	lines := make([]LineView, 0, len(rec.Ingredients))
	for _, line := range rec.Ingredients {
		lv := LineView{ID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			lv.Name = line.Ingredient.Name
			lv.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		lines = append(lines, lv)
	}

	tags := rec.Tags
	if tags == nil {
		tags = []catalog.Tag{}
	}

	v := View{
		ID:               rec.ID,
		Tags:             tags,
		Ingredients:      lines,
		IsFavorited:      flags.Favorited,
		IsInShoppingCart: flags.InCart,
		Name:             rec.Name,
		Image:            rec.Image,
		Text:             rec.Text,
		CookingTime:      rec.CookingTime,
	}
	if rec.Author != nil {
		v.Author = newAuthorView(rec.Author, flags.Subscribed)
	}
	return v
}

func newAuthorView(author *user.User, subscribed bool) AuthorView {
	return AuthorView{
		ID:           author.ID,
		Email:        author.Email,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: subscribed,
	}
}
