package recipe

import (
	"context"

	"github.com/sirupsen/logrus"

	"foodgram/internal/domain/catalog"
	"foodgram/internal/domain/user"
)

// LineInput is one requested ingredient line: ingredient id plus amount.
type LineInput struct {
	IngredientID int64 `json:"id" binding:"required"`
	Amount       int   `json:"amount" binding:"required"`
}

// Input carries the full requested composition. Updates replace the whole
// composition: lines and tags not present in the request are dropped, not
// kept. Image is optional on update and left unchanged when omitted.
type Input struct {
	Name        string
	Text        string
	CookingTime int
	ImageBase64 string
	TagIDs      []int64
	Lines       []LineInput
}

// Service is the recipe composer: it owns validation, reference resolution,
// the authorization gate and the transactional persistence rules.
type Service struct {
	repo    *Repository
	catalog *catalog.Repository
	images  *ImageStore
}

func NewService(repo *Repository, catalogRepo *catalog.Repository, images *ImageStore) *Service {
	return &Service{repo: repo, catalog: catalogRepo, images: images}
}

// validateComposition implements the recipe invariants: non-empty tags,
// non-empty lines, positive amounts, no duplicate ingredient.
func validateComposition(in Input) error {
	if len(in.TagIDs) == 0 {
		return &CompositionError{Reason: "tags must not be empty"}
	}
	if len(in.Lines) == 0 {
		return &CompositionError{Reason: "ingredients must not be empty"}
	}
	if in.CookingTime <= 0 {
		return &CompositionError{Reason: "cooking time must be positive"}
	}

	seen := make(map[int64]bool, len(in.Lines))
	for _, line := range in.Lines {
		if line.Amount <= 0 {
			return &CompositionError{Reason: "ingredient amount must be positive"}
		}
		if seen[line.IngredientID] {
			return &CompositionError{Reason: "duplicate ingredient in recipe"}
		}
		seen[line.IngredientID] = true
	}
	return nil
}

// Create validates and persists a new recipe owned by author.
func (s *Service) Create(ctx context.Context, author *user.User, in Input) (*Recipe, error) {
	if err := validateComposition(in); err != nil {
		return nil, err
	}

	tags, lines, err := s.resolveComposition(ctx, in)
	if err != nil {
		return nil, err
	}

	var image string
	if in.ImageBase64 != "" {
		image, err = s.images.Save(in.ImageBase64)
		if err != nil {
			return nil, err
		}
	}

	rec := &Recipe{
		AuthorID:    author.ID,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		Image:       image,
	}
	if err := s.repo.Create(ctx, rec, lines, tags); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"recipe_id": rec.ID,
		"author_id": author.ID,
	}).Info("recipe created")

	return s.repo.GetByID(ctx, rec.ID)
}

// Replace swaps the entire composition of an existing recipe. Requires
// mutate rights; re-validates exactly like Create.
func (s *Service) Replace(ctx context.Context, identity *user.User, recipeID int64, in Input) (*Recipe, error) {
	existing, err := s.repo.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(identity, existing) {
		return nil, ErrForbidden
	}

	if err := validateComposition(in); err != nil {
		return nil, err
	}

	tags, lines, err := s.resolveComposition(ctx, in)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":         in.Name,
		"text":         in.Text,
		"cooking_time": in.CookingTime,
	}
	if in.ImageBase64 != "" {
		image, err := s.images.Save(in.ImageBase64)
		if err != nil {
			return nil, err
		}
		updates["image"] = image
	}

	if err := s.repo.Replace(ctx, existing, updates, lines, tags); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"recipe_id":   recipeID,
		"identity_id": identity.ID,
	}).Info("recipe replaced")

	return s.repo.GetByID(ctx, recipeID)
}

// Delete removes the recipe and cascades over its favorite/cart edges.
func (s *Service) Delete(ctx context.Context, identity *user.User, recipeID int64) error {
	existing, err := s.repo.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if !CanMutate(identity, existing) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, recipeID); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"recipe_id":   recipeID,
		"identity_id": identity.ID,
	}).Info("recipe deleted")

	return nil
}

// Get and List are pass-through reads; CanRead is unrestricted.
func (s *Service) Get(ctx context.Context, id int64) (*Recipe, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filters) ([]Recipe, int64, error) {
	return s.repo.List(ctx, f)
}

// resolveComposition turns requested ids into reference rows, failing when
// any id does not exist. Lines keep their request order via Position.
func (s *Service) resolveComposition(ctx context.Context, in Input) ([]catalog.Tag, []IngredientLine, error) {
	tags, err := s.catalog.GetTagsByIDs(ctx, in.TagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(uniqueIDs(in.TagIDs)) {
		return nil, nil, ErrTagNotFound
	}

	ingredientIDs := make([]int64, len(in.Lines))
	for i, line := range in.Lines {
		ingredientIDs[i] = line.IngredientID
	}
	ingredients, err := s.catalog.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(ingredients) != len(ingredientIDs) {
		return nil, nil, ErrIngredientNotFound
	}

	lines := make([]IngredientLine, len(in.Lines))
	for i, line := range in.Lines {
		lines[i] = IngredientLine{
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
			Position:     i,
		}
	}
	return tags, lines, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
