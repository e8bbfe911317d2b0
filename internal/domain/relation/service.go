package relation

import "context"

// RecipeSource gives the register read access to recipes without importing
// the recipe package. Implemented by recipe.Repository.
type RecipeSource interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Card(ctx context.Context, id int64) (*RecipeCard, error)
	CardsByAuthor(ctx context.Context, authorID int64) ([]RecipeCard, error)
}

// UserSource reports whether a subscription target exists. Implemented by
// user.Repository.
type UserSource interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// RecipeCard is the shortened recipe shape returned by toggle endpoints and
// embedded in subscription listings.
type RecipeCard struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// Service is the relationship register: one idempotent-toggle engine shared
// by favorites, the shopping cart and author subscriptions.
type Service struct {
	repo    Repository
	recipes RecipeSource
	users   UserSource
}

func NewService(repo Repository, recipes RecipeSource, users UserSource) *Service {
	return &Service{repo: repo, recipes: recipes, users: users}
}

// Add creates the edge. A second add for the same triple returns
// ErrAlreadyExists rather than succeeding silently, so callers can tell
// "already present" from "just added". Subscriptions to oneself are rejected.
func (s *Service) Add(ctx context.Context, kind Kind, subjectID, objectID int64) (*Edge, error) {
	if kind == KindSubscription && subjectID == objectID {
		return nil, ErrSelfSubscription
	}

	ok, err := s.objectExists(ctx, kind, objectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrObjectNotFound
	}

	return s.repo.Add(ctx, kind, subjectID, objectID)
}

// Remove deletes the edge, returning ErrEdgeNotFound when it was absent.
func (s *Service) Remove(ctx context.Context, kind Kind, subjectID, objectID int64) error {
	return s.repo.Remove(ctx, kind, subjectID, objectID)
}

// Exists backs the derived read flags: is_favorited, is_in_shopping_cart,
// is_subscribed. Anonymous callers (subjectID == 0) always get false.
func (s *Service) Exists(ctx context.Context, kind Kind, subjectID, objectID int64) (bool, error) {
	if subjectID == 0 {
		return false, nil
	}
	return s.repo.Exists(ctx, kind, subjectID, objectID)
}

// ListObjectIDs enumerates a subject's objects: cart recipe ids for the
// aggregator, followed author ids for the subscription listing.
func (s *Service) ListObjectIDs(ctx context.Context, kind Kind, subjectID int64) ([]int64, error) {
	return s.repo.ListObjectIDs(ctx, kind, subjectID)
}

func (s *Service) objectExists(ctx context.Context, kind Kind, objectID int64) (bool, error) {
	if kind == KindSubscription {
		return s.users.Exists(ctx, objectID)
	}
	return s.recipes.Exists(ctx, objectID)
}
