package relation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodgram/internal/domain/user"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"
)

type Handler struct {
	svc     *Service
	recipes RecipeSource
	users   *user.Repository
}

func NewHandler(svc *Service, recipes RecipeSource, users *user.Repository) *Handler {
	return &Handler{svc: svc, recipes: recipes, users: users}
}

// AuthorCard is the subscription listing entry: the followed author plus
// their recipes.
type AuthorCard struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	Username     string       `json:"username"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	IsSubscribed bool         `json:"is_subscribed"`
	Recipes      []RecipeCard `json:"recipes"`
	RecipesCount int          `json:"recipes_count"`
}

// AddFavorite godoc
// @Summary Add a recipe to favorites
// @Tags Relations
// @Security BearerAuth
// @Produce json
// @Param id path integer true "Recipe ID"
// @Success 201 {object} map[string]interface{}
// @Failure 404,409 {object} map[string]interface{}
// @Router /recipes/{id}/favorite [post]
func (h *Handler) AddFavorite(c *gin.Context) {
	h.addRecipeEdge(c, KindFavorite)
}

// RemoveFavorite godoc
// @Summary Remove a recipe from favorites
// @Tags Relations
// @Security BearerAuth
// @Param id path integer true "Recipe ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id}/favorite [delete]
func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.removeRecipeEdge(c, KindFavorite)
}

// AddToCart godoc
// @Summary Add a recipe to the shopping cart
// @Tags Relations
// @Security BearerAuth
// @Produce json
// @Param id path integer true "Recipe ID"
// @Success 201 {object} map[string]interface{}
// @Failure 404,409 {object} map[string]interface{}
// @Router /recipes/{id}/shopping_cart [post]
func (h *Handler) AddToCart(c *gin.Context) {
	h.addRecipeEdge(c, KindCart)
}

// RemoveFromCart godoc
// @Summary Remove a recipe from the shopping cart
// @Tags Relations
// @Security BearerAuth
// @Param id path integer true "Recipe ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id}/shopping_cart [delete]
func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.removeRecipeEdge(c, KindCart)
}

func (h *Handler) addRecipeEdge(c *gin.Context, kind Kind) {
	identity := middleware.CurrentUser(c)
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.svc.Add(c.Request.Context(), kind, identity.ID, recipeID); err != nil {
		handleError(c, err)
		return
	}

	card, err := h.recipes.Card(c.Request.Context(), recipeID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, card)
}

func (h *Handler) removeRecipeEdge(c *gin.Context, kind Kind) {
	identity := middleware.CurrentUser(c)
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), kind, identity.ID, recipeID); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// Subscribe godoc
// @Summary Follow a recipe author
// @Tags Relations
// @Security BearerAuth
// @Produce json
// @Param id path integer true "Author user ID"
// @Success 201 {object} map[string]interface{}
// @Failure 400,404,409 {object} map[string]interface{}
// @Router /users/{id}/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	identity := middleware.CurrentUser(c)
	authorID, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.svc.Add(c.Request.Context(), KindSubscription, identity.ID, authorID); err != nil {
		handleError(c, err)
		return
	}

	author, err := h.users.GetByID(c.Request.Context(), authorID)
	if err != nil {
		handleError(c, err)
		return
	}

	card, err := h.authorCard(c, author)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, card)
}

// Unsubscribe godoc
// @Summary Unfollow a recipe author
// @Tags Relations
// @Security BearerAuth
// @Param id path integer true "Author user ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id}/subscribe [delete]
func (h *Handler) Unsubscribe(c *gin.Context) {
	identity := middleware.CurrentUser(c)
	authorID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), KindSubscription, identity.ID, authorID); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// ListSubscriptions godoc
// @Summary List followed authors with their recipes
// @Tags Relations
// @Security BearerAuth
// @Produce json
// @Param page query integer false "Page number"
// @Param limit query integer false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /users/subscriptions [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	identity := middleware.CurrentUser(c)

	authorIDs, err := h.svc.ListObjectIDs(c.Request.Context(), KindSubscription, identity.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	page, limit := pagination(c)
	total := len(authorIDs)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	authors, err := h.users.GetByIDs(c.Request.Context(), authorIDs[start:end])
	if err != nil {
		handleError(c, err)
		return
	}

	cards := make([]AuthorCard, 0, len(authors))
	for i := range authors {
		card, err := h.authorCard(c, &authors[i])
		if err != nil {
			handleError(c, err)
			return
		}
		cards = append(cards, *card)
	}

	response.Success(c, http.StatusOK, gin.H{
		"subscriptions": cards,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *Handler) authorCard(c *gin.Context, author *user.User) (*AuthorCard, error) {
	recipes, err := h.recipes.CardsByAuthor(c.Request.Context(), author.ID)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []RecipeCard{}
	}
	return &AuthorCard{
		ID:           author.ID,
		Email:        author.Email,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: true,
		Recipes:      recipes,
		RecipesCount: len(recipes),
	}, nil
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID in path")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (page, limit int) {
	page, limit = 1, 6
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	return page, limit
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		response.Error(c, http.StatusConflict, "ALREADY_EXISTS", "Relation already exists")
	case errors.Is(err, ErrEdgeNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Relation does not exist")
	case errors.Is(err, ErrObjectNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Target not found")
	case errors.Is(err, ErrSelfSubscription):
		response.Error(c, http.StatusBadRequest, "SELF_SUBSCRIBE", "You cannot subscribe to yourself")
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
