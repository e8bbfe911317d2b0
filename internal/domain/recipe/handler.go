package recipe

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/domain/relation"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"
)

type Handler struct {
	service      *Service
	register     *relation.Service
	defaultLimit int
}

func NewHandler(service *Service, register *relation.Service, defaultLimit int) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = 6
	}
	return &Handler{service: service, register: register, defaultLimit: defaultLimit}
}

type createRequest struct {
	Name        string      `json:"name" validate:"required,max=200"`
	Text        string      `json:"text" validate:"required"`
	CookingTime int         `json:"cooking_time" validate:"required"`
	Image       string      `json:"image" validate:"required"`
	Tags        []int64     `json:"tags"`
	Ingredients []LineInput `json:"ingredients"`
}

type updateRequest struct {
	Name        string      `json:"name" validate:"required,max=200"`
	Text        string      `json:"text" validate:"required"`
	CookingTime int         `json:"cooking_time" validate:"required"`
	Image       string      `json:"image"`
	Tags        []int64     `json:"tags"`
	Ingredients []LineInput `json:"ingredients"`
}

// List godoc
// @Summary List recipes
// @Description Paginated. Filters: author, tags (slugs, repeatable), is_favorited, is_in_shopping_cart.
// @Tags Recipes
// @Produce json
// @Param page query integer false "Page number"
// @Param limit query integer false "Page size"
// @Param author query integer false "Author user ID"
// @Param tags query []string false "Tag slugs"
// @Success 200 {object} map[string]interface{}
// @Router /recipes [get]
func (h *Handler) List(c *gin.Context) {
	identityID := middleware.CurrentUserID(c)

	var f Filters
	if author, err := strconv.ParseInt(c.Query("author"), 10, 64); err == nil && author > 0 {
		f.AuthorID = author
	}
	f.TagSlugs = c.QueryArray("tags")
	if c.Query("is_favorited") == "1" && identityID > 0 {
		f.FavoritedBy = identityID
	}
	if c.Query("is_in_shopping_cart") == "1" && identityID > 0 {
		f.InCartOf = identityID
	}

	page, limit := 1, h.defaultLimit
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	recipes, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}

	views := make([]View, 0, len(recipes))
	for i := range recipes {
		view, err := h.view(c, &recipes[i])
		if err != nil {
			handleError(c, err)
			return
		}
		views = append(views, view)
	}

	response.Success(c, http.StatusOK, gin.H{
		"recipes": views,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// Get godoc
// @Summary Get one recipe
// @Tags Recipes
// @Produce json
// @Param id path integer true "Recipe ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	view, err := h.view(c, rec)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Create godoc
// @Summary Publish a recipe
// @Tags Recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body createRequest true "Recipe payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400,404 {object} map[string]interface{}
// @Router /recipes [post]
func (h *Handler) Create(c *gin.Context) {
	identity := middleware.CurrentUser(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", fields)
		return
	}

	rec, err := h.service.Create(c.Request.Context(), identity, Input{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageBase64: req.Image,
		TagIDs:      req.Tags,
		Lines:       req.Ingredients,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	view, err := h.view(c, rec)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// Update godoc
// @Summary Replace a recipe's composition
// @Description Whole-set replacement: the supplied tags and ingredients become the complete new sets. An omitted image keeps the stored one.
// @Tags Recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path integer true "Recipe ID"
// @Param body body updateRequest true "Recipe payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404 {object} map[string]interface{}
// @Router /recipes/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	identity := middleware.CurrentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", fields)
		return
	}

	rec, err := h.service.Replace(c.Request.Context(), identity, id, Input{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageBase64: req.Image,
		TagIDs:      req.Tags,
		Lines:       req.Ingredients,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	view, err := h.view(c, rec)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Delete godoc
// @Summary Delete a recipe
// @Tags Recipes
// @Security BearerAuth
// @Param id path integer true "Recipe ID"
// @Success 204
// @Failure 403,404 {object} map[string]interface{}
// @Router /recipes/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	identity := middleware.CurrentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), identity, id); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// view computes the identity-dependent flags for one recipe.
func (h *Handler) view(c *gin.Context, rec *Recipe) (View, error) {
	identityID := middleware.CurrentUserID(c)
	ctx := c.Request.Context()

	favorited, err := h.register.Exists(ctx, relation.KindFavorite, identityID, rec.ID)
	if err != nil {
		return View{}, err
	}
	inCart, err := h.register.Exists(ctx, relation.KindCart, identityID, rec.ID)
	if err != nil {
		return View{}, err
	}
	subscribed, err := h.register.Exists(ctx, relation.KindSubscription, identityID, rec.AuthorID)
	if err != nil {
		return View{}, err
	}

	return NewView(rec, Flags{Favorited: favorited, InCart: inCart, Subscribed: subscribed}), nil
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recipe ID")
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	var compErr *CompositionError

	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
	case errors.Is(err, ErrIngredientNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Ingredient not found")
	case errors.Is(err, ErrTagNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Tag not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't have permission to perform this action")
	case errors.As(err, &compErr):
		response.Error(c, http.StatusBadRequest, "INVALID_COMPOSITION", compErr.Reason)
	case errors.Is(err, ErrInvalidImage):
		response.Error(c, http.StatusBadRequest, "INVALID_IMAGE", "Image must be a base64 data URI")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
