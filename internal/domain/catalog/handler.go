package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"foodgram/internal/pkg/response"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListIngredients godoc
// @Summary List ingredients
// @Description Reference data. Supports prefix search via ?name=.
// @Tags Catalog
// @Produce json
// @Param name query string false "Name prefix filter"
// @Success 200 {object} map[string]interface{}
// @Router /ingredients [get]
func (h *Handler) ListIngredients(c *gin.Context) {
	ingredients, err := h.repo.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load ingredients")
		return
	}
	response.Success(c, http.StatusOK, ingredients)
}

// GetIngredient godoc
// @Summary Get one ingredient
// @Tags Catalog
// @Produce json
// @Param id path integer true "Ingredient ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /ingredients/{id} [get]
func (h *Handler) GetIngredient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ingredient ID")
		return
	}

	ingredient, err := h.repo.GetIngredientByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ingredient)
}

// ListTags godoc
// @Summary List tags
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.repo.ListTags(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load tags")
		return
	}
	response.Success(c, http.StatusOK, tags)
}

// GetTag godoc
// @Summary Get one tag
// @Tags Catalog
// @Produce json
// @Param id path integer true "Tag ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /tags/{id} [get]
func (h *Handler) GetTag(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid tag ID")
		return
	}

	tag, err := h.repo.GetTagByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tag)
}

func handleError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}
