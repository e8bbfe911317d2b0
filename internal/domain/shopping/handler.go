package shopping

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Download godoc
// @Summary Download the consolidated shopping list
// @Description Merges ingredient amounts across every recipe in the cart and serves the result as a text attachment.
// @Tags Shopping
// @Security BearerAuth
// @Produce plain
// @Success 200 {string} string
// @Router /recipes/download_shopping_cart [get]
func (h *Handler) Download(c *gin.Context) {
	identity := middleware.CurrentUser(c)

	totals, err := h.service.Aggregate(c.Request.Context(), identity.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build shopping list")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", Render(totals))
}
