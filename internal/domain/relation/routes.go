package relation

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the toggle endpoints. All of them require an
// authenticated identity, so the caller passes the protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes")
	{
		recipes.POST("/:id/favorite", h.AddFavorite)
		recipes.DELETE("/:id/favorite", h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", h.RemoveFromCart)
	}

	users := rg.Group("/users")
	{
		users.GET("/subscriptions", h.ListSubscriptions)
		users.POST("/:id/subscribe", h.Subscribe)
		users.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}
