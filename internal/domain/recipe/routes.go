package recipe

import "github.com/gin-gonic/gin"

// RegisterReadRoutes mounts the open read endpoints (anonymous allowed,
// flags computed when an identity is present).
func (h *Handler) RegisterReadRoutes(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes")
	{
		recipes.GET("", h.List)
		recipes.GET("/:id", h.Get)
	}
}

// RegisterWriteRoutes mounts the mutation endpoints behind RequireAuth.
func (h *Handler) RegisterWriteRoutes(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes")
	{
		recipes.POST("", h.Create)
		recipes.PATCH("/:id", h.Update)
		recipes.DELETE("/:id", h.Delete)
	}
}
