package image

import (
	"github.com/gin-gonic/gin"

	"webapp/internal/middleware"
	"webapp/internal/repository"
)

// RegisterRoutes wires the profile-picture endpoints. Mutations are
// additionally gated on a verified email when the gate is enabled.
func RegisterRoutes(r *gin.Engine, h *Handler, users *repository.UserRepository, verifyEnabled bool) {
	pic := r.Group("/v1/user/self/pic")
	pic.Use(middleware.BasicAuth(users))
	{
		pic.POST("", middleware.RequireVerified(verifyEnabled), h.Upload)
		pic.GET("", h.Fetch)
		pic.DELETE("", middleware.RequireVerified(verifyEnabled), h.Delete)
	}
}
