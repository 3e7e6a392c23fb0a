package user

import (
	"github.com/gin-gonic/gin"

	"webapp/internal/middleware"
	"webapp/internal/repository"
)

// RegisterRoutes wires the account endpoints. users backs the Basic
// auth middleware; verifyEnabled gates mutations behind email
// verification.
func RegisterRoutes(r *gin.Engine, h *Handler, users *repository.UserRepository, verifyEnabled bool) {
	r.POST("/v1/user", middleware.NoQueryParams(), h.Register)

	r.GET("/v1/user/self",
		middleware.NoQueryParams(),
		middleware.EmptyBody(),
		middleware.BasicAuth(users),
		h.GetSelf,
	)
	r.PUT("/v1/user/self",
		middleware.NoQueryParams(),
		middleware.BasicAuth(users),
		middleware.RequireVerified(verifyEnabled),
		h.UpdateSelf,
	)

	r.GET("/verify", h.Verify)
}
