package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"webapp/internal/database"
	"webapp/internal/middleware"
	"webapp/internal/pkg/response"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// Check handles GET /healthz: 200 when the store answers a ping, 503
// otherwise. Requests with a query string or body are rejected with
// 400 by the route middleware.
func (h *Handler) Check(c *gin.Context) {
	if err := database.Ping(c.Request.Context(), h.db); err != nil {
		c.Error(err)
		response.Empty(c, http.StatusServiceUnavailable)
		return
	}
	response.Empty(c, http.StatusOK)
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/healthz",
		middleware.NoQueryParams(),
		middleware.EmptyBody(),
		h.Check,
	)
}
