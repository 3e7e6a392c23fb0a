package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"webapp/internal/middleware"
	"webapp/internal/pkg/response"
	"webapp/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /v1/user.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := validator.DecodeStrict(c.Request.Body, &req); err != nil {
		response.Empty(c, http.StatusBadRequest)
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			response.Empty(c, http.StatusBadRequest)
			return
		}
		c.Error(err)
		response.Empty(c, http.StatusInternalServerError)
		return
	}

	response.JSON(c, http.StatusCreated, NewAccountView(u))
}

// GetSelf handles GET /v1/user/self.
func (h *Handler) GetSelf(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		response.Empty(c, http.StatusUnauthorized)
		return
	}

	u, err := h.service.Get(c.Request.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Empty(c, http.StatusNotFound)
			return
		}
		c.Error(err)
		response.Empty(c, http.StatusInternalServerError)
		return
	}

	response.JSON(c, http.StatusOK, NewAccountView(u))
}

// UpdateSelf handles PUT /v1/user/self. Success is signaled by 204
// alone, no body.
func (h *Handler) UpdateSelf(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		response.Empty(c, http.StatusUnauthorized)
		return
	}

	var req UpdateRequest
	if err := validator.DecodeStrict(c.Request.Body, &req); err != nil {
		response.Empty(c, http.StatusBadRequest)
		return
	}

	if err := h.service.Update(c.Request.Context(), principal.ID, req); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Empty(c, http.StatusNotFound)
			return
		}
		c.Error(err)
		response.Empty(c, http.StatusInternalServerError)
		return
	}

	response.Empty(c, http.StatusNoContent)
}

// Verify handles GET /verify?email=...&token=....
func (h *Handler) Verify(c *gin.Context) {
	email := c.Query("email")
	token := c.Query("token")
	if email == "" || token == "" {
		response.Empty(c, http.StatusBadRequest)
		return
	}

	if err := h.service.VerifyEmail(c.Request.Context(), email, token); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			response.Empty(c, http.StatusBadRequest)
			return
		}
		c.Error(err)
		response.Empty(c, http.StatusInternalServerError)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "email verified"})
}
