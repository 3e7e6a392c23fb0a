package image

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"webapp/internal/middleware"
	"webapp/internal/pkg/response"
)

// formField is the multipart form field carrying the picture.
const formField = "profilePic"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload handles POST /v1/user/self/pic.
func (h *Handler) Upload(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		response.Empty(c, http.StatusUnauthorized)
		return
	}

	fileHeader, err := c.FormFile(formField)
	if err != nil {
		response.Empty(c, http.StatusBadRequest)
		return
	}

	img, err := h.service.Upload(c.Request.Context(), principal.ID, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFile), errors.Is(err, ErrNotAnImage):
			response.Empty(c, http.StatusBadRequest)
		default:
			c.Error(err)
			response.Empty(c, http.StatusInternalServerError)
		}
		return
	}

	response.JSON(c, http.StatusCreated, NewImageView(img))
}

// Fetch handles GET /v1/user/self/pic.
func (h *Handler) Fetch(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		response.Empty(c, http.StatusUnauthorized)
		return
	}

	img, err := h.service.Fetch(c.Request.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			response.Empty(c, http.StatusNotFound)
			return
		}
		c.Error(err)
		response.Empty(c, http.StatusInternalServerError)
		return
	}

	response.JSON(c, http.StatusOK, NewImageView(img))
}

// Delete handles DELETE /v1/user/self/pic.
func (h *Handler) Delete(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		response.Empty(c, http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), principal.ID); err != nil {
		if errors.Is(err, ErrImageNotFound) {
			response.Empty(c, http.StatusNotFound)
			return
		}
		c.Error(err)
		response.Empty(c, http.StatusInternalServerError)
		return
	}

	response.Empty(c, http.StatusNoContent)
}
