package middleware

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"webapp/internal/domain"
	"webapp/internal/pkg/response"
	"webapp/internal/repository"
)

const principalKey = "principal"

// BasicAuth authenticates the request with HTTP Basic credentials:
// identifier is the account email, secret is the plaintext password
// compared against the stored bcrypt hash. On success the account is
// attached to the context as the principal.
func BasicAuth(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := parseBasicAuth(c.GetHeader("Authorization"))
		if !ok {
			response.AbortEmpty(c, http.StatusUnauthorized)
			return
		}

		user, err := users.GetByEmail(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.AbortEmpty(c, http.StatusUnauthorized)
				return
			}
			response.AbortEmpty(c, http.StatusInternalServerError)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			response.AbortEmpty(c, http.StatusUnauthorized)
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// RequireVerified gates mutating endpoints behind email verification.
// A disabled gate (EMAIL_VERIFICATION off) lets every principal pass.
func RequireVerified(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		user := Principal(c)
		if user == nil {
			response.AbortEmpty(c, http.StatusUnauthorized)
			return
		}
		if !user.Verified {
			response.AbortEmpty(c, http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated account set by BasicAuth, or nil.
func Principal(c *gin.Context) *domain.User {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	user, ok := v.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func parseBasicAuth(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if header == "" || !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
	if err != nil {
		return "", "", false
	}
	email, password, found := strings.Cut(string(raw), ":")
	if !found || email == "" || password == "" {
		return "", "", false
	}
	return email, password, true
}
