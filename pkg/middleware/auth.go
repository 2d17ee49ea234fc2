package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bookstore/bookstore-api/internal/auth"
	"github.com/bookstore/bookstore-api/internal/models"
	"github.com/bookstore/bookstore-api/internal/tokens"
	"github.com/bookstore/bookstore-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	userKey   = "user"
	claimsKey = "claims"
)

// UserResolver maps a raw bearer token to the user it belongs to. An error
// matching auth.ErrUnauthorized becomes a 401, anything else a 500.
type UserResolver interface {
	ResolveCurrentUser(ctx context.Context, raw string) (*models.User, *tokens.Claims, error)
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// bearerToken extracts the token from 'Authorization: Bearer <token>'.
func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireUser resolves the bearer token and stores the user and claims on the
// context. Every failure is the same 401 body; the cause is only logged.
func RequireUser(res UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			unauthorized(c)
			return
		}
		u, claims, err := res.ResolveCurrentUser(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				unauthorized(c)
				return
			}
			logger.FromContext(c.Request.Context()).Error("resolve current user", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Set(userKey, u)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects with 403 when the resolved user lacks role. It must run
// after RequireUser; without a user it answers 401.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			unauthorized(c)
			return
		}
		if !u.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}

// CurrentClaims returns the access token claims stored by RequireUser.
func CurrentClaims(c *gin.Context) (*tokens.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*tokens.Claims)
	return cl, ok && cl != nil
}
