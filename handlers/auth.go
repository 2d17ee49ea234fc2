package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/bookstore/bookstore-api/internal/auth"
	"github.com/bookstore/bookstore-api/internal/password"
	"github.com/bookstore/bookstore-api/internal/tokens"
	"github.com/bookstore/bookstore-api/internal/users"
	"github.com/bookstore/bookstore-api/pkg/logger"
	"github.com/bookstore/bookstore-api/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the body of POST /register. There is deliberately no
// is_admin field: admins are created by cmd/createadmin only.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse is returned by /login and /refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(s *auth.Service) *AuthHandler {
	return &AuthHandler{svc: s}
}

// Register mounts the auth routes. requireUser guards /logout and /me.
func (h *AuthHandler) Register(rg gin.IRouter, requireUser gin.HandlerFunc) {
	rg.POST("/login", h.Login)
	rg.POST("/register", h.RegisterUser)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/logout", requireUser, h.Logout)
	rg.GET("/me", requireUser, h.Me)
}

func (h *AuthHandler) tokenResponse(p *tokens.Pair) TokenResponse {
	return TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    h.svc.AccessTTLSeconds(),
	}
}

func internalError(c *gin.Context, msg string, err error) {
	logger.FromContext(c.Request.Context()).Error(msg, "error", err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// Login exchanges email and password for a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
			return
		}
		internalError(c, "login failed", err)
		return
	}
	c.JSON(http.StatusOK, h.tokenResponse(pair))
}

// RegisterUser creates a regular (non-admin) account and returns its public view
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.Register(c.Request.Context(), req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		case errors.Is(err, password.ErrTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		internalError(c, "register failed", err)
		return
	}
	c.JSON(http.StatusOK, u.Public())
}

// Refresh rotates a refresh token into a new pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		internalError(c, "refresh failed", err)
		return
	}
	c.JSON(http.StatusOK, h.tokenResponse(pair))
}

// Logout revokes the bearer token and, if supplied, the refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, _ := middleware.CurrentClaims(c)
	if err := h.svc.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		internalError(c, "logout failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the current user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, u.Profile())
}
