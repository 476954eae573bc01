package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/session"
)

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents the account creation payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

// SessionResponse is the public view of the active session.
type SessionResponse struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	UserID   int64  `json:"user_id,omitempty"`
}

// Login exchanges credentials for a session and persists it.
// POST /auth/login
func (g *Gateway) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	token, err := g.API.Login(ctx, api.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		c.JSON(upstreamStatus(err, http.StatusUnauthorized), gin.H{"error": upstreamError(err, "login failed")})
		return
	}

	sess := session.Session{Token: token.AccessToken, Email: req.Email}
	if err := g.Sessions.Save(sess); err != nil {
		g.Log.Error().Err(err).Msg("failed to persist session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist session"})
		return
	}

	// Best effort: enrich the session with the account identity.
	if user, err := g.API.CurrentUser(ctx); err == nil {
		sess.FullName = user.FullName
		sess.UserID = user.ID
		if err := g.Sessions.Save(sess); err != nil {
			g.Log.Warn().Err(err).Msg("failed to update session identity")
		}
	}

	c.JSON(http.StatusOK, SessionResponse{Email: sess.Email, FullName: sess.FullName, UserID: sess.UserID})
}

// Register creates an account, then logs it in.
// POST /auth/register
func (g *Gateway) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := g.API.Register(ctx, api.Registration{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	}); err != nil {
		c.JSON(upstreamStatus(err, http.StatusBadGateway), gin.H{"error": upstreamError(err, "registration failed")})
		return
	}

	token, err := g.API.Login(ctx, api.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		// Account exists but the follow-up login failed; the client retries
		// through /auth/login.
		c.JSON(http.StatusCreated, gin.H{"status": "registered"})
		return
	}
	sess := session.Session{Token: token.AccessToken, Email: req.Email, FullName: req.FullName}
	if err := g.Sessions.Save(sess); err != nil {
		g.Log.Error().Err(err).Msg("failed to persist session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist session"})
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Email: sess.Email, FullName: sess.FullName})
}

// Logout clears the persisted session.
// POST /auth/logout
func (g *Gateway) Logout(c *gin.Context) {
	if err := g.Sessions.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me returns the active session identity.
// GET /auth/me
func (g *Gateway) Me(c *gin.Context) {
	s := g.Sessions.Current()
	if s == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Email: s.Email, FullName: s.FullName, UserID: s.UserID})
}

// upstreamStatus maps a backend error to the status the gateway relays.
func upstreamStatus(err error, fallback int) int {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return fallback
}

// upstreamError picks the user-facing message for a backend failure.
func upstreamError(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
