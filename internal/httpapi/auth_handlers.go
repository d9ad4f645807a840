package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"taskboard/internal/audit"
	"taskboard/internal/auth"
	"taskboard/internal/users"

	"github.com/gin-gonic/gin"
)

// Signup creates an account and starts a session.
func (h Handlers) Signup(c *gin.Context) {
	var req users.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	u, err := h.Users.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, "signup failed", err, "")
		return
	}

	pair, err := h.Auth.IssuePair(h.now(), subjectOf(u))
	if err != nil {
		internalError(c, "token issuance failed", err)
		return
	}
	auth.SetRefreshCookie(c, pair.RefreshToken, h.cookieOptions())
	h.record(c, audit.EventSignup, u.ID, u.Email, "")

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Account created successfully",
		"user":        u,
		"accessToken": pair.AccessToken,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials. Unknown email and wrong password share one response.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, msgCredsRequired)
		return
	}

	u, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			h.record(c, audit.EventLoginFailed, "", users.NormalizeEmail(req.Email), "")
			fail(c, http.StatusUnauthorized, msgInvalidLogin)
			return
		}
		internalError(c, "login failed", err)
		return
	}

	pair, err := h.Auth.IssuePair(h.now(), subjectOf(u))
	if err != nil {
		internalError(c, "token issuance failed", err)
		return
	}
	auth.SetRefreshCookie(c, pair.RefreshToken, h.cookieOptions())
	h.record(c, audit.EventLoginSucceeded, u.ID, u.Email, "")

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Login successful",
		"user":        u,
		"accessToken": pair.AccessToken,
	})
}

// Logout clears the refresh cookie. Refresh tokens are stateless, so nothing
// is revoked server-side.
func (h Handlers) Logout(c *gin.Context) {
	var userID string
	if tok, ok := auth.RefreshCookie(c); ok {
		if claims, err := h.Auth.Verify(tok, auth.TokenTypeRefresh, h.now()); err == nil {
			userID = claims.UserID
		}
	}
	auth.ClearRefreshCookie(c, h.cookieOptions())
	h.record(c, audit.EventLogout, userID, "", "")

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgLogoutSuccessful})
}

// RefreshToken exchanges the refresh cookie for a new access token.
// The refresh token itself is not rotated.
func (h Handlers) RefreshToken(c *gin.Context) {
	tok, ok := auth.RefreshCookie(c)
	if !ok {
		auth.ClearRefreshCookie(c, h.cookieOptions())
		h.record(c, audit.EventRefreshRejected, "", "", "missing cookie")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNoRefreshToken})
		return
	}

	now := h.now()
	claims, err := h.Auth.Verify(tok, auth.TokenTypeRefresh, now)
	if err != nil {
		auth.ClearRefreshCookie(c, h.cookieOptions())
		h.record(c, audit.EventRefreshRejected, "", "", "invalid token")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgInvalidRefresh})
		return
	}

	u, err := h.Users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			h.record(c, audit.EventRefreshRejected, claims.UserID, "", "unknown user")
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": msgUserNotFound})
			return
		}
		internalError(c, "refresh lookup failed", err)
		return
	}

	access, err := h.Auth.IssueAccess(now, subjectOf(u))
	if err != nil {
		internalError(c, "token issuance failed", err)
		return
	}
	h.record(c, audit.EventTokenRefreshed, u.ID, u.Email, "")

	c.JSON(http.StatusOK, gin.H{
		"accessToken": access,
		"user":        u.Summary(),
	})
}
