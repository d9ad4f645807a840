package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

const (
	MsgAccessTokenRequired = "Access token required"
	MsgInvalidToken        = "Invalid or expired token"
	MsgUserNotFound        = "User not found"
)

// ErrUnknownUser is returned by a UserResolver when the token subject no longer exists.
var ErrUnknownUser = errors.New("auth: user not found")

// UserResolver maps a verified token subject to the live user record.
type UserResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (Identity, error)
}

// RequireAccessToken verifies an access token, resolves the user and injects identity
// into the request context. Requests whose path is in exempt pass through untouched;
// the refresh endpoint authenticates by cookie instead.
// It does not perform RBAC checks; those belong to internal/rbac.
func RequireAccessToken(m *Manager, users UserResolver, exempt ...string) gin.HandlerFunc {
	exemptSet := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		exemptSet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := exemptSet[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		tok, ok := bearerToken(c.GetHeader(authorizationHeader))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MsgAccessTokenRequired})
			return
		}

		claims, err := m.Verify(tok, TokenTypeAccess, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MsgInvalidToken})
			return
		}

		id, err := users.ResolveIdentity(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, ErrUnknownUser) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MsgUserNotFound})
				return
			}
			logger.FromGin(c).Error("resolve token subject", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))

		// Also store on gin context for handler convenience.
		c.Set(ginIdentityKey, id)

		c.Next()
	}
}

// FromGin returns the identity attached by RequireAccessToken.
func FromGin(c *gin.Context) (Identity, bool) {
	if v, ok := c.Get(ginIdentityKey); ok {
		if id, ok := v.(Identity); ok && id.UserID != "" {
			return id, true
		}
	}
	id, err := IdentityFrom(c.Request.Context())
	return id, err == nil
}

func bearerToken(header string) (string, bool) {
	raw := strings.TrimSpace(header)
	if len(raw) < len(bearerPrefix) || !strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	tok := strings.TrimSpace(raw[len(bearerPrefix):])
	return tok, tok != ""
}
