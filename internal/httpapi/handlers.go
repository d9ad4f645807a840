package httpapi

import (
	"context"
	"net/http"
	"time"

	"taskboard/internal/audit"
	"taskboard/internal/auth"
	"taskboard/internal/tasks"
	"taskboard/internal/users"
	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Pinger reports database reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth  *auth.Manager
	Users *users.Service
	Tasks *tasks.Service
	// Audit is optional; nil disables the auth event trail.
	Audit  *audit.Service
	Cookie auth.CookieOptions
	DB     Pinger
	Now    func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// cookieOptions defaults the cookie lifetime to the refresh token TTL.
func (h Handlers) cookieOptions() auth.CookieOptions {
	opts := h.Cookie
	if opts.MaxAge <= 0 && h.Auth != nil {
		opts.MaxAge = h.Auth.RefreshTTL()
	}
	return opts
}

// record appends an auth event. Failures are logged and never surface to the client.
func (h Handlers) record(c *gin.Context, t audit.EventType, userID, email, message string) {
	if h.Audit == nil {
		return
	}
	client := audit.Client{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	if err := h.Audit.Record(c.Request.Context(), t, userID, email, client, message); err != nil {
		logger.FromGin(c).Warn("audit append failed", "type", string(t), "err", err)
	}
}

const healthPingTimeout = 2 * time.Second

func (h Handlers) Health(c *gin.Context) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			logger.FromGin(c).Error("health check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func subjectOf(u users.User) auth.Subject {
	return auth.Subject{UserID: u.ID, Email: u.Email, Role: string(u.Role)}
}

// caller returns the identity set by the session middleware.
func caller(c *gin.Context) (auth.Identity, bool) {
	id, ok := auth.FromGin(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.MsgAccessTokenRequired})
		return auth.Identity{}, false
	}
	return id, true
}
