package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RefreshCookieName is used for setting, reading and clearing the refresh token.
const RefreshCookieName = "refreshToken"

// CookieOptions controls the refresh cookie attributes.
// Secure should be true in production.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

func SetRefreshCookie(c *gin.Context, token string, opts CookieOptions) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(opts.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearRefreshCookie expires the refresh cookie immediately (Expires at the epoch).
func ClearRefreshCookie(c *gin.Context, opts CookieOptions) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func RefreshCookie(c *gin.Context) (string, bool) {
	v, err := c.Cookie(RefreshCookieName)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}
