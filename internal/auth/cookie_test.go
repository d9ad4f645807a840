package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSetRefreshCookieAttributes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SetRefreshCookie(c, "tok", CookieOptions{Secure: true, MaxAge: 7 * 24 * time.Hour})

	raw := w.Header().Get("Set-Cookie")
	for _, want := range []string{"refreshToken=tok", "Path=/", "Max-Age=604800", "HttpOnly", "Secure", "SameSite=Strict"} {
		if !strings.Contains(raw, want) {
			t.Fatalf("cookie %q missing %q", raw, want)
		}
	}
}

func TestClearRefreshCookieExpiresImmediately(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ClearRefreshCookie(c, CookieOptions{})

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != RefreshCookieName || ck.Value != "" || ck.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", ck)
	}
	if !ck.Expires.Equal(time.Unix(0, 0)) {
		t.Fatalf("expected epoch expiry, got %v", ck.Expires)
	}
	if ck.Secure {
		t.Fatalf("secure flag should follow options")
	}
}

func TestRefreshCookieRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	if _, ok := RefreshCookie(c); ok {
		t.Fatalf("expected no cookie")
	}
	c.Request.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "abc"})
	if v, ok := RefreshCookie(c); !ok || v != "abc" {
		t.Fatalf("expected cookie value, got %q %v", v, ok)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	h, err := HashPassword("Abcdef12", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "Abcdef12" {
		t.Fatalf("password stored in clear")
	}
	if err := ComparePassword(h, "Abcdef12"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(h, "wrong-password"); err != ErrPasswordMismatch {
		t.Fatalf("expected mismatch, got %v", err)
	}
}
