package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/ratelimit"
	"taskboard/internal/users"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_RateLimitsLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	m, err := auth.NewManager(config.AuthConfig{
		JWTSecret: "a", JWTRefreshSecret: "b",
		AccessTokenTTL: time.Hour, RefreshTokenTTL: 2 * time.Hour,
	})
	require.NoError(t, err)

	r := gin.New()
	h := Handlers{Auth: m, Users: users.NewService(users.NewMemoryRepo(), 4)}
	Register(r, h, ratelimit.NewLimiter(ratelimit.NewRedisStore(rdb), "ratelimit:auth:", 2, time.Minute))

	var codes []int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.com","password":"Abcdef12"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.0.2.7:5555"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if i == 2 {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)

	// logout is not limited
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
