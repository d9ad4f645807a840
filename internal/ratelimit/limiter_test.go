package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, limit int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewLimiter(NewRedisStore(rdb), "ratelimit:auth:", limit, time.Minute), mr
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l, mr := newRedisLimiter(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	retry, ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(60), retry)
	assert.True(t, mr.Exists("ratelimit:auth:1.2.3.4"))

	// other keys have their own window
	_, ok, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(time.Minute + time.Second)
	_, ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(nil, "x:", 5, time.Minute)
	assert.False(t, l.Enabled())
	_, ok, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)

	l, _ = newRedisLimiter(t, 0)
	assert.False(t, l.Enabled())
}

type failingStore struct{}

func (failingStore) Increment(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func serve(l *Limiter, n int) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", ByClientIP(l), func(c *gin.Context) { c.Status(http.StatusOK) })

	var w *httptest.ResponseRecorder
	for i := 0; i < n; i++ {
		w = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
	}
	return w
}

func TestByClientIP_Returns429(t *testing.T) {
	l, _ := newRedisLimiter(t, 1)

	w := serve(l, 2)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"message":"Too many requests, try again later"}`, w.Body.String())
}

func TestByClientIP_FailsOpen(t *testing.T) {
	l := NewLimiter(failingStore{}, "x:", 1, time.Minute)
	w := serve(l, 3)
	assert.Equal(t, http.StatusOK, w.Code)
}
