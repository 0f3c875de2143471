package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rblog/rblog/internal/testutil"
)

func setupRateLimiter(t *testing.T, maxRequests int, window, blockTime time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	tr := testutil.SetupTestRedis(t)
	t.Cleanup(func() { tr.Teardown(t) })
	client := redis.NewClient(&redis.Options{Addr: tr.Server.Addr()})
	rl := NewRateLimiter(client, RateLimiterConfig{
		MaxRequests: maxRequests,
		Window:      window,
		BlockTime:   blockTime,
	})
	return rl, tr.Server
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func hit(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl, _ := setupRateLimiter(t, 5, time.Minute, 5*time.Minute)
	router := limitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := hit(router, "192.168.1.1")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should succeed", i+1)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl, _ := setupRateLimiter(t, 5, time.Minute, 5*time.Minute)
	router := limitedRouter(rl)

	for i := 0; i < 5; i++ {
		hit(router, "192.168.1.1")
	}

	w := hit(router, "192.168.1.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_IPsIndependent(t *testing.T) {
	rl, _ := setupRateLimiter(t, 3, time.Minute, 5*time.Minute)
	router := limitedRouter(rl)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(router, "192.168.1.1").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(router, "192.168.1.1").Code)

	// A second client still has its full quota
	assert.Equal(t, http.StatusOK, hit(router, "192.168.1.2").Code)
}

func TestRateLimiter_CheckLimit(t *testing.T) {
	rl, _ := setupRateLimiter(t, 3, time.Minute, 5*time.Minute)

	ip := "192.168.1.100"
	for i := 0; i < 3; i++ {
		allowed, _, err := rl.CheckLimit(ip)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, retryAfter, err := rl.CheckLimit(ip)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestRateLimiter_BlockTimeExtendsWindow(t *testing.T) {
	rl, mr := setupRateLimiter(t, 1, time.Second, time.Minute)

	ip := "192.168.1.100"
	allowed, _, err := rl.CheckLimit(ip)
	require.NoError(t, err)
	require.True(t, allowed)

	// Going over the limit swaps the short window for the block time
	allowed, retryAfter, err := rl.CheckLimit(ip)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Second)

	// The original window elapsing no longer helps
	mr.FastForward(2 * time.Second)
	allowed, _, err = rl.CheckLimit(ip)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl, mr := setupRateLimiter(t, 2, time.Second, 0)

	ip := "192.168.1.100"
	for i := 0; i < 2; i++ {
		allowed, _, err := rl.CheckLimit(ip)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, _, err := rl.CheckLimit(ip)
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(2 * time.Second)

	allowed, _, err = rl.CheckLimit(ip)
	require.NoError(t, err)
	assert.True(t, allowed, "quota resets once the window expires")
}

func TestRateLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	rl, mr := setupRateLimiter(t, 1, time.Minute, time.Minute)
	router := limitedRouter(rl)
	mr.Close()

	// With Redis unreachable every request passes through
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(router, "192.168.1.1").Code)
	}
}
