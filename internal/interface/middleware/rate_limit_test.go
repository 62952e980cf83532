package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limited(rdb *redis.Client, max int) *gin.Engine {
	r := gin.New()
	r.POST("/api/auth/login", RateLimit(rdb, max, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func fromIP(ip string) func(*http.Request) {
	return func(r *http.Request) { r.RemoteAddr = ip + ":1234" }
}

func TestRateLimit_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	r := limited(rdb, 2)

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodPost, "/api/auth/login", fromIP("10.1.1.1"))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := do(r, http.MethodPost, "/api/auth/login", fromIP("10.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other clients have their own counter
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/auth/login", fromIP("10.1.1.2")).Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/auth/login", fromIP("10.1.1.1")).Code)
}

func TestRateLimit_RedisDownFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	r := limited(rdb, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/auth/login", fromIP("10.1.1.1")).Code)
	}
}

func TestRateLimit_InProcessFallback(t *testing.T) {
	r := limited(nil, 3)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/auth/login", fromIP("10.2.2.2")).Code)
	}
	w := do(r, http.MethodPost, "/api/auth/login", fromIP("10.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/auth/login", fromIP("10.2.2.3")).Code)
}

func TestRateLimit_Bypass(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(nil, 1, time.Minute, KeyByIP(), func(*gin.Context) bool { return true }), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(nil, 0, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
	}
}

func TestRateLimit_PathKeysDoNotShareCounters(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/api/auth/login", RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), nil), ok)
	r.POST("/api/auth/refresh", RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), nil), ok)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/auth/login", fromIP("10.1.1.1")).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/auth/refresh", fromIP("10.1.1.1")).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/auth/login", fromIP("10.1.1.1")).Code)
}

func TestKeyByUserIDAndPath(t *testing.T) {
	var got string
	r := gin.New()
	r.POST("/api/profile/avatar", func(c *gin.Context) {
		c.Set(CtxUserIDKey, "u-1")
		got = KeyByUserIDAndPath()(c)
	})
	do(r, http.MethodPost, "/api/profile/avatar", nil)
	assert.Equal(t, "rl:path:/api/profile/avatar:user:u-1", got)
}
