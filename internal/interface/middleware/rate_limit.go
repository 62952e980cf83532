package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/oksasatya/factory-erp/pkg/response"
)

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIP limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ClientIP(c)
	}
}

// KeyByIPAndPath limits by client IP and route pattern
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ClientIP(c)
	}
}

// KeyByUserIDAndPath limits each caller per route pattern, for endpoints
// stricter than the group-wide user limit.
func KeyByUserIDAndPath() KeyFunc {
	user := KeyByUserID()
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":" + user(c)[len("rl:"):]
	}
}

func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := UserID(c)
		if uid == "" {
			return "rl:user:anon:ip:" + ClientIP(c)
		}
		return "rl:user:" + uid
	}
}

// atomic INCR, set PEXPIRE on first hit
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type AllowFunc func(*gin.Context) bool // return true for bypass limit

// RateLimit allows max requests per window and key.
// With redis the counter is a fixed window shared by all instances; without it
// a per-process token bucket is used. Redis errors fail open.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	var check func(c *gin.Context, key string) (remaining, resetSec int, ok bool)
	if rdb != nil {
		check = redisCheck(rdb, max, window)
	} else {
		check = newLocalLimiter(max, window).check
	}

	return func(c *gin.Context) {
		if allow != nil && allow(c) {
			c.Next()
			return
		}
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		remaining, resetSec, ok := check(c, keyFn(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if !ok {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

func redisCheck(rdb *redis.Client, max int, window time.Duration) func(*gin.Context, string) (int, int, bool) {
	return func(c *gin.Context, key string) (int, int, bool) {
		ctx := c.Request.Context()
		countI, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Result()
		if err != nil {
			return max, 0, true
		}
		count := toInt(countI)

		resetSec := 0
		if ttl, _ := rdb.PTTL(ctx, key).Result(); ttl > 0 {
			resetSec = int((ttl + time.Second - 1) / time.Second)
		}
		return maxInt(max-count, 0), resetSec, count <= max
	}
}

type localEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// localLimiter keeps one token bucket per key and drops idle buckets.
type localLimiter struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	max     int
	window  time.Duration
	every   rate.Limit
	swept   time.Time
}

func newLocalLimiter(max int, window time.Duration) *localLimiter {
	return &localLimiter{
		entries: make(map[string]*localEntry),
		max:     max,
		window:  window,
		every:   rate.Every(window / time.Duration(max)),
	}
}

func (l *localLimiter) check(_ *gin.Context, key string) (int, int, bool) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) > l.window {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > l.window {
				delete(l.entries, k)
			}
		}
		l.swept = now
	}

	e, found := l.entries[key]
	if !found {
		e = &localEntry{lim: rate.NewLimiter(l.every, l.max)}
		l.entries[key] = e
	}
	e.lastSeen = now

	ok := e.lim.AllowN(now, 1)
	remaining := maxInt(int(e.lim.TokensAt(now)), 0)
	resetSec := 0
	if !ok {
		resetSec = int((time.Duration(float64(time.Second)/float64(l.every)) + time.Second - 1) / time.Second)
	}
	return remaining, resetSec, ok
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func toInt(v interface{}) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
