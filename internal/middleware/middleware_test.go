package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"
	"coursestream/internal/infrastructure/security"
	"coursestream/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoAmI(c *gin.Context) {
	actor, ok := Actor(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID.String(), "role": actor.Role})
}

func TestAuthMiddleware(t *testing.T) {
	tm := security.NewTokenManager("access", "refresh")
	userID := uuid.New()
	access, refresh, err := tm.Generate(userID, domain.RoleUser)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthMiddleware(tm), whoAmI)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + access, http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + access, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)

			if tt.code == http.StatusOK {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, userID.String(), body["user_id"])
				assert.Equal(t, "user", body["role"])
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tm := security.NewTokenManager("access", "refresh")
	access, _, err := tm.Generate(uuid.New(), domain.RoleAdmin)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", OptionalAuth(tm), whoAmI)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestRequireAdmin(t *testing.T) {
	tm := security.NewTokenManager("access", "refresh")
	r := gin.New()
	r.GET("/admin", AuthMiddleware(tm), RequireAdmin(), whoAmI)

	for role, code := range map[domain.Role]int{
		domain.RoleUser:  http.StatusForbidden,
		domain.RoleAdmin: http.StatusOK,
	} {
		access, _, err := tm.Generate(uuid.New(), role)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, code, w.Code, string(role))
	}
}

func TestRateLimiter(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	limiter := NewRateLimiter(rdb, logger.Discard())

	r := gin.New()
	r.POST("/login", limiter.Limit("login", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	hit := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		return w
	}

	assert.Equal(t, http.StatusNoContent, hit().Code)
	assert.Equal(t, http.StatusNoContent, hit().Code)

	w := hit()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var body struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retry_after"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 60, body.RetryAfter)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "rate_limit:login:")

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusNoContent, hit().Code)
}

func TestRateLimiterRepairsMissingWindow(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	limiter := NewRateLimiter(rdb, logger.Discard())

	r := gin.New()
	r.POST("/login", limiter.Limit("login", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	hit := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		return w.Code
	}

	// counter left without an expiry by a failed EXPIRE
	key := "rate_limit:login:192.0.2.1"
	require.NoError(t, mr.Set(key, "7"))
	require.Zero(t, mr.TTL(key))

	assert.Equal(t, http.StatusTooManyRequests, hit())
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusNoContent, hit())
}

func TestRateLimiterFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	limiter := NewRateLimiter(rdb, logger.Discard())

	r := gin.New()
	r.GET("/", limiter.Limit("any", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
