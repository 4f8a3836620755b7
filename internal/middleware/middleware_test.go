package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-booking-client/internal/config"
	"github.com/iliyamo/movie-booking-client/internal/utils"
)

func TestVisitorAuth(t *testing.T) {
	e := echo.New()
	h := VisitorAuth("s")(func(c echo.Context) error {
		return c.String(http.StatusOK, VisitorID(c)+"/"+Role(c))
	})

	tok, err := utils.NewVisitorToken("s", "v-1", utils.RoleMember, time.Hour)
	require.NoError(t, err)

	for _, tc := range []struct {
		header string
		status int
		body   string
	}{
		{"", http.StatusUnauthorized, ""},
		{"Bearer nope", http.StatusUnauthorized, ""},
		{"Bearer " + tok.Token, http.StatusOK, "v-1/MEMBER"},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, h(e.NewContext(req, rec)))
		assert.Equal(t, tc.status, rec.Code, tc.header)
		if tc.body != "" {
			assert.Equal(t, tc.body, rec.Body.String())
		}
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	h := RequireRole(utils.RoleMember)(func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set(ctxRole, utils.RoleGuest)
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set(ctxRole, utils.RoleMember)
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// kv fakes the two Redis commands the cache uses.
type kv struct {
	redis.Cmdable
	data map[string][]byte
}

func (k *kv) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := k.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (k *kv) Set(ctx context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	k.data[key] = value.([]byte)
	return redis.NewStatusResult("OK", nil)
}

func TestCatalogCache_MissThenHit(t *testing.T) {
	e := echo.New()
	store := &kv{data: map[string][]byte{}}
	calls := 0
	e.GET("/v1/movies/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
	}, CatalogCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "catalog"}, store))

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	first := get("/v1/movies/1")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get("/v1/movies/1")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	other := get("/v1/movies/2")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
	assert.Len(t, store.data, 2)
}

func TestCatalogCache_SkipsErrors(t *testing.T) {
	e := echo.New()
	store := &kv{data: map[string][]byte{}}
	e.GET("/v1/banners", func(c echo.Context) error {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "down"})
	}, CatalogCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, Prefix: "catalog"}, store))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/banners", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, store.data)
}

// bucket answers the token bucket script with a fixed result.
type bucket struct {
	redis.Scripter
	result []interface{}
	keys   []string
}

func (b *bucket) EvalSha(ctx context.Context, sha string, keys []string, args ...interface{}) *redis.Cmd {
	b.keys = append(b.keys, keys...)
	return redis.NewCmdResult(b.result, nil)
}

func TestSessionRateLimit(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 30, RefillTokens: 5, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl"}
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	allow := &bucket{result: []interface{}{int64(1), int64(29), int64(0)}}
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	c.SetPath("/v1/session/seats/:seatId/toggle")
	c.Set(ctxVisitorID, "v-1")
	require.NoError(t, SessionRateLimit(cfg, allow)(ok)(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "29", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, []string{"rl:visitor:v-1:POST /v1/session/seats/:seatId/toggle"}, allow.keys)

	deny := &bucket{result: []interface{}{int64(0), int64(0), int64(1500)}}
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	require.NoError(t, SessionRateLimit(cfg, deny)(ok)(c))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}
