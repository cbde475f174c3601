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

	"panelsync/internal/domain/reseller"
	"panelsync/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestActor(t *testing.T) {
	var seen reseller.Actor
	engine := gin.New()
	engine.Use(Actor())
	engine.GET("/", func(c *gin.Context) {
		seen = ActorFromContext(c)
		c.Status(http.StatusOK)
	})

	t.Run("no header runs as system", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, seen.IsSystem())
	})

	t.Run("defaults to admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderActorID, "42")
		w := serve(engine, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, reseller.Actor{ID: 42, Type: "admin"}, seen)
	})

	t.Run("reseller actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderActorID, "9")
		req.Header.Set(HeaderActorType, "reseller")
		serve(engine, req)
		assert.Equal(t, reseller.Actor{ID: 9, Type: "reseller"}, seen)
	})

	t.Run("rejects malformed headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderActorID, "abc")
		assert.Equal(t, http.StatusBadRequest, serve(engine, req).Code)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderActorID, "1")
		req.Header.Set(HeaderActorType, "root")
		assert.Equal(t, http.StatusBadRequest, serve(engine, req).Code)
	})
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w = serve(engine, req)
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNopLogger()))
	engine.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRateLimiter(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	limiter := NewRateLimiter(client, 2, time.Minute, logger.NewNopLogger())
	limiter.now = func() time.Time { return time.Unix(600, 0) }

	engine := gin.New()
	engine.POST("/", limiter.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(engine, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(engine, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	mr.Close()
	w = serve(engine, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code, "requests pass when redis is down")
}
