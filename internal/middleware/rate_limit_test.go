package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func limitedRouter(rl *RateLimiter, viewer types.Viewer) *gin.Engine {
	r := gin.New()
	r.POST("/recipes/:id", func(c *gin.Context) {
		if !viewer.IsAnonymous() {
			c.Set(viewerKey, viewer)
		}
		c.Next()
	}, rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	rl := NewRecipeCreationRateLimiter(nil, config.RateLimitConfig{RecipeCreationLimit: 1, RecipeCreationWindow: time.Hour})
	router := limitedRouter(rl, types.Viewer{})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes/1", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRateLimiterEnforcesLimit(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewRecipeModificationRateLimiter(client, config.RateLimitConfig{
		RecipeModificationLimit:  2,
		RecipeModificationWindow: time.Hour,
	})
	router := limitedRouter(rl, types.Viewer{UserID: uuid.New()})

	send := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		return w
	}

	first := send("/recipes/a")
	require.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, send("/recipes/a").Code)

	blocked := send("/recipes/a")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, send("/recipes/b").Code, "counters are per recipe")
}

func TestRateLimiterRequiresViewer(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewRecipeCreationRateLimiter(client, config.RateLimitConfig{RecipeCreationLimit: 5, RecipeCreationWindow: time.Hour})

	w := httptest.NewRecorder()
	limitedRouter(rl, types.Viewer{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes/1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetRemainingRequests(t *testing.T) {
	disabled := NewRecipeCreationRateLimiter(nil, config.RateLimitConfig{RecipeCreationLimit: 3, RecipeCreationWindow: time.Hour})
	status, err := disabled.GetRemainingRequests(context.Background(), "anyone")
	require.NoError(t, err)
	assert.False(t, status.Enabled)

	client := testhelpers.SetupRedis(t)
	rl := NewRecipeCreationRateLimiter(client, config.RateLimitConfig{RecipeCreationLimit: 3, RecipeCreationWindow: time.Hour})
	viewer := types.Viewer{UserID: uuid.New()}

	status, err = rl.GetRemainingRequests(context.Background(), viewer.UserID.String())
	require.NoError(t, err)
	assert.True(t, status.Enabled)
	assert.Equal(t, 3, status.Remaining)

	w := httptest.NewRecorder()
	limitedRouter(rl, viewer).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes/1", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	status, err = rl.GetRemainingRequests(context.Background(), viewer.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, status.Remaining)
	assert.Equal(t, "1h0m0s", status.Window)
}
