package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/cart"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	mediaDir := t.TempDir()

	cfg := &config.Config{
		Server:     config.ServerConfig{Host: "127.0.0.1", Port: "0", Mode: "test", ReadTimeout: time.Second, WriteTimeout: time.Second},
		Storage:    config.StorageConfig{Driver: "local", MediaDir: mediaDir, MediaURL: "/media"},
		CORS:       config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Pagination: config.PaginationConfig{PageSize: 6, MaxLimit: 100},
	}
	images := service.NewLocalImageStore(mediaDir, cfg.Storage.MediaURL)
	aggregator, err := cart.FromGorm(db)
	require.NoError(t, err)

	srv := New(cfg, api.Dependencies{
		Auth:         service.NewAuthService(db, "test-secret", time.Hour, nil),
		Users:        service.NewUserService(db, nil),
		Follows:      service.NewFollowService(db),
		Catalog:      service.NewCatalogService(db),
		Recipes:      service.NewRecipeService(db, images, config.RecipeConfig{MinCookingTime: 1, MaxCookingTime: 10, MinAmount: 1, MaxAmount: 10}),
		Interactions: service.NewInteractionService(db),
		Images:       images,
		Cart:         aggregator,
		Pagination:   cfg.Pagination,
		Health: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	})
	return srv, mediaDir
}

func serve(srv *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNew(t *testing.T) {
	srv, _ := newTestServer(t)
	require.NotNil(t, srv)

	w := serve(srv, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(srv, http.MethodGet, "/api/tags")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	w := serve(srv, http.MethodGet, "/api/nowhere")
	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	serve(srv, http.MethodGet, "/api/tags")

	w := serve(srv, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "api_requests_total")
}

func TestMediaServed(t *testing.T) {
	srv, mediaDir := newTestServer(t)
	target := filepath.Join(mediaDir, "recipes", "images", "pie.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("png"), 0o644))

	w := serve(srv, http.MethodGet, "/media/recipes/images/pie.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}

func TestShutdownWithoutStart(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.NoError(t, srv.Shutdown(context.Background()))
}
