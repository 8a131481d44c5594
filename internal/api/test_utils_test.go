package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/cart"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const testMediaURL = "http://media.test/media"

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer is the full router wired to real services over sqlite.
type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)
	images := service.NewLocalImageStore(t.TempDir(), testMediaURL)
	aggregator, err := cart.FromGorm(db)
	require.NoError(t, err)

	router := gin.New()
	RegisterRoutes(router, Dependencies{
		Auth:         auth,
		Users:        service.NewUserService(db, []string{"me"}).WithHashCost(bcrypt.MinCost),
		Follows:      service.NewFollowService(db),
		Catalog:      service.NewCatalogService(db),
		Recipes:      service.NewRecipeService(db, images, config.RecipeConfig{MinCookingTime: 1, MaxCookingTime: 32000, MinAmount: 1, MaxAmount: 32000}),
		Interactions: service.NewInteractionService(db),
		Images:       images,
		Cart:         aggregator,
		Pagination:   config.PaginationConfig{PageSize: 6, MaxLimit: 100},
	})
	return &testServer{router: router, db: db, auth: auth}
}

// CreateTestUserAndToken inserts a user and signs a token for it.
func (s *testServer) CreateTestUserAndToken(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, s.db, name)
	return user, s.token(t, user)
}

func (s *testServer) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := s.auth.GenerateToken(user)
	require.NoError(t, err)
	return token
}

// do sends a request with an optional JSON body and Token authorization.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func imageDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nfake"))
}
