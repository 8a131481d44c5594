package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/types"
)

type stubAuthenticator struct {
	tokens map[string]types.Viewer
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (types.Viewer, *types.TokenClaims, error) {
	viewer, ok := s.tokens[token]
	if !ok {
		return types.Viewer{}, nil, apperror.Unauthorized("invalid or expired token")
	}
	return viewer, &types.TokenClaims{UserID: viewer.UserID, Username: "someone"}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		viewer := GetViewer(c)
		c.JSON(http.StatusOK, gin.H{
			"anonymous":  viewer.IsAnonymous(),
			"staff":      viewer.IsStaff,
			"has_claims": GetClaims(c) != nil,
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	user := types.Viewer{UserID: uuid.New(), IsStaff: true}
	auth := stubAuthenticator{tokens: map[string]types.Viewer{"good": user}}

	tests := []struct {
		name       string
		header     string
		required   bool
		wantStatus int
		wantBody   string
	}{
		{"required without header", "", true, http.StatusUnauthorized, `"error":"unauthorized"`},
		{"optional without header", "", false, http.StatusOK, `"anonymous":true`},
		{"bearer token", "Bearer good", true, http.StatusOK, `"staff":true`},
		{"token scheme", "Token good", true, http.StatusOK, `"has_claims":true`},
		{"bad scheme", "Basic good", true, http.StatusUnauthorized, "invalid authorization header format"},
		{"missing token", "Bearer ", false, http.StatusUnauthorized, "invalid authorization header format"},
		{"invalid token on optional route", "Bearer bad", false, http.StatusUnauthorized, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := OptionalAuth(auth)
			if tt.required {
				mw = AuthMiddleware(auth)
			}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newAuthRouter(mw).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestGetViewerDefaultsToAnonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.True(t, GetViewer(c).IsAnonymous())
	assert.Nil(t, GetClaims(c))
}

func TestAuthStoresOnlyViewerAndClaims(t *testing.T) {
	user := types.Viewer{UserID: uuid.New()}
	auth := stubAuthenticator{tokens: map[string]types.Viewer{"good": user}}

	var keys []string
	r := gin.New()
	r.GET("/", AuthMiddleware(auth), func(c *gin.Context) {
		for k := range c.Keys {
			keys = append(keys, k)
		}
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.ElementsMatch(t, []string{viewerKey, claimsKey}, keys)
}
