package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	viewerKey = "viewer"
	claimsKey = "token_claims"
)

// Authenticator resolves a bearer token to the viewer it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (types.Viewer, *types.TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return authenticate(auth, true)
}

// OptionalAuth lets anonymous requests through but still rejects a
// malformed or invalid token.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return authenticate(auth, false)
}

func authenticate(auth Authenticator, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				abortUnauthorized(c, "authentication credentials were not provided")
				return
			}
			c.Next()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		viewer, claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		c.Set(viewerKey, viewer)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// bearerToken accepts "Bearer <jwt>" and the "Token <jwt>" scheme used by
// the web client.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		return token, true
	}
	return "", false
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}

// GetViewer returns the authenticated viewer, or the anonymous viewer.
func GetViewer(c *gin.Context) types.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(types.Viewer); ok {
			return viewer
		}
	}
	return types.Viewer{}
}

// GetClaims returns the claims of the presented token, if any.
func GetClaims(c *gin.Context) *types.TokenClaims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*types.TokenClaims); ok {
			return claims
		}
	}
	return nil
}
