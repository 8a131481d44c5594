package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/validation"
)

// HealthCheck reports the service status. It answers 503 when check fails.
func HealthCheck(check func(c *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c); err != nil {
				logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Foodgram API is running",
		})
	}
}

// RegisterRoutes mounts every API endpoint under /api.
func RegisterRoutes(router *gin.Engine, deps Dependencies) *gin.RouterGroup {
	validation.RegisterGinValidations()

	health := HealthCheck(func(c *gin.Context) error {
		if deps.Health == nil {
			return nil
		}
		return deps.Health(c.Request.Context())
	})
	router.GET("/health", health)

	group := router.Group("/api")
	group.GET("/health", health)

	NewAuthHandler(deps.Auth).RegisterRoutes(group)
	NewUserHandler(deps).RegisterRoutes(group)
	NewCatalogHandler(deps.Catalog).RegisterRoutes(group)
	NewRecipeHandler(deps).RegisterRoutes(group)

	if deps.CreationLimiter != nil || deps.ModificationLimiter != nil {
		RegisterRateLimitRoutes(group, deps.Auth, deps.CreationLimiter, deps.ModificationLimiter)
	}
	return group
}

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, auth middleware.Authenticator, creationLimiter, modificationLimiter *middleware.RateLimiter) {
	rateLimits := router.Group("/rate-limits")
	rateLimits.Use(middleware.AuthMiddleware(auth))
	{
		if creationLimiter != nil {
			rateLimits.GET("/recipe-creation", func(c *gin.Context) {
				respondLimit(c, creationLimiter, middleware.GetViewer(c).UserID.String())
			})
		}
		if modificationLimiter != nil {
			rateLimits.GET("/recipe-modification/:id", func(c *gin.Context) {
				if _, ok := recipeID(c); !ok {
					return
				}
				respondLimit(c, modificationLimiter, middleware.GetViewer(c).UserID.String()+":"+c.Param("id"))
			})
		}
	}
}

func respondLimit(c *gin.Context, limiter *middleware.RateLimiter, key string) {
	status, err := limiter.GetRemainingRequests(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
