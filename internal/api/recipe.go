package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/cart"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// CartAggregator merges the shopping cart of one user into export lines.
type CartAggregator interface {
	Aggregate(ctx context.Context, userID uuid.UUID) ([]cart.Line, error)
}

type RecipeHandler struct {
	recipes             service.IRecipeService
	interactions        service.IInteractionService
	cart                CartAggregator
	presenter           *presenter
	pagination          config.PaginationConfig
	auth                middleware.Authenticator
	creationLimiter     *middleware.RateLimiter
	modificationLimiter *middleware.RateLimiter
}

func NewRecipeHandler(deps Dependencies) *RecipeHandler {
	return &RecipeHandler{
		recipes:             deps.Recipes,
		interactions:        deps.Interactions,
		cart:                deps.Cart,
		presenter:           deps.presenter(),
		pagination:          deps.Pagination,
		auth:                deps.Auth,
		creationLimiter:     deps.CreationLimiter,
		modificationLimiter: deps.ModificationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.auth)
	create := []gin.HandlerFunc{authRequired}
	modify := []gin.HandlerFunc{authRequired}
	if h.creationLimiter != nil {
		create = append(create, h.creationLimiter.RateLimitMiddleware())
	}
	if h.modificationLimiter != nil {
		modify = append(modify, h.modificationLimiter.RateLimitMiddleware())
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuth(h.auth), h.ListRecipes)
		recipes.POST("", append(create, h.CreateRecipe)...)
		recipes.GET("/shopping_cart/download", authRequired, h.DownloadShoppingCart)
		recipes.GET("/download_shopping_cart", authRequired, h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuth(h.auth), h.GetRecipe)
		recipes.PATCH("/:id", append(modify, h.UpdateRecipe)...)
		recipes.DELETE("/:id", append(modify, h.DeleteRecipe)...)
		recipes.POST("/:id/favorite", authRequired, h.addTo(service.KindFavorite))
		recipes.DELETE("/:id/favorite", authRequired, h.removeFrom(service.KindFavorite))
		recipes.POST("/:id/shopping_cart", authRequired, h.addTo(service.KindCart))
		recipes.DELETE("/:id/shopping_cart", authRequired, h.removeFrom(service.KindCart))
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	filter, err := parseRecipeFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := parsePage(c, h.pagination)
	if err != nil {
		respondError(c, err)
		return
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), viewer, filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.presenter.recipes(c.Request.Context(), viewer, recipes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, total, results))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), middleware.GetViewer(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusCreated, recipe)
}

// UpdateRecipe applies a partial update. Fields outside the request type,
// such as author, are dropped by binding.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), middleware.GetViewer(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addTo(kind service.InteractionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recipeID(c)
		if !ok {
			return
		}
		recipe, err := h.interactions.Add(c.Request.Context(), middleware.GetViewer(c), id, kind)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, h.presenter.minified(recipe))
	}
}

func (h *RecipeHandler) removeFrom(kind service.InteractionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recipeID(c)
		if !ok {
			return
		}
		if err := h.interactions.Remove(c.Request.Context(), middleware.GetViewer(c), id, kind); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart streams the merged ingredient list as an attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	format, err := cart.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, apperror.Validation("format", apperror.CodeInvalid, err.Error()))
		return
	}

	viewer := middleware.GetViewer(c)
	lines, err := h.cart.Aggregate(c.Request.Context(), viewer.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := cart.Write(&buf, format, lines); err != nil {
		respondError(c, err)
		return
	}

	metrics.RecordCartDownload(string(format))
	logging.Ctx(c.Request.Context()).Info().
		Str("user_id", viewer.UserID.String()).
		Str("format", string(format)).
		Int("lines", len(lines)).
		Msg("shopping cart downloaded")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *RecipeHandler) respondRecipe(c *gin.Context, status int, recipe *models.Recipe) {
	resp, err := h.presenter.recipe(c.Request.Context(), middleware.GetViewer(c), recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, resp)
}

// recipeID parses the :id parameter. A malformed id cannot name an existing
// recipe, so it is reported as not found.
func recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperror.NotFound("recipe", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

func parseRecipeFilter(c *gin.Context) (types.RecipeFilter, error) {
	var filter types.RecipeFilter

	if raw := c.Query("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, apperror.Validation("author", apperror.CodeInvalid, "author must be a user id")
		}
		filter.AuthorID = &id
	}

	for _, slug := range c.QueryArray("tags") {
		if slug = strings.TrimSpace(slug); slug != "" {
			filter.TagSlugs = append(filter.TagSlugs, slug)
		}
	}

	var err error
	if filter.IsFavorited, err = queryFlag(c, "is_favorited"); err != nil {
		return filter, err
	}
	if filter.IsInShoppingCart, err = queryFlag(c, "is_in_shopping_cart"); err != nil {
		return filter, err
	}
	return filter, nil
}

// queryFlag reads a 1/0/true/false query parameter; absent means nil.
func queryFlag(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	var v bool
	switch strings.ToLower(raw) {
	case "1", "true":
		v = true
	case "0", "false":
		v = false
	default:
		return nil, apperror.Validation(name, apperror.CodeInvalid, name+" must be 0 or 1")
	}
	return &v, nil
}
