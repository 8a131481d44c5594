package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves accounts and subscriptions.
type UserHandler struct {
	users      service.IUserService
	follows    service.IFollowService
	presenter  *presenter
	pagination config.PaginationConfig
	auth       middleware.Authenticator
}

func NewUserHandler(deps Dependencies) *UserHandler {
	return &UserHandler{
		users:      deps.Users,
		follows:    deps.Follows,
		presenter:  deps.presenter(),
		pagination: deps.Pagination,
		auth:       deps.Auth,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.auth)
	optional := middleware.OptionalAuth(h.auth)

	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", optional, h.ListUsers)
		users.GET("/me", authRequired, h.Me)
		users.POST("/set_password", authRequired, h.SetPassword)
		users.GET("/subscriptions", authRequired, h.Subscriptions)
		users.GET("/:id", optional, h.GetUser)
		users.POST("/:id/subscribe", authRequired, h.Subscribe)
		users.DELETE("/:id/subscribe", authRequired, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userResponse(user, false))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := parsePage(c, h.pagination)
	if err != nil {
		respondError(c, err)
		return
	}
	users, total, err := h.users.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.presenter.users(c.Request.Context(), middleware.GetViewer(c), users)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, total, results))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	h.respondUser(c, id)
}

func (h *UserHandler) Me(c *gin.Context) {
	h.respondUser(c, middleware.GetViewer(c).UserID)
}

func (h *UserHandler) respondUser(c *gin.Context, id uuid.UUID) {
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.presenter.user(c.Request.Context(), middleware.GetViewer(c), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	viewer := middleware.GetViewer(c)
	if err := h.users.SetPassword(c.Request.Context(), viewer.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the viewer follows together with their
// newest recipes, trimmed by ?recipes_limit.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, err := parsePage(c, h.pagination)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}

	viewer := middleware.GetViewer(c)
	authors, total, err := h.follows.Subscriptions(c.Request.Context(), viewer, page)
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.presenter.subscriptions(c.Request.Context(), authors, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, total, results))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}

	author, err := h.follows.Subscribe(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.presenter.subscriptions(c.Request.Context(), []models.User{*author}, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, results[0])
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := h.follows.Unsubscribe(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperror.NotFound("user", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

// recipesLimit reads ?recipes_limit. Absent means every recipe.
func recipesLimit(c *gin.Context) (int, error) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.Validation("recipes_limit", apperror.CodeInvalid, "recipes_limit must be a non-negative integer")
	}
	return n, nil
}
