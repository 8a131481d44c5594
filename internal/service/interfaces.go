package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (types.Viewer, *types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
}

// IUserService defines the interface for account operations
type IUserService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*models.User, error)
	List(ctx context.Context, page types.PageRequest) ([]models.User, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

// IFollowService defines the interface for subscriptions
type IFollowService interface {
	Subscribe(ctx context.Context, viewer types.Viewer, target uuid.UUID) (*models.User, error)
	Unsubscribe(ctx context.Context, viewer types.Viewer, target uuid.UUID) error
	Subscriptions(ctx context.Context, viewer types.Viewer, page types.PageRequest) ([]models.User, int64, error)
	SubscribedTo(ctx context.Context, viewer types.Viewer, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	AuthorRecipes(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID]*AuthorRecipes, error)
}

// ICatalogService defines the interface for tags and ingredients
type ICatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, viewer types.Viewer, req types.CreateRecipeRequest) (*models.Recipe, error)
	Update(ctx context.Context, viewer types.Viewer, id uuid.UUID, req types.UpdateRecipeRequest) (*models.Recipe, error)
	Delete(ctx context.Context, viewer types.Viewer, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	List(ctx context.Context, viewer types.Viewer, filter types.RecipeFilter, page types.PageRequest) ([]models.Recipe, int64, error)
}

// IInteractionService defines the interface for favorites and the shopping cart
type IInteractionService interface {
	Add(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID, kind InteractionKind) (*models.Recipe, error)
	Remove(ctx context.Context, viewer types.Viewer, recipeID uuid.UUID, kind InteractionKind) error
	Flags(ctx context.Context, viewer types.Viewer, recipeIDs []uuid.UUID) (map[uuid.UUID]RecipeFlags, error)
}

var (
	_ IAuthService        = (*AuthService)(nil)
	_ IUserService        = (*UserService)(nil)
	_ IFollowService      = (*FollowService)(nil)
	_ ICatalogService     = (*CatalogService)(nil)
	_ IRecipeService      = (*RecipeService)(nil)
	_ IInteractionService = (*InteractionService)(nil)
)
