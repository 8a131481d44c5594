package api

import (
	"context"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Dependencies collects everything the HTTP handlers call into. Images,
// Cart, the limiters and Health are optional.
type Dependencies struct {
	Auth         service.IAuthService
	Users        service.IUserService
	Follows      service.IFollowService
	Catalog      service.ICatalogService
	Recipes      service.IRecipeService
	Interactions service.IInteractionService
	Images       service.ImageStore
	Cart         CartAggregator

	Pagination          config.PaginationConfig
	CreationLimiter     *middleware.RateLimiter
	ModificationLimiter *middleware.RateLimiter

	// Health reports whether backing stores are reachable.
	Health func(ctx context.Context) error
}

func (d Dependencies) presenter() *presenter {
	return &presenter{
		follows:      d.Follows,
		interactions: d.Interactions,
		images:       d.Images,
	}
}
