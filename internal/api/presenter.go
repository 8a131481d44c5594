package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// presenter turns models into viewer-relative responses. Flags and
// is_subscribed are resolved with one batched lookup per call.
type presenter struct {
	follows      service.IFollowService
	interactions service.IInteractionService
	images       service.ImageStore
}

func (p *presenter) imageURL(key string) string {
	if key == "" || p.images == nil {
		return key
	}
	return p.images.URL(key)
}

func userResponse(u *models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func (p *presenter) users(ctx context.Context, viewer types.Viewer, users []models.User) ([]types.UserResponse, error) {
	ids := make([]uuid.UUID, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subscribed, err := p.follows.SubscribedTo(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.UserResponse, len(users))
	for i := range users {
		out[i] = userResponse(&users[i], subscribed[users[i].ID])
	}
	return out, nil
}

func (p *presenter) user(ctx context.Context, viewer types.Viewer, u *models.User) (types.UserResponse, error) {
	out, err := p.users(ctx, viewer, []models.User{*u})
	if err != nil {
		return types.UserResponse{}, err
	}
	return out[0], nil
}

func (p *presenter) recipes(ctx context.Context, viewer types.Viewer, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	recipeIDs := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	seen := make(map[uuid.UUID]bool, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		if !seen[r.AuthorID] {
			seen[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	flags, err := p.interactions.Flags(ctx, viewer, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := p.follows.SubscribedTo(ctx, viewer, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeResponse, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}
		ingredients := make([]types.RecipeIngredientResponse, len(r.Ingredients))
		for j, ri := range r.Ingredients {
			ingredients[j] = types.RecipeIngredientResponse{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			}
		}
		out[i] = types.RecipeResponse{
			ID:               r.ID,
			Tags:             tags,
			Author:           userResponse(&r.Author, subscribed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      flags[r.ID].Favorited,
			IsInShoppingCart: flags[r.ID].InCart,
			Name:             r.Name,
			Image:            p.imageURL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.CreatedAt,
		}
	}
	return out, nil
}

func (p *presenter) recipe(ctx context.Context, viewer types.Viewer, r *models.Recipe) (types.RecipeResponse, error) {
	out, err := p.recipes(ctx, viewer, []models.Recipe{*r})
	if err != nil {
		return types.RecipeResponse{}, err
	}
	return out[0], nil
}

func (p *presenter) minified(r *models.Recipe) types.RecipeMinified {
	return types.RecipeMinified{
		ID:          r.ID,
		Name:        r.Name,
		Image:       p.imageURL(r.Image),
		CookingTime: r.CookingTime,
	}
}

// subscriptions renders followed authors with up to limit of their newest
// recipes. Every author in the list is followed by the viewer.
func (p *presenter) subscriptions(ctx context.Context, authors []models.User, limit int) ([]types.SubscriptionResponse, error) {
	ids := make([]uuid.UUID, len(authors))
	for i := range authors {
		ids[i] = authors[i].ID
	}
	summaries, err := p.follows.AuthorRecipes(ctx, ids, limit)
	if err != nil {
		return nil, err
	}

	out := make([]types.SubscriptionResponse, len(authors))
	for i := range authors {
		sub := types.SubscriptionResponse{
			UserResponse: userResponse(&authors[i], true),
			Recipes:      []types.RecipeMinified{},
		}
		if summary, ok := summaries[authors[i].ID]; ok {
			sub.RecipesCount = summary.Count
			for j := range summary.Recipes {
				sub.Recipes = append(sub.Recipes, p.minified(&summary.Recipes[j]))
			}
		}
		out[i] = sub
	}
	return out, nil
}
