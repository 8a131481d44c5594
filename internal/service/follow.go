package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// AuthorRecipes is the recipe summary embedded in subscription payloads.
type AuthorRecipes struct {
	Count   int64
	Recipes []models.Recipe
}

// FollowService manages subscriptions between users.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Subscribe makes viewer follow the author with id target.
func (s *FollowService) Subscribe(ctx context.Context, viewer types.Viewer, target uuid.UUID) (*models.User, error) {
	if viewer.IsAnonymous() {
		return nil, apperror.Unauthorized("authentication required")
	}
	if viewer.UserID == target {
		return nil, apperror.Validation("author", apperror.CodeSelfFollow, "you cannot subscribe to yourself")
	}

	db := s.db.WithContext(ctx)
	var author models.User
	if err := db.First(&author, "id = ?", target).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("user", target)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := db.Create(&models.Follow{UserID: viewer.UserID, AuthorID: target}).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Validation("author", apperror.CodeAlreadyFollowing, "you are already subscribed to this author")
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	metrics.RecordSubscription("subscribe")
	logging.Ctx(ctx).Debug().Str("user_id", viewer.UserID.String()).Str("author_id", target.String()).Msg("subscribed")
	return &author, nil
}

// Unsubscribe removes the follow relation from viewer to target.
func (s *FollowService) Unsubscribe(ctx context.Context, viewer types.Viewer, target uuid.UUID) error {
	if viewer.IsAnonymous() {
		return apperror.Unauthorized("authentication required")
	}

	db := s.db.WithContext(ctx)
	var exists int64
	if err := db.Model(&models.User{}).Where("id = ?", target).Count(&exists).Error; err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if exists == 0 {
		return apperror.NotFound("user", target)
	}

	result := db.Where("user_id = ? AND author_id = ?", viewer.UserID, target).Delete(&models.Follow{})
	if result.Error != nil {
		return fmt.Errorf("failed to unsubscribe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.Validation("author", apperror.CodeNotFollowing, "you are not subscribed to this author")
	}

	metrics.RecordSubscription("unsubscribe")
	return nil
}

// Subscriptions returns one page of the authors viewer follows, ordered by
// username.
func (s *FollowService) Subscriptions(ctx context.Context, viewer types.Viewer, page types.PageRequest) ([]models.User, int64, error) {
	if viewer.IsAnonymous() {
		return nil, 0, apperror.Unauthorized("authentication required")
	}

	followed := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.User{}).
			Joins("JOIN follows ON follows.author_id = users.id").
			Where("follows.user_id = ?", viewer.UserID)
	}

	var total int64
	if err := followed().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var authors []models.User
	err := followed().Select("users.*").
		Order("users.username").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return authors, total, nil
}

// SubscribedTo reports which of authorIDs the viewer follows. Anonymous
// viewers follow nobody.
func (s *FollowService) SubscribedTo(ctx context.Context, viewer types.Viewer, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(authorIDs))
	if viewer.IsAnonymous() || len(authorIDs) == 0 {
		return out, nil
	}

	var followed []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id IN ?", viewer.UserID, authorIDs).
		Pluck("author_id", &followed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, id := range followed {
		out[id] = true
	}
	return out, nil
}

// AuthorRecipes loads recipe counts and the newest recipes of each author.
// A negative limit returns every recipe.
func (s *FollowService) AuthorRecipes(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID]*AuthorRecipes, error) {
	out := make(map[uuid.UUID]*AuthorRecipes, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	for _, id := range authorIDs {
		out[id] = &AuthorRecipes{Recipes: []models.Recipe{}}
	}

	db := s.db.WithContext(ctx)
	var counts []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	err := db.Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	for _, c := range counts {
		out[c.AuthorID].Count = c.Total
	}

	if limit == 0 {
		return out, nil
	}
	for _, id := range authorIDs {
		if out[id].Count == 0 {
			continue
		}
		query := db.Where("author_id = ?", id).Order("created_at DESC")
		if limit > 0 {
			query = query.Limit(limit)
		}
		var recipes []models.Recipe
		if err := query.Find(&recipes).Error; err != nil {
			return nil, fmt.Errorf("failed to load recipes: %w", err)
		}
		out[id].Recipes = recipes
	}
	return out, nil
}
