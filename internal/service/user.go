package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

type UserService struct {
	db        *gorm.DB
	forbidden map[string]struct{}
	hashCost  int
}

// NewUserService creates a UserService that refuses to register any of the
// forbidden usernames (compared case-insensitively).
func NewUserService(db *gorm.DB, forbiddenUsernames []string) *UserService {
	forbidden := make(map[string]struct{}, len(forbiddenUsernames))
	for _, name := range forbiddenUsernames {
		forbidden[strings.ToLower(name)] = struct{}{}
	}
	return &UserService{db: db, forbidden: forbidden, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

func (s *UserService) Register(ctx context.Context, req types.RegisterRequest) (*models.User, error) {
	if _, bad := s.forbidden[strings.ToLower(req.Username)]; bad {
		return nil, apperror.Validation("username", apperror.CodeInvalid, fmt.Sprintf("username %q is not allowed", req.Username))
	}
	if !validation.ValidUsername(req.Username) {
		return nil, apperror.Validation("username", apperror.CodeInvalid, "username may contain only letters, digits and @/./+/-/_")
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureFree(db, "email", req.Email); err != nil {
		return nil, err
	}
	if err := s.ensureFree(db, "username", req.Username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Validation("username", apperror.CodeTaken, "a user with that username or email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	return &user, nil
}

func (s *UserService) ensureFree(db *gorm.DB, column, value string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("LOWER("+column+") = LOWER(?)", value).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check %s: %w", column, err)
	}
	if count > 0 {
		return apperror.Validation(column, apperror.CodeTaken, fmt.Sprintf("a user with that %s already exists", column))
	}
	return nil
}

// List returns one page of users ordered by username.
func (s *UserService) List(ctx context.Context, page types.PageRequest) ([]models.User, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := db.Order("username").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// SetPassword replaces the password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperror.Validation("current_password", apperror.CodeInvalid, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// CreateAdmin registers a staff account, bypassing the forbidden name list.
func (s *UserService) CreateAdmin(ctx context.Context, req types.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		IsStaff:      true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Validation("username", apperror.CodeTaken, "a user with that username or email already exists")
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return &user, nil
}
