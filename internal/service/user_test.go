package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func registration(username string) types.RegisterRequest {
	return types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Vasya",
		LastName:  "Pupkin",
		Password:  "correct-horse",
	}
}

func TestRegister(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db, []string{"me"}).WithHashCost(bcrypt.MinCost)
	ctx := context.Background()

	user, err := svc.Register(ctx, registration("vasya"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.IsStaff)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))

	tests := []struct {
		name  string
		req   types.RegisterRequest
		field string
		code  string
	}{
		{"reserved name", registration("ME"), "username", apperror.CodeInvalid},
		{"bad characters", registration("va sya"), "username", apperror.CodeInvalid},
		{"username taken", func() types.RegisterRequest {
			r := registration("vasya")
			r.Email = "other@example.com"
			return r
		}(), "username", apperror.CodeTaken},
		{"email taken", func() types.RegisterRequest {
			r := registration("petya")
			r.Email = "VASYA@example.com"
			return r
		}(), "email", apperror.CodeTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			require.ErrorIs(t, err, apperror.ErrValidation)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestListAndGetUsers(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db, nil)
	ctx := context.Background()

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		testhelpers.CreateUser(t, db, name)
	}

	users, total, err := svc.List(ctx, types.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "alpha", users[0].Username)
	assert.Equal(t, "bravo", users[1].Username)

	got, err := svc.Get(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Username)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSetPassword(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db, nil).WithHashCost(bcrypt.MinCost)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "forgetful")

	err := svc.SetPassword(ctx, user.ID, "wrong", "new-password")
	require.ErrorIs(t, err, apperror.ErrValidation)

	require.NoError(t, svc.SetPassword(ctx, user.ID, testhelpers.DefaultPassword, "new-password"))

	reloaded, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.PasswordHash), []byte("new-password")))
}

func TestCreateAdmin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db, []string{"admin"}).WithHashCost(bcrypt.MinCost)

	admin, err := svc.CreateAdmin(context.Background(), registration("admin"))
	require.NoError(t, err)
	assert.True(t, admin.IsStaff)

	_, err = svc.CreateAdmin(context.Background(), registration("admin"))
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
