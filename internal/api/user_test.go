package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestRegisterAndLogin(t *testing.T) {
	s := setupTestServer(t)

	body := map[string]any{
		"email":      "cook@example.com",
		"username":   "cook",
		"first_name": "Ann",
		"last_name":  "Cook",
		"password":   "pa55word!",
	}
	w := s.do(t, http.MethodPost, "/api/users", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[types.UserResponse](t, w)
	assert.Equal(t, "cook", user.Username)
	assert.NotContains(t, w.Body.String(), "pa55word!")

	w = s.do(t, http.MethodPost, "/api/users", "", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeTaken, decode[types.ErrorResponse](t, w).Error)

	w = s.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]any{"email": "cook@example.com", "password": "pa55word!"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode[types.TokenResponse](t, w).AuthToken
	require.NotEmpty(t, token)

	w = s.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, decode[types.UserResponse](t, w).ID)

	w = s.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]any{"email": "cook@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/api/auth/token/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/token/logout", "", nil).Code)
}

func TestRegisterValidation(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name  string
		patch map[string]any
		field string
	}{
		{"bad email", map[string]any{"email": "nope"}, "email"},
		{"bad username", map[string]any{"username": "two words"}, "username"},
		{"short password", map[string]any{"password": "short"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]any{
				"email":      "x@example.com",
				"username":   "x",
				"first_name": "X",
				"last_name":  "Y",
				"password":   "long-enough",
			}
			for k, v := range tt.patch {
				body[k] = v
			}
			w := s.do(t, http.MethodPost, "/api/users", "", body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decode[types.ErrorResponse](t, w).Fields, tt.field)
		})
	}

	t.Run("reserved username", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/users", "", map[string]any{
			"email":      "me@example.com",
			"username":   "me",
			"first_name": "M",
			"last_name":  "E",
			"password":   "long-enough",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "username", decode[types.ErrorResponse](t, w).Field)
	})
}

func TestListAndGetUsers(t *testing.T) {
	s := setupTestServer(t)
	viewer, token := s.CreateTestUserAndToken(t, "viewer")
	author := testhelpers.CreateUser(t, s.db, "author")
	testhelpers.CreateUser(t, s.db, "bystander")

	w := s.do(t, http.MethodPost, "/api/users/"+author.ID.String()+"/subscribe", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users?limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[types.Page[types.UserResponse]](t, w)
	assert.EqualValues(t, 3, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "author", page.Results[0].Username)
	assert.True(t, page.Results[0].IsSubscribed)
	assert.NotNil(t, page.Next)

	w = s.do(t, http.MethodGet, "/api/users/"+author.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[types.UserResponse](t, w).IsSubscribed, "anonymous viewers follow nobody")

	w = s.do(t, http.MethodGet, "/api/users/"+viewer.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "viewer", decode[types.UserResponse](t, w).Username)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/users/"+uuid.NewString(), "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/users/garbage", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/users/me", "", nil).Code)
}

func TestSetPassword(t *testing.T) {
	s := setupTestServer(t)
	user, token := s.CreateTestUserAndToken(t, "changer")

	w := s.do(t, http.MethodPost, "/api/users/set_password", token, map[string]any{
		"current_password": "not-it",
		"new_password":     "brand-new-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/users/set_password", token, map[string]any{
		"current_password": testhelpers.DefaultPassword,
		"new_password":     "brand-new-pass",
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]any{"email": user.Email, "password": "brand-new-pass"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubscriptions(t *testing.T) {
	s := setupTestServer(t)
	fan, token := s.CreateTestUserAndToken(t, "fan")
	author := testhelpers.CreateUser(t, s.db, "author")
	salt := testhelpers.CreateIngredient(t, s.db, "Salt", "g")
	for _, name := range []string{"One", "Two", "Three"} {
		testhelpers.CreateRecipe(t, s.db, author, name, map[uint]int{salt.ID: 1})
	}
	subscribe := "/api/users/" + author.ID.String() + "/subscribe"

	w := s.do(t, http.MethodPost, subscribe+"?recipes_limit=2", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decode[types.SubscriptionResponse](t, w)
	assert.Equal(t, author.ID, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.EqualValues(t, 3, sub.RecipesCount)
	assert.Len(t, sub.Recipes, 2)

	w = s.do(t, http.MethodPost, subscribe, token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeAlreadyFollowing, decode[types.ErrorResponse](t, w).Error)

	w = s.do(t, http.MethodPost, "/api/users/"+fan.ID.String()+"/subscribe", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeSelfFollow, decode[types.ErrorResponse](t, w).Error)

	w = s.do(t, http.MethodGet, "/api/users/subscriptions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[types.Page[types.SubscriptionResponse]](t, w)
	assert.EqualValues(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Len(t, page.Results[0].Recipes, 3)

	w = s.do(t, http.MethodGet, "/api/users/subscriptions?recipes_limit=0", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[types.Page[types.SubscriptionResponse]](t, w)
	assert.Empty(t, page.Results[0].Recipes)
	assert.EqualValues(t, 3, page.Results[0].RecipesCount)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/users/subscriptions?recipes_limit=-1", token, nil).Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, subscribe, token, nil).Code)
	w = s.do(t, http.MethodDelete, subscribe, token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeNotFollowing, decode[types.ErrorResponse](t, w).Error)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/users/"+uuid.NewString()+"/subscribe", token, nil).Code)
}
