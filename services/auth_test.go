package services

import (
	"context"
	"errors"
	"testing"

	"restaurant-menu-api/apperr"
	"restaurant-menu-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubTokens struct {
	err error
}

func (s stubTokens) GenerateToken(userID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + userID, nil
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newTestDB(t), stubTokens{}).WithHashCost(bcrypt.MinCost)
}

func TestPasswordStrong(t *testing.T) {
	tests := []struct {
		pw   string
		want bool
	}{
		{"Secret1!", true},
		{"secret1!", false},
		{"SECRET1!", false},
		{"Secret!!", false},
		{"Secret11", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PasswordStrong(tt.pw), tt.pw)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Email:          "  Owner@Example.COM ",
		Password:       "Secret1!",
		RestaurantName: " Chez Go ",
	})
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", user.Email)
	assert.Equal(t, "Chez Go", user.RestaurantName)
	assert.Equal(t, models.DefaultTemplateID, user.TemplateID)
	assert.NotEqual(t, "Secret1!", user.PasswordHash)
	_, err = uuid.Parse(user.ID)
	assert.NoError(t, err)

	token, loggedIn, err := svc.Login(ctx, "OWNER@example.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, "token-"+user.ID, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	found, err := svc.FindUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)
}

func TestRegisterRejects(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "Secret1!", RestaurantName: "Taken"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   RegisterInput
		kind apperr.Kind
	}{
		{"duplicate email", RegisterInput{Email: "A@example.com", Password: "Secret1!", RestaurantName: "Other"}, apperr.KindConflict},
		{"short password", RegisterInput{Email: "b@example.com", Password: "Se1!", RestaurantName: "Other"}, apperr.KindValidation},
		{"weak password", RegisterInput{Email: "b@example.com", Password: "secretsecret", RestaurantName: "Other"}, apperr.KindValidation},
		{"short name", RegisterInput{Email: "b@example.com", Password: "Secret1!", RestaurantName: " x "}, apperr.KindValidation},
		{"long name", RegisterInput{Email: "b@example.com", Password: "Secret1!", RestaurantName: "A restaurant name far too long"}, apperr.KindValidation},
		{"blank email", RegisterInput{Email: "  ", Password: "Secret1!", RestaurantName: "Other"}, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assert.True(t, apperr.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestLoginFailures(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "Secret1!", RestaurantName: "Bistro"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@example.com", "Wrong1!!")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	assert.Equal(t, "Invalid email or password", apperr.Message(err))

	_, _, err = svc.Login(ctx, "nobody@example.com", "Secret1!")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = svc.FindUser(ctx, uuid.NewString())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestLoginTokenFailureIsInternal(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, stubTokens{err: errors.New("signing failed")}).WithHashCost(bcrypt.MinCost)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "Secret1!", RestaurantName: "Bistro"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@example.com", "Secret1!")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
