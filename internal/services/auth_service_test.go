package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mfgdash/internal/models"
	"mfgdash/internal/repositories"
	"mfgdash/internal/services"
)

const testJWTSecret = "test_jwt_secret"

func validRegistration() services.RegisterInput {
	return services.RegisterInput{
		Name:     "Alice",
		Email:    "A@B.com",
		Password: "longenough1",
		Confirm:  "longenough1",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hash, never the password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

		mockRepo.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "a@b.com" &&
				u.Role == models.RoleUser &&
				u.PasswordHash != "longenough1" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("longenough1")) == nil
		})).Return(nil).Once()

		user, err := authService.Register(ctx, validRegistration())
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects a taken email case-insensitively", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

		mockRepo.On("GetByEmail", mock.Anything, "a@b.com").Return(&models.User{ID: 1, Email: "a@b.com"}, nil).Once()

		_, err := authService.Register(ctx, validRegistration())
		assert.ErrorIs(t, err, services.ErrEmailTaken)

		var verr *services.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Email already registered.", verr.Fields["email"])
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("maps a unique violation on insert to a taken email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

		mockRepo.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
			Return(fmt.Errorf("failed to create user a@b.com: %w", repositories.ErrDuplicate)).Once()

		_, err := authService.Register(ctx, validRegistration())
		assert.ErrorIs(t, err, services.ErrEmailTaken)
	})

	t.Run("reports field errors", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

		_, err := authService.Register(ctx, services.RegisterInput{
			Name:     "A",
			Email:    "not-an-email",
			Password: "short",
			Confirm:  "different",
		})

		var verr *services.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "name")
		assert.Equal(t, "Invalid email address.", verr.Fields["email"])
		assert.Equal(t, "Must be at least 8 characters long.", verr.Fields["password"])
		assert.Equal(t, "Passwords must match.", verr.Fields["confirm"])
		assert.Contains(t, err.Error(), "validation failed")
		mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("longenough1"), bcrypt.DefaultCost)
	user := &models.User{ID: 7, Email: "a@b.com", PasswordHash: string(hashedPassword), Role: models.RoleUser}

	mockRepo.On("GetByEmail", mock.Anything, "a@b.com").Return(user, nil)
	mockRepo.On("GetByEmail", mock.Anything, "nobody@b.com").
		Return(nil, fmt.Errorf("failed to get user by email nobody@b.com: %w", repositories.ErrNotFound))

	got, err := authService.Authenticate(ctx, services.LoginInput{Email: " A@B.COM ", Password: "longenough1"})
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.ID)

	_, err = authService.Authenticate(ctx, services.LoginInput{Email: "a@b.com", Password: "wrongpassword"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = authService.Authenticate(ctx, services.LoginInput{Email: "nobody@b.com", Password: "longenough1"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Equal(t, "invalid credentials", err.Error())

	_, err = authService.Authenticate(ctx, services.LoginInput{Email: "", Password: ""})
	var verr *services.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestAuthService_Tokens(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	user := &models.User{ID: 9, Email: "a@b.com", Role: models.RoleAdmin}
	token, err := authService.IssueToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims["email"])
	assert.Equal(t, "admin", claims["role"])
	id, err := services.UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, uint(9), id)

	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorContains(t, err, "invalid token")

	other := services.NewAuthService(mockRepo, "another_secret", time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorContains(t, err, "invalid token")

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 9,
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.ErrorContains(t, err, "invalid token")

	_, err = services.UserIDFromClaims(jwt.MapClaims{"email": "a@b.com"})
	assert.Error(t, err)
}
