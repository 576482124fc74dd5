package service

import (
	"context"
	"testing"
	"time"

	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/internal/app/repository"
	"github.com/hanbyul/storefront-backend/internal/db"
	"github.com/hanbyul/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-key"

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(userRepo, testJWTSecret, 15*time.Minute, 7*24*time.Hour)

	return authService, testDB
}

func TestAuthService_Register_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, tokens, err := authService.Register("jane@example.com", "password123", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "jane_doe", user.Username)
	assert.Equal(t, model.RoleCustomer, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// Password is stored hashed, never plain
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "password123"))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("jane@example.com", "password123", "Jane Doe")
	require.NoError(t, err)

	_, _, err = authService.Register("jane@example.com", "different456", "Other Jane")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Register_UsernameCollision(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	first, _, err := authService.Register("jane@example.com", "password123", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", first.Username)

	// Same display name on a different email gets a uniquified username
	second, _, err := authService.Register("jane2@example.com", "password123", "Jane Doe")
	require.NoError(t, err)
	assert.NotEqual(t, first.Username, second.Username)
	assert.Contains(t, second.Username, "jane_doe")
}

func TestAuthService_Register_UsernameFromEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	// Blank display name falls back to the email local part
	user, _, err := authService.Register("pat.lee@example.com", "password123", "")
	require.NoError(t, err)
	assert.Equal(t, "pat.lee", user.Username)
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	registered, _, err := authService.Register("jane@example.com", "password123", "Jane Doe")
	require.NoError(t, err)

	user, tokens, err := authService.Login("jane@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)

	// Access token carries the user identity
	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("jane@example.com", "password123", "Jane Doe")
	require.NoError(t, err)

	_, _, err = authService.Login("jane@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	// Unknown email fails identically to a wrong password
	_, _, err := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Logout(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, tokens, err := authService.Register("jane@example.com", "password123", "Jane Doe")
	require.NoError(t, err)

	// Without a revocation store configured logout is a no-op success
	err = authService.Logout(context.Background(), tokens.AccessToken)
	assert.NoError(t, err)
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	registered, _, err := authService.Register("jane@example.com", "password123", "Jane Doe")
	require.NoError(t, err)

	user, err := authService.GetUserByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
