package services

import (
	"testing"
	"time"

	"card-collection-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newTestDB(t), "test-secret", time.Hour)
}

func TestRegisterUser(t *testing.T) {
	svc := newAuthService(t)

	user, token, err := svc.RegisterUser("ash_ketchum", "ash@test.local", "pikachu123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCommon, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pikachu123")))

	cl, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, cl.UserID)
	assert.Equal(t, models.RoleCommon, cl.Role)
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.RegisterUser("ash", "ash@test.local", "pikachu123")
	require.NoError(t, err)

	_, _, err = svc.RegisterUser("other", "ash@test.local", "pikachu123")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterUserDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.RegisterUser("ash", "ash@test.local", "pikachu123")
	require.NoError(t, err)

	_, _, err = svc.RegisterUser("ash", "other@test.local", "pikachu123")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestRegisterUserBadUsername(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.RegisterUser("ash ketchum!", "ash@test.local", "pikachu123")
	assert.Error(t, err)
}

func TestLoginUser(t *testing.T) {
	svc := newAuthService(t)

	registered, _, err := svc.RegisterUser("ash", "ash@test.local", "pikachu123")
	require.NoError(t, err)

	user, token, err := svc.LoginUser("ash@test.local", "pikachu123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestLoginUserWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.RegisterUser("ash", "ash@test.local", "pikachu123")
	require.NoError(t, err)

	_, _, err = svc.LoginUser("ash@test.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUserUnknownEmail(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.LoginUser("ghost@test.local", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenDeletedUser(t *testing.T) {
	svc := newAuthService(t)

	user, token, err := svc.RegisterUser("ash", "ash@test.local", "pikachu123")
	require.NoError(t, err)

	require.NoError(t, svc.DB.Delete(&models.User{}, "id = ?", user.ID).Error)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := newAuthService(t)
	other := NewAuthService(svc.DB, "other-secret", time.Hour)

	_, token, err := svc.RegisterUser("ash", "ash@test.local", "pikachu123")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret", -time.Minute)

	_, token, err := svc.RegisterUser("ash", "ash@test.local", "pikachu123")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
