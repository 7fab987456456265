package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/config"
	"github.com/room911/access-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.AccessToken{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 60,
	}
}

func seedUser(t *testing.T, db *gorm.DB, email, password string, active bool) *models.User {
	t.Helper()

	hash, err := HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Name:              "Test User",
		Email:             email,
		EncryptedPassword: hash,
		Active:            active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestAuthService_Login(t *testing.T) {
	db := testDB(t)
	service := NewAuthService(testConfig())
	user := seedUser(t, db, "admin@room911.local", "secret123", true)

	result, err := service.Login(context.Background(), db, "admin@room911.local", "secret123")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	// A backing token row exists with the same expiry.
	var token models.AccessToken
	require.NoError(t, db.First(&token).Error)
	assert.Equal(t, user.ID, token.UserID)
	require.NotNil(t, token.ExpiresAt)
	assert.WithinDuration(t, result.ExpiresAt, *token.ExpiresAt, 0)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	db := testDB(t)
	service := NewAuthService(testConfig())
	seedUser(t, db, "admin@room911.local", "secret123", true)

	result, err := service.Login(context.Background(), db, "admin@room911.local", "wrong")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	db := testDB(t)
	service := NewAuthService(testConfig())

	// Absence of the account is indistinguishable from a bad password.
	result, err := service.Login(context.Background(), db, "nobody@room911.local", "secret123")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	db := testDB(t)
	service := NewAuthService(testConfig())
	seedUser(t, db, "inactive@room911.local", "secret123", false)

	result, err := service.Login(context.Background(), db, "inactive@room911.local", "secret123")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, "cuenta inactiva o suspendida", err.Error())
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	db := testDB(t)
	service := NewAuthService(testConfig())
	seedUser(t, db, "admin@room911.local", "secret123", true)

	_, err := service.Login(context.Background(), db, "admin@room911.local", "secret123")
	require.NoError(t, err)

	var token models.AccessToken
	require.NoError(t, db.First(&token).Error)

	require.NoError(t, service.Logout(context.Background(), db, token.ID))

	var count int64
	db.Model(&models.AccessToken{}).Count(&count)
	assert.Zero(t, count)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("secret123", hash))
	assert.False(t, VerifyPassword("other", hash))
}
