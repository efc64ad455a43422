package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"poiadmin/internal/config"
	"poiadmin/internal/entities"
)

func setupAuthTestDB(t *testing.T) (*Service, func()) {
	t.Helper()
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.AdminUser{}))

	service := NewService(db, config.Auth{
		Mode:       config.AuthModeLocal,
		BcryptCost: bcrypt.MinCost,
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return service, cleanup
}

func TestService_CreateAdmin(t *testing.T) {
	service, cleanup := setupAuthTestDB(t)
	defer cleanup()

	hasUsers, err := service.HasUsers()
	require.NoError(t, err)
	assert.False(t, hasUsers)

	user, err := service.CreateAdmin("admin", "a-long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.NotEqual(t, "a-long-enough-password", user.PasswordHash)

	hasUsers, err = service.HasUsers()
	require.NoError(t, err)
	assert.True(t, hasUsers)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := service.CreateAdmin("admin", "another-long-password")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("empty username", func(t *testing.T) {
		_, err := service.CreateAdmin("   ", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrEmptyUsername)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := service.CreateAdmin("other", "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestService_Authenticate(t *testing.T) {
	service, cleanup := setupAuthTestDB(t)
	defer cleanup()

	_, err := service.CreateAdmin("admin", "a-long-enough-password")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := service.Authenticate("admin", "a-long-enough-password")
		require.NoError(t, err)
		assert.Equal(t, "admin", user.Username)
	})

	t.Run("username is trimmed", func(t *testing.T) {
		_, err := service.Authenticate("  admin  ", "a-long-enough-password")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate("admin", "not-the-password")
		assert.ErrorIs(t, err, ErrInvalidLogin)
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		_, err := service.Authenticate("nobody", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrInvalidLogin)
	})
}

func TestService_IsAuthEnabled(t *testing.T) {
	enabled := NewService(nil, config.Auth{Mode: config.AuthModeLocal})
	assert.True(t, enabled.IsAuthEnabled())

	disabled := NewService(nil, config.Auth{Mode: config.AuthModeNone})
	assert.False(t, disabled.IsAuthEnabled())
}
