package auth

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"poiadmin/internal/config"
	"poiadmin/internal/entities"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrInvalidLogin  = errors.New("invalid username or password")
	ErrEmptyUsername = errors.New("username is empty")
)

// Service handles local administrator accounts.
type Service struct {
	db  *gorm.DB
	cfg config.Auth
}

// NewService creates an auth service backed by the main database.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{db: db, cfg: cfg}
}

// IsAuthEnabled reports whether local authentication is configured.
func (s *Service) IsAuthEnabled() bool {
	return s.cfg.Mode == config.AuthModeLocal
}

// HasUsers reports whether any admin account exists yet. When false, the
// setup endpoint is open to create the first administrator.
func (s *Service) HasUsers() (bool, error) {
	var count int64
	if err := s.db.Model(&entities.AdminUser{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateAdmin creates an administrator account with a bcrypt-hashed
// password.
func (s *Service) CreateAdmin(username, password string) (*entities.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	var existing entities.AdminUser
	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.AdminUser{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and returns the matching account.
// The error is deliberately the same whether the user is unknown or the
// password is wrong.
func (s *Service) Authenticate(username, password string) (*entities.AdminUser, error) {
	var user entities.AdminUser
	err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Burn a comparison anyway to keep timing uniform.
		_ = CheckPassword(password, "$2a$12$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva")
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, err
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidLogin
	}
	return &user, nil
}
