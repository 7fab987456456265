package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/config"
	"github.com/room911/access-api/internal/middleware"
	"github.com/room911/access-api/internal/models"
	"github.com/room911/access-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles credential checks and bearer token issuance. Tokens
// are signed JWTs backed by a server-side access-token row carrying the
// authoritative expiry; deleting the row revokes the token.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// LoginResult represents the result of a successful login
type LoginResult struct {
	User      models.UserResponse `json:"user"`
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// Login authenticates a user and issues a token. It runs on the caller's
// transaction handle so the token row commits with the unit of work.
func (s *AuthService) Login(ctx context.Context, tx *gorm.DB, email, password string) (*LoginResult, error) {
	repos := repository.NewRepositories(tx)

	user, err := repos.User.FindByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, apperrors.Authorization("cuenta inactiva o suspendida")
	}

	if !VerifyPassword(password, user.EncryptedPassword) {
		return nil, apperrors.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.TokenTTLMinutes) * time.Minute)
	token := &models.AccessToken{
		UserID:    user.ID,
		Name:      "auth_token",
		ExpiresAt: &expiresAt,
	}
	if err := repos.AccessToken.Create(ctx, token); err != nil {
		return nil, err
	}

	signed, err := s.signToken(user, token.ID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("error al generar token: %w", err)
	}

	return &LoginResult{
		User:      user.ToResponse(),
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the access-token row backing the current bearer token.
func (s *AuthService) Logout(ctx context.Context, tx *gorm.DB, tokenID uint) error {
	return repository.NewAccessTokenRepository(tx).Delete(ctx, tokenID)
}

// signToken creates the signed bearer token for a user and token row.
func (s *AuthService) signToken(user *models.User, tokenID uint, expiresAt time.Time) (string, error) {
	claims := middleware.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword compares a password with a hash
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
