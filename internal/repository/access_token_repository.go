package repository

import (
	"context"
	"errors"

	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/models"
	"gorm.io/gorm"
)

// AccessTokenRepository is the server-side expiry store for issued bearer
// tokens. It is not audited: tokens are authentication state, not records
// mutated on behalf of a user.
type AccessTokenRepository struct {
	db *gorm.DB
}

// NewAccessTokenRepository creates a new access token repository
func NewAccessTokenRepository(db *gorm.DB) *AccessTokenRepository {
	return &AccessTokenRepository{db: db}
}

// Create persists a new token record.
func (r *AccessTokenRepository) Create(ctx context.Context, token *models.AccessToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return apperrors.Query("create_token", err)
	}
	return nil
}

// FindByID probes for a token record; absence is not an error.
func (r *AccessTokenRepository) FindByID(ctx context.Context, id uint) (*models.AccessToken, bool, error) {
	var token models.AccessToken
	err := r.db.WithContext(ctx).First(&token, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Query("find_token", err)
	}
	return &token, true, nil
}

// Delete removes a token record, revoking the bearer token it backs.
func (r *AccessTokenRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.AccessToken{}, id).Error; err != nil {
		return apperrors.Query("delete_token", err)
	}
	return nil
}

// DeleteForUser revokes every token issued to a user.
func (r *AccessTokenRepository) DeleteForUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AccessToken{}).Error; err != nil {
		return apperrors.Query("delete_user_tokens", err)
	}
	return nil
}

// DeleteExpired removes every token past its stored expiry and returns the
// number of rows removed.
func (r *AccessTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < CURRENT_TIMESTAMP").
		Delete(&models.AccessToken{})
	if res.Error != nil {
		return 0, apperrors.Query("delete_expired_tokens", res.Error)
	}
	return res.RowsAffected, nil
}
