package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/models"
	"gorm.io/gorm"
)

// UserRepository adds user-specific search predicates on top of the generic
// repository.
type UserRepository struct {
	*Repository[*models.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Repository: New(db, func() *models.User { return &models.User{} })}
}

// WithUser returns a copy bound to the acting user.
func (r *UserRepository) WithUser(user *models.User) *UserRepository {
	return &UserRepository{Repository: r.Repository.WithUser(user)}
}

// FindByEmail returns the user with the given email, case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Query("find_by_email", err)
	}
	return &user, nil
}

// Search filters by name/email substring and optional active state, then
// delegates to Paginate.
func (r *UserRepository) Search(ctx context.Context, search string, active *bool, q *ListQuery) (*Page[*models.User], error) {
	var scopes []Scope

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		scopes = append(scopes, Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like))
	}
	if active != nil {
		scopes = append(scopes, Where("active = ?", *active))
	}

	return r.Paginate(ctx, q, scopes...)
}
