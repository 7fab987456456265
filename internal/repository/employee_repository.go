package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/models"
	"gorm.io/gorm"
)

// EmployeeRepository adds employee-specific search predicates on top of the
// generic repository.
type EmployeeRepository struct {
	*Repository[*models.Employee]
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{Repository: New(db, func() *models.Employee { return &models.Employee{} })}
}

// WithUser returns a copy bound to the acting user.
func (r *EmployeeRepository) WithUser(user *models.User) *EmployeeRepository {
	return &EmployeeRepository{Repository: r.Repository.WithUser(user)}
}

// GetByDocument probes for an employee by badge document number.
func (r *EmployeeRepository) GetByDocument(ctx context.Context, document string) (*models.Employee, bool, error) {
	return r.FindBy(ctx, "document", document)
}

// FindWithEntries returns the employee with its entry history preloaded, or
// fails with ErrNotFound.
func (r *EmployeeRepository) FindWithEntries(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("entry_time DESC") }).
		First(&employee, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, apperrors.Query("find_with_entries", err)
	}
	return &employee, nil
}

// Search filters by first name, last name or document substring
// (case-insensitive), optional department, and an optional entry-time range.
// When a range is given, only employees with entries in the range match and
// only those entries are preloaded.
func (r *EmployeeRepository) Search(ctx context.Context, search, department string, start, end *time.Time, q *ListQuery) (*Page[*models.Employee], error) {
	var scopes []Scope

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		scopes = append(scopes, Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(document) LIKE ?",
			like, like, like,
		))
	}
	if department != "" {
		scopes = append(scopes, Where("department = ?", department))
	}
	if start != nil && end != nil {
		sub := r.db.Model(&models.EmployeeEntry{}).
			Select("employee_id").
			Where("entry_time BETWEEN ? AND ?", *start, *end)
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("id IN (?)", sub).
				Preload("Entries", "entry_time BETWEEN ? AND ?", *start, *end)
		})
	}

	return r.Paginate(ctx, q, scopes...)
}
