package repository

import (
	"context"
	"time"

	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/models"
	"gorm.io/gorm"
)

// EmployeeEntryRepository manages facility-entry events.
type EmployeeEntryRepository struct {
	*Repository[*models.EmployeeEntry]
}

// NewEmployeeEntryRepository creates a new employee entry repository
func NewEmployeeEntryRepository(db *gorm.DB) *EmployeeEntryRepository {
	return &EmployeeEntryRepository{Repository: New(db, func() *models.EmployeeEntry { return &models.EmployeeEntry{} })}
}

// WithUser returns a copy bound to the acting user.
func (r *EmployeeEntryRepository) WithUser(user *models.User) *EmployeeEntryRepository {
	return &EmployeeEntryRepository{Repository: r.Repository.WithUser(user)}
}

// Record writes an entry event for the employee, snapshotting the current
// access flag as the outcome. Terminal requests carry no authenticated
// actor, so this path writes outside the audited mutation flow.
func (r *EmployeeEntryRepository) Record(ctx context.Context, employee *models.Employee) (*models.EmployeeEntry, error) {
	entry := &models.EmployeeEntry{
		EmployeeID:    employee.ID,
		EntryTime:     time.Now(),
		WasSuccessful: employee.Access,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, apperrors.Query("record_entry", err)
	}
	return entry, nil
}

// ListByEmployee returns the employee's entries, newest first, optionally
// restricted to an entry-time range.
func (r *EmployeeEntryRepository) ListByEmployee(ctx context.Context, employeeID uint, start, end *time.Time) ([]*models.EmployeeEntry, error) {
	scopes := []Scope{
		Where("employee_id = ?", employeeID),
		func(db *gorm.DB) *gorm.DB { return db.Order("entry_time DESC") },
	}
	if start != nil && end != nil {
		scopes = append(scopes, Where("entry_time BETWEEN ? AND ?", *start, *end))
	}
	return r.All(ctx, scopes...)
}
