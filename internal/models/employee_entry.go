package models

import (
	"time"

	"github.com/room911/access-api/internal/apperrors"
	"gorm.io/gorm"
)

// EmployeeEntry records one facility-entry attempt. WasSuccessful copies the
// employee's access flag at the moment of entry; it is a historical snapshot
// and is never reconciled if the flag changes later.
type EmployeeEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EmployeeID    uint      `gorm:"not null;index" json:"employee_id"`
	EntryTime     time.Time `gorm:"not null" json:"entry_time"`
	WasSuccessful bool      `json:"was_successful"`
	Audit

	// Associations
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}

// TableName specifies the table name for EmployeeEntry
func (EmployeeEntry) TableName() string {
	return "employee_entries"
}

// BeforeCreate defaults the entry timestamp to the time of creation.
func (e *EmployeeEntry) BeforeCreate(tx *gorm.DB) error {
	if e.EntryTime.IsZero() {
		e.EntryTime = time.Now()
	}
	return nil
}

func (e *EmployeeEntry) GetID() uint { return e.ID }

// Assign sets a whitelisted attribute from request data.
func (e *EmployeeEntry) Assign(field string, value any) error {
	switch field {
	case "employee_id":
		return assignUint(&e.EmployeeID, field, value)
	case "entry_time":
		return assignTime(&e.EntryTime, field, value)
	case "was_successful":
		return assignBool(&e.WasSuccessful, field, value)
	default:
		return apperrors.InvalidField(field)
	}
}
