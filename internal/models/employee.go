package models

import (
	"github.com/room911/access-api/internal/apperrors"
)

// Employee represents a badge-holding employee tracked by the access terminal.
type Employee struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Document   string `gorm:"uniqueIndex;not null" json:"document"`
	FirstName  string `gorm:"not null" json:"first_name"`
	LastName   string `gorm:"not null" json:"last_name"`
	Department string `gorm:"not null" json:"department"`
	Access     bool   `gorm:"not null" json:"access"`
	Audit

	// Associations
	Entries []EmployeeEntry `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"entries,omitempty"`
}

// TableName specifies the table name for Employee
func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) GetID() uint { return e.ID }

// FullName returns the employee's display name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Assign sets a whitelisted attribute from request data.
func (e *Employee) Assign(field string, value any) error {
	switch field {
	case "document":
		return assignString(&e.Document, field, value)
	case "first_name":
		return assignString(&e.FirstName, field, value)
	case "last_name":
		return assignString(&e.LastName, field, value)
	case "department":
		return assignString(&e.Department, field, value)
	case "access":
		return assignBool(&e.Access, field, value)
	default:
		return apperrors.InvalidField(field)
	}
}
