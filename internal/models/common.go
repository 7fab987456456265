package models

import (
	"time"

	"github.com/room911/access-api/internal/apperrors"
	"gorm.io/gorm"
)

// Audit carries the audit references and soft-delete marker shared by every
// persisted record. The uw_* columns reference the acting user of the last
// create/update/delete; they are stamped by the repository layer.
type Audit struct {
	CreatedByID *uint          `gorm:"column:uw_created" json:"created_by"`
	UpdatedByID *uint          `gorm:"column:uw_updated" json:"updated_by"`
	DeletedByID *uint          `gorm:"column:uw_deleted" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// AuditRef exposes the embedded audit block to the repository layer.
func (a *Audit) AuditRef() *Audit { return a }

// Record is implemented by every persisted type managed by the generic
// repository: access to the audit block, the primary key, and checked
// attribute assignment against the type's field whitelist.
type Record interface {
	AuditRef() *Audit
	GetID() uint
	Assign(field string, value any) error
}

// Activatable marks record types that declare an "active" attribute,
// enabling Repository.AllActive.
type Activatable interface {
	ActiveField() string
}

// assignString sets dst from a JSON-decoded value, rejecting non-strings.
func assignString(dst *string, field string, value any) error {
	s, ok := value.(string)
	if !ok {
		return apperrors.Validation("el campo %s debe ser una cadena", field)
	}
	*dst = s
	return nil
}

func assignBool(dst *bool, field string, value any) error {
	b, ok := value.(bool)
	if !ok {
		return apperrors.Validation("el campo %s debe ser booleano", field)
	}
	*dst = b
	return nil
}

// assignUint accepts the numeric shapes JSON decoding and Go callers produce.
func assignUint(dst *uint, field string, value any) error {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return apperrors.Validation("el campo %s debe ser positivo", field)
		}
		*dst = uint(v)
	case int:
		if v < 0 {
			return apperrors.Validation("el campo %s debe ser positivo", field)
		}
		*dst = uint(v)
	case uint:
		*dst = v
	default:
		return apperrors.Validation("el campo %s debe ser numérico", field)
	}
	return nil
}

// assignTime accepts time.Time or an RFC 3339 string.
func assignTime(dst *time.Time, field string, value any) error {
	switch v := value.(type) {
	case time.Time:
		*dst = v
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return apperrors.Validation("el campo %s debe ser una fecha RFC 3339", field)
		}
		*dst = t
	default:
		return apperrors.Validation("el campo %s debe ser una fecha", field)
	}
	return nil
}
