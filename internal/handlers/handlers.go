package handlers

import (
	"github.com/room911/access-api/internal/services"
	"gorm.io/gorm"
)

// Handlers aggregates every HTTP handler of the API
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	User     *UserHandler
	Employee *EmployeeHandler
	Entry    *EmployeeEntryHandler
}

// NewHandlers builds all handlers with their dependencies
func NewHandlers(db *gorm.DB, svcs *services.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(db),
		Auth:     NewAuthHandler(db, svcs.Auth),
		User:     NewUserHandler(db),
		Employee: NewEmployeeHandler(db, svcs.Export, svcs.Import),
		Entry:    NewEmployeeEntryHandler(db),
	}
}
