package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances bound to one database handle.
// Handlers build one per unit of work from the wrapper's transaction; the
// middleware and background jobs build one from the root handle.
type Repositories struct {
	User        *UserRepository
	Employee    *EmployeeRepository
	Entry       *EmployeeEntryRepository
	AccessToken *AccessTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Employee:    NewEmployeeRepository(db),
		Entry:       NewEmployeeEntryRepository(db),
		AccessToken: NewAccessTokenRepository(db),
	}
}
