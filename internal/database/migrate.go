package database

import (
	"fmt"

	"github.com/room911/access-api/internal/models"
	"github.com/room911/access-api/internal/services"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all persisted record types.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AccessToken{},
		&models.Employee{},
		&models.EmployeeEntry{},
	)
}

// Seed creates the default administrator account if it does not exist.
// It is idempotent and safe to run at every boot.
func Seed(db *gorm.DB, adminEmail, adminPassword string) error {
	if adminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := services.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Name:              "Admin User",
		Email:             adminEmail,
		EncryptedPassword: hashed,
		Active:            true,
		Role:              models.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	return nil
}
