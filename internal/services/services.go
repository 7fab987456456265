package services

import (
	"github.com/room911/access-api/internal/config"
)

// Services holds all service instances
type Services struct {
	Auth   *AuthService
	Export *ExportService
	Import *ImportService
}

// NewServices creates all service instances
func NewServices(cfg *config.Config) *Services {
	return &Services{
		Auth:   NewAuthService(cfg),
		Export: NewExportService(),
		Import: NewImportService(),
	}
}
