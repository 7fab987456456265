package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/middleware"
	"github.com/room911/access-api/internal/response"
	"github.com/room911/access-api/internal/services"
	"gorm.io/gorm"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	db          *gorm.DB
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{db: db, authService: authService}
}

// LoginRequest are the credentials expected by the login endpoint
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary      Login
// @Description  Authenticates an administrator and returns a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      LoginRequest  true  "Credentials"
// @Success      200          {object}  map[string]interface{}
// @Failure      403          {object}  map[string]interface{}
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo iniciar sesión", func(tx *gorm.DB) (*response.Result, error) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, apperrors.Validation("credenciales inválidas: %v", err)
		}

		result, err := h.authService.Login(c.Request.Context(), tx, req.Email, req.Password)
		if err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    result,
			Message: "Sesión iniciada correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}

// Logout godoc
// @Summary      Logout
// @Description  Revokes the token used on this request
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo cerrar la sesión", func(tx *gorm.DB) (*response.Result, error) {
		if err := h.authService.Logout(c.Request.Context(), tx, middleware.CurrentTokenID(c)); err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    nil,
			Message: "Sesión cerrada correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}
