package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/repository"
	"github.com/room911/access-api/internal/response"
	"gorm.io/gorm"
)

// EmployeeEntryHandler records badge attempts at the ROOM_911 door terminal
type EmployeeEntryHandler struct {
	db *gorm.DB
}

func NewEmployeeEntryHandler(db *gorm.DB) *EmployeeEntryHandler {
	return &EmployeeEntryHandler{db: db}
}

// CreateEntryRequest is the badge payload from the door terminal
type CreateEntryRequest struct {
	Document string `json:"document" binding:"required"`
}

// Store godoc
// @Summary      Record a badge attempt
// @Description  Looks up the employee by document and records whether access was granted at that moment
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        entry  body      CreateEntryRequest  true  "Badge document"
// @Success      201    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]interface{}
// @Router       /api/entries [post]
func (h *EmployeeEntryHandler) Store(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo registrar el ingreso", func(tx *gorm.DB) (*response.Result, error) {
		var req CreateEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, apperrors.Validation("documento requerido: %v", err)
		}

		repos := repository.NewRepositories(tx)
		employee, found, err := repos.Employee.GetByDocument(c.Request.Context(), req.Document)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("%w: empleado con documento %s", apperrors.ErrNotFound, req.Document)
		}

		entry, err := repos.Entry.Record(c.Request.Context(), employee)
		if err != nil {
			return nil, err
		}

		message := "Acceso denegado"
		if entry.WasSuccessful {
			message = "Acceso permitido"
		}

		return &response.Result{
			Data:    entry,
			Message: message,
			Code:    http.StatusCreated,
		}, nil
	})
}
