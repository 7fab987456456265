package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/middleware"
	"github.com/room911/access-api/internal/repository"
	"github.com/room911/access-api/internal/response"
	"github.com/room911/access-api/internal/services"
	"gorm.io/gorm"
)

// EmployeeHandler handles employee management, bulk import, and entry-history
// exports
type EmployeeHandler struct {
	db            *gorm.DB
	exportService *services.ExportService
	importService *services.ImportService
}

func NewEmployeeHandler(db *gorm.DB, exportService *services.ExportService, importService *services.ImportService) *EmployeeHandler {
	return &EmployeeHandler{db: db, exportService: exportService, importService: importService}
}

// CreateEmployeeRequest is the payload to register an employee
type CreateEmployeeRequest struct {
	Document   string `json:"document" binding:"required"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Department string `json:"department" binding:"required"`
	Access     *bool  `json:"access"`
}

// UpdateEmployeeRequest is the payload to update an employee
type UpdateEmployeeRequest struct {
	Document   string `json:"document" binding:"required"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Department string `json:"department" binding:"required"`
}

// UpdateEmployeeAccessRequest carries the access flag the client currently shows
type UpdateEmployeeAccessRequest struct {
	Access *bool `json:"access" binding:"required"`
}

// ImportEmployeesRequest is the JSON alternative to a multipart file upload
type ImportEmployeesRequest struct {
	Data []services.EmployeeImportRow `json:"data" binding:"required"`
}

// Index godoc
// @Summary      List employees
// @Description  Paginated employee listing with search, department filter, and entry date range
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        search      query  string  false  "Name or document fragment"
// @Param        filter      query  string  false  "Department"
// @Param        start_date  query  string  false  "Entry range start (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Entry range end (YYYY-MM-DD)"
// @Param        page        query  int     false  "Page number"       default(1)
// @Param        perPage     query  int     false  "Records per page"  default(15)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/employees [get]
func (h *EmployeeHandler) Index(c *gin.Context) {
	response.Execute(c, h.db, "No se pudieron obtener los empleados", func(tx *gorm.DB) (*response.Result, error) {
		start, end, err := dateRange(c)
		if err != nil {
			return nil, err
		}

		page, err := repository.NewEmployeeRepository(tx).Search(
			c.Request.Context(),
			c.Query("search"),
			c.Query("filter"),
			start, end,
			listQuery(c, 15),
		)
		if err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    page,
			Message: "Empleados obtenidos correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}

// Show godoc
// @Summary      Get an employee with entry history
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Employee ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) Show(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo obtener el empleado", func(tx *gorm.DB) (*response.Result, error) {
		id, err := paramID(c)
		if err != nil {
			return nil, err
		}

		employee, err := repository.NewEmployeeRepository(tx).FindWithEntries(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    employee,
			Message: "Empleado obtenido correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}

// Create godoc
// @Summary      Register an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        employee  body      CreateEmployeeRequest  true  "New employee"
// @Success      201       {object}  map[string]interface{}
// @Failure      403       {object}  map[string]interface{}
// @Router       /api/employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo crear el empleado", func(tx *gorm.DB) (*response.Result, error) {
		var req CreateEmployeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, apperrors.Validation("datos de empleado inválidos: %v", err)
		}

		access := true
		if req.Access != nil {
			access = *req.Access
		}

		repo := repository.NewEmployeeRepository(tx).WithUser(middleware.CurrentUser(c))

		// Uniqueness is validated before the insert; a concurrent insert
		// slipping past this check surfaces as a persistence failure.
		if _, found, err := repo.GetByDocument(c.Request.Context(), req.Document); err != nil {
			return nil, err
		} else if found {
			return nil, apperrors.Validation("el documento %s ya está registrado", req.Document)
		}

		employee, err := repo.Store(c.Request.Context(), map[string]any{
			"document":   req.Document,
			"first_name": req.FirstName,
			"last_name":  req.LastName,
			"department": req.Department,
			"access":     access,
		})
		if err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    employee,
			Message: "Empleado creado correctamente",
			Code:    http.StatusCreated,
		}, nil
	})
}

// Update godoc
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int                    true  "Employee ID"
// @Param        employee  body      UpdateEmployeeRequest  true  "Updated fields"
// @Success      200       {object}  map[string]interface{}
// @Failure      404       {object}  map[string]interface{}
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo actualizar el empleado", func(tx *gorm.DB) (*response.Result, error) {
		id, err := paramID(c)
		if err != nil {
			return nil, err
		}

		var req UpdateEmployeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, apperrors.Validation("datos de empleado inválidos: %v", err)
		}

		repo := repository.NewEmployeeRepository(tx).WithUser(middleware.CurrentUser(c))
		employee, err := repo.FindAndGet(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}

		if other, found, err := repo.GetByDocument(c.Request.Context(), req.Document); err != nil {
			return nil, err
		} else if found && other.ID != id {
			return nil, apperrors.Validation("el documento %s ya está registrado", req.Document)
		}

		employee, err = repo.Update(c.Request.Context(), employee, map[string]any{
			"document":   req.Document,
			"first_name": req.FirstName,
			"last_name":  req.LastName,
			"department": req.Department,
		})
		if err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    employee,
			Message: "Empleado actualizado correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}

// UpdateAccess godoc
// @Summary      Toggle an employee's ROOM_911 access
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int                          true  "Employee ID"
// @Param        access  body      UpdateEmployeeAccessRequest  true  "Current access flag"
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  map[string]interface{}
// @Router       /api/employees/update-access/{id} [put]
func (h *EmployeeHandler) UpdateAccess(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo cambiar el acceso del empleado", func(tx *gorm.DB) (*response.Result, error) {
		id, err := paramID(c)
		if err != nil {
			return nil, err
		}

		var req UpdateEmployeeAccessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, apperrors.Validation("acceso inválido: %v", err)
		}

		repo := repository.NewEmployeeRepository(tx).WithUser(middleware.CurrentUser(c))
		employee, err := repo.FindAndGet(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}

		// The client sends the flag it is showing; we store the opposite.
		employee, err = repo.Update(c.Request.Context(), employee, map[string]any{"access": !*req.Access})
		if err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    employee,
			Message: "Acceso del empleado actualizado correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}

// Delete godoc
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Employee ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo eliminar el empleado", func(tx *gorm.DB) (*response.Result, error) {
		id, err := paramID(c)
		if err != nil {
			return nil, err
		}

		repo := repository.NewEmployeeRepository(tx).WithUser(middleware.CurrentUser(c))
		employee, err := repo.FindAndGet(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}

		if err := repo.Delete(c.Request.Context(), employee); err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    nil,
			Message: "Empleado eliminado correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}

// Import godoc
// @Summary      Bulk import employees
// @Description  Accepts a multipart CSV/XLSX file or a JSON body with rows. Incomplete rows are skipped; a duplicate document aborts the whole batch.
// @Tags         employees
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  false  "CSV or XLSX file"
// @Success      201   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Router       /api/employees/import [post]
func (h *EmployeeHandler) Import(c *gin.Context) {
	response.Execute(c, h.db, "No se pudieron importar los empleados", func(tx *gorm.DB) (*response.Result, error) {
		rows, err := h.importRows(c)
		if err != nil {
			return nil, err
		}

		repo := repository.NewEmployeeRepository(tx).WithUser(middleware.CurrentUser(c))
		imported := 0
		skipped := 0
		for _, row := range rows {
			if !row.Complete() {
				skipped++
				continue
			}
			if _, found, err := repo.GetByDocument(c.Request.Context(), row.Document); err != nil {
				return nil, err
			} else if found {
				return nil, apperrors.Validation("el documento %s ya está registrado", row.Document)
			}
			_, err := repo.Store(c.Request.Context(), map[string]any{
				"document":   row.Document,
				"first_name": row.FirstName,
				"last_name":  row.LastName,
				"department": row.Department,
				"access":     true,
			})
			if err != nil {
				return nil, err
			}
			imported++
		}

		return &response.Result{
			Data:    gin.H{"imported": imported, "skipped": skipped},
			Message: "Empleados importados correctamente",
			Code:    http.StatusCreated,
		}, nil
	})
}

func (h *EmployeeHandler) importRows(c *gin.Context) ([]services.EmployeeImportRow, error) {
	file, header, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		rows, err := h.importService.Parse(header.Filename, file)
		if err != nil {
			return nil, apperrors.Validation("archivo inválido: %v", err)
		}
		return rows, nil
	}

	var req ImportEmployeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperrors.Validation("datos de importación inválidos: %v", err)
	}
	return req.Data, nil
}

// ExportEntries godoc
// @Summary      Export an employee's entry history
// @Description  Streams the entry history as PDF, CSV, or XLSX
// @Tags         employees
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id          path   int     true   "Employee ID"
// @Param        format      query  string  false  "pdf, csv, or xlsx"  default(pdf)
// @Param        start_date  query  string  false  "Entry range start (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Entry range end (YYYY-MM-DD)"
// @Success      200  {file}    file
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/employees/{id}/entries/export [get]
func (h *EmployeeHandler) ExportEntries(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.Error(c, err.Error(), http.StatusForbidden)
		return
	}

	employee, err := repository.NewEmployeeRepository(h.db).FindAndGet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, "Empleado no encontrado", http.StatusNotFound)
		return
	}

	start, end, err := dateRange(c)
	if err != nil {
		response.Error(c, err.Error(), http.StatusForbidden)
		return
	}

	entries, err := repository.NewEmployeeEntryRepository(h.db).ListByEmployee(c.Request.Context(), id, start, end)
	if err != nil {
		response.Error(c, "No se pudo obtener el historial de ingresos", http.StatusInternalServerError)
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)
	switch c.DefaultQuery("format", "pdf") {
	case "csv":
		data, filename, err = h.exportService.EntryHistoryCSV(employee, entries)
		contentType = "text/csv"
	case "xlsx":
		data, filename, err = h.exportService.EntryHistoryXLSX(employee, entries)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, filename, err = h.exportService.EntryHistoryPDF(employee, entries)
		contentType = "application/pdf"
	default:
		response.Error(c, "formato no soportado", http.StatusForbidden)
		return
	}
	if err != nil {
		response.Error(c, "No se pudo generar el archivo", http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

// dateRange parses the optional start_date/end_date query params and expands
// them to day bounds. Both must be present for the range to apply.
func dateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		return nil, nil, nil
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return nil, nil, apperrors.Validation("start_date inválida: %s", startStr)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return nil, nil, apperrors.Validation("end_date inválida: %s", endStr)
	}

	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	return &s, &e, nil
}
