package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/middleware"
	"github.com/room911/access-api/internal/models"
	"github.com/room911/access-api/internal/repository"
	"github.com/room911/access-api/internal/response"
	"github.com/room911/access-api/internal/services"
	"gorm.io/gorm"
)

// UserHandler handles administrator account management
type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// CreateUserRequest is the payload to register an administrator
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateUserRequest is the payload to rename an administrator
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserStatusRequest carries the status the client currently shows
type UpdateUserStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// userPage mirrors repository.Page with passwords stripped
type userPage struct {
	Records    []models.UserResponse `json:"records"`
	Total      int64                 `json:"total"`
	TotalPages int64                 `json:"total_pages"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
}

// Index godoc
// @Summary      List administrators
// @Description  Paginated administrator listing with search and status filter
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search   query  string  false  "Name or email fragment"
// @Param        filter   query  string  false  "1 active, 0 inactive, 3 all"  default(1)
// @Param        page     query  int     false  "Page number"                  default(1)
// @Param        perPage  query  int     false  "Records per page"             default(15)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/users [get]
func (h *UserHandler) Index(c *gin.Context) {
	response.Execute(c, h.db, "No se pudieron obtener los usuarios", func(tx *gorm.DB) (*response.Result, error) {
		q := listQuery(c, 15)

		// filter: 1 = active only (default), 0 = inactive only, 3 = everyone
		var active *bool
		switch c.DefaultQuery("filter", "1") {
		case "1":
			v := true
			active = &v
		case "0":
			v := false
			active = &v
		}

		page, err := repository.NewUserRepository(tx).Search(c.Request.Context(), c.Query("search"), active, q)
		if err != nil {
			return nil, err
		}

		out := userPage{
			Records:    make([]models.UserResponse, 0, len(page.Records)),
			Total:      page.Total,
			TotalPages: page.TotalPages,
			Page:       page.Page,
			PerPage:    page.PerPage,
		}
		for _, u := range page.Records {
			out.Records = append(out.Records, u.ToResponse())
		}

		return &response.Result{
			Data:    out,
			Message: "Usuarios obtenidos correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}

// Show godoc
// @Summary      Get an administrator
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/users/{id} [get]
func (h *UserHandler) Show(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo obtener el usuario", func(tx *gorm.DB) (*response.Result, error) {
		id, err := paramID(c)
		if err != nil {
			return nil, err
		}

		user, err := repository.NewUserRepository(tx).FindAndGet(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    user.ToResponse(),
			Message: "Usuario obtenido correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}

// Create godoc
// @Summary      Register an administrator
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user  body      CreateUserRequest  true  "New administrator"
// @Success      201   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Router       /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo crear el usuario", func(tx *gorm.DB) (*response.Result, error) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, apperrors.Validation("datos de usuario inválidos: %v", err)
		}

		hashed, err := services.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}

		repo := repository.NewUserRepository(tx).WithUser(middleware.CurrentUser(c))

		// Uniqueness is validated before the insert; a concurrent insert
		// slipping past this check surfaces as a persistence failure.
		if _, err := repo.FindByEmail(c.Request.Context(), req.Email); err == nil {
			return nil, apperrors.Validation("el correo %s ya está registrado", req.Email)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		user, err := repo.Store(c.Request.Context(), map[string]any{
			"name":     req.Name,
			"email":    req.Email,
			"password": hashed,
			"active":   true,
			"role":     models.RoleAdmin,
		})
		if err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    user.ToResponse(),
			Message: "Usuario creado correctamente",
			Code:    http.StatusCreated,
		}, nil
	})
}

// Update godoc
// @Summary      Update an administrator
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        user  body      UpdateUserRequest  true  "Updated fields"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo actualizar el usuario", func(tx *gorm.DB) (*response.Result, error) {
		id, err := paramID(c)
		if err != nil {
			return nil, err
		}

		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, apperrors.Validation("datos de usuario inválidos: %v", err)
		}

		repo := repository.NewUserRepository(tx).WithUser(middleware.CurrentUser(c))
		user, err := repo.FindAndGet(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}

		if other, err := repo.FindByEmail(c.Request.Context(), req.Email); err == nil && other.ID != id {
			return nil, apperrors.Validation("el correo %s ya está registrado", req.Email)
		} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		user, err = repo.Update(c.Request.Context(), user, map[string]any{
			"name":  req.Name,
			"email": req.Email,
		})
		if err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    user.ToResponse(),
			Message: "Usuario actualizado correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}

// UpdateStatus godoc
// @Summary      Toggle an administrator's status
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int                      true  "User ID"
// @Param        status  body      UpdateUserStatusRequest  true  "Current status"
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  map[string]interface{}
// @Router       /api/users/update-status/{id} [put]
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo cambiar el estado del usuario", func(tx *gorm.DB) (*response.Result, error) {
		id, err := paramID(c)
		if err != nil {
			return nil, err
		}

		var req UpdateUserStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, apperrors.Validation("estado inválido: %v", err)
		}

		repo := repository.NewUserRepository(tx).WithUser(middleware.CurrentUser(c))
		user, err := repo.FindAndGet(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}

		// The client sends the status it is showing; we store the opposite.
		user, err = repo.Update(c.Request.Context(), user, map[string]any{"active": !*req.Active})
		if err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    user.ToResponse(),
			Message: "Estado del usuario actualizado correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}

// Delete godoc
// @Summary      Delete an administrator
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	response.Execute(c, h.db, "No se pudo eliminar el usuario", func(tx *gorm.DB) (*response.Result, error) {
		id, err := paramID(c)
		if err != nil {
			return nil, err
		}

		repo := repository.NewUserRepository(tx).WithUser(middleware.CurrentUser(c))
		user, err := repo.FindAndGet(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}

		if err := repo.Delete(c.Request.Context(), user); err != nil {
			return nil, err
		}

		return &response.Result{
			Data:    nil,
			Message: "Usuario eliminado correctamente",
			Code:    http.StatusOK,
		}, nil
	})
}

// paramID parses the :id route parameter.
func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.Validation("id inválido: %s", c.Param("id"))
	}
	return uint(id), nil
}

// listQuery reads common pagination params with a handler-level default size.
func listQuery(c *gin.Context, defaultPerPage int) *repository.ListQuery {
	q := repository.NewListQuery()
	q.PerPage = defaultPerPage
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		q.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("perPage")); err == nil && perPage > 0 {
		q.PerPage = perPage
	}
	return q
}
