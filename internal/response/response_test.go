package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/models"
	"github.com/room911/access-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Employee{}, &models.EmployeeEntry{}))
	return db
}

func execute(t *testing.T, db *gorm.DB, unit UnitOfWork) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/test", nil)

	Execute(c, db, "operación fallida", unit)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestExecute_Success(t *testing.T) {
	db := testDB(t)

	w, body := execute(t, db, func(tx *gorm.DB) (*Result, error) {
		return &Result{
			Data:    gin.H{"id": 7},
			Message: "todo bien",
			Code:    http.StatusCreated,
		}, nil
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["state"])
	assert.Equal(t, "todo bien", body["message"])
	assert.NotNil(t, body["data"])
}

func TestExecute_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantPrefix string
	}{
		{"validation", apperrors.Validation("campo requerido"), http.StatusForbidden, "Validation error"},
		{"invalid field", apperrors.InvalidField("nickname"), http.StatusForbidden, "Validation error"},
		{"query", apperrors.Query("store", errors.New("boom")), http.StatusInternalServerError, "Database query error"},
		{"duplicate key", gorm.ErrDuplicatedKey, http.StatusInternalServerError, "Database query error"},
		{"not found", fmt.Errorf("%w: id 3", apperrors.ErrNotFound), http.StatusNotFound, "Resource not found"},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "Resource not found"},
		{"authorization", apperrors.Authorization("cuenta inactiva"), http.StatusForbidden, "Unauthorized"},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusForbidden, "Unauthorized"},
		{"method not allowed", &apperrors.MethodNotAllowedError{Method: "PATCH"}, http.StatusMethodNotAllowed, "Method not allowed"},
		{"rate limit", &apperrors.RateLimitError{Msg: "demasiadas solicitudes"}, http.StatusTooManyRequests, "Too many requests"},
		{"uncategorized", errors.New("disco lleno"), http.StatusInternalServerError, "An error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)

			w, body := execute(t, db, func(tx *gorm.DB) (*Result, error) {
				return nil, tt.err
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, false, body["state"])
			assert.Equal(t, "operación fallida", body["message"])
			assert.Contains(t, body["error"], tt.wantPrefix+": ")
			assert.Nil(t, body["data"])
		})
	}
}

func TestExecute_NilResultIsAFailure(t *testing.T) {
	db := testDB(t)

	w, body := execute(t, db, func(tx *gorm.DB) (*Result, error) {
		err := tx.Create(&models.Employee{
			Document:   "9003",
			FirstName:  "Nil",
			LastName:   "Result",
			Department: "it",
		}).Error
		require.NoError(t, err)
		return nil, nil
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["state"])

	// The write rolls back like any other failed unit of work.
	var count int64
	db.Model(&models.Employee{}).Count(&count)
	assert.Zero(t, count)
}

func TestExecute_InsertTimeDuplicateMapsTo500(t *testing.T) {
	db := testDB(t)

	admin := &models.User{Name: "Admin", Email: "admin@room911.local", EncryptedPassword: "x", Active: true}
	require.NoError(t, db.Create(admin).Error)

	data := map[string]any{
		"document":   "9004",
		"first_name": "Race",
		"last_name":  "Case",
		"department": "it",
		"access":     true,
	}
	_, err := repository.NewEmployeeRepository(db).WithUser(admin).Store(context.Background(), data)
	require.NoError(t, err)

	// A concurrent insert that slips past a handler's uniqueness check hits
	// the unique index; the store rejection is a persistence failure.
	w, body := execute(t, db, func(tx *gorm.DB) (*Result, error) {
		employee, err := repository.NewEmployeeRepository(tx).WithUser(admin).Store(context.Background(), data)
		if err != nil {
			return nil, err
		}
		return &Result{Data: employee, Message: "creado", Code: http.StatusCreated}, nil
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["state"])
	assert.Contains(t, body["error"], "Database query error: ")
}

func TestExecute_RollsBackOnError(t *testing.T) {
	db := testDB(t)

	_, _ = execute(t, db, func(tx *gorm.DB) (*Result, error) {
		err := tx.Create(&models.Employee{
			Document:   "9001",
			FirstName:  "Rollback",
			LastName:   "Case",
			Department: "it",
		}).Error
		require.NoError(t, err)
		return nil, errors.New("algo salió mal")
	})

	var count int64
	db.Model(&models.Employee{}).Count(&count)
	assert.Zero(t, count, "the write must not survive the failed unit of work")
}

func TestExecute_CommitsOnSuccess(t *testing.T) {
	db := testDB(t)

	w, _ := execute(t, db, func(tx *gorm.DB) (*Result, error) {
		err := tx.Create(&models.Employee{
			Document:   "9002",
			FirstName:  "Commit",
			LastName:   "Case",
			Department: "it",
		}).Error
		if err != nil {
			return nil, err
		}
		return &Result{Message: "creado", Code: http.StatusCreated}, nil
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	db.Model(&models.Employee{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
