package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/room911/access-api/internal/config"
	"github.com/room911/access-api/internal/middleware"
	"github.com/room911/access-api/internal/models"
	"github.com/room911/access-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testAPI struct {
	db     *gorm.DB
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AccessToken{},
		&models.Employee{},
		&models.EmployeeEntry{},
	))

	cfg := &config.Config{JWTSecret: "test-secret", TokenTTLMinutes: 60}
	h := NewHandlers(db, services.NewServices(cfg))

	router := gin.New()
	api := router.Group("/api")
	api.GET("/health", h.Health.Index)
	api.POST("/login", h.Auth.Login)
	api.POST("/entries", h.Entry.Store)

	protected := api.Group("")
	protected.Use(middleware.Auth(db, cfg.JWTSecret))
	protected.POST("/logout", h.Auth.Logout)

	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/users", h.User.Index)
	admin.POST("/users", h.User.Create)
	admin.GET("/users/:id", h.User.Show)
	admin.PUT("/users/:id", h.User.Update)
	admin.PUT("/users/update-status/:id", h.User.UpdateStatus)
	admin.DELETE("/users/:id", h.User.Delete)
	admin.GET("/employees", h.Employee.Index)
	admin.POST("/employees", h.Employee.Create)
	admin.POST("/employees/import", h.Employee.Import)
	admin.PUT("/employees/update-access/:id", h.Employee.UpdateAccess)
	admin.GET("/employees/:id", h.Employee.Show)
	admin.PUT("/employees/:id", h.Employee.Update)
	admin.DELETE("/employees/:id", h.Employee.Delete)
	admin.GET("/employees/:id/entries/export", h.Employee.ExportEntries)

	return &testAPI{db: db, router: router}
}

// seedAdmin creates an administrator and returns a bearer token for it.
func (a *testAPI) seedAdmin(t *testing.T) string {
	t.Helper()

	hash, err := services.HashPassword("secret123")
	require.NoError(t, err)
	admin := &models.User{
		Name:              "Root Admin",
		Email:             "root@room911.local",
		EncryptedPassword: hash,
		Active:            true,
	}
	require.NoError(t, a.db.Create(admin).Error)

	body := a.request(t, "POST", "/api/login", "", gin.H{
		"email":    "root@room911.local",
		"password": "secret123",
	}, http.StatusOK)

	data := body["data"].(map[string]any)
	return data["token"].(string)
}

func (a *testAPI) request(t *testing.T, method, path, token string, payload any, wantStatus int) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(t, wantStatus, w.Code, "body: %s", w.Body.String())

	var body map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return body
}

func TestLoginLogoutLifecycle(t *testing.T) {
	api := newTestAPI(t)
	token := api.seedAdmin(t)

	// The token works until logout.
	api.request(t, "GET", "/api/users", token, nil, http.StatusOK)

	body := api.request(t, "POST", "/api/logout", token, nil, http.StatusOK)
	assert.Equal(t, true, body["state"])

	// After logout the same token is rejected.
	req, _ := http.NewRequest("GET", "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t)

	body := api.request(t, "POST", "/api/login", "", gin.H{
		"email":    "root@room911.local",
		"password": "wrong",
	}, http.StatusForbidden)

	assert.Equal(t, false, body["state"])
	assert.Contains(t, body["error"], "Unauthorized: ")
}

func TestEntryStore_SnapshotsDeniedAccess(t *testing.T) {
	api := newTestAPI(t)
	token := api.seedAdmin(t)

	api.request(t, "POST", "/api/employees", token, gin.H{
		"document":   "1001",
		"first_name": "Ana",
		"last_name":  "Pérez",
		"department": "it",
		"access":     false,
	}, http.StatusCreated)

	// The terminal endpoint is public and records the denial.
	body := api.request(t, "POST", "/api/entries", "", gin.H{"document": "1001"}, http.StatusCreated)
	assert.Equal(t, "Acceso denegado", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["was_successful"])

	// Unknown badge documents map to 404.
	body = api.request(t, "POST", "/api/entries", "", gin.H{"document": "9999"}, http.StatusNotFound)
	assert.Equal(t, false, body["state"])
}

func TestEmployeeCRUD(t *testing.T) {
	api := newTestAPI(t)
	token := api.seedAdmin(t)

	body := api.request(t, "POST", "/api/employees", token, gin.H{
		"document":   "2001",
		"first_name": "Luis",
		"last_name":  "Gómez",
		"department": "maintenance",
	}, http.StatusCreated)
	id := body["data"].(map[string]any)["id"].(float64)

	// Duplicate documents are a validation failure, not a 500.
	api.request(t, "POST", "/api/employees", token, gin.H{
		"document":   "2001",
		"first_name": "Otro",
		"last_name":  "Luis",
		"department": "it",
	}, http.StatusForbidden)

	body = api.request(t, "PUT", fmt.Sprintf("/api/employees/%.0f", id), token, gin.H{
		"document":   "2001",
		"first_name": "Luis",
		"last_name":  "Gómez",
		"department": "management",
	}, http.StatusOK)
	assert.Equal(t, "management", body["data"].(map[string]any)["department"])

	// The client shows access=true, so the toggle stores false.
	body = api.request(t, "PUT", fmt.Sprintf("/api/employees/update-access/%.0f", id), token, gin.H{
		"access": true,
	}, http.StatusOK)
	assert.Equal(t, false, body["data"].(map[string]any)["access"])

	api.request(t, "DELETE", fmt.Sprintf("/api/employees/%.0f", id), token, nil, http.StatusOK)
	api.request(t, "GET", fmt.Sprintf("/api/employees/%.0f", id), token, nil, http.StatusNotFound)
}

func TestEmployeeIndex_SearchAndPaging(t *testing.T) {
	api := newTestAPI(t)
	token := api.seedAdmin(t)

	for i := 0; i < 5; i++ {
		api.request(t, "POST", "/api/employees", token, gin.H{
			"document":   fmt.Sprintf("30%02d", i),
			"first_name": "Vega",
			"last_name":  fmt.Sprintf("Num%d", i),
			"department": "it",
		}, http.StatusCreated)
	}
	api.request(t, "POST", "/api/employees", token, gin.H{
		"document":   "3100",
		"first_name": "Zoe",
		"last_name":  "Cruz",
		"department": "maintenance",
	}, http.StatusCreated)

	body := api.request(t, "GET", "/api/employees?search=vega&perPage=2&page=2", token, nil, http.StatusOK)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(5), data["total"])
	assert.Equal(t, float64(3), data["total_pages"])
	assert.Len(t, data["records"], 2)

	body = api.request(t, "GET", "/api/employees?filter=maintenance", token, nil, http.StatusOK)
	assert.Equal(t, float64(1), body["data"].(map[string]any)["total"])
}

func TestEmployeeImport_JSONRows(t *testing.T) {
	api := newTestAPI(t)
	token := api.seedAdmin(t)

	body := api.request(t, "POST", "/api/employees/import", token, gin.H{
		"data": []gin.H{
			{"document": "4001", "first_name": "Ana", "last_name": "Mora", "department": "it"},
			{"document": "4002", "first_name": "", "last_name": "Sin Nombre", "department": "it"},
			{"document": "4003", "first_name": "Eva", "last_name": "Paz", "department": "maintenance"},
		},
	}, http.StatusCreated)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["imported"])
	assert.Equal(t, float64(1), data["skipped"])

	// Imported employees start with access granted.
	var employee models.Employee
	require.NoError(t, api.db.Where("document = ?", "4001").First(&employee).Error)
	assert.True(t, employee.Access)
}

func TestUserManagement(t *testing.T) {
	api := newTestAPI(t)
	token := api.seedAdmin(t)

	body := api.request(t, "POST", "/api/users", token, gin.H{
		"name":     "Nuevo Admin",
		"email":    "nuevo@room911.local",
		"password": "secret123",
	}, http.StatusCreated)
	data := body["data"].(map[string]any)
	id := data["id"].(float64)
	assert.Equal(t, models.RoleAdmin, data["role"])
	assert.NotContains(t, data, "password")

	// The client shows active=true, so the toggle stores false.
	body = api.request(t, "PUT", fmt.Sprintf("/api/users/update-status/%.0f", id), token, gin.H{
		"active": true,
	}, http.StatusOK)
	assert.Equal(t, false, body["data"].(map[string]any)["active"])

	// Inactive users cannot log in.
	api.request(t, "POST", "/api/login", "", gin.H{
		"email":    "nuevo@room911.local",
		"password": "secret123",
	}, http.StatusForbidden)

	api.request(t, "DELETE", fmt.Sprintf("/api/users/%.0f", id), token, nil, http.StatusOK)
	api.request(t, "GET", fmt.Sprintf("/api/users/%.0f", id), token, nil, http.StatusNotFound)
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	api := newTestAPI(t)
	token := api.seedAdmin(t)

	payload := gin.H{
		"name":     "Repetido",
		"email":    "repetido@room911.local",
		"password": "secret123",
	}
	api.request(t, "POST", "/api/users", token, payload, http.StatusCreated)

	body := api.request(t, "POST", "/api/users", token, payload, http.StatusForbidden)
	assert.Equal(t, false, body["state"])
	assert.Contains(t, body["error"], "Validation error: ")
}

func TestValidationErrorsMapTo403(t *testing.T) {
	api := newTestAPI(t)
	token := api.seedAdmin(t)

	body := api.request(t, "POST", "/api/employees", token, gin.H{
		"document": "5001",
	}, http.StatusForbidden)

	assert.Equal(t, false, body["state"])
	assert.Contains(t, body["error"], "Validation error: ")
	assert.Nil(t, body["data"])

	// Nothing was written.
	var count int64
	api.db.Model(&models.Employee{}).Count(&count)
	assert.Zero(t, count)
}

func TestEntryExport_CSV(t *testing.T) {
	api := newTestAPI(t)
	token := api.seedAdmin(t)

	api.request(t, "POST", "/api/employees", token, gin.H{
		"document":   "6001",
		"first_name": "Hugo",
		"last_name":  "León",
		"department": "it",
		"access":     true,
	}, http.StatusCreated)
	api.request(t, "POST", "/api/entries", "", gin.H{"document": "6001"}, http.StatusCreated)

	var employee models.Employee
	require.NoError(t, api.db.Where("document = ?", "6001").First(&employee).Error)

	req, _ := http.NewRequest("GET", fmt.Sprintf("/api/employees/%d/entries/export?format=csv", employee.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "entries_6001_")
	assert.Contains(t, w.Body.String(), "Hugo León")
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	req, _ := http.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
