package services

import (
	"strings"
	"testing"
	"time"

	"github.com/room911/access-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportFixture() (*models.Employee, []*models.EmployeeEntry) {
	employee := &models.Employee{
		ID:         1,
		Document:   "1001",
		FirstName:  "Ana",
		LastName:   "Pérez",
		Department: "it",
		Access:     true,
	}
	entries := []*models.EmployeeEntry{
		{EmployeeID: 1, EntryTime: time.Date(2026, 8, 20, 8, 30, 0, 0, time.UTC), WasSuccessful: true},
		{EmployeeID: 1, EntryTime: time.Date(2026, 8, 19, 8, 45, 0, 0, time.UTC), WasSuccessful: false},
	}
	return employee, entries
}

func TestExportService_EntryHistoryCSV(t *testing.T) {
	service := NewExportService()
	employee, entries := exportFixture()

	data, filename, err := service.EntryHistoryCSV(employee, entries)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "entries_1001_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	content := string(data)
	assert.Contains(t, content, "Ana Pérez")
	assert.Contains(t, content, "Permitido")
	assert.Contains(t, content, "Denegado")
}

func TestExportService_EntryHistoryXLSX(t *testing.T) {
	service := NewExportService()
	employee, entries := exportFixture()

	data, filename, err := service.EntryHistoryXLSX(employee, entries)
	require.NoError(t, err)

	assert.NotEmpty(t, data)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
}

func TestExportService_EntryHistoryPDF(t *testing.T) {
	service := NewExportService()
	employee, entries := exportFixture()

	data, filename, err := service.EntryHistoryPDF(employee, entries)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	// PDF files start with the %PDF magic bytes.
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}
