package services

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/room911/access-api/internal/apperrors"
	"github.com/xuri/excelize/v2"
)

// EmployeeImportRow is one row of a bulk employee upload. Rows with missing
// required fields are skipped by the caller, not rejected.
type EmployeeImportRow struct {
	Document   string `json:"document"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Department string `json:"department"`
}

// Complete reports whether every required field is present.
func (r EmployeeImportRow) Complete() bool {
	return r.Document != "" && r.FirstName != "" && r.LastName != "" && r.Department != ""
}

// ImportService parses bulk employee uploads. Expected column order:
// document, first name, last name, department; a header row is detected and
// skipped.
type ImportService struct{}

func NewImportService() *ImportService {
	return &ImportService{}
}

// Parse dispatches on the uploaded filename extension.
func (s *ImportService) Parse(filename string, r io.Reader) ([]EmployeeImportRow, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		return s.ParseXLSX(r)
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return s.ParseCSV(r)
	default:
		return nil, apperrors.Validation("formato de archivo no soportado: %s", filename)
	}
}

// ParseXLSX reads rows from the first sheet of an XLSX file.
func (s *ImportService) ParseXLSX(r io.Reader) ([]EmployeeImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.Validation("archivo XLSX inválido: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.Validation("el archivo XLSX no contiene hojas")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.Validation("no se pudieron leer las filas: %v", err)
	}

	return collectRows(rows), nil
}

// ParseCSV reads comma-separated rows.
func (s *ImportService) ParseCSV(r io.Reader) ([]EmployeeImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Validation("archivo CSV inválido: %v", err)
		}
		rows = append(rows, record)
	}

	return collectRows(rows), nil
}

func collectRows(rows [][]string) []EmployeeImportRow {
	var out []EmployeeImportRow
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		out = append(out, EmployeeImportRow{
			Document:   cell(row, 0),
			FirstName:  cell(row, 1),
			LastName:   cell(row, 2),
			Department: cell(row, 3),
		})
	}
	return out
}

func isHeaderRow(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "document")
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
