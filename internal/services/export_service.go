package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/room911/access-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService renders an employee's entry history as CSV, XLSX or PDF.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

func outcomeLabel(wasSuccessful bool) string {
	if wasSuccessful {
		return "Permitido"
	}
	return "Denegado"
}

func (s *ExportService) EntryHistoryCSV(employee *models.Employee, entries []*models.EmployeeEntry) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Historial de Ingresos", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{"Empleado", employee.FullName()})
	_ = writer.Write([]string{"Documento", employee.Document})
	_ = writer.Write([]string{"Departamento", employee.Department})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Fecha de Ingreso", "Resultado"})
	for _, entry := range entries {
		_ = writer.Write([]string{
			entry.EntryTime.Format("2006-01-02 15:04:05"),
			outcomeLabel(entry.WasSuccessful),
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("entries_%s_%s.csv", employee.Document, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) EntryHistoryXLSX(employee *models.Employee, entries []*models.EmployeeEntry) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Ingresos"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Historial de Ingresos")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Empleado")
	_ = f.SetCellValue(sheet, "B3", employee.FullName())
	_ = f.SetCellValue(sheet, "A4", "Documento")
	_ = f.SetCellValue(sheet, "B4", employee.Document)
	_ = f.SetCellValue(sheet, "A5", "Departamento")
	_ = f.SetCellValue(sheet, "B5", employee.Department)

	_ = f.SetCellValue(sheet, "A7", "Fecha de Ingreso")
	_ = f.SetCellValue(sheet, "B7", "Resultado")

	row := 8
	for _, entry := range entries {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), entry.EntryTime.Format("2006-01-02 15:04:05"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), outcomeLabel(entry.WasSuccessful))
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("entries_%s_%s.xlsx", employee.Document, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) EntryHistoryPDF(employee *models.Employee, entries []*models.EmployeeEntry) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Historial de Ingresos")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 8, "Empleado:")
	pdf.Cell(80, 8, employee.FullName())
	pdf.Ln(6)
	pdf.Cell(40, 8, "Documento:")
	pdf.Cell(80, 8, employee.Document)
	pdf.Ln(6)
	pdf.Cell(40, 8, "Departamento:")
	pdf.Cell(80, 8, employee.Department)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(60, 8, "Fecha de Ingreso")
	pdf.Cell(40, 8, "Resultado")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, entry := range entries {
		pdf.Cell(60, 7, entry.EntryTime.Format("2006-01-02 15:04:05"))
		pdf.Cell(40, 7, outcomeLabel(entry.WasSuccessful))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("entries_%s_%s.pdf", employee.Document, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
