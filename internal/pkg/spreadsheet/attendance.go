// Package spreadsheet exports tabular reports as XLSX workbooks.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Attendance"

// Matrix is a header row plus one labelled row per entity.
type Matrix struct {
	Title   string
	Columns []string
	Rows    []MatrixRow
}

type MatrixRow struct {
	Key    string
	Label  string
	Values map[string]string // column -> value, missing cells stay blank
}

// WriteMatrix renders m to w as a single-sheet workbook.
func WriteMatrix(w io.Writer, m Matrix) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	f.SetCellValue(SheetName, "A1", m.Title)

	// Header on row 3: ID, Name, then one column per date
	header := append([]string{"Employee ID", "Employee Name"}, m.Columns...)
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return err
		}
		f.SetCellValue(SheetName, cell, h)
	}
	lastCol, err := excelize.CoordinatesToCellName(len(header), 3)
	if err != nil {
		return err
	}
	f.SetCellStyle(SheetName, "A3", lastCol, headerStyle)

	for r, row := range m.Rows {
		rowNum := r + 4
		f.SetCellValue(SheetName, fmt.Sprintf("A%d", rowNum), row.Key)
		f.SetCellValue(SheetName, fmt.Sprintf("B%d", rowNum), row.Label)
		for c, col := range m.Columns {
			v, ok := row.Values[col]
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+3, rowNum)
			if err != nil {
				return err
			}
			f.SetCellValue(SheetName, cell, v)
		}
	}

	f.SetColWidth(SheetName, "A", "A", 38)
	f.SetColWidth(SheetName, "B", "B", 25)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
