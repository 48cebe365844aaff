// File: internal/reporting/excel_reporter.go
package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/xkilldash9x/hotspot-cli/internal/aggregate"
)

const (
	sheetDetail  = "Vulnerabilities"
	sheetSummary = "Security Summary"

	fontName       = "Calibri"
	headerFill     = "4472C4"
	altRowFill     = "F2F2F2"
	columnPadding  = 4
	summaryGapRows = 2
)

// detailHeaders is the column order of the detail sheet.
var detailHeaders = []string{"Rule", "Severity", "Component", "Line", "Description", "Status", "Category"}

// ExcelReporter renders the summary as a styled workbook: one sheet
// with the full record list, one with the three count tables and a
// severity pie chart. The artifact is only saved after every sheet has
// been written, so a failed run leaves no file behind.
type ExcelReporter struct {
	path string
	file *excelize.File

	headerStyle int
	cellStyle   int
	altRowStyle int
}

// NewExcelReporter creates an ExcelReporter targeting the given path.
func NewExcelReporter(path string) *ExcelReporter {
	return &ExcelReporter{path: path}
}

// Write builds the workbook in memory and saves it.
func (r *ExcelReporter) Write(summary *aggregate.Summary) error {
	r.file = excelize.NewFile()

	if err := r.initStyles(); err != nil {
		return err
	}
	if err := r.writeDetailSheet(summary.Records); err != nil {
		return err
	}
	if err := r.writeSummarySheet(summary); err != nil {
		return err
	}
	if err := r.file.SaveAs(r.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", r.path, err)
	}
	return nil
}

// Close releases the in-memory workbook.
func (r *ExcelReporter) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

func (r *ExcelReporter) initStyles() error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	var err error
	r.headerStyle, err = r.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: fontName, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	r.cellStyle, err = r.file.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Family: fontName, Size: 10},
		Border: border,
	})
	if err != nil {
		return fmt.Errorf("failed to create cell style: %w", err)
	}

	r.altRowStyle, err = r.file.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Family: fontName, Size: 10},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{altRowFill}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return fmt.Errorf("failed to create alternating row style: %w", err)
	}
	return nil
}

// writeDetailSheet renders one row per record with a styled header,
// alternating row shading and content-sized column widths.
func (r *ExcelReporter) writeDetailSheet(records []aggregate.Record) error {
	if err := r.file.SetSheetName("Sheet1", sheetDetail); err != nil {
		return fmt.Errorf("failed to rename detail sheet: %w", err)
	}

	widths := make([]int, len(detailHeaders))
	for col, header := range detailHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := r.file.SetCellValue(sheetDetail, cell, header); err != nil {
			return fmt.Errorf("failed to write detail header: %w", err)
		}
		widths[col] = len(header)
	}

	for i, rec := range records {
		row := i + 2
		values := []interface{}{rec.Rule, rec.Severity, rec.Component, rec.Line, rec.Description, rec.Status, rec.Category}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := r.file.SetCellValue(sheetDetail, cell, v); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i, err)
			}
			if n := len(fmt.Sprint(v)); n > widths[col] {
				widths[col] = n
			}
		}

		style := r.cellStyle
		if row%2 == 0 {
			style = r.altRowStyle
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(values), row)
		if err := r.file.SetCellStyle(sheetDetail, first, last, style); err != nil {
			return fmt.Errorf("failed to style record %d: %w", i, err)
		}
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(detailHeaders), 1)
	if err := r.file.SetCellStyle(sheetDetail, "A1", lastHeader, r.headerStyle); err != nil {
		return fmt.Errorf("failed to style detail header: %w", err)
	}

	for col := range detailHeaders {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := r.file.SetColWidth(sheetDetail, name, name, float64(widths[col]+columnPadding)); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

// writeSummarySheet stacks the three count tables and anchors a pie
// chart over the severity distribution.
func (r *ExcelReporter) writeSummarySheet(summary *aggregate.Summary) error {
	if _, err := r.file.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	row := 1
	severityStart := row + 1
	row, err := r.writeCountTable(row, "Severity", summary.Severity)
	if err != nil {
		return err
	}
	row += summaryGapRows + 1
	if row, err = r.writeCountTable(row, "Status", summary.Status); err != nil {
		return err
	}
	row += summaryGapRows + 1
	if _, err = r.writeCountTable(row, "Category", summary.Category); err != nil {
		return err
	}

	if n := summary.Severity.Len(); n > 0 {
		chart := &excelize.Chart{
			Type: excelize.Pie,
			Series: []excelize.ChartSeries{{
				Name:       "Severity Distribution",
				Categories: fmt.Sprintf("'%s'!$A$%d:$A$%d", sheetSummary, severityStart, severityStart+n-1),
				Values:     fmt.Sprintf("'%s'!$B$%d:$B$%d", sheetSummary, severityStart, severityStart+n-1),
			}},
			Title: []excelize.RichTextRun{{
				Text: "Vulnerability Severity Distribution",
				Font: &excelize.Font{Bold: true, Family: fontName, Size: 11},
			}},
			PlotArea: excelize.ChartPlotArea{ShowCatName: true, ShowPercent: true},
			Format:   excelize.GraphicOptions{ScaleX: 1.2, ScaleY: 1.2},
		}
		if err := r.file.AddChart(sheetSummary, "E2", chart); err != nil {
			return fmt.Errorf("failed to add severity chart: %w", err)
		}
	}

	if err := r.file.SetColWidth(sheetSummary, "A", "A", 25); err != nil {
		return fmt.Errorf("failed to set summary column width: %w", err)
	}
	if err := r.file.SetColWidth(sheetSummary, "B", "B", 10); err != nil {
		return fmt.Errorf("failed to set summary column width: %w", err)
	}
	return nil
}

// writeCountTable writes one header row plus the table's entries in
// first-seen order, returning the last row written.
func (r *ExcelReporter) writeCountTable(startRow int, dimension string, table *aggregate.FrequencyTable) (int, error) {
	if err := r.file.SetCellValue(sheetSummary, fmt.Sprintf("A%d", startRow), dimension); err != nil {
		return 0, fmt.Errorf("failed to write %s table header: %w", dimension, err)
	}
	if err := r.file.SetCellValue(sheetSummary, fmt.Sprintf("B%d", startRow), "Count"); err != nil {
		return 0, fmt.Errorf("failed to write %s table header: %w", dimension, err)
	}
	if err := r.file.SetCellStyle(sheetSummary, fmt.Sprintf("A%d", startRow), fmt.Sprintf("B%d", startRow), r.headerStyle); err != nil {
		return 0, fmt.Errorf("failed to style %s table header: %w", dimension, err)
	}

	row := startRow
	for _, entry := range table.Entries() {
		row++
		if err := r.file.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), entry.Value); err != nil {
			return 0, fmt.Errorf("failed to write %s table: %w", dimension, err)
		}
		if err := r.file.SetCellValue(sheetSummary, fmt.Sprintf("B%d", row), entry.Count); err != nil {
			return 0, fmt.Errorf("failed to write %s table: %w", dimension, err)
		}
		if err := r.file.SetCellStyle(sheetSummary, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), r.cellStyle); err != nil {
			return 0, fmt.Errorf("failed to style %s table: %w", dimension, err)
		}
	}
	return row, nil
}
