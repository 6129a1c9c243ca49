// =============================================================================
// Manga CSV to MAL Converter - XLSX Parser Module
// =============================================================================
//
// Some tracking sites (and most people who clean up their list in a
// spreadsheet) hand over an .xlsx workbook instead of a CSV. This module reads
// the first non-empty worksheet of such a workbook into the same InputRow
// sequence the CSV parser produces, so the rest of the pipeline does not care
// which format the list arrived in.
//
// EXPECTED LAYOUT:
//   Row 1 is the header row (mal, title, read, last_read, rating, type).
//   Every following row is one manga. Column order does not matter.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/manga-csv-to-mal/internal/csvparser"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// SHEET STRUCTURE
// =============================================================================

// Sheet is the parsed content of one worksheet.
type Sheet struct {
	// Name is the worksheet the rows were read from.
	Name string

	// Headers contains the normalized header row.
	Headers []string

	// Rows contains one InputRow per data row, in sheet order.
	Rows []types.InputRow

	// Lines holds the 1-based sheet row number of each entry in Rows.
	Lines []int

	// SourceFile is the path of the workbook, empty for readers.
	SourceFile string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse opens the workbook at path and reads its first non-empty sheet.
func Parse(path string) (*Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	sheet, err := ParseReader(file)
	if err != nil {
		return nil, err
	}
	sheet.SourceFile = path
	return sheet, nil
}

// ParseReader reads a workbook from any io.Reader.
func ParseReader(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f)
}

// parseWorkbook picks the first sheet that has a header row. GetRows starts
// at sheet row 1, so the header is row 1 and rows[i] is sheet row i+1.
func parseWorkbook(f *excelize.File) (*Sheet, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		if len(rows) == 0 || isRowEmpty(rows[0]) {
			continue
		}
		return buildSheet(name, rows), nil
	}

	return nil, fmt.Errorf("workbook has no sheet with a header row")
}

// buildSheet converts raw sheet rows to InputRows.
//
// excelize trims trailing empty cells and skips trailing empty rows, but rows
// in the middle of the data that are completely empty are still returned.
// Those are skipped, matching how a CSV reader ignores blank lines.
func buildSheet(name string, rows [][]string) *Sheet {
	headers := csvparser.NormalizeHeaders(rows[0])

	sheet := &Sheet{
		Name:    name,
		Headers: headers,
		Rows:    make([]types.InputRow, 0, len(rows)-1),
		Lines:   make([]int, 0, len(rows)-1),
	}

	for i, raw := range rows[1:] {
		if isRowEmpty(raw) {
			continue
		}

		row := make(types.InputRow, len(headers))
		for i, header := range headers {
			if i < len(raw) {
				row[header] = strings.TrimSpace(raw[i])
			}
		}
		sheet.Rows = append(sheet.Rows, row)
		sheet.Lines = append(sheet.Lines, i+2)
	}

	return sheet
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
