package xlsxparser

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/manga-csv-to-mal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newWorkbook(t *testing.T, sheet string, rows [][]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	return f
}

func TestParse_ReadsFirstSheet(t *testing.T) {
	f := newWorkbook(t, "Sheet1", [][]interface{}{
		{"Title", "MAL", "Type", "Read"},
		{"Berserk", "https://myanimelist.net/manga/2", "Reading", 364},
		{"Monster", "", "Completed", 162},
	})
	path := filepath.Join(t.TempDir(), "list.xlsx")
	require.NoError(t, f.SaveAs(path))

	sheet, err := Parse(path)

	require.NoError(t, err)
	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Equal(t, path, sheet.SourceFile)
	assert.Equal(t, []string{"title", "mal", "type", "read"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Berserk", sheet.Rows[0].Get(types.FieldTitle))
	assert.Equal(t, "364", sheet.Rows[0].Get(types.FieldRead))
	assert.Equal(t, "Completed", sheet.Rows[1].Get(types.FieldType))
	assert.Equal(t, []int{2, 3}, sheet.Lines)
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx"))

	assert.Error(t, err)
}

func TestParseReader_SkipsEmptySheetsAndRows(t *testing.T) {
	f := newWorkbook(t, "List", [][]interface{}{
		{"title", "type"},
		{"A", "Dropped"},
		{"", ""},
		{"B", "On-Hold"},
	})

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	sheet, err := ParseReader(&buf)

	require.NoError(t, err)
	assert.Equal(t, "List", sheet.Name)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "B", sheet.Rows[1].Get(types.FieldTitle))
	assert.Equal(t, []int{2, 4}, sheet.Lines)
}

func TestParseReader_NoHeader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := ParseReader(&buf)

	assert.Error(t, err)
}
