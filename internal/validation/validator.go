// =============================================================================
// Manga CSV to MAL Converter - Validation Module
// =============================================================================
//
// The converter never rejects a row. A value it cannot use is replaced with a
// default (identifier "0", date "0000-00-00", status "Plan to Read", count
// "0"), and the conversion completes.
//
// This module reports where that happened, so the user can fix the source
// list if they care. It compares each input row with the record built from
// it: a non-empty input value whose output is not that value (or the parsed
// form of it) is a malformed field.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/manga-csv-to-mal/internal/types"
)

// =============================================================================
// ISSUE STRUCTURE
// =============================================================================

// FieldIssue describes one input value that was replaced by a default.
type FieldIssue struct {
	// Line is where the row sits in the source: the file line for CSV input,
	// the sheet row for workbooks. The header is line 1.
	Line int

	// Title is the manga title of the row, for readable reports.
	Title string

	// Field is the input column name.
	Field string

	// Value is the raw input value.
	Value string

	// Fallback is the value written instead.
	Fallback string

	// Message explains why the value was not used.
	Message string
}

// Error implements the error interface.
func (i *FieldIssue) Error() string {
	return fmt.Sprintf("line %d (%s): %s %q: %s, using %q", i.Line, i.Title, i.Field, i.Value, i.Message, i.Fallback)
}

// =============================================================================
// CHECKS
// =============================================================================

// Check compares one input row with the record built from it. line is the
// source position used in the report.
func Check(line int, input types.InputRow, record types.Record) []*FieldIssue {
	var issues []*FieldIssue

	add := func(field, value, fallback, message string) {
		issues = append(issues, &FieldIssue{
			Line:     line,
			Title:    record.Title,
			Field:    field,
			Value:    value,
			Fallback: fallback,
			Message:  message,
		})
	}

	if v := strings.TrimSpace(input.Get(types.FieldMAL)); v != "" && record.MangaDBID == "0" && !strings.Contains(v, "manga/0") {
		add(types.FieldMAL, v, record.MangaDBID, "no manga/<id> segment")
	}

	if v := strings.TrimSpace(input.Get(types.FieldLastRead)); v != "" && v != "0000-00-00" && record.StartDate == "0000-00-00" {
		add(types.FieldLastRead, v, record.StartDate, "unrecognized date format")
	}

	if v := strings.TrimSpace(input.Get(types.FieldRead)); v != "" && v != record.ReadChapters {
		add(types.FieldRead, v, record.ReadChapters, "not a non-negative whole number")
	}

	if v := strings.TrimSpace(input.Get(types.FieldRating)); v != "" && v != record.Score {
		add(types.FieldRating, v, record.Score, "not a score between 0 and 10")
	}

	if v := input.Get(types.FieldType); v != "" && v != string(record.Status) {
		add(types.FieldType, v, string(record.Status), "unknown status")
	}

	return issues
}

// CheckAll runs Check over rows and records pairwise. Both slices must come
// from the same conversion and so have equal length. lines gives the source
// position of each row; when it is missing, row i is assumed to sit on line
// i+2, right below a single header line.
func CheckAll(rows []types.InputRow, records []types.Record, lines []int) []*FieldIssue {
	var issues []*FieldIssue
	for i := range rows {
		if i >= len(records) {
			break
		}
		line := i + 2
		if i < len(lines) {
			line = lines[i]
		}
		issues = append(issues, Check(line, rows[i], records[i])...)
	}
	return issues
}

// =============================================================================
// REPORTING
// =============================================================================

// CountByField groups issues by input column.
func CountByField(issues []*FieldIssue) map[string]int {
	counts := make(map[string]int)
	for _, issue := range issues {
		counts[issue.Field]++
	}
	return counts
}

// FormatIssues renders issues one per line.
func FormatIssues(issues []*FieldIssue) string {
	if len(issues) == 0 {
		return "No malformed fields."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d field(s) replaced by defaults:\n", len(issues)))
	for _, issue := range issues {
		sb.WriteString("  - ")
		sb.WriteString(issue.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}
