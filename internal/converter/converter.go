// =============================================================================
// Manga CSV to MAL Converter - Core Converter Module
// =============================================================================
//
// This module orchestrates one conversion. It ties together:
//   - File reading (csvparser, or xlsxparser for .xlsx workbooks)
//   - Row transformation (transformer.go)
//   - Malformed field reporting (validation)
//   - Summary computation (aggregator.go)
//   - XML generation (xmlwriter)
//   - Output writing (utils)
//
// PROCESSING PIPELINE:
//   1. Check the input exists
//   2. Read every row
//   3. Transform each row into a record (never dropping a row)
//   4. Report fields that fell back to defaults
//   5. Summarize the records and assemble the document
//   6. Serialize and write next to the input
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/manga-csv-to-mal/internal/config"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/csvparser"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/logging"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/types"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/validation"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/xlsxparser"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/xmlwriter"
	"github.com/ginjaninja78/manga-csv-to-mal/pkg/utils"
)

// ErrInputNotFound is returned when the input path does not name a file.
var ErrInputNotFound = errors.New("file not found")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result contains the outcome of one conversion.
type Result struct {
	// InputPath is the file that was read.
	InputPath string

	// OutputPath is where the document was (or, for a dry run, would be)
	// written.
	OutputPath string

	// Written is false for dry runs.
	Written bool

	// Document is the assembled export.
	Document types.Document

	// Issues lists every field that was replaced by a default.
	Issues []*validation.FieldIssue

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	RowsRead        int
	RecordsWritten  int
	MalformedFields int
	BytesWritten    int
	ProcessingTime  time.Duration
}

// RunOptions tweaks a single Run.
type RunOptions struct {
	// DryRun converts and summarizes but does not write the output file.
	DryRun bool
}

// =============================================================================
// CONVERTER
// =============================================================================

// Converter converts manga list exports into MAL import documents.
type Converter struct {
	cfg         *config.Config
	transformer *Transformer
	logger      *slog.Logger
}

// New creates a Converter. A nil logger discards log output.
func New(cfg *config.Config, logger *slog.Logger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Converter{
		cfg:         cfg,
		transformer: NewTransformer(cfg.DateMode),
		logger:      logger,
	}
}

// Run executes the full pipeline for the file at inputPath.
func (c *Converter) Run(inputPath string, opts RunOptions) (*Result, error) {
	startTime := time.Now()

	if !utils.FileExists(inputPath) {
		return nil, fmt.Errorf("%s: %w", inputPath, ErrInputNotFound)
	}

	result := &Result{
		InputPath:  inputPath,
		OutputPath: utils.OutputPath(inputPath, c.cfg.OutputSuffix),
	}

	c.logger.Info("converting list", "input", inputPath)

	rows, lines, err := c.ReadRows(inputPath)
	if err != nil {
		return nil, err
	}
	result.Stats.RowsRead = len(rows)
	c.logger.Debug("read rows", "count", len(rows))

	doc, issues := c.Convert(rows, lines)
	result.Document = doc
	result.Issues = issues
	result.Stats.RecordsWritten = len(doc.Records)
	result.Stats.MalformedFields = len(issues)

	for _, issue := range issues {
		c.logger.Warn("field replaced by default",
			"line", issue.Line,
			"title", issue.Title,
			"field", issue.Field,
			"value", issue.Value,
			"fallback", issue.Fallback,
			"reason", issue.Message,
		)
	}

	data, err := c.Render(doc)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		c.logger.Info("dry run, output not written", "output", result.OutputPath)
	} else {
		if err := utils.WriteFileAtomic(result.OutputPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
		result.Written = true
		result.Stats.BytesWritten = len(data)
		c.logger.Info("wrote MAL export", "output", result.OutputPath, "entries", len(doc.Records))
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	return result, nil
}

// ReadRows reads every row of the file at path, along with the source line
// of each row. Workbooks (.xlsx, .xlsm) go through the xlsx parser;
// everything else is read as CSV.
func (c *Converter) ReadRows(path string) ([]types.InputRow, []int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		sheet, err := xlsxparser.Parse(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse workbook: %w", err)
		}
		c.logger.Debug("parsed workbook", "sheet", sheet.Name, "headers", sheet.Headers)
		return sheet.Rows, sheet.Lines, nil

	default:
		data, err := csvparser.Parse(path, c.cfg.CSVSettings)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		c.logger.Debug("parsed CSV", "headers", data.Headers)
		return data.Rows, data.Lines, nil
	}
}

// Convert transforms rows into a complete document and reports the fields
// that fell back to defaults. The document has exactly one record per row,
// in row order. lines gives the source line of each row for the report and
// may be nil.
func (c *Converter) Convert(rows []types.InputRow, lines []int) (types.Document, []*validation.FieldIssue) {
	records := c.transformer.TransformAll(rows)
	issues := validation.CheckAll(rows, records, lines)

	doc := types.Document{
		User: types.UserInfo{
			UserName:   c.cfg.UserName,
			ExportType: c.cfg.UserExportType,
		},
		Summary: Summarize(records),
		Records: records,
	}

	return doc, issues
}

// Render serializes doc using the configured layout.
func (c *Converter) Render(doc types.Document) ([]byte, error) {
	data, err := xmlwriter.GenerateWithOptions(doc, xmlwriter.GenerateOptions{
		Indent:                c.cfg.Indent,
		IncludeXMLDeclaration: c.cfg.WantDeclaration(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate XML: %w", err)
	}
	return data, nil
}
