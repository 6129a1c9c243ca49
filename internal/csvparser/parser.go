// =============================================================================
// Manga CSV to MAL Converter - CSV Parser Module
// =============================================================================
//
// This module turns a manga-list CSV export into a sequence of InputRows.
// It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Non UTF-8 encodings (decoded through golang.org/x/text)
//   - A leading UTF-8 byte order mark, which spreadsheet tools like to add
//   - Quoted fields, ragged rows and stray quotes
//
// Header names are trimmed and lower-cased so "Title " and "title" are the
// same column. Rows are never dropped: a short row simply lacks the trailing
// columns, and the converter falls back to defaults for them.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/manga-csv-to-mal/internal/config"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/types"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("CSV file is empty")

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents the parsed CSV file.
type CSVData struct {
	// Headers contains the normalized column headers, in file order.
	Headers []string

	// Rows contains the data rows in file order.
	Rows []types.InputRow

	// Lines holds the line in the file where each entry of Rows starts.
	Lines []int

	// SourceFile is the path to the source CSV file, empty for readers.
	SourceFile string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Delimiter and encoding settings.
//
// RETURNS:
//   - The parsed data, one InputRow per data line.
//   - An error if the file cannot be opened, decoded or read as CSV.
func Parse(filePath string, settings config.CSVSettings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := ParseReader(file, settings)
	if err != nil {
		return nil, err
	}
	data.SourceFile = filePath
	return data, nil
}

// ParseReader reads CSV data from any io.Reader.
func ParseReader(r io.Reader, settings config.CSVSettings) (*CSVData, error) {
	parser, err := NewStreamingParser(r, settings)
	if err != nil {
		return nil, err
	}

	data := &CSVData{
		Headers: parser.Headers(),
		Rows:    []types.InputRow{},
	}
	for parser.Next() {
		data.Rows = append(data.Rows, parser.Row())
		data.Lines = append(data.Lines, parser.LineNumber())
	}
	if err := parser.Err(); err != nil {
		return nil, err
	}

	return data, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if r, size := utf8.DecodeRuneInString(settings.Delimiter); size > 0 && r != utf8.RuneError {
			reader.Comma = r
		} else {
			reader.Comma = ','
		}
	}

	// Exports from tracking sites are often hand-edited; tolerate ragged
	// rows and stray quotes rather than rejecting the whole file.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// newDecodingReader wraps r so it yields UTF-8 text.
//
// Any encoding known to the WHATWG index is accepted ("windows-1252",
// "latin1", "shift_jis", ...). A UTF-8 byte order mark is stripped in every
// case since BOMOverride switches to UTF-8 when one is present.
func newDecodingReader(r io.Reader, encoding string) (io.Reader, error) {
	name := strings.ToLower(strings.TrimSpace(encoding))

	switch name {
	case "", "utf-8", "utf8":
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", encoding, err)
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

// NormalizeHeaders trims and lower-cases header values. Empty headers get a
// positional placeholder so they can never collide with a real column.
func NormalizeHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.ToLower(strings.TrimSpace(header))
		if header == "" {
			header = fmt.Sprintf("column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads rows one at a time.
//
// USAGE:
//   parser, err := NewStreamingParser(r, settings)
//   if err != nil {
//       return err
//   }
//
//   for parser.Next() {
//       row := parser.Row()
//       // Process the row...
//   }
//
//   if err := parser.Err(); err != nil {
//       return err
//   }
type StreamingParser struct {
	reader     *csv.Reader
	headers    []string
	currentRow types.InputRow
	lineNumber int
	err        error
}

// NewStreamingParser creates a streaming parser and consumes the header row.
func NewStreamingParser(r io.Reader, settings config.CSVSettings) (*StreamingParser, error) {
	decoded, err := newDecodingReader(bufio.NewReader(r), settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	configureReader(reader, settings)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("error reading header row: %w", err)
	}

	return &StreamingParser{
		reader:     reader,
		headers:    NormalizeHeaders(header),
		lineNumber: 1,
	}, nil
}

// Next advances to the next row. Returns false when there are no more rows
// or a read error occurred.
func (p *StreamingParser) Next() bool {
	if p.err != nil {
		return false
	}

	record, err := p.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		p.err = fmt.Errorf("error reading line %d: %w", p.lineNumber+1, err)
		return false
	}

	p.lineNumber, _ = p.reader.FieldPos(0)

	row := make(types.InputRow, len(p.headers))
	for i, header := range p.headers {
		if i < len(record) {
			row[header] = strings.TrimSpace(record[i])
		}
	}
	p.currentRow = row

	return true
}

// Row returns the current row.
func (p *StreamingParser) Row() types.InputRow {
	return p.currentRow
}

// Headers returns the normalized headers.
func (p *StreamingParser) Headers() []string {
	return p.headers
}

// LineNumber returns the line in the file where the current row starts.
func (p *StreamingParser) LineNumber() int {
	return p.lineNumber
}

// Err returns any error that occurred during parsing.
func (p *StreamingParser) Err() error {
	return p.err
}
