// =============================================================================
// Manga CSV to MAL Converter - Transformation Engine
// =============================================================================
//
// This module maps one InputRow onto one MAL Record. It holds the only
// non-trivial rules of the conversion:
//   - MAL identifier extraction from the source URL
//   - Date normalization to YYYY-MM-DD
//   - Status label mapping onto the five MAL reading states
//   - Numeric fallbacks for read chapters and score
//
// None of these rules can fail. Anything that does not match falls back to a
// default value; the validation package reports which fields did.
//
// =============================================================================

package converter

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/manga-csv-to-mal/internal/config"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/types"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultID is used when no MAL identifier can be extracted.
	DefaultID = "0"

	// SentinelDate means "no valid date available".
	SentinelDate = "0000-00-00"

	// DefaultNumber replaces missing or non-numeric counters.
	DefaultNumber = "0"

	// MaxScore is the highest score MAL accepts.
	MaxScore = 10
)

// =============================================================================
// IDENTIFIER EXTRACTION
// =============================================================================

var malIDPattern = regexp.MustCompile(`manga/(\d+)`)

// ExtractID returns the digits of the first manga/<digits> path segment in
// url, or DefaultID. The digits are returned as text and never parsed, so
// arbitrarily long identifiers pass through unchanged.
func ExtractID(url string) string {
	match := malIDPattern.FindStringSubmatch(url)
	if match == nil {
		return DefaultID
	}
	return match[1]
}

// =============================================================================
// DATE NORMALIZATION
// =============================================================================

// DateRule is one accepted input date layout. Order lists which capture
// group supplies year, month and day of the output, in that order.
type DateRule struct {
	Name    string
	Pattern *regexp.Regexp
	Order   [3]int
}

// DateRules returns the ordered rule list for mode. The first matching rule
// wins.
//
// In passthrough mode the month-first rule re-emits its groups left to right,
// so "05-01-2021" stays "05-01-2021". That mirrors the export script people
// have been importing with; iso mode produces a real ISO date instead.
func DateRules(mode string) []DateRule {
	monthFirst := [3]int{3, 1, 2}
	if mode == config.DateModePassthrough {
		monthFirst = [3]int{1, 2, 3}
	}

	return []DateRule{
		{
			Name:    "YYYY-MM-DD",
			Pattern: isoDatePattern,
			Order:   [3]int{1, 2, 3},
		},
		{
			Name:    "MM-DD-YYYY",
			Pattern: monthFirstDatePattern,
			Order:   monthFirst,
		},
	}
}

var (
	isoDatePattern        = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	monthFirstDatePattern = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
)

// NormalizeDate applies rules to value and returns the first match
// rearranged as three dash-separated groups, or SentinelDate.
func NormalizeDate(value string, rules []DateRule) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return SentinelDate
	}

	for _, rule := range rules {
		match := rule.Pattern.FindStringSubmatch(value)
		if match == nil {
			continue
		}
		return match[rule.Order[0]] + "-" + match[rule.Order[1]] + "-" + match[rule.Order[2]]
	}

	return SentinelDate
}

// =============================================================================
// STATUS MAPPING
// =============================================================================

// MapStatus maps a status label onto the enumeration. The match is exact and
// case-sensitive; anything else is Plan to Read.
func MapStatus(label string) types.Status {
	status := types.Status(label)
	if status.Valid() {
		return status
	}
	return types.StatusPlanToRead
}

// =============================================================================
// NUMERIC FIELDS
// =============================================================================

var (
	countPattern = regexp.MustCompile(`^\d+$`)
	scorePattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// NormalizeCount returns value if it is a plain non-negative whole number
// (digits only, no sign), otherwise DefaultNumber.
func NormalizeCount(value string) string {
	value = strings.TrimSpace(value)
	if !countPattern.MatchString(value) {
		return DefaultNumber
	}
	return value
}

// NormalizeScore returns value if it is a plain decimal number between 0 and
// MaxScore, otherwise DefaultNumber. Signs, exponents, hex floats and NaN are
// not scores.
func NormalizeScore(value string) string {
	value = strings.TrimSpace(value)
	if !scorePattern.MatchString(value) {
		return DefaultNumber
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || f > MaxScore {
		return DefaultNumber
	}
	return value
}

// =============================================================================
// ROW TRANSFORMER
// =============================================================================

// Transformer converts InputRows into Records.
type Transformer struct {
	dateRules []DateRule
}

// NewTransformer creates a Transformer for the given date mode.
func NewTransformer(dateMode string) *Transformer {
	return &Transformer{
		dateRules: DateRules(dateMode),
	}
}

// Transform builds the Record for one row. The last-read date is used for
// both start and finish date since the source list only tracks one date.
func (t *Transformer) Transform(row types.InputRow) types.Record {
	date := NormalizeDate(row.Get(types.FieldLastRead), t.dateRules)

	return types.Record{
		MangaDBID:        ExtractID(row.Get(types.FieldMAL)),
		Title:            row.Get(types.FieldTitle),
		Volumes:          "0",
		Chapters:         "0",
		MyID:             "0",
		ReadVolumes:      "0",
		ReadChapters:     NormalizeCount(row.Get(types.FieldRead)),
		StartDate:        date,
		FinishDate:       date,
		ScanalationGroup: "",
		Score:            NormalizeScore(row.Get(types.FieldRating)),
		Storage:          "",
		Status:           MapStatus(row.Get(types.FieldType)),
		Comments:         "",
		TimesRead:        "0",
		Tags:             "",
		RereadValue:      "Low",
		UpdateOnImport:   "1",
	}
}

// TransformAll converts every row, preserving order. The result always has
// exactly len(rows) records.
func (t *Transformer) TransformAll(rows []types.InputRow) []types.Record {
	records := make([]types.Record, len(rows))
	for i, row := range rows {
		records[i] = t.Transform(row)
	}
	return records
}
