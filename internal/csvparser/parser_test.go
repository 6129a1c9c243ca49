package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/manga-csv-to-mal/internal/config"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSettings() config.CSVSettings {
	return config.Default().CSVSettings
}

func TestParseReader_MapsHeadersToValues(t *testing.T) {
	input := "mal,title,read,last_read,rating,type\n" +
		"https://myanimelist.net/manga/2/Berserk,Berserk,364,2021-05-01,10,Reading\n" +
		",\"Tom & Jerry, <Vol 1>\",,,,\n"

	data, err := ParseReader(strings.NewReader(input), defaultSettings())

	require.NoError(t, err)
	assert.Equal(t, []string{"mal", "title", "read", "last_read", "rating", "type"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "Berserk", data.Rows[0].Get(types.FieldTitle))
	assert.Equal(t, "364", data.Rows[0].Get(types.FieldRead))
	assert.Equal(t, "Tom & Jerry, <Vol 1>", data.Rows[1].Get(types.FieldTitle))
	assert.Equal(t, "", data.Rows[1].Get(types.FieldType))
}

func TestParseReader_NormalizesHeaders(t *testing.T) {
	input := "\ufeff Title ,MAL,,Extra\nOne Piece,https://x/manga/13,foo,bar\n"

	data, err := ParseReader(strings.NewReader(input), defaultSettings())

	require.NoError(t, err)
	assert.Equal(t, []string{"title", "mal", "column_3", "extra"}, data.Headers)
	assert.Equal(t, "One Piece", data.Rows[0].Get(types.FieldTitle))
	assert.Equal(t, "https://x/manga/13", data.Rows[0].Get(types.FieldMAL))
}

func TestParseReader_ShortRowsKeepTheirPlace(t *testing.T) {
	input := "title,read,type\nA\nB,3,Completed\n"

	data, err := ParseReader(strings.NewReader(input), defaultSettings())

	require.NoError(t, err)
	require.Len(t, data.Rows, 2)
	_, present := data.Rows[0][types.FieldRead]
	assert.False(t, present)
	assert.Equal(t, "Completed", data.Rows[1].Get(types.FieldType))
}

func TestParseReader_Delimiters(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		input     string
	}{
		{"semicolon", ";", "title;type\nA;Dropped\n"},
		{"tab keyword", "tab", "title\ttype\nA\tDropped\n"},
		{"pipe keyword", "pipe", "title|type\nA|Dropped\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := defaultSettings()
			settings.Delimiter = tt.delimiter

			data, err := ParseReader(strings.NewReader(tt.input), settings)

			require.NoError(t, err)
			require.Len(t, data.Rows, 1)
			assert.Equal(t, "Dropped", data.Rows[0].Get(types.FieldType))
		})
	}
}

func TestParseReader_DecodesLegacyEncoding(t *testing.T) {
	// "Pokémon" in windows-1252: é is 0xE9.
	input := []byte("title\nPok\xe9mon\n")
	settings := defaultSettings()
	settings.Encoding = "windows-1252"

	data, err := ParseReader(strings.NewReader(string(input)), settings)

	require.NoError(t, err)
	assert.Equal(t, "Pokémon", data.Rows[0].Get(types.FieldTitle))
}

func TestParseReader_UnknownEncoding(t *testing.T) {
	settings := defaultSettings()
	settings.Encoding = "klingon-8"

	_, err := ParseReader(strings.NewReader("title\nA\n"), settings)

	assert.Error(t, err)
}

func TestParseReader_EmptyInput(t *testing.T) {
	_, err := ParseReader(strings.NewReader(""), defaultSettings())

	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseReader_HeaderOnly(t *testing.T) {
	data, err := ParseReader(strings.NewReader("title,type\n"), defaultSettings())

	require.NoError(t, err)
	assert.Empty(t, data.Rows)
}

func TestParse_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.csv")
	require.NoError(t, os.WriteFile(path, []byte("title\nA\nB\n"), 0o644))

	data, err := Parse(path, defaultSettings())

	require.NoError(t, err)
	assert.Equal(t, path, data.SourceFile)
	assert.Len(t, data.Rows, 2)
}

func TestStreamingParser_LineNumbers(t *testing.T) {
	parser, err := NewStreamingParser(strings.NewReader("title\nA\n\"multi\nline\"\nC\n"), defaultSettings())
	require.NoError(t, err)

	var lines []int
	for parser.Next() {
		lines = append(lines, parser.LineNumber())
	}

	require.NoError(t, parser.Err())
	assert.Equal(t, []int{2, 3, 5}, lines)
}

func TestParseReader_RecordsLinePerRow(t *testing.T) {
	data, err := ParseReader(strings.NewReader("title\nA\n\n\"multi\nline\"\nC\n"), defaultSettings())

	require.NoError(t, err)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, []int{2, 4, 6}, data.Lines)
}
