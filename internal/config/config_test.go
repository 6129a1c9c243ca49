package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "kirbonwashere!", cfg.UserName)
	assert.Equal(t, "2", cfg.UserExportType)
	assert.Equal(t, "_mal.xml", cfg.OutputSuffix)
	assert.Equal(t, "  ", cfg.Indent)
	assert.Equal(t, DateModeISO, cfg.DateMode)
	assert.Equal(t, ",", cfg.CSVSettings.Delimiter)
	assert.Equal(t, "UTF-8", cfg.CSVSettings.Encoding)
	assert.True(t, cfg.WantDeclaration())
}

func TestLoad_OverridesSurviveDefaults(t *testing.T) {
	path := writeConfig(t, `
user_name: reader42
output_suffix: .mal.xml
xml_declaration: false
date_mode: Passthrough
csv_settings:
  delimiter: ";"
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "reader42", cfg.UserName)
	assert.Equal(t, ".mal.xml", cfg.OutputSuffix)
	assert.False(t, cfg.WantDeclaration())
	assert.Equal(t, DateModePassthrough, cfg.DateMode)
	assert.Equal(t, ";", cfg.CSVSettings.Delimiter)
	assert.Equal(t, "UTF-8", cfg.CSVSettings.Encoding)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown date mode", "date_mode: european\n"},
		{"suffix with separator", "output_suffix: out/x.xml\n"},
		{"non-whitespace indent", "indent: '--'\n"},
		{"malformed yaml", "user_name: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
