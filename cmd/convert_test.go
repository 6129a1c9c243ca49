package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/manga-csv-to-mal/internal/converter"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPromptForPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "exports/list.csv\n", "exports/list.csv"},
		{"no newline", "list.csv", "list.csv"},
		{"windows newline", "list.csv\r\n", "list.csv"},
		{"double quoted", "\"/home/me/My List.csv\"\n", "/home/me/My List.csv"},
		{"single quoted", "'/home/me/My List.csv'\n", "/home/me/My List.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			got, err := promptForPath(strings.NewReader(tt.input), &out)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, out.String(), "prompt is only printed for terminals")
		})
	}
}

func TestPromptForPath_Empty(t *testing.T) {
	_, err := promptForPath(strings.NewReader("\n"), &bytes.Buffer{})

	assert.ErrorIs(t, err, errNoPath)
}

func TestRenderSummary(t *testing.T) {
	out := renderSummary(types.Summary{Total: 6, Reading: 1, Completed: 2, OnHold: 0, Dropped: 1, PlanToRead: 2})

	for _, status := range types.Statuses {
		assert.Contains(t, out, string(status))
	}
	assert.Contains(t, strings.ToLower(out), "total")
	assert.Contains(t, out, "6")
}

func TestRootCommand_ConvertsArgument(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "list.csv")
	require.NoError(t, os.WriteFile(input, []byte("title,type\nA,Reading\nB,Dropped\n"), 0o644))

	out, err := executeRoot(t, "", input, "--config", filepath.Join(dir, "none.yaml"), "--dry-run=false")

	require.NoError(t, err)
	assert.Contains(t, out, "MAL XML file created successfully: "+filepath.Join(dir, "list_mal.xml"))
	assert.FileExists(t, filepath.Join(dir, "list_mal.xml"))
}

func TestRootCommand_PromptsWhenNoArgument(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "list.csv")
	require.NoError(t, os.WriteFile(input, []byte("title,type\nA,Reading\n"), 0o644))

	out, err := executeRoot(t, input+"\n", "--config", filepath.Join(dir, "none.yaml"), "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, out, "Dry run:")
	assert.NoFileExists(t, filepath.Join(dir, "list_mal.xml"))
}

func TestRootCommand_ReportsMalformedFields(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "list.csv")
	require.NoError(t, os.WriteFile(input, []byte("title,read,type\nA,lots,Reading\nB,3,Someday\n"), 0o644))

	out, err := executeRoot(t, "", input, "--config", filepath.Join(dir, "none.yaml"), "--dry-run", "--verbose=false")

	require.NoError(t, err)
	assert.Contains(t, out, "2 field(s) could not be used")
	assert.NotContains(t, out, "replaced by defaults:")
	assert.Regexp(t, `read\s+1`, out)
	assert.Regexp(t, `type\s+1`, out)
}

func TestRootCommand_VerboseListsEachIssue(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "list.csv")
	require.NoError(t, os.WriteFile(input, []byte("title,rating\nA,9\nB,NaN\n"), 0o644))

	out, err := executeRoot(t, "", input, "--config", filepath.Join(dir, "none.yaml"), "--dry-run", "--verbose")
	t.Cleanup(func() { verbose = false })

	require.NoError(t, err)
	assert.Contains(t, out, "1 field(s) replaced by defaults:")
	assert.Contains(t, out, `line 3 (B): rating "NaN"`)
}

func TestRootCommand_MissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := executeRoot(t, "", filepath.Join(dir, "missing.csv"), "--config", filepath.Join(dir, "none.yaml"), "--dry-run=false")

	assert.ErrorIs(t, err, converter.ErrInputNotFound)
	assert.NoFileExists(t, filepath.Join(dir, "missing_mal.xml"))
}

func TestVersionCommand(t *testing.T) {
	out, err := executeRoot(t, "", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "Version:    "+Version)
}
