// =============================================================================
// Manga CSV to MAL Converter - Convert Command
// =============================================================================
//
// This file holds the body of the root command.
//
// PROCESSING PIPELINE:
//   1. Load configuration (missing file = defaults)
//   2. Build the logger
//   3. Take the input path from the arguments, or prompt for it
//   4. Run the converter
//   5. Print the per-status summary table
//
// =============================================================================

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/manga-csv-to-mal/internal/config"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/converter"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/logging"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/types"
	"github.com/ginjaninja78/manga-csv-to-mal/internal/validation"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// promptText is shown before reading the input path interactively.
const promptText = "Enter the path to your CSV file: "

// reportedFields is the order per-field fallback counts are printed in.
var reportedFields = []string{
	types.FieldMAL,
	types.FieldLastRead,
	types.FieldRead,
	types.FieldRating,
	types.FieldType,
}

// errNoPath is returned when the prompt gets an empty answer.
var errNoPath = errors.New("no input path given")

// runConvert is the main function of the root command.
func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	var inputPath string
	if len(args) == 1 {
		inputPath = args[0]
	} else {
		inputPath, err = promptForPath(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	result, err := converter.New(cfg, logger).Run(inputPath, converter.RunOptions{DryRun: dryRun})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSummary(result.Document.Summary))

	if result.Stats.MalformedFields > 0 {
		fmt.Fprintf(out, "%d field(s) could not be used and were replaced by defaults (see warnings above).\n",
			result.Stats.MalformedFields)
		counts := validation.CountByField(result.Issues)
		for _, field := range reportedFields {
			if n := counts[field]; n > 0 {
				fmt.Fprintf(out, "  %-10s %d\n", field, n)
			}
		}
		if verbose {
			fmt.Fprint(out, validation.FormatIssues(result.Issues))
		}
	}

	if result.Written {
		fmt.Fprintf(out, "MAL XML file created successfully: %s\n", result.OutputPath)
	} else {
		fmt.Fprintf(out, "Dry run: %s was not written.\n", result.OutputPath)
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// promptForPath reads one line from in. The prompt is printed only when in
// is a terminal, so piping a path in ("echo list.csv | mangamal") produces
// clean output.
//
// Surrounding quotes are removed: terminals add them when a file is dragged
// into the window.
func promptForPath(in io.Reader, out io.Writer) (string, error) {
	if isTerminal(in) {
		fmt.Fprint(out, promptText)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input path: %w", err)
	}

	path := strings.TrimSpace(line)
	if len(path) >= 2 {
		if (path[0] == '"' && path[len(path)-1] == '"') || (path[0] == '\'' && path[len(path)-1] == '\'') {
			path = path[1 : len(path)-1]
		}
	}

	if path == "" {
		return "", errNoPath
	}
	return path, nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderSummary renders the per-status counts as a table.
func renderSummary(s types.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Status", "Entries"})

	for _, status := range types.Statuses {
		tw.AppendRow(table.Row{string(status), strconv.Itoa(converter.Count(s, status))})
	}
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(s.Total)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft, AlignFooter: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})

	return tw.Render()
}
