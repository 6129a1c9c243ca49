// =============================================================================
// Manga CSV to MAL Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the binary
// without a subcommand converts one list:
//
//   mangamal                  # prompts for the path
//   mangamal comick.csv       # converts comick.csv -> comick_mal.xml
//   mangamal list.xlsx -v     # workbook input, debug logging
//
// COBRA CLI STRUCTURE:
//   rootCmd (mangamal [path])
//   └── versionCmd (mangamal version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// A missing file means every setting uses its default.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// dryRun converts and prints the summary without writing the output file.
var dryRun bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mangamal [path]",
	Short: "Convert a manga list CSV export into a MyAnimeList import file",
	Long: `mangamal converts a manga-tracking list exported as CSV (or as an .xlsx
workbook) into the XML format accepted by MyAnimeList's list import.

Recognized columns: mal, title, read, last_read, rating, type.
Other columns are ignored. Values that cannot be used fall back to defaults
and are reported as warnings; no row is ever dropped.

The output is written next to the input, with the extension replaced by
"_mal.xml" (configurable).

If no path is given on the command line, you are asked for one.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Convert and print the summary without writing the output file",
	)
}
