// =============================================================================
// Manga CSV to MAL Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the mangamal CLI. It converts a manga
// list exported as CSV (or .xlsx) into a MyAnimeList XML import file.
//
// USAGE:
//   mangamal [path]       - Convert one list (prompts when path is omitted)
//   mangamal version      - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core conversion logic (not for external import)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/manga-csv-to-mal/cmd"
)

func main() {
	cmd.Execute()
}
