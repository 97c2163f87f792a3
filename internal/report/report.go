// Package report renders an aggregated analysis result as a deterministic,
// percentage-annotated language breakdown.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/locfang/internal/stats"
)

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
)

// DefaultTopFiles is the number of files listed per language in verbose mode.
const DefaultTopFiles = 5

const (
	percentFactor = 100
	minLabelWidth = 12
	fileColWidth  = 50
)

const msgNoLines = "No lines of code found."

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Options controls report rendering.
type Options struct {
	// Verbose adds a per-language top-file breakdown.
	Verbose bool
	// TopFiles caps the verbose file list per language; <= 0 means
	// DefaultTopFiles.
	TopFiles int
	// NoColor disables ANSI coloring.
	NoColor bool
	// Format selects the output format; empty means FormatText.
	Format string
}

// Render writes the report for result to w.
//
// Languages are sorted by descending line total, ties broken by ascending
// label; verbose file lists by descending line count, ties by ascending
// path. Percentages are computed here, at render time, never stored.
func Render(w io.Writer, result *stats.Result, opts Options) error {
	switch opts.Format {
	case "", FormatText:
		return renderText(w, result, opts)
	case FormatTable:
		return renderTable(w, result, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

func renderText(w io.Writer, result *stats.Result, opts Options) error {
	header := color.New(color.Bold)
	langColor := color.New(color.FgCyan)

	fmt.Fprintf(w, "Repository: %s\n", result.Repository)
	fmt.Fprintf(w, "Total Lines of Code: %s\n", humanize.Comma(result.TotalLines))

	if result.TotalLines == 0 {
		fmt.Fprintf(w, "\n%s\n", msgNoLines)

		return nil
	}

	summaries := sortedSummaries(result)
	width := labelWidth(summaries)

	fmt.Fprintf(w, "\n%s\n", colorize(header, "Language Breakdown:", opts.NoColor))

	for _, summary := range summaries {
		pct := float64(summary.Lines) / float64(result.TotalLines) * percentFactor
		label := colorize(langColor, pad(string(summary.Label)+":", width), opts.NoColor)

		fmt.Fprintf(w, "%s %s lines (%.1f%%)\n", label, humanize.Comma(summary.Lines), pct)

		if opts.Verbose {
			renderTopFiles(w, summary, topFiles(opts))
		}
	}

	if opts.Verbose && (result.SkippedBinary > 0 || result.SkippedUnreadable > 0) {
		fmt.Fprintf(w, "\nSkipped: %d binary, %d unreadable\n", result.SkippedBinary, result.SkippedUnreadable)
	}

	return nil
}

// renderTopFiles writes the verbose per-language file breakdown.
func renderTopFiles(w io.Writer, summary *stats.LanguageSummary, topN int) {
	files := sortedFiles(summary)

	fmt.Fprintf(w, "\n  Top files:\n")

	shown := min(topN, len(files))
	for _, record := range files[:shown] {
		// A language can total 0 lines (all its files empty); avoid 0/0.
		pct := 0.0
		if summary.Lines > 0 {
			pct = float64(record.Lines) / float64(summary.Lines) * percentFactor
		}

		fmt.Fprintf(w, "    %s %s lines (%.1f%%)\n", pad(record.Path, fileColWidth), humanize.Comma(int64(record.Lines)), pct)
	}

	if remaining := len(files) - shown; remaining > 0 {
		fmt.Fprintf(w, "    ... and %d more files\n", remaining)
	}

	fmt.Fprintln(w)
}

func renderTable(w io.Writer, result *stats.Result, opts Options) error {
	fmt.Fprintf(w, "Repository: %s\n", result.Repository)
	fmt.Fprintf(w, "Total Lines of Code: %s\n\n", humanize.Comma(result.TotalLines))

	if result.TotalLines == 0 {
		fmt.Fprintf(w, "%s\n", msgNoLines)

		return nil
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleLight)
	writer.AppendHeader(table.Row{"Language", "Lines", "Share"})

	for _, summary := range sortedSummaries(result) {
		pct := float64(summary.Lines) / float64(result.TotalLines) * percentFactor
		writer.AppendRow(table.Row{string(summary.Label), humanize.Comma(summary.Lines), fmt.Sprintf("%.1f%%", pct)})
	}

	writer.Render()

	return nil
}

// sortedSummaries orders languages by descending total, ties by label.
func sortedSummaries(result *stats.Result) []*stats.LanguageSummary {
	summaries := make([]*stats.LanguageSummary, 0, len(result.Languages))
	for _, summary := range result.Languages {
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Lines != summaries[j].Lines {
			return summaries[i].Lines > summaries[j].Lines
		}

		return summaries[i].Label < summaries[j].Label
	})

	return summaries
}

// sortedFiles orders a language's files by descending count, ties by path.
// The summary's own slice is left untouched.
func sortedFiles(summary *stats.LanguageSummary) []stats.FileRecord {
	files := make([]stats.FileRecord, len(summary.Files))
	copy(files, summary.Files)

	sort.Slice(files, func(i, j int) bool {
		if files[i].Lines != files[j].Lines {
			return files[i].Lines > files[j].Lines
		}

		return files[i].Path < files[j].Path
	})

	return files
}

func labelWidth(summaries []*stats.LanguageSummary) int {
	width := minLabelWidth
	for _, summary := range summaries {
		if w := utf8.RuneCountInString(string(summary.Label)) + 1; w > width {
			width = w
		}
	}

	return width
}

func topFiles(opts Options) int {
	if opts.TopFiles <= 0 {
		return DefaultTopFiles
	}

	return opts.TopFiles
}

// pad right-pads s to width columns, counting runes so multi-byte labels
// stay aligned.
func pad(s string, width int) string {
	runes := utf8.RuneCountInString(s)
	if runes >= width {
		return s
	}

	return s + strings.Repeat(" ", width-runes)
}

func colorize(c *color.Color, s string, noColor bool) string {
	if noColor {
		return s
	}

	return c.Sprint(s)
}
