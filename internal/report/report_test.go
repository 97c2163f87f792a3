package report_test

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locfang/internal/classify"
	"github.com/Sumatoshi-tech/locfang/internal/report"
	"github.com/Sumatoshi-tech/locfang/internal/stats"
)

func render(t *testing.T, result *stats.Result, opts report.Options) string {
	t.Helper()

	opts.NoColor = true

	var buf bytes.Buffer

	require.NoError(t, report.Render(&buf, result, opts))

	return buf.String()
}

func singleLanguageResult() *stats.Result {
	return &stats.Result{
		Repository: "acme/app",
		TotalLines: 15,
		Languages: map[classify.Label]*stats.LanguageSummary{
			"Python": {Label: "Python", Lines: 15, Files: []stats.FileRecord{
				{Path: "main.py", Lines: 10},
				{Path: "utils.py", Lines: 5},
			}},
		},
	}
}

func TestRender_SingleLanguage(t *testing.T) {
	t.Parallel()

	out := render(t, singleLanguageResult(), report.Options{})

	assert.Contains(t, out, "Repository: acme/app\n")
	assert.Contains(t, out, "Total Lines of Code: 15\n")
	assert.Contains(t, out, "Language Breakdown:\n")
	assert.Contains(t, out, "Python:      15 lines (100.0%)\n")
}

func TestRender_TwoLanguagesSortedByLines(t *testing.T) {
	t.Parallel()

	result := &stats.Result{
		Repository: "acme/app",
		TotalLines: 35,
		Languages: map[classify.Label]*stats.LanguageSummary{
			"Python":   {Label: "Python", Lines: 15},
			"Markdown": {Label: "Markdown", Lines: 20},
		},
	}

	out := render(t, result, report.Options{})

	markdownIdx := strings.Index(out, "Markdown:")
	pythonIdx := strings.Index(out, "Python:")

	require.GreaterOrEqual(t, markdownIdx, 0)
	require.GreaterOrEqual(t, pythonIdx, 0)
	assert.Less(t, markdownIdx, pythonIdx, "larger language must come first")

	assert.Contains(t, out, "Markdown:    20 lines (57.1%)\n")
	assert.Contains(t, out, "Python:      15 lines (42.9%)\n")
}

func TestRender_TieBrokenByLabel(t *testing.T) {
	t.Parallel()

	result := &stats.Result{
		Repository: "acme/app",
		TotalLines: 20,
		Languages: map[classify.Label]*stats.LanguageSummary{
			"Ruby": {Label: "Ruby", Lines: 10},
			"Go":   {Label: "Go", Lines: 10},
		},
	}

	out := render(t, result, report.Options{})

	assert.Less(t, strings.Index(out, "Go:"), strings.Index(out, "Ruby:"))
}

func TestRender_EmptyResult(t *testing.T) {
	t.Parallel()

	result := &stats.Result{
		Repository: "acme/empty",
		Languages:  map[classify.Label]*stats.LanguageSummary{},
	}

	out := render(t, result, report.Options{})

	assert.Contains(t, out, "Total Lines of Code: 0\n")
	assert.Contains(t, out, "No lines of code found.\n")
	assert.NotContains(t, out, "Language Breakdown:")
}

func TestRender_ThousandsSeparated(t *testing.T) {
	t.Parallel()

	result := &stats.Result{
		Repository: "acme/big",
		TotalLines: 1234567,
		Languages: map[classify.Label]*stats.LanguageSummary{
			"Go": {Label: "Go", Lines: 1234567},
		},
	}

	out := render(t, result, report.Options{})

	assert.Contains(t, out, "Total Lines of Code: 1,234,567\n")
	assert.Contains(t, out, "1,234,567 lines (100.0%)")
}

func TestRender_VerboseTopFiles(t *testing.T) {
	t.Parallel()

	files := []stats.FileRecord{
		{Path: "a.py", Lines: 80},
		{Path: "b.py", Lines: 70},
		{Path: "c.py", Lines: 60},
		{Path: "d.py", Lines: 50},
		{Path: "e.py", Lines: 40},
		{Path: "f.py", Lines: 30},
		{Path: "g.py", Lines: 20},
		{Path: "h.py", Lines: 10},
	}

	result := &stats.Result{
		Repository: "acme/app",
		TotalLines: 360,
		Languages: map[classify.Label]*stats.LanguageSummary{
			"Python": {Label: "Python", Lines: 360, Files: files},
		},
	}

	out := render(t, result, report.Options{Verbose: true, TopFiles: 5})

	assert.Contains(t, out, "  Top files:\n")
	assert.Contains(t, out, "... and 3 more files\n")

	for _, listed := range []string{"a.py", "b.py", "c.py", "d.py", "e.py"} {
		assert.Contains(t, out, listed)
	}

	assert.NotContains(t, out, "f.py")

	// Descending by line count.
	assert.Less(t, strings.Index(out, "a.py"), strings.Index(out, "b.py"))
	assert.Less(t, strings.Index(out, "d.py"), strings.Index(out, "e.py"))
}

func TestRender_VerboseTieBrokenByPath(t *testing.T) {
	t.Parallel()

	result := &stats.Result{
		Repository: "acme/app",
		TotalLines: 20,
		Languages: map[classify.Label]*stats.LanguageSummary{
			"Python": {Label: "Python", Lines: 20, Files: []stats.FileRecord{
				{Path: "zz.py", Lines: 10},
				{Path: "aa.py", Lines: 10},
			}},
		},
	}

	out := render(t, result, report.Options{Verbose: true})

	assert.Less(t, strings.Index(out, "aa.py"), strings.Index(out, "zz.py"))
}

func TestRender_VerboseZeroLineLanguage(t *testing.T) {
	t.Parallel()

	result := &stats.Result{
		Repository: "acme/app",
		TotalLines: 10,
		Languages: map[classify.Label]*stats.LanguageSummary{
			"Go": {Label: "Go", Lines: 10, Files: []stats.FileRecord{
				{Path: "main.go", Lines: 10},
			}},
			"Python": {Label: "Python", Lines: 0, Files: []stats.FileRecord{
				{Path: "empty.py", Lines: 0},
			}},
		},
	}

	out := render(t, result, report.Options{Verbose: true})

	assert.Contains(t, out, "empty.py")
	assert.Contains(t, out, "0 lines (0.0%)")
	assert.NotContains(t, out, "NaN")
}

func TestRender_MultibyteLabelAlignment(t *testing.T) {
	t.Parallel()

	result := &stats.Result{
		Repository: "acme/app",
		TotalLines: 20,
		Languages: map[classify.Label]*stats.LanguageSummary{
			"Go":       {Label: "Go", Lines: 10},
			"Français": {Label: "Français", Lines: 10},
		},
	}

	out := render(t, result, report.Options{})

	var columns []int

	for _, line := range strings.Split(out, "\n") {
		idx := strings.Index(line, " lines (")
		if idx < 0 {
			continue
		}

		columns = append(columns, utf8.RuneCountInString(line[:idx]))
	}

	require.Len(t, columns, 2)
	assert.Equal(t, columns[0], columns[1], "count column must align across labels")
}

func TestRender_VerboseSkipCounts(t *testing.T) {
	t.Parallel()

	result := singleLanguageResult()
	result.SkippedBinary = 2
	result.SkippedUnreadable = 1

	out := render(t, result, report.Options{Verbose: true})

	assert.Contains(t, out, "Skipped: 2 binary, 1 unreadable\n")

	// Skips are not surfaced in the terse report.
	terse := render(t, result, report.Options{})
	assert.NotContains(t, terse, "Skipped:")
}

// Rendered percentages must sum to 100 within rounding tolerance.
func TestRender_PercentagesSumNearHundred(t *testing.T) {
	t.Parallel()

	result := &stats.Result{
		Repository: "acme/app",
		TotalLines: 3,
		Languages: map[classify.Label]*stats.LanguageSummary{
			"Go":     {Label: "Go", Lines: 1},
			"Python": {Label: "Python", Lines: 1},
			"Ruby":   {Label: "Ruby", Lines: 1},
		},
	}

	out := render(t, result, report.Options{})

	percentRe := regexp.MustCompile(`\((\d+\.\d)%\)`)

	var sum float64

	for _, group := range percentRe.FindAllStringSubmatch(out, -1) {
		value, err := strconv.ParseFloat(group[1], 64)
		require.NoError(t, err)

		sum += value
	}

	assert.GreaterOrEqual(t, sum, 99.9)
	assert.LessOrEqual(t, sum, 100.1)
}

func TestRender_TableFormat(t *testing.T) {
	t.Parallel()

	out := render(t, singleLanguageResult(), report.Options{Format: report.FormatTable})

	assert.Contains(t, out, "Repository: acme/app")
	assert.Contains(t, out, "Python")
	assert.Contains(t, out, "100.0%")
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := report.Render(&buf, singleLanguageResult(), report.Options{Format: "xml"})

	require.ErrorIs(t, err, report.ErrUnknownFormat)
}
