// Package stats aggregates per-file line counts into per-language totals
// and the grand total for one analysis run.
package stats

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/Sumatoshi-tech/locfang/internal/classify"
	"github.com/Sumatoshi-tech/locfang/internal/count"
	"github.com/Sumatoshi-tech/locfang/internal/walk"
)

// FileRecord is one analyzed file: its root-relative path and line count.
type FileRecord struct {
	Path  string
	Lines int
}

// LanguageSummary holds the accumulated totals for one language.
type LanguageSummary struct {
	Label classify.Label
	Lines int64
	Files []FileRecord
}

// Result is the complete, immutable outcome of one analysis run.
// Invariant: TotalLines equals the sum of every LanguageSummary's Lines,
// which equals the sum of every FileRecord's Lines.
type Result struct {
	// Repository is the display name of the analyzed tree.
	Repository string
	// TotalLines is the grand total across all languages.
	TotalLines int64
	// Languages maps each label to its summary. Empty when no classified
	// files survived filtering; that is a valid terminal state.
	Languages map[classify.Label]*LanguageSummary
	// SkippedBinary counts files excluded by the binary-content heuristic.
	SkippedBinary int
	// SkippedUnreadable counts files excluded by per-file read errors.
	SkippedUnreadable int
}

// LineCounter abstracts line counting for a single file.
// count.Counter is the production implementation.
type LineCounter interface {
	CountLines(path string) (int, error)
}

// Aggregator counts candidate files in parallel and folds the results into
// a Result. Counting order does not affect totals; per-file listings are
// re-sorted at render time.
type Aggregator struct {
	counter LineCounter
	workers int
	log     *slog.Logger
}

// fileResult carries one worker's outcome back to the collector.
type fileResult struct {
	candidate walk.Candidate
	lines     int
	err       error
}

// NewAggregator creates an Aggregator. workers <= 0 selects NumCPU.
// A nil logger falls back to slog.Default.
func NewAggregator(counter LineCounter, workers int, logger *slog.Logger) *Aggregator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Aggregator{
		counter: counter,
		workers: workers,
		log:     logger,
	}
}

// Aggregate counts every candidate and returns the aggregated Result.
//
// A per-file read error skips the file with a warning; binary content
// skips it silently. Neither aborts the run.
func (a *Aggregator) Aggregate(repository string, candidates []walk.Candidate) *Result {
	result := &Result{
		Repository: repository,
		Languages:  make(map[classify.Label]*LanguageSummary),
	}

	tasks := make(chan walk.Candidate, a.workers)
	results := make(chan fileResult, a.workers)

	var wg sync.WaitGroup

	wg.Add(a.workers)

	for i := 0; i < a.workers; i++ {
		go a.countWorker(&wg, tasks, results)
	}

	go func() {
		for _, candidate := range candidates {
			tasks <- candidate
		}

		close(tasks)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for item := range results {
		a.fold(result, item)
	}

	return result
}

// countWorker counts files from tasks until the channel is closed.
func (a *Aggregator) countWorker(wg *sync.WaitGroup, tasks <-chan walk.Candidate, results chan<- fileResult) {
	defer wg.Done()

	for candidate := range tasks {
		lines, err := a.counter.CountLines(candidate.AbsPath)
		results <- fileResult{candidate: candidate, lines: lines, err: err}
	}
}

// fold accumulates one file outcome into the result.
func (a *Aggregator) fold(result *Result, item fileResult) {
	if item.err != nil {
		if errors.Is(item.err, count.ErrBinary) {
			result.SkippedBinary++

			return
		}

		result.SkippedUnreadable++
		a.log.Warn("skipping unreadable file", "path", item.candidate.RelPath, "error", item.err)

		return
	}

	summary, ok := result.Languages[item.candidate.Label]
	if !ok {
		summary = &LanguageSummary{Label: item.candidate.Label}
		result.Languages[item.candidate.Label] = summary
	}

	summary.Lines += int64(item.lines)
	summary.Files = append(summary.Files, FileRecord{Path: item.candidate.RelPath, Lines: item.lines})
	result.TotalLines += int64(item.lines)
}
