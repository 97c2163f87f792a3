// Package commands implements the locfang CLI commands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locfang/internal/acquire"
	"github.com/Sumatoshi-tech/locfang/internal/classify"
	"github.com/Sumatoshi-tech/locfang/internal/config"
	"github.com/Sumatoshi-tech/locfang/internal/count"
	"github.com/Sumatoshi-tech/locfang/internal/match"
	"github.com/Sumatoshi-tech/locfang/internal/report"
	"github.com/Sumatoshi-tech/locfang/internal/stats"
	"github.com/Sumatoshi-tech/locfang/internal/walk"
)

// ScanCommand holds the flags for the root scan command.
type ScanCommand struct {
	local         bool
	verbose       bool
	includeDocs   bool
	quiet         bool
	noColor       bool
	excludes      []string
	format        string
	topFiles      int
	workers       int
	configPath    string
	languagesFile string
}

// NewRootCommand creates the root command. The scan is the root itself:
// locfang takes the repository URL or local path as its positional argument.
func NewRootCommand() *cobra.Command {
	cmd := &ScanCommand{}

	cobraCmd := &cobra.Command{
		Use:   "locfang <repository-url|path>",
		Short: "Report lines-of-code statistics by language for a repository",
		Long: `Locfang counts lines of code per language in a GitHub repository or a
local directory. Remote repositories are cloned into a transient directory
that is removed after the report is printed.`,
		Args:          cobra.ExactArgs(1),
		RunE:          cmd.Run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cobraCmd.Flags().BoolVarP(&cmd.local, "local", "l", false, "treat the target as a local directory path")
	cobraCmd.Flags().BoolVarP(&cmd.verbose, "verbose", "v", false, "include per-language top-file breakdown")
	cobraCmd.Flags().BoolVarP(&cmd.includeDocs, "include-docs", "d", false, "include documentation formats in totals")
	cobraCmd.Flags().StringArrayVarP(&cmd.excludes, "exclude", "e", nil, "glob pattern excluding matching paths (repeatable)")
	cobraCmd.Flags().BoolVarP(&cmd.quiet, "quiet", "q", false, "suppress progress output")
	cobraCmd.Flags().BoolVar(&cmd.noColor, "no-color", false, "disable colored output")
	cobraCmd.Flags().StringVarP(&cmd.format, "format", "f", report.FormatText, "output format: text or table")
	cobraCmd.Flags().IntVar(&cmd.topFiles, "top", 0, "files listed per language in verbose mode (default from config)")
	cobraCmd.Flags().IntVar(&cmd.workers, "workers", 0, "line-counting workers (default from config)")
	cobraCmd.Flags().StringVar(&cmd.configPath, "config", "", "config file (default: .locfang.yaml in CWD or $HOME)")
	cobraCmd.Flags().StringVar(&cmd.languagesFile, "languages", "", "YAML overlay extending the language table")

	return cobraCmd
}

// Run executes one analysis: acquire, walk, count, aggregate, render.
func (c *ScanCommand) Run(cobraCmd *cobra.Command, args []string) error {
	logger := c.newLogger(cobraCmd)

	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	c.applyConfig(cfg)

	// Malformed exclusion patterns fail here, before any traversal.
	matcher, err := match.Compile(c.excludes)
	if err != nil {
		return err
	}

	table, err := c.buildTable()
	if err != nil {
		return err
	}

	if !c.quiet {
		logger.Info("resolving target", "target", args[0])
	}

	source, err := acquire.Resolve(cobraCmd.Context(), args[0], acquire.Options{
		ForceLocal: c.local,
		CloneDepth: cfg.Repository.CloneDepth,
		Timeout:    cfg.Repository.CloneTimeout,
	})
	if err != nil {
		return err
	}

	defer func() {
		releaseErr := source.Release()
		if releaseErr != nil {
			logger.Warn("cleanup failed", "error", releaseErr)
		}
	}()

	if !c.quiet {
		logger.Info("analyzing code statistics", "repository", source.Name)
	}

	walker := walk.New(table, matcher, c.includeDocs, cfg.Scan.SkipDirs)

	candidates, err := walker.Collect(source.Path)
	if err != nil {
		return err
	}

	aggregator := stats.NewAggregator(count.NewCounter(), c.workers, logger)
	result := aggregator.Aggregate(source.Name, candidates)

	return report.Render(cobraCmd.OutOrStdout(), result, report.Options{
		Verbose:  c.verbose,
		TopFiles: c.topFiles,
		NoColor:  c.noColor,
		Format:   c.format,
	})
}

// applyConfig fills flag values the user left at their zero defaults from
// the loaded configuration.
func (c *ScanCommand) applyConfig(cfg *config.Config) {
	if c.topFiles <= 0 {
		c.topFiles = cfg.Scan.TopFiles
	}

	if c.workers <= 0 {
		c.workers = cfg.Scan.Workers
	}

	if c.languagesFile == "" {
		c.languagesFile = cfg.Scan.LanguagesFile
	}
}

// buildTable assembles the classification table, merging the optional
// user overlay over the built-in rules.
func (c *ScanCommand) buildTable() (*classify.Table, error) {
	table := classify.DefaultTable()

	if c.languagesFile != "" {
		err := table.LoadOverlay(c.languagesFile)
		if err != nil {
			return nil, err
		}
	}

	return table, nil
}

// newLogger builds the command's stderr logger. Quiet mode raises the
// level so only warnings and errors get through.
func (c *ScanCommand) newLogger(cobraCmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if c.quiet {
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(cobraCmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})

	return slog.New(handler)
}
