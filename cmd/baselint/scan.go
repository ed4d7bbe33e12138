package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"baselint/internal/diag"
	"baselint/internal/diagfmt"
	"baselint/internal/driver"
	"baselint/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Scan scripts and stylesheets for non-baseline feature usage",
	Long: `Scan the given files and directories (default: current directory) and report
every web platform feature that is not baseline for the configured target`,
	RunE: runScan,
}

// init registers CLI flags for the scan command used by runScan.
func init() {
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json|table)")
	scanCmd.Flags().String("config", "", "explicit configuration file (default: search order)")
	scanCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	scanCmd.Flags().Bool("progress", false, "show interactive progress on terminals")
	scanCmd.Flags().Bool("cache", false, "enable persistent scan result cache")
	scanCmd.Flags().Bool("no-warnings", false, "report only error-severity diagnostics")
	scanCmd.Flags().Bool("verbose", false, "log skipped files and cache misses to stderr")
}

// runScan executes the "scan" command: expands paths into units, runs the
// scan batch, renders the chosen format and exits non-zero when any
// error-severity diagnostic survives.
func runScan(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "table":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	showProgress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return fmt.Errorf("failed to get progress flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	logger := zap.NewNop()
	if verbose && !quiet {
		devLogger, logErr := zap.NewDevelopment()
		if logErr == nil {
			logger = devLogger
			defer func() { _ = logger.Sync() }()
		}
	}

	root, err := os.Getwd()
	if err != nil {
		return err
	}

	opts := driver.Options{
		ConfigPath: configPath,
		Root:       root,
		Jobs:       jobs,
		Logger:     logger,
	}
	if useCache {
		cache, cacheErr := driver.OpenDiskCache("baselint")
		if cacheErr != nil {
			logger.Warn("scan cache unavailable", zap.Error(cacheErr))
		} else {
			opts.Cache = cache
		}
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	units, err := driver.Expand(paths, opts)
	if err != nil {
		return err
	}

	var diags []diag.Diagnostic
	if showProgress && isTerminal(os.Stdout) && len(units) > 0 {
		diags, err = scanWithProgress(cmd, units, opts)
	} else {
		diags, err = driver.Scan(cmd.Context(), units, opts)
	}
	if err != nil {
		return err
	}

	bag := diag.NewBag()
	bag.Append(diags...)

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, bag, diagfmt.PrettyOpts{
			Color:      useColor,
			NoWarnings: noWarnings,
			Max:        maxDiagnostics,
		})
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, diagfmt.JSONOpts{
			NoWarnings: noWarnings,
			Max:        maxDiagnostics,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "table":
		diagfmt.Table(os.Stdout, bag)
	}

	if bag.HasErrors() {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}
	return nil
}

// scanWithProgress runs the batch behind a Bubble Tea progress view. Канал
// закрывается после Scan, модель завершает программу по doneMsg.
func scanWithProgress(cmd *cobra.Command, units []driver.Unit, opts driver.Options) ([]diag.Diagnostic, error) {
	files := make([]string, len(units))
	for i, unit := range units {
		files[i] = unit.Path
	}

	events := make(chan driver.Event, len(units))
	opts.Progress = func(e driver.Event) { events <- e }

	var (
		diags   []diag.Diagnostic
		scanErr error
	)
	go func() {
		defer close(events)
		diags, scanErr = driver.Scan(cmd.Context(), units, opts)
	}()

	model := ui.NewProgressModel("scanning", files, events)
	if _, err := tea.NewProgram(model, tea.WithOutput(os.Stderr)).Run(); err != nil {
		// Прогресс не критичен: дожидаемся скана и продолжаем без UI.
		for range events {
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return diags, nil
}
