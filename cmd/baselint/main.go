package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"baselint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "baselint",
	Short: "Baseline compatibility linter for scripts and stylesheets",
	Long:  `baselint scans scripts and stylesheets for web platform features and reports the ones that are not yet baseline for your target`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
