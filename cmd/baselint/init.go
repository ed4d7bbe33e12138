package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter baseline configuration",
	Long: `Create a baseline.config.json with the default policy (target "2024",
default severity "warning") in the given directory, or the current directory
when no argument is provided.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit writes a starter baseline.config.json at the target directory.
// Отказывается перезаписывать уже существующую конфигурацию.
func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	configPath := filepath.Join(target, "baseline.config.json")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("already configured: %s exists", configPath)
	}

	if err := os.WriteFile(configPath, []byte(starterConfig()), 0o600); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	rel := configPath
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, configPath); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", rel)
	return nil
}

// starterConfig returns the default policy with every knob spelled out, so a
// new project can edit instead of consulting the docs.
func starterConfig() string {
	return `{
  "baseline": {
    "target": "2024"
  },
  "severity": {
    "default": "warning",
    "features": {}
  },
  "rules": {},
  "include": ["**/*.js", "**/*.mjs", "**/*.cjs", "**/*.jsx", "**/*.css"],
  "exclude": ["**/node_modules/**", "**/dist/**", "**/build/**"]
}
`
}
