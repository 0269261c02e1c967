// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"tablec/internal/config"
	"tablec/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "tablec",
		Short: "Compile spreadsheet configuration tables into binary data and code",
		Long: TitleStyle.Render("tablec") + SubtitleStyle.Render(" - a spreadsheet configuration table compiler") + `

tablec reads .xlsx configuration workbooks together with typedef
metadata, encodes every table into compact little-endian binary data,
and emits matching loader code for each configured target language
(Go, C#, TypeScript).

Table schemas live in '.typedef.json' files; shared struct and enum
definitions live in '.innertypesdef.json' files that tables import.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'tablec init' to create a config.toml
  2. Author typedef metadata with 'tablec typedef'
  3. Compile everything with 'tablec generate'

` + SubtitleStyle.Render("Examples:") + `
  tablec generate           Compile all workbooks with a typedef
  tablec typedef            Create or update a table's typedef
  tablec init               Write a default config.toml`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.toml)")

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(typedefCmd)
	rootCmd.AddCommand(initCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads the configuration early so global flags can pick up
// config-file defaults.
func initRootConfig() {
	cfg, err := loadConfig(context.Background())
	if err != nil {
		// Config problems must not hide the command's own output; warn and
		// keep going on defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return
	}
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
}

// loadConfig resolves the effective configuration for the current
// invocation, honoring the --config flag.
func loadConfig(ctx context.Context) (*config.Config, error) {
	return config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
