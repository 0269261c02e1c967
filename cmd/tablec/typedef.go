// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"tablec/internal/wizard"
)

// typedefCmd launches the interactive typedef authoring wizard.
var typedefCmd = &cobra.Command{
	Use:   "typedef",
	Short: "Create or update typedef metadata interactively",
	Long: `Interactive wizard for creating or updating a table's typedef.

Pick a workbook, describe its columns (including nested collections
and shared custom types), and the wizard writes the typedef JSON into
the metadata directory. Running it again against an existing typedef
diffs the workbook's columns and offers targeted edits.`,
	RunE: runTypedef,
}

func runTypedef(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	w := wizard.New(wizard.Config{
		InputDir:           cfg.Paths.InputDir,
		MetadataDir:        cfg.Paths.MetadataDir,
		TypeDefSuffix:      cfg.Suffixes.TypeDef,
		InnerTypeDefSuffix: cfg.Suffixes.InnerTypeDef,
		Logger:             log.NewWithOptions(os.Stderr, log.Options{Prefix: "wizard", Level: level}),
	})
	return w.Run(cmd.Context())
}
