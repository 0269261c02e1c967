// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tablec/internal/config"
)

var (
	initForce bool

	// initCmd writes a starter config.toml
	initCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Create a default config.toml in the current directory",
		Long: `Create a config.toml with the default paths, suffixes and an empty
target list, ready to be edited for the project at hand.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config.toml")
}

func runInit(cmd *cobra.Command, args []string) error {
	filename := "config.toml"
	if len(args) > 0 {
		filename = args[0]
	}

	if err := config.WriteDefault(filename, initForce); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
		}
		return err
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Edit the [paths] section to match your project layout")
	fmt.Println("  2. Add a [[targets]] entry per output language")
	fmt.Println("  3. Run " + CmdStyle.Render("tablec typedef") + " to describe your first table")
	return nil
}
