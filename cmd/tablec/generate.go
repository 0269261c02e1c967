// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"tablec/internal/codegen"
	"tablec/internal/config"
	"tablec/internal/encoder"
	"tablec/internal/issue"
	"tablec/internal/model"
	"tablec/internal/reader"
	"tablec/internal/registry"

	// Register the codegen backends.
	_ "tablec/internal/codegen/csharp"
	_ "tablec/internal/codegen/golang"
	_ "tablec/internal/codegen/typescript"
)

// dataSubdir is the staging subdirectory binary data lands in; layoutSubdir
// takes the layout traces. Both are mirrored into the output directory.
const (
	dataSubdir   = "data"
	layoutSubdir = "layout"
)

var (
	generateDebug bool

	// generateCmd compiles every workbook into binary data plus generated code.
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Compile all configuration workbooks",
		Long: `Compile every .xlsx workbook that has typedef metadata.

Each table is encoded to a binary .dat file with a human-readable
layout trace beside it, then code is generated for every target
language enabled in config.toml. All files are staged in a temporary
directory and moved to the output directory together. A table that
fails to compile writes nothing and is reported; its siblings still
land in the output directory.`,
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().BoolVar(&generateDebug, "debug", false, "print per-file progress and full error detail")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	level := log.InfoLevel
	if verbose || generateDebug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "generate", Level: level})

	builder := registry.NewBuilder(registry.BuilderConfig{
		Logger:             logger.WithPrefix("registry"),
		InnerTypeDefSuffix: cfg.Suffixes.InnerTypeDef,
	})
	rd := reader.New(reader.Config{
		InputDir:      cfg.Paths.InputDir,
		MetadataDir:   cfg.Paths.MetadataDir,
		TypeDefSuffix: cfg.Suffixes.TypeDef,
		Logger:        logger.WithPrefix("reader"),
	}, builder)

	tables, failures, err := rd.ReadAll()
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("read configuration workbooks").
			WithResource(cfg.Paths.InputDir).
			WithSuggestion("Check the [paths] section of config.toml.").
			Wrap(err).
			BuildError()
	}

	reg, err := builder.Freeze()
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("resolve type definitions").
			WithResource(cfg.Paths.MetadataDir).
			WithSuggestion("Run 'tablec typedef' to inspect and repair the table's metadata.").
			Wrap(err).
			BuildError()
	}

	staging, err := os.MkdirTemp("", "tablec-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	encoded, failures := encodeTables(reg, tables, failures, staging, cfg, logger)

	for _, target := range enabledTargets(cfg.Targets) {
		langLogger := logger.WithPrefix(string(target.Language))
		gen, err := codegen.ForTarget(target, codegen.Options{
			Registry:  reg,
			OutputDir: filepath.Join(staging, target.OutputDir),
			Logger:    langLogger,
		})
		if err != nil {
			return err
		}
		langLogger.Info("generating code", "tables", len(encoded), "dir", target.OutputDir)
		if err := gen.GenerateAll(encoded); err != nil {
			return issue.NewErrorContext().
				WithOperation(fmt.Sprintf("generate %s code", target.Language)).
				WithSuggestion("Run with --verbose for per-file progress.").
				Wrap(err).
				BuildError()
		}
	}

	// Tables that compiled are published even when siblings failed; a
	// broken table only ever withholds its own files.
	if err := copyTree(staging, cfg.Paths.OutputDir); err != nil {
		return fmt.Errorf("move staged output: %w", err)
	}
	if cfg.Paths.BinaryCopyDir != "" {
		logger.Info("copying binary data", "dest", cfg.Paths.BinaryCopyDir)
		if err := copyTree(filepath.Join(cfg.Paths.OutputDir, dataSubdir), cfg.Paths.BinaryCopyDir); err != nil {
			return fmt.Errorf("copy binary data: %w", err)
		}
	}

	if len(failures) > 0 {
		for _, f := range failures {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ ")+f.Error())
		}
		return &ExitError{
			Code: 1,
			Err: fmt.Errorf("%d of %d table(s) failed to compile; the rest were written to %s",
				len(failures), len(failures)+len(encoded), cfg.Paths.OutputDir),
		}
	}

	fmt.Printf("%s Compiled %d table(s) into %s\n",
		SuccessStyle.Render("✓"), len(encoded), cfg.Paths.OutputDir)
	return nil
}

// enabledTargets filters the configured targets down to the enabled ones.
func enabledTargets(targets []config.Target) []config.Target {
	var out []config.Target
	for _, t := range targets {
		if t.Enabled {
			out = append(out, t)
		}
	}
	return out
}

// encodeTables encodes each table into the staging directory. A table that
// fails to encode writes nothing and is reported as a failure; its siblings
// still compile.
func encodeTables(reg *registry.Registry, tables []*model.ConfigTable, failures []reader.TableError,
	staging string, cfg *config.Config, logger *log.Logger,
) ([]*model.ConfigTable, []reader.TableError) {
	dataDir := filepath.Join(staging, dataSubdir)
	layoutDir := filepath.Join(staging, layoutSubdir)

	var encoded []*model.ConfigTable
	for _, table := range tables {
		data, trace, err := encoder.EncodeTable(reg, table)
		if err != nil {
			failures = append(failures, reader.TableError{Table: table.BaseName, Err: err})
			continue
		}
		datPath := filepath.Join(dataDir, table.BaseName+cfg.Suffixes.Data)
		layoutPath := filepath.Join(layoutDir, table.BaseName+cfg.Suffixes.Layout)
		if err := writeStaged(datPath, data); err != nil {
			failures = append(failures, reader.TableError{Table: table.BaseName, Err: err})
			continue
		}
		if err := writeStaged(layoutPath, []byte(trace)); err != nil {
			failures = append(failures, reader.TableError{Table: table.BaseName, Err: err})
			continue
		}
		logger.Info("encoded table", "table", table.BaseName, "bytes", len(data))
		encoded = append(encoded, table)
	}
	return encoded, failures
}

func writeStaged(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// copyTree copies src into dst recursively, creating dst as needed and
// overwriting existing files. Used instead of os.Rename so staging survives
// crossing filesystem boundaries.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	})
}
