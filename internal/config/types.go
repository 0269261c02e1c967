// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LanguageGo generates Go accessor code.
	LanguageGo TargetLanguage = "go"
	// LanguageCSharp generates C# accessor code.
	LanguageCSharp TargetLanguage = "csharp"
	// LanguageTypeScript generates TypeScript accessor code.
	LanguageTypeScript TargetLanguage = "typescript"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidTargetLanguage is returned when a TargetLanguage value is not recognized.
	ErrInvalidTargetLanguage = errors.New("invalid target language")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidTarget is the sentinel error wrapped by InvalidTargetError.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInvalidPaths is the sentinel error wrapped by InvalidPathsError.
	ErrInvalidPaths = errors.New("invalid paths config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// TargetLanguage selects a code generator backend.
	TargetLanguage string

	// InvalidTargetLanguageError is returned when a TargetLanguage value is not recognized.
	// It wraps ErrInvalidTargetLanguage for errors.Is() compatibility.
	InvalidTargetLanguageError struct {
		Value TargetLanguage
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidTargetError is returned when a Target has invalid fields.
	// It wraps ErrInvalidTarget for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidTargetError struct {
		Index       int
		FieldErrors []error
	}

	// InvalidPathsError is returned when a PathsConfig has invalid fields.
	// It wraps ErrInvalidPaths for errors.Is() compatibility.
	InvalidPathsError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Target specifies one code-generation output: a language backend plus
	// where the generated sources go.
	Target struct {
		// Language selects the generator backend ("go", "csharp", "typescript").
		Language TargetLanguage `json:"language" mapstructure:"language" toml:"language"`
		// Enabled gates the target; a disabled target stays configured but
		// is skipped by the generate pipeline.
		Enabled bool `json:"enabled" mapstructure:"enabled" toml:"enabled"`
		// OutputDir is the directory generated sources are written to.
		OutputDir string `json:"output_dir" mapstructure:"output_dir" toml:"output_dir"`
		// Package names the generated package/namespace/module. When empty
		// each backend falls back to its conventional default.
		Package string `json:"package,omitempty" mapstructure:"package" toml:"package,omitempty"`
	}

	// PathsConfig locates the workbook inputs and compiled outputs.
	PathsConfig struct {
		// InputDir holds the source .xlsx workbooks.
		InputDir string `json:"input_dir" mapstructure:"input_dir" toml:"input_dir"`
		// MetadataDir holds the *.typedef.json and *.innertypesdef.json files.
		MetadataDir string `json:"metadata_dir" mapstructure:"metadata_dir" toml:"metadata_dir"`
		// OutputDir receives the compiled .dat and layout trace files.
		OutputDir string `json:"output_dir" mapstructure:"output_dir" toml:"output_dir"`
		// BinaryCopyDir optionally receives a second copy of the .dat files
		// (e.g. a game client's asset directory). Empty disables the copy.
		BinaryCopyDir string `json:"binary_copy_dir,omitempty" mapstructure:"binary_copy_dir" toml:"binary_copy_dir,omitempty"`
	}

	// SuffixConfig names the file suffixes the compiler looks for and emits.
	SuffixConfig struct {
		// TypeDef is the per-table metadata suffix.
		TypeDef string `json:"typedef" mapstructure:"typedef" toml:"typedef"`
		// InnerTypeDef is the shared type-definition file suffix.
		InnerTypeDef string `json:"inner_typedef" mapstructure:"inner_typedef" toml:"inner_typedef"`
		// Data is the compiled binary output suffix.
		Data string `json:"data" mapstructure:"data" toml:"data"`
		// Layout is the human-readable layout trace suffix.
		Layout string `json:"layout" mapstructure:"layout" toml:"layout"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		// Paths locates inputs and outputs.
		Paths PathsConfig `json:"paths" mapstructure:"paths" toml:"paths"`
		// Suffixes names the file suffixes in play.
		Suffixes SuffixConfig `json:"suffixes" mapstructure:"suffixes" toml:"suffixes"`
		// Targets lists the code generators to run after compilation.
		Targets []Target `json:"targets" mapstructure:"targets" toml:"targets"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}
)

// String returns the string representation of the TargetLanguage.
func (l TargetLanguage) String() string { return string(l) }

// IsValid returns whether the TargetLanguage is one of the defined backends,
// and a list of validation errors if it is not.
func (l TargetLanguage) IsValid() (bool, []error) {
	switch l {
	case LanguageGo, LanguageCSharp, LanguageTypeScript:
		return true, nil
	default:
		return false, []error{&InvalidTargetLanguageError{Value: l}}
	}
}

// Error implements the error interface for InvalidTargetLanguageError.
func (e *InvalidTargetLanguageError) Error() string {
	return fmt.Sprintf("invalid target language %q (valid: go, csharp, typescript)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidTargetLanguageError) Unwrap() error { return ErrInvalidTargetLanguage }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the Target has valid fields: a recognized language
// and a non-blank output directory.
func (t Target) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := t.Language.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if strings.TrimSpace(t.OutputDir) == "" {
		errs = append(errs, fmt.Errorf("output_dir must be non-empty"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidTargetError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTargetError.
func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target [%d]: %d field error(s)", e.Index, len(e.FieldErrors))
}

// Unwrap returns ErrInvalidTarget plus the field errors so errors.Is()
// matches both the sentinel and any field-level sentinel.
func (e *InvalidTargetError) Unwrap() []error {
	return append([]error{ErrInvalidTarget}, e.FieldErrors...)
}

// IsValid returns whether the PathsConfig has valid fields. Input, metadata
// and output directories must be non-blank; BinaryCopyDir may be empty.
func (p PathsConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(p.InputDir) == "" {
		errs = append(errs, fmt.Errorf("input_dir must be non-empty"))
	}
	if strings.TrimSpace(p.MetadataDir) == "" {
		errs = append(errs, fmt.Errorf("metadata_dir must be non-empty"))
	}
	if strings.TrimSpace(p.OutputDir) == "" {
		errs = append(errs, fmt.Errorf("output_dir must be non-empty"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPathsError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPathsError.
func (e *InvalidPathsError) Error() string {
	return fmt.Sprintf("invalid paths config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidPaths plus the field errors for errors.Is() traversal.
func (e *InvalidPathsError) Unwrap() []error {
	return append([]error{ErrInvalidPaths}, e.FieldErrors...)
}

// IsValid returns whether the Config has valid fields. It delegates to
// Paths.IsValid(), each target's IsValid(), and UI.ColorScheme.IsValid(),
// and rejects two targets for the same language writing to the same directory.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Paths.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	seen := make(map[string]int)
	for i, t := range c.Targets {
		if valid, fieldErrs := t.IsValid(); !valid {
			for _, fe := range fieldErrs {
				var te *InvalidTargetError
				if errors.As(fe, &te) {
					te.Index = i
				}
				errs = append(errs, fe)
			}
		}
		key := t.Language.String() + "\x00" + t.OutputDir
		if first, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("targets[%d]: duplicate %s target for %q (same as targets[%d])", i, t.Language, t.OutputDir, first))
		} else {
			seen[key] = i
		}
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig plus the field errors for errors.Is() traversal.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			InputDir:      "tables",
			MetadataDir:   "tables/typedef",
			OutputDir:     "out",
			BinaryCopyDir: "", // No second copy unless configured
		},
		Suffixes: SuffixConfig{
			TypeDef:      ".typedef.json",
			InnerTypeDef: ".innertypesdef.json",
			Data:         ".dat",
			Layout:       "_layout.txt",
		},
		Targets: []Target{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
