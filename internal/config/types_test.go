// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestTargetLanguageIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lang  TargetLanguage
		valid bool
	}{
		{"go", LanguageGo, true},
		{"csharp", LanguageCSharp, true},
		{"typescript", LanguageTypeScript, true},
		{"empty", TargetLanguage(""), false},
		{"unknown", TargetLanguage("rust"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.lang.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid() = %v, want %v", valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidTargetLanguage) {
				t.Errorf("errs[0] = %v, want ErrInvalidTargetLanguage", errs[0])
			}
		})
	}
}

func TestTargetIsValid(t *testing.T) {
	t.Parallel()

	if valid, _ := (Target{Language: LanguageGo, OutputDir: "gen"}).IsValid(); !valid {
		t.Error("well-formed target rejected")
	}
	if valid, errs := (Target{Language: LanguageGo}).IsValid(); valid || !errors.Is(errs[0], ErrInvalidTarget) {
		t.Errorf("blank output_dir accepted: %v", errs)
	}
}

func TestConfigIsValidCollectsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Paths: PathsConfig{InputDir: "in", MetadataDir: "meta", OutputDir: "out"},
		Targets: []Target{
			{Language: "cobol", OutputDir: "gen"},
		},
		UI: UIConfig{ColorScheme: "neon"},
	}

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("config with bad target and color scheme accepted")
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Errorf("missing ErrInvalidConfig sentinel: %v", errs[0])
	}
	if !errors.Is(errs[0], ErrInvalidTargetLanguage) {
		t.Errorf("target language error not reachable: %v", errs[0])
	}
	if !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("color scheme error not reachable: %v", errs[0])
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Errorf("DefaultConfig invalid: %v", errs)
	}
}
