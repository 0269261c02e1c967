// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config.toml when set
	// (the --config flag). It bypasses the project-local and per-user
	// lookup entirely.
	ConfigFilePath string
	// ConfigDirPath overrides the per-user config directory lookup when set.
	ConfigDirPath string
}

// Provider loads the tool configuration. The compiler resolves, in order:
// an explicit file, the project-local ./config.toml, then the per-user
// config directory, falling back to defaults when none exist.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

// tomlProvider is the file-backed Provider used by the CLI.
type tomlProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &tomlProvider{}
}

// Load resolves and validates the effective configuration.
func (p *tomlProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// configDirOverride redirects the per-user config directory, mainly so
// tests never touch the real one. os.UserHomeDir() does not reliably
// respect HOME on every platform.
var configDirOverride string

// SetConfigDirOverride sets a custom per-user config directory path.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears the override. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}
