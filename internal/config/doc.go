// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as the file format.
//
// Configuration is resolved in order: an explicit --config path, a config.toml in the
// current working directory (the usual project-local setup), then the per-user directory
// (~/.config/tablec/config.toml or XDG equivalent on Linux, ~/Library/Application Support
// on macOS, %APPDATA% on Windows). The package provides type-safe access to workbook and
// metadata paths, file suffixes, and the list of code-generation targets.
package config
