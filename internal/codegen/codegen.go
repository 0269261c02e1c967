// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"tablec/internal/config"
	"tablec/internal/model"
	"tablec/internal/registry"
)

// ErrUnknownBackend is returned when no backend is registered for a language.
var ErrUnknownBackend = errors.New("unknown codegen backend")

// Options carries everything a backend needs to emit sources.
type Options struct {
	// Registry is the frozen type registry the tables were compiled against.
	Registry *registry.Registry
	// OutputDir is the directory generated sources are written to. Callers
	// usually point this at a staging directory and move it on success.
	OutputDir string
	// Package names the generated package/namespace/module. Empty selects
	// the backend's conventional default.
	Package string
	// Logger receives per-file progress output. Nil disables logging.
	Logger *log.Logger
}

// Generator emits accessor sources for a set of compiled tables.
type Generator interface {
	// Language identifies the backend.
	Language() config.TargetLanguage
	// GenerateAll writes sources for every table, including the transitive
	// closure of custom types their fields reference.
	GenerateAll(tables []*model.ConfigTable) error
}

// Constructor builds a backend from options.
type Constructor func(opts Options) (Generator, error)

var (
	backendsMu sync.RWMutex
	backends   = make(map[config.TargetLanguage]Constructor)
)

// RegisterBackend makes a backend available to ForTarget. It is intended to
// be called from backend package init functions and panics on duplicates,
// mirroring database/sql.Register.
func RegisterBackend(lang config.TargetLanguage, ctor Constructor) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if ctor == nil {
		panic("codegen: RegisterBackend constructor is nil")
	}
	if _, dup := backends[lang]; dup {
		panic("codegen: RegisterBackend called twice for " + string(lang))
	}
	backends[lang] = ctor
}

// Backends returns the registered language names, sorted.
func Backends() []config.TargetLanguage {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	langs := make([]config.TargetLanguage, 0, len(backends))
	for lang := range backends {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// ForTarget builds the generator for a configured target.
func ForTarget(target config.Target, opts Options) (Generator, error) {
	backendsMu.RLock()
	ctor, ok := backends[target.Language]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, target.Language)
	}
	if opts.Package == "" {
		opts.Package = target.Package
	}
	return ctor(opts)
}
