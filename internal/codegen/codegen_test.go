// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"errors"
	"testing"

	"tablec/internal/config"
)

func TestForTargetUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := ForTarget(config.Target{Language: "cobol", OutputDir: "gen"}, Options{})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("err = %v, want ErrUnknownBackend", err)
	}
}
