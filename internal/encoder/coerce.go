// SPDX-License-Identifier: MPL-2.0

package encoder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrCoercion reports a value that cannot be coerced to its declared
// primitive kind. The encoder never writes garbage bytes: a coercion failure
// fails the whole table.
var ErrCoercion = errors.New("cannot coerce value")

// coerceInt64 maps an absent value to 0, accepts any numeric value
// (spreadsheet cells surface as float64) and parses decimal strings.
func coerceInt64(value any) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrCoercion, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %T value for integer field", ErrCoercion, value)
	}
}

func coerceFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrCoercion, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T value for float field", ErrCoercion, value)
	}
}

// coerceBool accepts case-insensitive "true"/"1"/"yes" for string sources;
// non-string values use direct truthiness.
func coerceBool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true
		}
		return false
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}

// coerceString maps an absent value to the empty string and renders
// non-string scalars the way the cell displayed them.
func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// JSON numbers and spreadsheet cells decode as float64; render
		// integral values without a trailing ".0".
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
