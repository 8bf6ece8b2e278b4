// Package yamlutil is the single place the YAML library is imported.
// Config files and counter feeds both go through it so that size limits and
// strict decoding behave the same everywhere.
package yamlutil

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps decoded documents. Counter feeds of long books are the
// largest inputs seen in practice, hence 4MB.
var MaxInputSize = 4 << 20

var (
	ErrEmpty      = errors.New("yamlutil: empty document")
	ErrNilTarget  = errors.New("yamlutil: nil decode target")
	ErrTooLarge   = errors.New("yamlutil: document too large")
	ErrUnreadable = errors.New("yamlutil: cannot read file")
)

func check(data []byte, v any) error {
	switch {
	case len(data) == 0:
		return ErrEmpty
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilTarget
	}
	return nil
}

// Unmarshal decodes data into v, ignoring unknown keys.
func Unmarshal(data []byte, v any) error {
	if err := check(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict decodes data into v and fails on unknown keys.
func UnmarshalStrict(data []byte, v any) error {
	if err := check(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}

// DecodeFile reads path and strictly decodes it into v.
func DecodeFile(path string, v any) error {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return UnmarshalStrict(data, v)
}
