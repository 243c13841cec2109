// Package storage provides the keyed local store backing expenses, settings and AI memory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// maxKeyLength bounds store keys; the known keys are far shorter.
const maxKeyLength = 128

var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrInvalidKey   = errors.New("invalid store key")
	ErrNilParameter = errors.New("parameter cannot be nil")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateKey rejects empty or oversized keys and keys with whitespace or
// control characters.
func validateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case len(key) > maxKeyLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidKey, maxKeyLength)
	}
	if i := strings.IndexFunc(key, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}); i >= 0 {
		return fmt.Errorf("%w: %q has whitespace at %d", ErrInvalidKey, key, i)
	}
	return nil
}
