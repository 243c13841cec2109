package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Veraticus/spendsense/internal/engine"
)

// WriteBundle writes an indented JSON bundle.
func WriteBundle(w io.Writer, b *engine.Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	return nil
}

// ReadBundle decodes a bundle written by WriteBundle. Settings missing from
// the document keep their zero value; callers merge them as needed.
func ReadBundle(r io.Reader) (*engine.Bundle, error) {
	var b engine.Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decoding bundle: %w", err)
	}
	return &b, nil
}
