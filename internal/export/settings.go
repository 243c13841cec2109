package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Veraticus/spendsense/internal/model"
	"gopkg.in/yaml.v3"
)

// WriteSettings writes settings as YAML or JSON.
func WriteSettings(w io.Writer, s model.Settings, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w for settings: %q", ErrUnknownFormat, format)
	}
}

// ReadSettings overlays a YAML or JSON document on the defaults and
// validates the result.
func ReadSettings(r io.Reader, format Format) (model.Settings, error) {
	var decode func(*model.Settings) error
	switch format {
	case FormatYAML:
		decode = func(dst *model.Settings) error {
			if err := yaml.NewDecoder(r).Decode(dst); err != nil && err != io.EOF {
				return err
			}
			return nil
		}
	case FormatJSON:
		decode = func(dst *model.Settings) error {
			return json.NewDecoder(r).Decode(dst)
		}
	default:
		return model.Settings{}, fmt.Errorf("%w for settings: %q", ErrUnknownFormat, format)
	}

	s, err := model.DecodeOverDefaults(decode)
	if err != nil {
		return model.Settings{}, fmt.Errorf("decoding settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return model.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}
