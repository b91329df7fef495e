package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/runway/internal/model"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// SettingsFormat is a supported settings file encoding.
type SettingsFormat string

// Supported settings file formats.
const (
	FormatYAML SettingsFormat = "yaml"
	FormatTOML SettingsFormat = "toml"
	FormatJSON SettingsFormat = "json"
)

// FormatForPath picks a format from the file extension.
func FormatForPath(path string) (SettingsFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported settings file %q (want .yaml, .yml, .toml or .json)", path)
	}
}

// EncodeSettings renders settings in the given format.
func EncodeSettings(s model.ProjectionSettings, format SettingsFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, err
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown settings format %q", format)
	}
	return buf.Bytes(), nil
}

// DecodeSettings parses settings. Fields missing from data keep their
// model.DefaultSettings value.
func DecodeSettings(data []byte, format SettingsFormat) (model.ProjectionSettings, error) {
	s := model.DefaultSettings()
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatTOML:
		err = toml.Unmarshal(data, &s)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	default:
		err = fmt.Errorf("unknown settings format %q", format)
	}
	if err != nil {
		return model.ProjectionSettings{}, fmt.Errorf("decoding %s settings: %w", format, err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

// ReadSettingsFile loads settings from path, choosing the codec by extension.
func ReadSettingsFile(path string) (model.ProjectionSettings, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return model.ProjectionSettings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ProjectionSettings{}, fmt.Errorf("reading settings file: %w", err)
	}
	return DecodeSettings(data, format)
}

// WriteSettingsFile writes settings to path, choosing the codec by extension.
func WriteSettingsFile(path string, s model.ProjectionSettings) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := EncodeSettings(s, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o600)
}
