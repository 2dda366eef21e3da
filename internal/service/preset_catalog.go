package service

import (
	"fmt"
	"os"

	"webflash/internal/firmware"

	"gopkg.in/yaml.v3"
)

type presetFile struct {
	Presets []firmware.Preset `yaml:"presets"`
}

// LoadPresetCatalog reads extra built-in presets from a YAML file. An empty
// path yields the catalog with only the recommended preset.
func LoadPresetCatalog(path string) (*firmware.PresetCatalog, error) {
	if path == "" {
		return firmware.NewPresetCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return ParsePresetCatalog(data)
}

// ParsePresetCatalog decodes the YAML preset document.
func ParsePresetCatalog(data []byte) (*firmware.PresetCatalog, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	return firmware.NewPresetCatalog(f.Presets...), nil
}
