package firmware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Part is one flash segment of a build.
type Part struct {
	Path      string `json:"path" yaml:"path"`
	Offset    int64  `json:"offset" yaml:"offset"`
	MD5       string `json:"md5,omitempty" yaml:"md5,omitempty"`
	SHA256    string `json:"sha256,omitempty" yaml:"sha256,omitempty"`
	Signature string `json:"signature,omitempty" yaml:"signature,omitempty"`
}

// Build is one firmware artifact from the manifest. Builds without a config string
// belong to the legacy model/variant grouping.
type Build struct {
	ConfigString         string   `json:"config_string,omitempty" yaml:"config_string,omitempty"`
	Channel              string   `json:"channel,omitempty" yaml:"channel,omitempty"`
	Version              string   `json:"version,omitempty" yaml:"version,omitempty"`
	Parts                []Part   `json:"parts,omitempty" yaml:"parts,omitempty"`
	Model                string   `json:"model,omitempty" yaml:"model,omitempty"`
	Variant              string   `json:"variant,omitempty" yaml:"variant,omitempty"`
	SensorAddon          string   `json:"sensor_addon,omitempty" yaml:"sensor_addon,omitempty"`
	DeviceType           string   `json:"device_type,omitempty" yaml:"device_type,omitempty"`
	ChipFamily           string   `json:"chipFamily,omitempty" yaml:"chip_family,omitempty"`
	Improv               *bool    `json:"improv,omitempty" yaml:"improv,omitempty"`
	FileSize             int64    `json:"file_size,omitempty" yaml:"file_size,omitempty"`
	BuildDate            string   `json:"build_date,omitempty" yaml:"build_date,omitempty"`
	Description          string   `json:"description,omitempty" yaml:"description,omitempty"`
	MD5                  string   `json:"md5,omitempty" yaml:"md5,omitempty"`
	SHA256               string   `json:"sha256,omitempty" yaml:"sha256,omitempty"`
	Signature            string   `json:"signature,omitempty" yaml:"signature,omitempty"`
	Changelog            []string `json:"changelog,omitempty" yaml:"changelog,omitempty"`
	Features             []string `json:"features,omitempty" yaml:"features,omitempty"`
	KnownIssues          []string `json:"known_issues,omitempty" yaml:"known_issues,omitempty"`
	HardwareRequirements []string `json:"hardware_requirements,omitempty" yaml:"hardware_requirements,omitempty"`
}

// Manifest is the decoded manifest.json document.
type Manifest struct {
	Name                  string  `json:"name,omitempty"`
	Version               string  `json:"version,omitempty"`
	HomeAssistantDomain   string  `json:"home_assistant_domain,omitempty"`
	NewInstallSkipErase   *bool   `json:"new_install_skip_erase,omitempty"`
	NewInstallPromptErase *bool   `json:"new_install_prompt_erase,omitempty"`
	Builds                []Build `json:"builds"`
}

// UnmarshalJSON is lenient about builds: a non-array value yields no builds and
// entries that fail to decode are skipped.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	type header Manifest
	var raw struct {
		header
		Builds json.RawMessage `json:"builds"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Manifest(raw.header)
	m.Builds = decodeBuilds(raw.Builds)
	return nil
}

func decodeBuilds(data json.RawMessage) []Build {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return []Build{}
	}
	out := make([]Build, 0, len(items))
	for _, item := range items {
		var b Build
		if err := json.Unmarshal(item, &b); err != nil {
			continue
		}
		out = append(out, b)
	}
	return out
}

// IsLegacy reports whether the build is keyed by model/variant instead of a config string.
func (b Build) IsLegacy() bool { return strings.TrimSpace(b.ConfigString) == "" }

// NormalizedChannel returns the canonical channel of the build.
func (b Build) NormalizedChannel() string { return NormalizeChannel(b.Channel) }

// FileName is the download name shown for a build.
func FileName(configKey string, b Build) string {
	name := "Sense360-" + configKey
	if b.Version != "" {
		name += "-v" + b.Version
	}
	if b.Channel != "" {
		name += "-" + b.Channel
	}
	return name + ".bin"
}

// ErrNoInstallableParts is returned when a build has no usable flash segments.
var ErrNoInstallableParts = errors.New("no firmware parts available for install")

// OneOffManifest builds a single-build install manifest for build. Relative part
// paths are resolved against base when it is non-nil.
func OneOffManifest(m Manifest, b Build, base *url.URL) (Manifest, error) {
	parts := make([]Part, 0, len(b.Parts))
	for _, p := range b.Parts {
		path := strings.TrimSpace(p.Path)
		if path == "" {
			continue
		}
		if base != nil {
			ref, err := url.Parse(path)
			if err != nil {
				return Manifest{}, fmt.Errorf("resolve part %q: %w", path, err)
			}
			path = base.ResolveReference(ref).String()
		}
		p.Path = path
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return Manifest{}, ErrNoInstallableParts
	}

	clone := b
	clone.Parts = parts
	return Manifest{
		Name:                  m.Name,
		Version:               m.Version,
		HomeAssistantDomain:   m.HomeAssistantDomain,
		NewInstallSkipErase:   m.NewInstallSkipErase,
		NewInstallPromptErase: m.NewInstallPromptErase,
		Builds:                []Build{clone},
	}, nil
}
