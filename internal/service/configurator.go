package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"webflash/internal/firmware"
)

var (
	ErrInvalidConfig      = errors.New("configuration is invalid")
	ErrNoFirmware         = errors.New("no firmware available for configuration")
	ErrChannelUnavailable = errors.New("no firmware on requested channel")
	ErrUnknownPreset      = errors.New("unknown preset")
)

type ConfiguratorService struct {
	manifests Manifest
	presets   *firmware.PresetCatalog
	baseURL   *url.URL
}

func NewConfiguratorService(manifests Manifest, presets *firmware.PresetCatalog, baseURL *url.URL) *ConfiguratorService {
	if presets == nil {
		presets = firmware.NewPresetCatalog()
	}
	return &ConfiguratorService{manifests: manifests, presets: presets, baseURL: baseURL}
}

// Parse validates params. It does not need a manifest.
func (s *ConfiguratorService) Parse(params url.Values) ParseResult {
	res := firmware.ParseConfigParams(params)
	out := ParseResult{
		ConfigResult: res,
		Wizard:       firmware.ToWizardConfiguration(res.Sanitized),
	}
	if res.IsValid {
		if p, ok := s.presets.Matching(res.Sanitized); ok {
			out.Preset = p.Name
		}
	}
	return out
}

func (s *ConfiguratorService) params(q ResolveQuery) (url.Values, error) {
	params := q.Params
	if params == nil {
		params = url.Values{}
	}
	if name := strings.TrimSpace(q.Preset); name != "" {
		p, ok := s.presets.ByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
		}
		params = firmware.ApplyPreset(params, p)
	}
	return params, nil
}

// Resolve parses the query and looks the configuration key up in the manifest.
// An invalid configuration is not an error: the result carries the parse errors
// and no matches.
func (s *ConfiguratorService) Resolve(ctx context.Context, q ResolveQuery) (Resolution, error) {
	params, err := s.params(q)
	if err != nil {
		return Resolution{}, err
	}
	parsed := s.Parse(params)
	out := Resolution{
		Config:  parsed,
		Channel: firmware.NormalizeRequestedChannel(q.Channel),
		Matches: []BuildView{},
	}
	if !parsed.IsValid {
		return out, nil
	}

	snap, err := s.manifests.Snapshot()
	if err != nil {
		return Resolution{}, err
	}
	out.ManifestVersion = snap.Manifest.Version

	res := firmware.Resolve(parsed.ConfigKey, snap.Builds(), snap.Availability)
	out.ExactCombination = res.ExactCombination
	out.Availability = res.Availability
	for _, b := range res.Matches {
		out.Matches = append(out.Matches, BuildView{Build: b, FileName: firmware.FileName(parsed.ConfigKey, b)})
	}
	if b, ok := firmware.SelectBuild(res.Matches, out.Channel); ok {
		out.Selected = &BuildView{Build: b, FileName: firmware.FileName(parsed.ConfigKey, b)}
	}
	return out, nil
}

// selectBuild resolves q down to the single build that would be installed.
func (s *ConfiguratorService) selectBuild(ctx context.Context, q ResolveQuery) (Resolution, firmware.Build, error) {
	res, err := s.Resolve(ctx, q)
	if err != nil {
		return Resolution{}, firmware.Build{}, err
	}
	if !res.Config.IsValid {
		return res, firmware.Build{}, ErrInvalidConfig
	}
	if len(res.Matches) == 0 {
		return res, firmware.Build{}, fmt.Errorf("%w: %s", ErrNoFirmware, res.Config.ConfigKey)
	}
	if res.Selected == nil {
		return res, firmware.Build{}, fmt.Errorf("%w: %s", ErrChannelUnavailable, res.Channel)
	}
	return res, res.Selected.Build, nil
}

// InstallManifest returns the single-build manifest for the selected firmware.
func (s *ConfiguratorService) InstallManifest(ctx context.Context, q ResolveQuery) (firmware.Manifest, error) {
	_, b, err := s.selectBuild(ctx, q)
	if err != nil {
		return firmware.Manifest{}, err
	}
	snap, err := s.manifests.Snapshot()
	if err != nil {
		return firmware.Manifest{}, err
	}
	return firmware.OneOffManifest(snap.Manifest, b, s.baseURL)
}

func (s *ConfiguratorService) builds() ([]firmware.Build, error) {
	snap, err := s.manifests.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Builds(), nil
}

func (s *ConfiguratorService) Legacy(ctx context.Context, model, variant, sensorAddon string) ([]firmware.Build, error) {
	builds, err := s.builds()
	if err != nil {
		return nil, err
	}
	return firmware.FindLegacyFirmware(model, variant, sensorAddon, builds), nil
}

// Availability lists every base pair, or only the requested one when mount and
// power are both given.
func (s *ConfiguratorService) Availability(ctx context.Context, mount, power string) ([]firmware.BaseAvailability, error) {
	snap, err := s.manifests.Snapshot()
	if err != nil {
		return nil, err
	}
	mount, power = strings.TrimSpace(mount), strings.TrimSpace(power)
	if mount == "" || power == "" {
		return snap.Availability.Bases(), nil
	}
	p := firmware.ParseConfigParams(url.Values{"mount": {mount}, "power": {power}})
	if !p.IsValid {
		return []firmware.BaseAvailability{}, nil
	}
	if base, ok := snap.Availability.Options(p.Sanitized.Mount, p.Sanitized.Power); ok {
		return []firmware.BaseAvailability{base}, nil
	}
	return []firmware.BaseAvailability{}, nil
}

func (s *ConfiguratorService) Changelog(ctx context.Context, configKey string) ([]firmware.ChangelogEntry, error) {
	builds, err := s.builds()
	if err != nil {
		return nil, err
	}
	if key := strings.TrimSpace(configKey); key != "" {
		return firmware.ChangelogForConfig(firmware.NormalizeConfigKey(key), builds), nil
	}
	return firmware.Changelog(builds), nil
}

func (s *ConfiguratorService) Versions(ctx context.Context, configKey, channel string) ([]string, error) {
	builds, err := s.builds()
	if err != nil {
		return nil, err
	}
	return firmware.VersionsForConfig(firmware.NormalizeConfigKey(configKey), channel, builds), nil
}

func (s *ConfiguratorService) CheckUpdates(ctx context.Context, currentVersion, configKey string) (firmware.UpdateCheck, error) {
	builds, err := s.builds()
	if err != nil {
		return firmware.UpdateCheck{}, err
	}
	key := ""
	if strings.TrimSpace(configKey) != "" {
		key = firmware.NormalizeConfigKey(configKey)
	}
	return firmware.CheckForUpdates(currentVersion, key, builds), nil
}

func (s *ConfiguratorService) BuiltinPresets() []firmware.Preset { return s.presets.List() }

func (s *ConfiguratorService) BuiltinPreset(name string) (firmware.Preset, bool) {
	return s.presets.ByName(name)
}
