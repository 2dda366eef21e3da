package firmware

import (
	"sort"
	"strings"
	"time"
)

// Resolution is the result of looking up a configuration key in a manifest.
type Resolution struct {
	ConfigKey string  `json:"config_key"`
	Matches   []Build `json:"matches"`
	// Availability describes the key's (mount, power) base; nil when the key does not parse.
	Availability *BaseAvailability `json:"availability,omitempty"`
	// ExactCombination is true when some build ships this exact module combination.
	ExactCombination bool `json:"exact_combination"`
}

// Default returns the preferred build: the first match after ordering.
func (r Resolution) Default() (Build, bool) {
	if len(r.Matches) == 0 {
		return Build{}, false
	}
	return r.Matches[0], true
}

// Available reports whether any build matched.
func (r Resolution) Available() bool { return len(r.Matches) > 0 }

// FindCompatibleFirmware returns the builds whose config string equals configKey,
// ordered by channel priority then newest version.
func FindCompatibleFirmware(configKey string, builds []Build) Resolution {
	return Resolve(configKey, builds, BuildAvailabilityIndex(builds))
}

// Resolve is FindCompatibleFirmware with a prebuilt availability index.
func Resolve(configKey string, builds []Build, idx *AvailabilityIndex) Resolution {
	res := Resolution{ConfigKey: configKey, Matches: MatchBuilds(configKey, builds)}
	if idx == nil {
		return res
	}
	if state, ok := ParseConfigStringState(configKey); ok {
		if base, ok := idx.Options(state.Mount, state.Power); ok {
			res.Availability = &base
		}
		res.ExactCombination = idx.HasExactCombination(state)
	}
	return res
}

// MatchBuilds filters builds by case-insensitive config string and sorts them.
func MatchBuilds(configKey string, builds []Build) []Build {
	key := strings.TrimSpace(configKey)
	out := []Build{}
	if key == "" {
		return out
	}
	for _, b := range builds {
		if b.IsLegacy() {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(b.ConfigString), key) {
			out = append(out, b)
		}
	}
	SortBuilds(out)
	return out
}

// SortBuilds orders builds by (channel priority, version descending, build date
// descending). Equal builds keep their manifest order.
func SortBuilds(builds []Build) {
	sort.SliceStable(builds, func(i, j int) bool {
		return buildLess(builds[i], builds[j])
	})
}

func buildLess(a, b Build) bool {
	pa, pb := ChannelPriority(a.Channel), ChannelPriority(b.Channel)
	if pa != pb {
		return pa < pb
	}
	if c := CompareVersions(a.Version, b.Version); c != 0 {
		return c > 0
	}
	return buildTime(a.BuildDate).After(buildTime(b.BuildDate))
}

var buildDateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// buildTime parses a build date; unparseable dates sort last.
func buildTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range buildDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SelectBuild picks the build to install. With a requested channel only builds on
// that channel qualify; otherwise the first (highest ranked) match wins.
func SelectBuild(matches []Build, requestedChannel string) (Build, bool) {
	want := NormalizeRequestedChannel(requestedChannel)
	for _, b := range matches {
		if want == "" || b.NormalizedChannel() == want {
			return b, true
		}
	}
	return Build{}, false
}

// LegacyKey identifies a legacy build group.
func LegacyKey(model, variant, sensorAddon string) string {
	if strings.TrimSpace(variant) == "" {
		variant = "Default"
	}
	key := strings.TrimSpace(model) + "/" + strings.TrimSpace(variant)
	if addon := strings.TrimSpace(sensorAddon); addon != "" {
		key += "/" + addon
	}
	return strings.ToLower(key)
}

// FindLegacyFirmware looks up builds without a config string by model, variant and
// sensor add-on, ordered like MatchBuilds.
func FindLegacyFirmware(model, variant, sensorAddon string, builds []Build) []Build {
	out := []Build{}
	if strings.TrimSpace(model) == "" {
		return out
	}
	want := LegacyKey(model, variant, sensorAddon)
	for _, b := range builds {
		if !b.IsLegacy() {
			continue
		}
		if LegacyKey(b.Model, b.Variant, b.SensorAddon) == want {
			out = append(out, b)
		}
	}
	SortBuilds(out)
	return out
}

// LegacyGroups groups legacy builds by LegacyKey.
func LegacyGroups(builds []Build) map[string][]Build {
	groups := make(map[string][]Build)
	for _, b := range builds {
		if !b.IsLegacy() || strings.TrimSpace(b.Model) == "" {
			continue
		}
		k := LegacyKey(b.Model, b.Variant, b.SensorAddon)
		groups[k] = append(groups[k], b)
	}
	for k := range groups {
		SortBuilds(groups[k])
	}
	return groups
}
