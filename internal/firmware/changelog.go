package firmware

import (
	"fmt"
	"sort"
	"strings"
)

// ChangelogEntry summarizes one (version, channel) release.
type ChangelogEntry struct {
	Version     string   `json:"version" yaml:"version"`
	Channel     string   `json:"channel" yaml:"channel"`
	Date        string   `json:"date,omitempty" yaml:"date,omitempty"`
	Changes     []string `json:"changes" yaml:"changes"`
	Features    []string `json:"features" yaml:"features"`
	KnownIssues []string `json:"known_issues" yaml:"known_issues"`
	Configs     []string `json:"configs,omitempty" yaml:"configs,omitempty"`
}

func newChangelogEntry(b Build) *ChangelogEntry {
	return &ChangelogEntry{
		Version:     b.Version,
		Channel:     b.NormalizedChannel(),
		Date:        b.BuildDate,
		Changes:     nonNil(b.Changelog),
		Features:    nonNil(b.Features),
		KnownIssues: nonNil(b.KnownIssues),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func releaseKey(b Build) string { return b.Version + "|" + b.NormalizedChannel() }

// Changelog groups builds by release and lists the configurations carrying each one.
// Entries are sorted newest version first, then by channel priority.
func Changelog(builds []Build) []ChangelogEntry {
	order := []string{}
	byRelease := make(map[string]*ChangelogEntry)
	for _, b := range builds {
		k := releaseKey(b)
		entry, ok := byRelease[k]
		if !ok {
			entry = newChangelogEntry(b)
			byRelease[k] = entry
			order = append(order, k)
		}
		if b.ConfigString != "" && !containsFold(entry.Configs, b.ConfigString) {
			entry.Configs = append(entry.Configs, b.ConfigString)
		}
	}

	out := make([]ChangelogEntry, 0, len(order))
	for _, k := range order {
		out = append(out, *byRelease[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := CompareVersions(out[i].Version, out[j].Version); c != 0 {
			return c > 0
		}
		return ChannelPriority(out[i].Channel) < ChannelPriority(out[j].Channel)
	})
	return out
}

// ChangelogForConfig lists the releases shipped for one configuration key.
func ChangelogForConfig(configKey string, builds []Build) []ChangelogEntry {
	seen := make(map[string]bool)
	out := []ChangelogEntry{}
	for _, b := range builds {
		if !strings.EqualFold(b.ConfigString, configKey) {
			continue
		}
		k := releaseKey(b)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, *newChangelogEntry(b))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return CompareVersions(out[i].Version, out[j].Version) > 0
	})
	return out
}

// VersionsForConfig returns the distinct versions shipped for a configuration,
// newest first. A non-empty channel restricts the result to that channel.
func VersionsForConfig(configKey, channel string, builds []Build) []string {
	want := NormalizeRequestedChannel(channel)
	seen := make(map[string]bool)
	out := []string{}
	for _, b := range builds {
		if !strings.EqualFold(b.ConfigString, configKey) || b.Version == "" {
			continue
		}
		if want != "" && b.NormalizedChannel() != want {
			continue
		}
		if !seen[b.Version] {
			seen[b.Version] = true
			out = append(out, b.Version)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return CompareVersions(out[i], out[j]) > 0 })
	return out
}

// LatestVersion returns the newest version published on channel, or "".
func LatestVersion(channel string, builds []Build) string {
	want := NormalizeChannel(channel)
	latest := ""
	for _, b := range builds {
		if b.Version == "" || b.NormalizedChannel() != want {
			continue
		}
		if latest == "" || CompareVersions(b.Version, latest) > 0 {
			latest = b.Version
		}
	}
	return latest
}

// UpdateCheck compares a device's installed firmware with the manifest.
type UpdateCheck struct {
	UpdateAvailable     bool     `json:"update_available"`
	CurrentVersion      string   `json:"current_version,omitempty"`
	LatestVersion       string   `json:"latest_version,omitempty"`
	LatestStableVersion string   `json:"latest_stable_version,omitempty"`
	AvailableVersions   []string `json:"available_versions"`
	Channel             string   `json:"channel"`
	Message             string   `json:"message"`
}

// CheckForUpdates reports whether a newer build exists for the device. The newest
// version for configKey is preferred; the latest stable version is the fallback.
func CheckForUpdates(currentVersion, configKey string, builds []Build) UpdateCheck {
	res := UpdateCheck{AvailableVersions: []string{}, Channel: "unknown"}
	current := strings.TrimSpace(currentVersion)
	if current == "" {
		res.Message = "No firmware version detected on device"
		return res
	}
	res.CurrentVersion = current
	res.Channel = DetectVersionChannel(current)

	if configKey != "" {
		res.AvailableVersions = VersionsForConfig(configKey, "", builds)
	}
	res.LatestStableVersion = LatestVersion(ChannelStable, builds)
	if len(res.AvailableVersions) > 0 {
		res.LatestVersion = res.AvailableVersions[0]
	} else {
		res.LatestVersion = res.LatestStableVersion
	}

	if res.LatestVersion == "" {
		res.Message = "No version information available"
		return res
	}
	switch c := CompareVersions(res.LatestVersion, current); {
	case c > 0:
		res.UpdateAvailable = true
		res.Message = fmt.Sprintf("Update available: v%s (current: v%s)", res.LatestVersion, current)
	case c == 0:
		res.Message = fmt.Sprintf("You have the latest version (v%s)", current)
	default:
		res.Message = fmt.Sprintf("Your version (v%s) is newer than released", current)
	}
	return res
}

// DetectVersionChannel guesses a release channel from version suffixes such as
// "-beta.1" or "-nightly".
func DetectVersionChannel(version string) string {
	v := strings.ToLower(version)
	switch {
	case v == "":
		return "unknown"
	case strings.Contains(v, "beta"), strings.Contains(v, "rc"), strings.Contains(v, "preview"):
		return ChannelBeta
	case strings.Contains(v, "alpha"), strings.Contains(v, "dev"), strings.Contains(v, "nightly"):
		return ChannelDev
	}
	return ChannelStable
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
