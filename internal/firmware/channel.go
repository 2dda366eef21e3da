package firmware

import "strings"

// Canonical release channels.
const (
	ChannelStable = "stable"
	ChannelBeta   = "beta"
	ChannelDev    = "dev"
)

// UnknownChannelPriority ranks channels missing from the priority table.
const UnknownChannelPriority = 99

var channelAliases = map[string]string{
	"general": ChannelStable,
	"stable":  ChannelStable,
	"ga":      ChannelStable,
	"release": ChannelStable,
	"beta":    ChannelBeta,
	"preview": ChannelBeta,
	"dev":     ChannelDev,
	"nightly": ChannelDev,
	"canary":  ChannelDev,
}

var channelPriorities = map[string]int{
	"stable":       0,
	"general":      0,
	"ga":           0,
	"release":      0,
	"beta":         1,
	"preview":      1,
	"dev":          2,
	"nightly":      2,
	"canary":       2,
	"experimental": 2,
}

// NormalizeChannel maps a raw channel label to its canonical key. Empty input is
// treated as stable; unrecognized labels pass through lowercased.
func NormalizeChannel(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ChannelStable
	}
	if alias, ok := channelAliases[key]; ok {
		return alias
	}
	return key
}

// NormalizeRequestedChannel is NormalizeChannel for user input: empty stays empty.
func NormalizeRequestedChannel(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return NormalizeChannel(raw)
}

// ChannelPriority ranks a channel; lower sorts first.
func ChannelPriority(raw string) int {
	if p, ok := channelPriorities[NormalizeChannel(raw)]; ok {
		return p
	}
	return UnknownChannelPriority
}
