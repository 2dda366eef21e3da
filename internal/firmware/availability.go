package firmware

import (
	"sort"
	"strings"
)

// BaseAvailability lists what shipped firmware exists for one (mount, power) pair.
type BaseAvailability struct {
	Mount string `json:"mount" yaml:"mount"`
	Power string `json:"power" yaml:"power"`
	// Modules maps each module field to the wizard values seen on this base.
	Modules map[Field][]string `json:"modules" yaml:"modules"`
	// Combinations holds the canonical configuration keys seen on this base.
	Combinations []string `json:"combinations" yaml:"combinations"`
}

type baseEntry struct {
	modules map[Field]map[string]struct{}
	combos  map[string]string
}

// AvailabilityIndex is derived from a manifest and is read-only once built.
type AvailabilityIndex struct {
	bases map[string]*baseEntry
}

func baseKey(mount, power string) string {
	return strings.ToLower(mount) + "|" + strings.ToLower(power)
}

// BuildAvailabilityIndex derives the per-base availability of every module
// variant and combination from builds. Builds whose config string does not parse
// are skipped.
func BuildAvailabilityIndex(builds []Build) *AvailabilityIndex {
	idx := &AvailabilityIndex{bases: make(map[string]*baseEntry)}
	for _, b := range builds {
		if b.IsLegacy() {
			continue
		}
		state, ok := ParseConfigStringState(b.ConfigString)
		if !ok {
			continue
		}
		k := baseKey(state.Mount, state.Power)
		entry, ok := idx.bases[k]
		if !ok {
			entry = &baseEntry{
				modules: make(map[Field]map[string]struct{}, len(ModuleFields)),
				combos:  make(map[string]string),
			}
			idx.bases[k] = entry
		}
		for _, f := range ModuleFields {
			set, ok := entry.modules[f]
			if !ok {
				set = make(map[string]struct{})
				entry.modules[f] = set
			}
			set[state.Value(f)] = struct{}{}
		}
		// a config string with segments the parser skipped is not an exact combination
		if key := BuildConfigKey(state); strings.EqualFold(key, strings.TrimSpace(b.ConfigString)) {
			entry.combos[strings.ToLower(key)] = key
		}
	}
	return idx
}

// Options returns the availability for a base pair.
func (idx *AvailabilityIndex) Options(mount, power string) (BaseAvailability, bool) {
	if idx == nil {
		return BaseAvailability{}, false
	}
	entry, ok := idx.bases[baseKey(mount, power)]
	if !ok {
		return BaseAvailability{}, false
	}
	out := BaseAvailability{
		Mount:        strings.ToLower(mount),
		Power:        strings.ToLower(power),
		Modules:      make(map[Field][]string, len(entry.modules)),
		Combinations: make([]string, 0, len(entry.combos)),
	}
	for f, set := range entry.modules {
		out.Modules[f] = orderedValues(f, set)
	}
	for _, key := range entry.combos {
		out.Combinations = append(out.Combinations, key)
	}
	sort.Strings(out.Combinations)
	return out, true
}

// IsOptionAvailable reports whether any build on the base ships value for field.
func (idx *AvailabilityIndex) IsOptionAvailable(mount, power string, f Field, value string) bool {
	if idx == nil {
		return false
	}
	entry, ok := idx.bases[baseKey(mount, power)]
	if !ok {
		return false
	}
	_, ok = entry.modules[f][strings.ToLower(value)]
	return ok
}

// HasExactCombination reports whether a build ships exactly this configuration.
func (idx *AvailabilityIndex) HasExactCombination(state SanitizedConfig) bool {
	if idx == nil || !state.Complete() {
		return false
	}
	entry, ok := idx.bases[baseKey(state.Mount, state.Power)]
	if !ok {
		return false
	}
	key := BuildConfigKey(state)
	if key == "" {
		return false
	}
	_, ok = entry.combos[strings.ToLower(key)]
	return ok
}

// Bases lists every base pair with shipped firmware, sorted by mount then power.
func (idx *AvailabilityIndex) Bases() []BaseAvailability {
	if idx == nil {
		return nil
	}
	out := make([]BaseAvailability, 0, len(idx.bases))
	for k := range idx.bases {
		mount, power, _ := strings.Cut(k, "|")
		if b, ok := idx.Options(mount, power); ok {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mount != out[j].Mount {
			return out[i].Mount < out[j].Mount
		}
		return out[i].Power < out[j].Power
	})
	return out
}

// orderedValues returns the set's members in the field's declaration order.
func orderedValues(f Field, set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for _, v := range WizardValues(f) {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
