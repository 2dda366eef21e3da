package firmware

import (
	"net/url"
	"sort"
	"strings"
)

// Preset is a named, ready-made hardware selection.
type Preset struct {
	Name        string          `json:"name" yaml:"name"`
	Label       string          `json:"label" yaml:"label"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	State       SanitizedConfig `json:"state" yaml:"state"`
}

// RecommendedPreset is the starter bundle offered by the wizard.
var RecommendedPreset = Preset{
	Name:        "recommended",
	Label:       "Recommended bundle",
	Description: "Wall mount with USB power plus AirIQ Base and Presence Base modules.",
	State: SanitizedConfig{
		Core:     ValueNone,
		Mount:    MountWall,
		Power:    PowerUSB,
		AirIQ:    ValueBase,
		Presence: ValueBase,
		Comfort:  ValueNone,
		Fan:      ValueNone,
	},
}

var stateKeyAliases = map[string]Field{
	"mounting": FieldMount,
	"mount":    FieldMount,
	"power":    FieldPower,
	"airiq":    FieldAirIQ,
	"presence": FieldPresence,
	"comfort":  FieldComfort,
	"fan":      FieldFan,
	"core":     FieldCore,
}

// SanitizeState keeps only recognized keys holding wizard values, fills defaults
// and applies the ceiling rule. Unknown keys and values are dropped silently.
func SanitizeState(state map[string]string) SanitizedConfig {
	out := DefaultConfig()
	for k, v := range state {
		f, ok := stateKeyAliases[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			continue
		}
		if o, ok := specFor(f).byWizard(strings.ToLower(strings.TrimSpace(v))); ok {
			out = out.With(f, o.wizard)
		}
	}
	out.enforceCeiling()
	return out
}

// SanitizeConfig runs an already typed config through SanitizeState.
func SanitizeConfig(c SanitizedConfig) SanitizedConfig {
	m := make(map[string]string, len(FieldOrder))
	for _, f := range FieldOrder {
		m[string(f)] = c.Value(f)
	}
	return SanitizeState(m)
}

// PresetCatalog is a read-only set of presets keyed by lowercase name.
type PresetCatalog struct {
	presets map[string]Preset
}

// NewPresetCatalog builds a catalog from the recommended preset plus extra.
// Later entries replace earlier ones with the same name.
func NewPresetCatalog(extra ...Preset) *PresetCatalog {
	c := &PresetCatalog{presets: make(map[string]Preset, len(extra)+1)}
	for _, p := range append([]Preset{RecommendedPreset}, extra...) {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			continue
		}
		p.Name = name
		if p.Label == "" {
			p.Label = p.Name
		}
		p.State = SanitizeConfig(p.State)
		c.presets[name] = p
	}
	return c
}

// ByName looks a preset up case-insensitively.
func (c *PresetCatalog) ByName(name string) (Preset, bool) {
	p, ok := c.presets[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// List returns every preset sorted by name.
func (c *PresetCatalog) List() []Preset {
	out := make([]Preset, 0, len(c.presets))
	for _, p := range c.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Matching returns the preset whose state equals state after sanitizing.
func (c *PresetCatalog) Matching(state SanitizedConfig) (Preset, bool) {
	target := SanitizeConfig(state)
	for _, p := range c.List() {
		if p.State == target {
			return p, true
		}
	}
	return Preset{}, false
}

// ApplyPreset fills params with the preset's selections for every field the caller
// did not set, translating wizard values to URL tokens.
func ApplyPreset(params url.Values, p Preset) url.Values {
	present := foldParams(params)
	out := url.Values{}
	for k, v := range params {
		out[k] = v
	}
	for _, f := range FieldOrder {
		spec := specFor(f)
		if _, ok := spec.lookup(present); ok {
			continue
		}
		v := p.State.Value(f)
		if v == "" {
			continue
		}
		if token, ok := TokenForWizard(f, v); ok {
			out.Set(spec.aliases[0], token)
		}
	}
	return out
}
