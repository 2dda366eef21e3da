package firmware

import "strings"

const keySeparator = "-"

// BuildConfigKey serializes a sanitized config into its configuration key,
// e.g. "Wall-USB-AirIQBase". It returns "" when mount or power is unset or unknown.
func BuildConfigKey(c SanitizedConfig) string {
	if !c.Complete() {
		return ""
	}
	c = c.Normalized()

	parts := make([]string, 0, len(FieldOrder))
	for _, f := range FieldOrder {
		spec := specFor(f)
		o, ok := spec.byWizard(c.Value(f))
		if !ok {
			if spec.required {
				return ""
			}
			continue
		}
		if o.segment != "" {
			parts = append(parts, o.segment)
		}
	}
	return strings.Join(parts, keySeparator)
}

// segmentRule maps a key segment prefix to a module field. A bare prefix selects
// defaultSuffix.
type segmentRule struct {
	prefix        string
	field         Field
	defaultSuffix string
}

// moduleSegmentRules drives reverse parsing; adding a module is a new row here.
var moduleSegmentRules = []segmentRule{
	{prefix: "AirIQ", field: FieldAirIQ, defaultSuffix: ValueBase},
	{prefix: "Presence", field: FieldPresence, defaultSuffix: ValueBase},
	{prefix: "Comfort", field: FieldComfort, defaultSuffix: ValueBase},
	{prefix: "Fan", field: FieldFan, defaultSuffix: ValueBase},
}

func matchSegmentRule(segment string) (segmentRule, string, bool) {
	for _, r := range moduleSegmentRules {
		if len(segment) < len(r.prefix) || !strings.EqualFold(segment[:len(r.prefix)], r.prefix) {
			continue
		}
		suffix := strings.ToLower(segment[len(r.prefix):])
		if suffix == "" {
			suffix = r.defaultSuffix
		}
		return r, suffix, true
	}
	return segmentRule{}, "", false
}

// ParseConfigStringState turns a configuration key back into a sanitized config.
// It reports false when mount and power cannot both be resolved.
func ParseConfigStringState(configString string) (SanitizedConfig, bool) {
	segments := splitKey(configString)
	state := DefaultConfig()

	if len(segments) > 0 {
		if o, ok := specFor(FieldCore).bySegment(segments[0]); ok {
			state.Core = o.wizard
			segments = segments[1:]
		}
	}
	if len(segments) < 2 {
		return SanitizedConfig{}, false
	}

	mount, ok := specFor(FieldMount).bySegment(segments[0])
	if !ok {
		mount, ok = specFor(FieldMount).variant(segments[0])
	}
	if !ok {
		return SanitizedConfig{}, false
	}
	power, ok := specFor(FieldPower).bySegment(segments[1])
	if !ok {
		power, ok = specFor(FieldPower).variant(segments[1])
	}
	if !ok {
		return SanitizedConfig{}, false
	}
	state.Mount = mount.wizard
	state.Power = power.wizard

	for _, seg := range segments[2:] {
		rule, suffix, ok := matchSegmentRule(seg)
		if !ok {
			continue
		}
		o, ok := specFor(rule.field).variant(suffix)
		if !ok {
			continue
		}
		state = state.With(rule.field, o.wizard)
	}

	state.enforceCeiling()
	return state, true
}

func splitKey(configString string) []string {
	raw := strings.Split(strings.TrimSpace(configString), keySeparator)
	out := raw[:0]
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeConfigKey returns the canonical spelling of a configuration key, or the
// trimmed input when it cannot be parsed.
func NormalizeConfigKey(configString string) string {
	if state, ok := ParseConfigStringState(configString); ok {
		return BuildConfigKey(state)
	}
	return strings.TrimSpace(configString)
}
