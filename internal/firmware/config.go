package firmware

import "encoding/json"

// SanitizedConfig holds one wizard value per field. Empty Mount or Power means unset.
type SanitizedConfig struct {
	Core     string `json:"core" yaml:"core"`
	Mount    string `json:"mount" yaml:"mount"`
	Power    string `json:"power" yaml:"power"`
	AirIQ    string `json:"airiq" yaml:"airiq"`
	Presence string `json:"presence" yaml:"presence"`
	Comfort  string `json:"comfort" yaml:"comfort"`
	Fan      string `json:"fan" yaml:"fan"`
}

// DefaultConfig is the state before any selection: required fields unset, modules "none".
func DefaultConfig() SanitizedConfig {
	return SanitizedConfig{
		Core:     ValueNone,
		AirIQ:    ValueNone,
		Presence: ValueNone,
		Comfort:  ValueNone,
		Fan:      ValueNone,
	}
}

// Value returns the wizard value for f.
func (c SanitizedConfig) Value(f Field) string {
	if p := c.ref(f); p != nil {
		return *p
	}
	return ""
}

// With returns a copy of c with f set to value.
func (c SanitizedConfig) With(f Field, value string) SanitizedConfig {
	if p := c.ref(f); p != nil {
		*p = value
	}
	return c
}

func (c *SanitizedConfig) ref(f Field) *string {
	switch f {
	case FieldCore:
		return &c.Core
	case FieldMount:
		return &c.Mount
	case FieldPower:
		return &c.Power
	case FieldAirIQ:
		return &c.AirIQ
	case FieldPresence:
		return &c.Presence
	case FieldComfort:
		return &c.Comfort
	case FieldFan:
		return &c.Fan
	}
	return nil
}

// Complete reports whether both required fields are set.
func (c SanitizedConfig) Complete() bool {
	return c.Mount != "" && c.Power != ""
}

// enforceCeiling drops the fan on ceiling mounts. It reports whether a fan was removed.
func (c *SanitizedConfig) enforceCeiling() bool {
	if c.Mount != MountCeiling {
		return false
	}
	removed := c.Fan != "" && c.Fan != ValueNone
	c.Fan = ValueNone
	return removed
}

// Normalized fills unset optional fields with "none" and applies the ceiling rule.
func (c SanitizedConfig) Normalized() SanitizedConfig {
	for _, f := range FieldOrder {
		if specFor(f).required {
			continue
		}
		if c.Value(f) == "" {
			c = c.With(f, ValueNone)
		}
	}
	c.enforceCeiling()
	return c
}

// MarshalJSON writes unset required fields as null.
func (c SanitizedConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, len(FieldOrder))
	for _, f := range FieldOrder {
		v := c.Value(f)
		if v == "" {
			out[string(f)] = nil
			continue
		}
		out[string(f)] = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the shape produced by MarshalJSON, including "mounting".
func (c *SanitizedConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = SanitizedConfig{}
	if v, ok := raw["mounting"]; ok && v != nil {
		c.Mount = *v
	}
	for _, f := range FieldOrder {
		if v, ok := raw[string(f)]; ok && v != nil {
			*c.ref(f) = *v
		}
	}
	return nil
}

// WizardConfiguration is the shape the wizard UI binds to.
type WizardConfiguration struct {
	Mounting string `json:"mounting"`
	Power    string `json:"power"`
	AirIQ    string `json:"airiq"`
	Presence string `json:"presence"`
	Comfort  string `json:"comfort"`
	Fan      string `json:"fan"`
}

// ToWizardConfiguration maps a sanitized config onto the wizard form fields.
func ToWizardConfiguration(c SanitizedConfig) WizardConfiguration {
	c = c.Normalized()
	return WizardConfiguration{
		Mounting: c.Mount,
		Power:    c.Power,
		AirIQ:    c.AirIQ,
		Presence: c.Presence,
		Comfort:  c.Comfort,
		Fan:      c.Fan,
	}
}
