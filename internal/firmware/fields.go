package firmware

import "strings"

// Field names one configurable hardware axis.
type Field string

const (
	FieldCore     Field = "core"
	FieldMount    Field = "mount"
	FieldPower    Field = "power"
	FieldAirIQ    Field = "airiq"
	FieldPresence Field = "presence"
	FieldComfort  Field = "comfort"
	FieldFan      Field = "fan"
)

// Shared option values.
const (
	ValueNone    = "none"
	ValueBase    = "base"
	ValuePro     = "pro"
	MountWall    = "wall"
	MountCeiling = "ceiling"
	PowerUSB     = "usb"
	PowerPOE     = "poe"
	PowerPWR     = "pwr"
	FanPWM       = "pwm"
	FanAnalog    = "analog"
)

// FieldOrder is the fixed order fields are resolved and serialized in.
var FieldOrder = []Field{FieldCore, FieldMount, FieldPower, FieldAirIQ, FieldPresence, FieldComfort, FieldFan}

// ModuleFields are the expansion-module axes tracked by the availability index.
var ModuleFields = []Field{FieldAirIQ, FieldPresence, FieldComfort, FieldFan}

// option joins the URL-facing token, the wizard value and the key segment of one choice.
// An empty segment contributes nothing to the configuration key.
type option struct {
	token   string
	wizard  string
	segment string
}

type fieldSpec struct {
	field        Field
	aliases      []string
	required     bool
	defaultToken string
	options      []option
	legacy       map[string]string
}

var fieldSpecs = map[Field]*fieldSpec{
	FieldCore: {
		field:        FieldCore,
		aliases:      []string{"core"},
		defaultToken: ValueNone,
		options: []option{
			{token: ValueNone, wizard: ValueNone},
			{token: "core", wizard: "core", segment: "Core"},
		},
	},
	FieldMount: {
		field:    FieldMount,
		aliases:  []string{"mount", "mounting"},
		required: true,
		options: []option{
			{token: MountWall, wizard: MountWall, segment: "Wall"},
			{token: MountCeiling, wizard: MountCeiling, segment: "Ceiling"},
		},
	},
	FieldPower: {
		field:    FieldPower,
		aliases:  []string{"power"},
		required: true,
		options: []option{
			{token: PowerUSB, wizard: PowerUSB, segment: "USB"},
			{token: PowerPOE, wizard: PowerPOE, segment: "POE"},
			{token: "ac", wizard: PowerPWR, segment: "PWR"},
		},
		legacy: map[string]string{"pwr": "ac"},
	},
	FieldAirIQ: {
		field:        FieldAirIQ,
		aliases:      []string{"airiq"},
		defaultToken: ValueNone,
		options: []option{
			{token: ValueNone, wizard: ValueNone},
			{token: ValueBase, wizard: ValueBase, segment: "AirIQBase"},
			{token: ValuePro, wizard: ValuePro, segment: "AirIQPro"},
		},
	},
	FieldPresence: {
		field:        FieldPresence,
		aliases:      []string{"presence"},
		defaultToken: ValueNone,
		options: []option{
			{token: ValueNone, wizard: ValueNone},
			{token: ValueBase, wizard: ValueBase, segment: "PresenceBase"},
			{token: ValuePro, wizard: ValuePro, segment: "PresencePro"},
		},
	},
	FieldComfort: {
		field:        FieldComfort,
		aliases:      []string{"comfort"},
		defaultToken: ValueNone,
		options: []option{
			{token: ValueNone, wizard: ValueNone},
			{token: ValueBase, wizard: ValueBase, segment: "ComfortBase"},
		},
	},
	FieldFan: {
		field:        FieldFan,
		aliases:      []string{"fan"},
		defaultToken: ValueNone,
		options: []option{
			{token: ValueNone, wizard: ValueNone},
			{token: ValueBase, wizard: FanPWM, segment: "FanPWM"},
			{token: FanAnalog, wizard: FanAnalog, segment: "FanAnalog"},
		},
		legacy: map[string]string{"pwm": ValueBase},
	},
}

func specFor(f Field) *fieldSpec { return fieldSpecs[f] }

// allowedTokens lists the URL tokens a field accepts, in declaration order.
func (s *fieldSpec) allowedTokens() []string {
	out := make([]string, 0, len(s.options))
	for _, o := range s.options {
		out = append(out, o.token)
	}
	return out
}

// canonicalToken lowercases, applies the legacy remap and returns the matching option.
func (s *fieldSpec) canonicalToken(raw string) (option, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := s.legacy[token]; ok {
		token = mapped
	}
	for _, o := range s.options {
		if o.token == token {
			return o, true
		}
	}
	return option{}, false
}

func (s *fieldSpec) byWizard(value string) (option, bool) {
	for _, o := range s.options {
		if o.wizard == value {
			return o, true
		}
	}
	return option{}, false
}

func (s *fieldSpec) bySegment(segment string) (option, bool) {
	for _, o := range s.options {
		if o.segment != "" && strings.EqualFold(o.segment, segment) {
			return o, true
		}
	}
	return option{}, false
}

// variant resolves a loosely spelled value (URL token, legacy token or wizard value).
func (s *fieldSpec) variant(value string) (option, bool) {
	if o, ok := s.canonicalToken(value); ok {
		return o, true
	}
	return s.byWizard(strings.ToLower(strings.TrimSpace(value)))
}

func (s *fieldSpec) defaultOption() (option, bool) {
	if s.defaultToken == "" {
		return option{}, false
	}
	return s.canonicalToken(s.defaultToken)
}

// AllowedValues returns the URL tokens accepted for a field.
func AllowedValues(f Field) []string {
	s := specFor(f)
	if s == nil {
		return nil
	}
	return s.allowedTokens()
}

// WizardValues returns the wizard vocabulary of a field.
func WizardValues(f Field) []string {
	s := specFor(f)
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.options))
	for _, o := range s.options {
		out = append(out, o.wizard)
	}
	return out
}

// TokenForWizard maps a wizard value back to its URL token ("pwm" -> "base" for fan).
func TokenForWizard(f Field, wizard string) (string, bool) {
	s := specFor(f)
	if s == nil {
		return "", false
	}
	o, ok := s.byWizard(wizard)
	return o.token, ok
}
