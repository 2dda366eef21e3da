package firmware

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Error types reported by ParseConfigParams.
const (
	ErrorMissing = "missing"
	ErrorInvalid = "invalid"
)

// ConfigError describes one rejected field.
type ConfigError struct {
	Type    string   `json:"type"`
	Field   Field    `json:"field"`
	Value   string   `json:"value,omitempty"`
	Allowed []string `json:"allowed,omitempty"`
	Message string   `json:"message"`
}

// OutcomeKind tags how a field got its value.
type OutcomeKind int

const (
	// OutcomeResolved means the input supplied a valid value.
	OutcomeResolved OutcomeKind = iota
	// OutcomeDefaulted means the field was absent (or overridden) and took its default.
	OutcomeDefaulted
	// OutcomeRejected means the input was missing or invalid and an error was recorded.
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeResolved:
		return "resolved"
	case OutcomeDefaulted:
		return "defaulted"
	case OutcomeRejected:
		return "rejected"
	}
	return fmt.Sprintf("outcome(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k OutcomeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// FieldOutcome records the resolution of a single field.
type FieldOutcome struct {
	Field Field       `json:"field"`
	Kind  OutcomeKind `json:"kind"`
	// Value is the wizard value the field ended with ("" for unset required fields).
	Value string `json:"value"`
	// Raw is the trimmed input, if any alias was present.
	Raw string `json:"raw,omitempty"`
	// Overridden is set when a cross-field rule replaced a resolved value.
	Overridden bool `json:"overridden,omitempty"`
}

// ConfigResult is the full outcome of parsing a set of query parameters.
type ConfigResult struct {
	Sanitized     SanitizedConfig   `json:"sanitized_config"`
	Canonical     map[Field]string  `json:"canonical_values"`
	RawValues     map[Field]string  `json:"raw_values"`
	Outcomes      []FieldOutcome    `json:"outcomes"`
	ProvidedKeys  []Field           `json:"provided_keys"`
	PresentKeys   []Field           `json:"present_keys"`
	Errors        []ConfigError     `json:"errors"`
	IsValid       bool              `json:"is_valid"`
	ConfigKey     string            `json:"config_key,omitempty"`
	ForcedFanNone bool              `json:"forced_fan_none"`
	ParamCount    int               `json:"param_count"`
	segments      map[Field]string
}

// Outcome returns the outcome recorded for f.
func (r ConfigResult) Outcome(f Field) (FieldOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Field == f {
			return o, true
		}
	}
	return FieldOutcome{}, false
}

// HasError reports whether an error of the given type was recorded for f.
func (r ConfigResult) HasError(f Field, typ string) bool {
	for _, e := range r.Errors {
		if e.Field == f && e.Type == typ {
			return true
		}
	}
	return false
}

// ParseConfigParams validates raw query parameters against the option table.
// It never fails: every problem is reported through Errors and IsValid.
func ParseConfigParams(params url.Values) ConfigResult {
	lookup := foldParams(params)

	res := ConfigResult{
		Sanitized: DefaultConfig(),
		Canonical: make(map[Field]string),
		RawValues: make(map[Field]string),
		Errors:    []ConfigError{},
		segments:  make(map[Field]string),
	}

	var fanToken string
	for _, f := range FieldOrder {
		spec := specFor(f)
		raw, present := spec.lookup(lookup)
		if present {
			res.PresentKeys = append(res.PresentKeys, f)
			res.RawValues[f] = raw
		}

		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			if spec.required {
				res.Errors = append(res.Errors, ConfigError{
					Type:    ErrorMissing,
					Field:   f,
					Message: fmt.Sprintf("Missing required parameter: %s", f),
				})
				res.Sanitized = res.Sanitized.With(f, "")
				res.Outcomes = append(res.Outcomes, FieldOutcome{Field: f, Kind: OutcomeRejected})
				continue
			}
			res.applyDefault(spec, OutcomeDefaulted, "")
			continue
		}

		opt, ok := spec.canonicalToken(trimmed)
		if !ok {
			allowed := spec.allowedTokens()
			res.Errors = append(res.Errors, ConfigError{
				Type:    ErrorInvalid,
				Field:   f,
				Value:   trimmed,
				Allowed: allowed,
				Message: fmt.Sprintf("Invalid value for %s: %q. Expected one of: %s.", f, trimmed, strings.Join(allowed, ", ")),
			})
			if spec.required {
				res.Sanitized = res.Sanitized.With(f, "")
				res.Outcomes = append(res.Outcomes, FieldOutcome{Field: f, Kind: OutcomeRejected, Raw: trimmed})
				continue
			}
			res.applyDefault(spec, OutcomeRejected, trimmed)
			continue
		}

		res.Sanitized = res.Sanitized.With(f, opt.wizard)
		res.segments[f] = opt.segment
		res.Canonical[f] = opt.token
		res.ProvidedKeys = append(res.ProvidedKeys, f)
		res.Outcomes = append(res.Outcomes, FieldOutcome{Field: f, Kind: OutcomeResolved, Value: opt.wizard, Raw: trimmed})
		if f == FieldFan {
			fanToken = opt.token
		}
	}

	if res.Sanitized.Mount == MountCeiling {
		res.ForcedFanNone = fanToken != "" && fanToken != ValueNone
		res.Sanitized.enforceCeiling()
		res.segments[FieldFan] = ""
		for i := range res.Outcomes {
			o := &res.Outcomes[i]
			if o.Field == FieldFan && o.Kind == OutcomeResolved && o.Value != ValueNone {
				o.Kind = OutcomeDefaulted
				o.Value = ValueNone
				o.Overridden = true
			}
		}
	}

	res.IsValid = len(res.Errors) == 0 && res.Sanitized.Complete()
	if res.IsValid {
		res.ConfigKey = joinSegments(res.segments)
	}
	res.ParamCount = len(params)
	return res
}

func (r *ConfigResult) applyDefault(spec *fieldSpec, kind OutcomeKind, raw string) {
	def, ok := spec.defaultOption()
	if !ok {
		return
	}
	r.Sanitized = r.Sanitized.With(spec.field, def.wizard)
	r.segments[spec.field] = def.segment
	r.Outcomes = append(r.Outcomes, FieldOutcome{Field: spec.field, Kind: kind, Value: def.wizard, Raw: raw})
}

func joinSegments(segments map[Field]string) string {
	parts := make([]string, 0, len(FieldOrder))
	for _, f := range FieldOrder {
		if s := segments[f]; s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-")
}

// lookup returns the value of the first alias present in params.
func (s *fieldSpec) lookup(params map[string]string) (string, bool) {
	for _, alias := range s.aliases {
		if v, ok := params[alias]; ok {
			return v, true
		}
	}
	return "", false
}

// foldParams lowercases parameter names. An exact lowercase name beats other spellings;
// otherwise the lexically first spelling wins so the result is deterministic.
func foldParams(params url.Values) map[string]string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(keys))
	exact := make(map[string]bool, len(keys))
	for _, k := range keys {
		vals := params[k]
		if len(vals) == 0 {
			continue
		}
		lk := strings.ToLower(k)
		isExact := lk == k
		if _, seen := out[lk]; seen && (exact[lk] || !isExact) {
			continue
		}
		out[lk] = vals[0]
		exact[lk] = isExact
	}
	return out
}

// paramGroup folds a parameter name onto the field its alias belongs to; names
// outside the alias table fold to their lowercase spelling.
func paramGroup(name string) string {
	lk := strings.ToLower(name)
	for _, f := range FieldOrder {
		for _, alias := range fieldSpecs[f].aliases {
			if alias == lk {
				return string(f)
			}
		}
	}
	return lk
}

// MergeLocationParams combines search and hash query strings. A search parameter
// overrides every hash parameter naming the same field, whatever its case or alias.
func MergeLocationParams(search, hash string) url.Values {
	hashVals, _ := url.ParseQuery(strings.TrimPrefix(hash, "#"))
	searchVals, _ := url.ParseQuery(strings.TrimPrefix(search, "?"))

	overridden := make(map[string]bool, len(searchVals))
	for k := range searchVals {
		overridden[paramGroup(k)] = true
	}
	merged := url.Values{}
	for k, v := range hashVals {
		if !overridden[paramGroup(k)] {
			merged[k] = v
		}
	}
	for k, v := range searchVals {
		merged[k] = v
	}
	return merged
}

// ParseQueryString is a convenience wrapper for a raw query string.
func ParseQueryString(query string) ConfigResult {
	vals, _ := url.ParseQuery(strings.TrimPrefix(query, "?"))
	return ParseConfigParams(vals)
}
