package firmware

import (
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func mustQuery(t *testing.T, q string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse %q: %v", q, err)
	}
	return v
}

func TestParseConfigParams_CoreWallUSBFan(t *testing.T) {
	res := ParseConfigParams(mustQuery(t, "core=core&mount=wall&power=usb&fan=base"))
	if !res.IsValid {
		t.Fatalf("expected valid, errors=%v", res.Errors)
	}
	if res.ConfigKey != "Core-Wall-USB-FanPWM" {
		t.Fatalf("config key=%q", res.ConfigKey)
	}
	if res.Sanitized.Fan != FanPWM {
		t.Fatalf("fan=%q, want pwm", res.Sanitized.Fan)
	}
	if res.ForcedFanNone {
		t.Fatalf("fan should not be forced on wall mount")
	}
}

func TestParseConfigParams_MissingRequired(t *testing.T) {
	res := ParseConfigParams(mustQuery(t, "airiq=base"))
	if res.IsValid {
		t.Fatalf("expected invalid")
	}
	if !res.HasError(FieldMount, ErrorMissing) || !res.HasError(FieldPower, ErrorMissing) {
		t.Fatalf("expected missing mount and power, got %v", res.Errors)
	}
	if res.ConfigKey != "" {
		t.Fatalf("invalid result must not carry a key, got %q", res.ConfigKey)
	}
	if res.Sanitized.Mount != "" || res.Sanitized.AirIQ != ValueBase {
		t.Fatalf("unexpected sanitized %+v", res.Sanitized)
	}
}

func TestParseConfigParams_InvalidFan(t *testing.T) {
	res := ParseConfigParams(mustQuery(t, "core=core&mount=wall&power=usb&fan=linear"))
	if res.IsValid {
		t.Fatalf("expected invalid")
	}
	if !res.HasError(FieldFan, ErrorInvalid) {
		t.Fatalf("expected invalid fan error, got %v", res.Errors)
	}
	if res.Sanitized.Fan != ValueNone {
		t.Fatalf("invalid optional field should fall back to none, got %q", res.Sanitized.Fan)
	}
	o, _ := res.Outcome(FieldFan)
	if o.Kind != OutcomeRejected || o.Raw != "linear" {
		t.Fatalf("unexpected fan outcome %+v", o)
	}
	for _, e := range res.Errors {
		if e.Field == FieldFan && len(e.Allowed) != 3 {
			t.Fatalf("allowed=%v", e.Allowed)
		}
	}
}

func TestParseConfigParams_InvalidRequiredStaysUnset(t *testing.T) {
	res := ParseConfigParams(mustQuery(t, "mount=floor&power=usb"))
	if res.IsValid || !res.HasError(FieldMount, ErrorInvalid) {
		t.Fatalf("expected invalid mount, got %v", res.Errors)
	}
	if res.Sanitized.Mount != "" {
		t.Fatalf("mount should be unset, got %q", res.Sanitized.Mount)
	}
}

func TestParseConfigParams_CeilingForcesFanNone(t *testing.T) {
	res := ParseConfigParams(mustQuery(t, "mount=ceiling&power=poe&airiq=pro&fan=analog"))
	if !res.IsValid {
		t.Fatalf("expected valid, errors=%v", res.Errors)
	}
	if !res.ForcedFanNone {
		t.Fatalf("expected forced fan none")
	}
	if res.Sanitized.Fan != ValueNone {
		t.Fatalf("fan=%q", res.Sanitized.Fan)
	}
	if res.ConfigKey != "Ceiling-POE-AirIQPro" {
		t.Fatalf("config key=%q", res.ConfigKey)
	}
	o, _ := res.Outcome(FieldFan)
	if !o.Overridden || o.Kind != OutcomeDefaulted {
		t.Fatalf("fan outcome %+v", o)
	}

	res = ParseConfigParams(mustQuery(t, "mount=ceiling&power=poe"))
	if res.ForcedFanNone {
		t.Fatalf("no fan requested, nothing to force")
	}
}

func TestParseConfigParams_LegacyAliases(t *testing.T) {
	legacy := ParseConfigParams(mustQuery(t, "mounting=wall&power=pwr&fan=pwm"))
	current := ParseConfigParams(mustQuery(t, "mount=wall&power=ac&fan=base"))
	if !legacy.IsValid || !current.IsValid {
		t.Fatalf("both should be valid: %v / %v", legacy.Errors, current.Errors)
	}
	if legacy.Sanitized != current.Sanitized {
		t.Fatalf("legacy %+v != current %+v", legacy.Sanitized, current.Sanitized)
	}
	if legacy.ConfigKey != "Wall-PWR-FanPWM" || legacy.ConfigKey != current.ConfigKey {
		t.Fatalf("keys %q / %q", legacy.ConfigKey, current.ConfigKey)
	}
	if legacy.Canonical[FieldPower] != "ac" || legacy.Canonical[FieldFan] != ValueBase {
		t.Fatalf("canonical=%v", legacy.Canonical)
	}
}

func TestParseConfigParams_CaseAndWhitespace(t *testing.T) {
	res := ParseConfigParams(url.Values{"Mount": {" WALL "}, "POWER": {"Usb"}, "AirIQ": {"Base"}})
	if !res.IsValid {
		t.Fatalf("expected valid, errors=%v", res.Errors)
	}
	if res.ConfigKey != "Wall-USB-AirIQBase" {
		t.Fatalf("config key=%q", res.ConfigKey)
	}
	if res.RawValues[FieldMount] != " WALL " {
		t.Fatalf("raw mount=%q", res.RawValues[FieldMount])
	}
}

func TestParseConfigParams_EmptyValueIsAbsent(t *testing.T) {
	res := ParseConfigParams(mustQuery(t, "mount=wall&power=usb&airiq="))
	if !res.IsValid {
		t.Fatalf("expected valid, errors=%v", res.Errors)
	}
	o, _ := res.Outcome(FieldAirIQ)
	if o.Kind != OutcomeDefaulted {
		t.Fatalf("airiq outcome %+v", o)
	}
	if len(res.PresentKeys) != 3 || len(res.ProvidedKeys) != 2 {
		t.Fatalf("present=%v provided=%v", res.PresentKeys, res.ProvidedKeys)
	}
}

func TestParseConfigParams_Idempotent(t *testing.T) {
	first := ParseConfigParams(mustQuery(t, "mount=wall&power=poe&presence=pro&comfort=base&fan=analog"))
	if !first.IsValid {
		t.Fatalf("errors=%v", first.Errors)
	}
	again := url.Values{}
	for f, token := range first.Canonical {
		again.Set(string(f), token)
	}
	second := ParseConfigParams(again)
	if second.Sanitized != first.Sanitized || second.ConfigKey != first.ConfigKey {
		t.Fatalf("re-parse changed result: %+v vs %+v", second.Sanitized, first.Sanitized)
	}
}

func TestParseConfigParams_SameInputTwice(t *testing.T) {
	params := mustQuery(t, "mount=wall&power=usb&airiq=pro&fan=linear")
	first := ParseConfigParams(params)
	second := ParseConfigParams(params)

	if len(first.Errors) == 0 {
		t.Fatal("expected an error for fan=linear")
	}
	if !reflect.DeepEqual(first.Errors, second.Errors) {
		t.Fatalf("errors differ: %+v vs %+v", first.Errors, second.Errors)
	}
	if first.Sanitized != second.Sanitized {
		t.Fatalf("sanitized differ: %+v vs %+v", first.Sanitized, second.Sanitized)
	}
	if first.Sanitized.Fan != ValueNone {
		t.Fatalf("invalid fan should default, got %q", first.Sanitized.Fan)
	}
	if params.Get("fan") != "linear" {
		t.Fatalf("input mutated: %v", params)
	}
}

func TestParseConfigParams_OutcomesCoverEveryField(t *testing.T) {
	res := ParseConfigParams(url.Values{})
	if len(res.Outcomes) != len(FieldOrder) {
		t.Fatalf("outcomes=%d, want %d", len(res.Outcomes), len(FieldOrder))
	}
	for i, f := range FieldOrder {
		if res.Outcomes[i].Field != f {
			t.Fatalf("outcome %d field=%s, want %s", i, res.Outcomes[i].Field, f)
		}
	}
}

func TestMergeLocationParams_SearchWins(t *testing.T) {
	merged := MergeLocationParams("?mount=ceiling&power=usb", "#mount=wall&airiq=pro")
	if merged.Get("mount") != "ceiling" {
		t.Fatalf("mount=%q", merged.Get("mount"))
	}
	if merged.Get("airiq") != "pro" {
		t.Fatalf("hash-only value lost: %v", merged)
	}
	res := ParseConfigParams(merged)
	if res.ConfigKey != "Ceiling-USB-AirIQPro" {
		t.Fatalf("config key=%q", res.ConfigKey)
	}
}

func TestMergeLocationParams_SearchWinsAcrossSpellings(t *testing.T) {
	cases := []struct {
		name   string
		search string
		hash   string
	}{
		{name: "upper case search", search: "MOUNT=wall&power=usb", hash: "mount=ceiling"},
		{name: "alias in search", search: "mounting=wall&power=usb", hash: "mount=ceiling"},
		{name: "alias in hash", search: "mount=wall&power=usb", hash: "Mounting=ceiling&fan=analog"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ParseConfigParams(MergeLocationParams(tc.search, tc.hash))
			if res.Sanitized.Mount != MountWall {
				t.Fatalf("mount=%q", res.Sanitized.Mount)
			}
			if !strings.HasPrefix(res.ConfigKey, "Wall-USB") {
				t.Fatalf("config key=%q", res.ConfigKey)
			}
		})
	}

	merged := MergeLocationParams("Power=poe", "#mount=wall&power=usb&fan=analog")
	if merged.Get("mount") != "wall" || merged.Get("fan") != "analog" || merged.Has("power") {
		t.Fatalf("merged=%v", merged)
	}
}

func TestParseQueryString(t *testing.T) {
	res := ParseQueryString("?mount=wall&power=usb")
	if !res.IsValid || res.ConfigKey != "Wall-USB" {
		t.Fatalf("got %+v", res)
	}
	if res.ParamCount != 2 {
		t.Fatalf("param count=%d", res.ParamCount)
	}
}

func TestToWizardConfiguration(t *testing.T) {
	res := ParseConfigParams(mustQuery(t, "mounting=wall&power=ac&fan=base"))
	got := ToWizardConfiguration(res.Sanitized)
	want := WizardConfiguration{Mounting: "wall", Power: "pwr", AirIQ: "none", Presence: "none", Comfort: "none", Fan: "pwm"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
