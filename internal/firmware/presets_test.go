package firmware

import (
	"net/url"
	"testing"
)

func TestSanitizeState(t *testing.T) {
	got := SanitizeState(map[string]string{
		"mounting": "ceiling",
		"power":    "pwr",
		"fan":      "pwm",
		"airiq":    "ultra",
		"color":    "red",
	})
	want := SanitizedConfig{Core: ValueNone, Mount: MountCeiling, Power: PowerPWR, AirIQ: ValueNone, Presence: ValueNone, Comfort: ValueNone, Fan: ValueNone}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPresetCatalog(t *testing.T) {
	c := NewPresetCatalog(Preset{Name: " Office ", State: SanitizedConfig{Mount: MountWall, Power: PowerPOE, Presence: ValuePro}})

	if len(c.List()) != 2 {
		t.Fatalf("presets=%+v", c.List())
	}
	p, ok := c.ByName("OFFICE")
	if !ok || p.Label != "office" || p.State.AirIQ != ValueNone {
		t.Fatalf("office preset %+v ok=%v", p, ok)
	}
	if _, ok := c.ByName("missing"); ok {
		t.Fatalf("unexpected preset")
	}

	m, ok := c.Matching(SanitizedConfig{Mount: MountWall, Power: PowerUSB, AirIQ: ValueBase, Presence: ValueBase})
	if !ok || m.Name != "recommended" {
		t.Fatalf("matching=%+v ok=%v", m, ok)
	}
}

func TestApplyPreset_KeepsExplicitParams(t *testing.T) {
	params := ApplyPreset(url.Values{"Power": {"poe"}}, RecommendedPreset)
	res := ParseConfigParams(params)
	if !res.IsValid {
		t.Fatalf("errors=%v", res.Errors)
	}
	if res.ConfigKey != "Wall-POE-AirIQBase-PresenceBase" {
		t.Fatalf("config key=%q", res.ConfigKey)
	}
}
