package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"webflash/internal/firmware"
	"webflash/internal/manifest"
	"webflash/internal/service"

	"github.com/gin-gonic/gin"
)

func doRequest(r *gin.Engine, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestFirmwareHandlers_ParseStripsReservedKeys(t *testing.T) {
	cfg := &mockConfigurator{parse: service.ParseResult{ConfigResult: firmware.ConfigResult{IsValid: true, ConfigKey: "Wall-USB"}}}
	r := newTestRouter(&service.Service{Configurator: cfg})

	w := doRequest(r, http.MethodGet, "/api/v1/config/parse?mount=wall&power=usb&channel=beta&fragment=airiq%3Dpro%26power%3Dpoe", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if cfg.lastParams.Get("channel") != "" || cfg.lastParams.Get("fragment") != "" {
		t.Fatalf("reserved keys leaked: %v", cfg.lastParams)
	}
	// query overrides the fragment, fragment fills the rest
	if cfg.lastParams.Get("power") != "usb" || cfg.lastParams.Get("airiq") != "pro" {
		t.Fatalf("merged params %v", cfg.lastParams)
	}
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out["config_key"] != "Wall-USB" || out["is_valid"] != true {
		t.Fatalf("body %v", out)
	}
}

func TestFirmwareHandlers_Resolve(t *testing.T) {
	cfg := &mockConfigurator{resolution: service.Resolution{
		Matches: []service.BuildView{{Build: firmware.Build{Version: "1.0.0"}, FileName: "x.bin"}},
	}}
	r := newTestRouter(&service.Service{Configurator: cfg})

	w := doRequest(r, http.MethodGet, "/api/v1/firmware/resolve?mount=wall&power=usb&channel=beta&preset=recommended", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if cfg.lastQuery.Channel != "beta" || cfg.lastQuery.Preset != "recommended" || cfg.lastQuery.Params.Get("mount") != "wall" {
		t.Fatalf("query %+v", cfg.lastQuery)
	}
	var out struct {
		Matches []struct {
			Version  string `json:"version"`
			FileName string `json:"file_name"`
		} `json:"matches"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if len(out.Matches) != 1 || out.Matches[0].FileName != "x.bin" || out.Matches[0].Version != "1.0.0" {
		t.Fatalf("body %s", w.Body.String())
	}
}

func TestFirmwareHandlers_ErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{manifest.ErrNotLoaded, http.StatusServiceUnavailable},
		{fmt.Errorf("%w: Wall-POE", service.ErrNoFirmware), http.StatusNotFound},
		{service.ErrChannelUnavailable, http.StatusNotFound},
		{service.ErrUnknownPreset, http.StatusNotFound},
		{service.ErrInvalidConfig, http.StatusUnprocessableEntity},
		{firmware.ErrNoInstallableParts, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		cfg := &mockConfigurator{manifestErr: tc.err}
		r := newTestRouter(&service.Service{Configurator: cfg})
		w := doRequest(r, http.MethodGet, "/api/v1/firmware/install-manifest?mount=wall&power=poe", nil, "")
		if w.Code != tc.want {
			t.Errorf("%v: status=%d, want %d", tc.err, w.Code, tc.want)
		}
		var out map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		if tc.want == http.StatusInternalServerError && out["error"] != "failed to build install manifest" {
			t.Errorf("internal error leaked: %q", out["error"])
		}
	}
}

func TestFirmwareHandlers_Queries(t *testing.T) {
	cfg := &mockConfigurator{
		legacy:   []firmware.Build{{Model: "Sense360"}},
		bases:    []firmware.BaseAvailability{{Mount: "wall", Power: "usb"}},
		versions: []string{"1.1.0", "1.0.0"},
		update:   firmware.UpdateCheck{UpdateAvailable: true, LatestVersion: "1.1.0"},
		presets:  []firmware.Preset{firmware.RecommendedPreset},
	}
	r := newTestRouter(&service.Service{Configurator: cfg})

	if w := doRequest(r, http.MethodGet, "/api/v1/firmware/legacy", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("legacy without model status=%d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/v1/firmware/legacy?model=Sense360", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("legacy status=%d", w.Code)
	}

	w := doRequest(r, http.MethodGet, "/api/v1/firmware/availability?mount=wall&power=usb", nil, "")
	if w.Code != http.StatusOK || cfg.lastMount != "wall" || cfg.lastPower != "usb" {
		t.Fatalf("availability status=%d mount=%q", w.Code, cfg.lastMount)
	}

	if w := doRequest(r, http.MethodGet, "/api/v1/firmware/versions", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("versions without config status=%d", w.Code)
	}
	w = doRequest(r, http.MethodGet, "/api/v1/firmware/versions?config=wall-usb", nil, "")
	var versions struct {
		Config   string   `json:"config"`
		Versions []string `json:"versions"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &versions)
	if w.Code != http.StatusOK || versions.Config != "Wall-USB" || len(versions.Versions) != 2 {
		t.Fatalf("versions status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/v1/firmware/updates?version=1.0.0&config=Wall-USB", nil, "")
	if w.Code != http.StatusOK || cfg.lastConfigKey != "Wall-USB" {
		t.Fatalf("updates status=%d", w.Code)
	}

	if w := doRequest(r, http.MethodGet, "/api/v1/firmware/changelog", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("changelog status=%d", w.Code)
	}

	if w := doRequest(r, http.MethodGet, "/api/v1/presets/recommended", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("preset status=%d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/v1/presets/missing", nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing preset status=%d", w.Code)
	}

	cfg.snapshotErr = manifest.ErrNotLoaded
	if w := doRequest(r, http.MethodGet, "/api/v1/firmware/changelog", nil, ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("changelog without manifest status=%d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := doRequest(r, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("health status=%d body=%s", w.Code, w.Body.String())
	}
}
