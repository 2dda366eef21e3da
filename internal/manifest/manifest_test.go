package manifest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"webflash/internal/firmware"
)

const sampleManifest = `{
	"name": "Sense360",
	"version": "2025.1",
	"builds": [
		{"config_string": "Wall-USB-AirIQBase", "channel": "stable", "version": "1.0.0", "parts": [{"path": "firmware/wall-usb.bin", "offset": 0}]},
		{"config_string": "Ceiling-POE", "channel": "beta", "version": "1.1.0"}
	]
}`

func TestLoader_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := NewLoader(path)
	m, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "Sense360" || len(m.Builds) != 2 {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if l.BaseURL() != nil {
		t.Fatalf("local files have no base URL")
	}
}

func TestLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/webflash/manifest.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleManifest))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL + "/webflash/manifest.json")
	m, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Builds) != 2 {
		t.Fatalf("builds=%d", len(m.Builds))
	}
	if got := l.BaseURL().String(); got != srv.URL+"/webflash/" {
		t.Fatalf("base url=%q", got)
	}

	_, err = NewLoader(srv.URL + "/missing.json").Load(context.Background())
	if err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestLoader_Errors(t *testing.T) {
	if _, err := NewLoader("  ").Load(context.Background()); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
	if _, err := NewLoader(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := Decode([]byte(`[1,2,3]`)); err == nil {
		t.Fatalf("non-object manifest must fail")
	}
	m, err := Decode([]byte(`{"builds": "oops"}`))
	if err != nil || len(m.Builds) != 0 {
		t.Fatalf("malformed builds should decode as empty: %+v %v", m, err)
	}
}

type fakeSource struct {
	m   firmware.Manifest
	err error
	n   int
}

func (f *fakeSource) Load(ctx context.Context) (firmware.Manifest, error) {
	f.n++
	return f.m, f.err
}

func TestStore_ReloadKeepsPreviousOnFailure(t *testing.T) {
	src := &fakeSource{m: firmware.Manifest{Builds: []firmware.Build{{ConfigString: "Wall-USB", Version: "1.0.0"}}}}
	s := NewStore(src, "test")

	if _, err := s.Current(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}

	first, err := s.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if first.Availability == nil || !first.Availability.HasExactCombination(firmware.SanitizedConfig{Mount: "wall", Power: "usb"}) {
		t.Fatalf("availability index not built")
	}

	src.err = errors.New("network down")
	if _, err := s.Reload(context.Background()); err == nil {
		t.Fatalf("expected reload error")
	}
	cur, err := s.Current()
	if err != nil || cur != first {
		t.Fatalf("previous snapshot should stay active: %v", err)
	}
	if src.n != 2 {
		t.Fatalf("loads=%d", src.n)
	}
}

func TestNewStaticStore(t *testing.T) {
	s := NewStaticStore(firmware.Manifest{}, "inline")
	cur, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.Builds() == nil || cur.Source != "inline" {
		t.Fatalf("unexpected snapshot %+v", cur)
	}
	if again, _ := s.Reload(context.Background()); again != cur {
		t.Fatalf("static store reload should return current snapshot")
	}
}
