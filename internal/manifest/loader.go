// Package manifest fetches manifest.json and keeps the current parsed snapshot.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"webflash/internal/firmware"
)

// ErrEmptySource is returned when no manifest location is configured.
var ErrEmptySource = errors.New("manifest source is empty")

const (
	defaultFetchTimeout = 15 * time.Second
	maxManifestBytes    = 16 << 20 // 16 MB
)

// Loader reads a manifest from a local path or an http(s) URL.
type Loader struct {
	Source string
	Client *http.Client
}

// NewLoader returns a loader for source with a bounded HTTP client.
func NewLoader(source string) *Loader {
	return &Loader{
		Source: strings.TrimSpace(source),
		Client: &http.Client{Timeout: defaultFetchTimeout},
	}
}

func (l *Loader) isRemote() bool {
	u, err := url.Parse(l.Source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Load fetches and decodes the manifest.
func (l *Loader) Load(ctx context.Context) (firmware.Manifest, error) {
	if l.Source == "" {
		return firmware.Manifest{}, ErrEmptySource
	}
	var (
		data []byte
		err  error
	)
	if l.isRemote() {
		data, err = l.fetch(ctx)
	} else {
		data, err = os.ReadFile(l.Source)
	}
	if err != nil {
		return firmware.Manifest{}, fmt.Errorf("read manifest %s: %w", l.Source, err)
	}
	return Decode(data)
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
}

// Decode parses manifest JSON. Only a document that is not a JSON object fails;
// malformed build lists decode as zero builds.
func Decode(data []byte) (firmware.Manifest, error) {
	var m firmware.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return firmware.Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

// BaseURL is the directory the manifest lives in, used to resolve relative part
// paths. It is nil for local files.
func (l *Loader) BaseURL() *url.URL {
	if !l.isRemote() {
		return nil
	}
	u, err := url.Parse(l.Source)
	if err != nil {
		return nil
	}
	return u.ResolveReference(&url.URL{Path: "./"})
}
