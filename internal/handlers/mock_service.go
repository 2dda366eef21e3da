package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"webflash/internal/firmware"
	"webflash/internal/manifest"
	"webflash/internal/models"
	"webflash/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockConfigurator struct {
	parse         service.ParseResult
	resolution    service.Resolution
	resolveErr    error
	manifest      firmware.Manifest
	manifestErr   error
	legacy        []firmware.Build
	bases         []firmware.BaseAvailability
	changelog     []firmware.ChangelogEntry
	versions      []string
	update        firmware.UpdateCheck
	snapshotErr   error
	presets       []firmware.Preset
	lastParams    url.Values
	lastQuery     service.ResolveQuery
	lastMount     string
	lastPower     string
	lastConfigKey string
}

func (m *mockConfigurator) Parse(params url.Values) service.ParseResult {
	m.lastParams = params
	return m.parse
}
func (m *mockConfigurator) Resolve(_ context.Context, q service.ResolveQuery) (service.Resolution, error) {
	m.lastQuery = q
	return m.resolution, m.resolveErr
}
func (m *mockConfigurator) InstallManifest(_ context.Context, q service.ResolveQuery) (firmware.Manifest, error) {
	m.lastQuery = q
	return m.manifest, m.manifestErr
}
func (m *mockConfigurator) Legacy(_ context.Context, model, variant, sensorAddon string) ([]firmware.Build, error) {
	return m.legacy, m.snapshotErr
}
func (m *mockConfigurator) Availability(_ context.Context, mount, power string) ([]firmware.BaseAvailability, error) {
	m.lastMount, m.lastPower = mount, power
	return m.bases, m.snapshotErr
}
func (m *mockConfigurator) Changelog(_ context.Context, configKey string) ([]firmware.ChangelogEntry, error) {
	m.lastConfigKey = configKey
	return m.changelog, m.snapshotErr
}
func (m *mockConfigurator) Versions(_ context.Context, configKey, channel string) ([]string, error) {
	m.lastConfigKey = configKey
	return m.versions, m.snapshotErr
}
func (m *mockConfigurator) CheckUpdates(_ context.Context, currentVersion, configKey string) (firmware.UpdateCheck, error) {
	m.lastConfigKey = configKey
	return m.update, m.snapshotErr
}
func (m *mockConfigurator) BuiltinPresets() []firmware.Preset { return m.presets }
func (m *mockConfigurator) BuiltinPreset(name string) (firmware.Preset, bool) {
	for _, p := range m.presets {
		if p.Name == name {
			return p, true
		}
	}
	return firmware.Preset{}, false
}

type mockManifest struct {
	snap      *manifest.Snapshot
	err       error
	reloadErr error
	reloads   int
}

func (m *mockManifest) Snapshot() (*manifest.Snapshot, error) { return m.snap, m.err }
func (m *mockManifest) Reload(_ context.Context) (*manifest.Snapshot, error) {
	m.reloads++
	if m.reloadErr != nil {
		return nil, m.reloadErr
	}
	return m.snap, nil
}

type mockFlasher struct {
	progress    models.FlashProgress
	startErr    error
	progressErr error
	cancelErr   error
	lastStart   service.FlashRequest
	// frames, when set, is served one element per Progress call; the last repeats.
	frames []models.FlashProgress
	calls  int
}

func (m *mockFlasher) Start(_ context.Context, req service.FlashRequest) (models.FlashProgress, error) {
	m.lastStart = req
	return m.progress, m.startErr
}
func (m *mockFlasher) Progress(id string) (models.FlashProgress, error) {
	if m.progressErr != nil {
		return models.FlashProgress{}, m.progressErr
	}
	if len(m.frames) == 0 {
		return m.progress, nil
	}
	i := m.calls
	if i >= len(m.frames) {
		i = len(m.frames) - 1
	}
	m.calls++
	return m.frames[i], nil
}
func (m *mockFlasher) Cancel(_ context.Context, id string) (models.FlashProgress, error) {
	return m.progress, m.cancelErr
}
func (m *mockFlasher) Run(ctx context.Context, tick time.Duration) {}

type mockHistory struct {
	records   []models.FlashRecord
	err       error
	lastLimit int
	cleared   int64
}

func (m *mockHistory) List(_ context.Context, limit int) ([]models.FlashRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}
func (m *mockHistory) Clear(_ context.Context) (int64, error) { return m.cleared, m.err }

type mockEventLog struct {
	resp     []models.Event
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
	lastSess string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.Event, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastSess = f.Session
	return m.resp, m.err
}

type mockSavedPresets struct {
	presets   []models.SavedPreset
	saved     models.SavedPreset
	applied   service.AppliedPreset
	err       error
	lastName  string
	lastState map[string]string
	lastID    string
}

func (m *mockSavedPresets) List(_ context.Context) ([]models.SavedPreset, error) {
	return m.presets, m.err
}
func (m *mockSavedPresets) Save(_ context.Context, name string, state map[string]string) (models.SavedPreset, error) {
	m.lastName, m.lastState = name, state
	return m.saved, m.err
}
func (m *mockSavedPresets) Delete(_ context.Context, id string) error {
	m.lastID = id
	return m.err
}
func (m *mockSavedPresets) Apply(_ context.Context, id string) (service.AppliedPreset, error) {
	m.lastID = id
	return m.applied, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
