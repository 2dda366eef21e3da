package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"webflash/internal/firmware"
	"webflash/internal/logger"
	"webflash/internal/models"
	"webflash/internal/repository"

	"github.com/google/uuid"
)

// Simulation constants.
const (
	DefaultFlashTick  = 250 * time.Millisecond
	defaultPartBytes  = int64(1 << 20) // used when the manifest has no file size
	writeChunkBytes   = int64(256 << 10)
	connectTicks      = 1
	eraseTicks        = 2
	verifyTicks       = 1
	finishedRetention = 10 * time.Minute

	cancelledMessage = "cancelled"
)

var (
	ErrSessionNotFound = errors.New("flash session not found")
	ErrSessionFinished = errors.New("flash session already finished")
)

// buildSelector picks the build a flash request would install.
type buildSelector interface {
	selectBuild(ctx context.Context, q ResolveQuery) (Resolution, firmware.Build, error)
}

type flashSession struct {
	progress    models.FlashProgress
	partSizes   []int64
	partWritten int64
	stageTicks  int
	finishedAt  time.Time
}

// FlasherService simulates writing firmware to a device, one stage per tick.
type FlasherService struct {
	selector  buildSelector
	history   repository.HistoryRepo
	eventRepo repository.EventRepo
	log       *logger.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*flashSession
}

func NewFlasherService(selector buildSelector, history repository.HistoryRepo, eventRepo repository.EventRepo, log *logger.Logger) *FlasherService {
	return &FlasherService{
		selector:  selector,
		history:   history,
		eventRepo: eventRepo,
		log:       log,
		now:       time.Now,
		sessions:  make(map[string]*flashSession),
	}
}

// partSizes splits the build's file size across its parts.
func partSizes(b firmware.Build) []int64 {
	n := len(b.Parts)
	sizes := make([]int64, n)
	for i := range sizes {
		if b.FileSize > 0 {
			sizes[i] = b.FileSize / int64(n)
			if sizes[i] == 0 {
				sizes[i] = 1
			}
		} else {
			sizes[i] = defaultPartBytes
		}
	}
	return sizes
}

// Start resolves the request to a build and opens a session in the connecting stage.
func (s *FlasherService) Start(ctx context.Context, req FlashRequest) (models.FlashProgress, error) {
	res, b, err := s.selector.selectBuild(ctx, ResolveQuery{Params: req.Params, Channel: req.Channel})
	if err != nil {
		return models.FlashProgress{}, err
	}
	if len(b.Parts) == 0 {
		return models.FlashProgress{}, firmware.ErrNoInstallableParts
	}

	now := s.now().UTC()
	sizes := partSizes(b)
	var total int64
	for _, n := range sizes {
		total += n
	}
	sess := &flashSession{
		partSizes: sizes,
		progress: models.FlashProgress{
			SessionID:    uuid.NewString(),
			ConfigString: res.Config.ConfigKey,
			Version:      b.Version,
			Channel:      b.NormalizedChannel(),
			Stage:        models.StageConnecting,
			PartsTotal:   len(sizes),
			BytesTotal:   total,
			StartedAt:    now,
			UpdatedAt:    now,
		},
	}

	if err := s.history.Add(ctx, models.FlashRecord{
		ID:              sess.progress.SessionID,
		StartedAt:       now,
		ConfigString:    sess.progress.ConfigString,
		FirmwareVersion: b.Version,
		Channel:         sess.progress.Channel,
		Status:          models.FlashStarted,
		Client:          req.Client,
	}); err != nil {
		return models.FlashProgress{}, err
	}
	_ = s.eventRepo.Append(ctx, models.Event{
		OccurredAt:  now,
		Type:        models.EventFlashStart,
		Description: "Flash started for " + sess.progress.ConfigString,
		Metadata:    flashMeta(sess.progress),
	})

	s.mu.Lock()
	s.sessions[sess.progress.SessionID] = sess
	s.mu.Unlock()
	return sess.progress, nil
}

// Progress returns a copy of the session's current state.
func (s *FlasherService) Progress(id string) (models.FlashProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return models.FlashProgress{}, ErrSessionNotFound
	}
	return sess.progress, nil
}

// Cancel aborts a running session; it is recorded as a failed flash.
func (s *FlasherService) Cancel(ctx context.Context, id string) (models.FlashProgress, error) {
	now := s.now().UTC()
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return models.FlashProgress{}, ErrSessionNotFound
	}
	if sess.progress.Finished() {
		p := sess.progress
		s.mu.Unlock()
		return p, ErrSessionFinished
	}
	sess.fail(cancelledMessage, now)
	p := sess.progress
	s.mu.Unlock()

	s.persistFinished(ctx, p)
	return p, nil
}

// Run ticks at the given interval until ctx is canceled.
func (s *FlasherService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultFlashTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.step(ctx, now)
		}
	}
}

// step advances every running session once and persists the ones that finished.
func (s *FlasherService) step(ctx context.Context, now time.Time) {
	now = now.UTC()
	var finished []models.FlashProgress

	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.progress.Finished() {
			if now.Sub(sess.finishedAt) > finishedRetention {
				delete(s.sessions, id)
			}
			continue
		}
		if sess.advance(now) {
			finished = append(finished, sess.progress)
		}
	}
	s.mu.Unlock()

	for _, p := range finished {
		s.persistFinished(ctx, p)
	}
}

// advance moves the session one tick forward. It reports whether the session
// reached a terminal stage on this tick.
func (f *flashSession) advance(now time.Time) bool {
	p := &f.progress
	p.UpdatedAt = now
	switch p.Stage {
	case models.StageConnecting:
		if f.stageTicks++; f.stageTicks >= connectTicks {
			p.Stage, f.stageTicks = models.StageErasing, 0
		}
	case models.StageErasing:
		if f.stageTicks++; f.stageTicks >= eraseTicks {
			p.Stage, f.stageTicks = models.StageWriting, 0
			p.Part = 1
		}
	case models.StageWriting:
		size := f.partSizes[p.Part-1]
		chunk := size - f.partWritten
		if chunk > writeChunkBytes {
			chunk = writeChunkBytes
		}
		f.partWritten += chunk
		p.BytesWritten += chunk
		if f.partWritten >= size {
			if p.Part < p.PartsTotal {
				p.Part++
				f.partWritten = 0
			} else {
				p.Stage = models.StageVerifying
			}
		}
	case models.StageVerifying:
		if f.stageTicks++; f.stageTicks >= verifyTicks {
			p.Stage = models.StageDone
			f.finishedAt = now
		}
	}
	p.Percent = percent(p.BytesWritten, p.BytesTotal)
	return p.Finished()
}

func (f *flashSession) fail(msg string, now time.Time) {
	f.progress.Stage = models.StageFailed
	f.progress.Error = msg
	f.progress.UpdatedAt = now
	f.finishedAt = now
}

func percent(done, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(done)/float64(total)*1000) / 10
}

func flashMeta(p models.FlashProgress) map[string]any {
	return map[string]any{
		"session_id": p.SessionID,
		"config":     p.ConfigString,
		"version":    p.Version,
		"channel":    p.Channel,
	}
}

// persistFinished writes the terminal status to history and the audit log.
func (s *FlasherService) persistFinished(ctx context.Context, p models.FlashProgress) {
	status, typ, desc := models.FlashSuccess, models.EventFlashSuccess, "Flash completed for "+p.ConfigString
	if p.Stage == models.StageFailed {
		status, typ, desc = models.FlashError, models.EventFlashError, "Flash failed for "+p.ConfigString+": "+p.Error
	}
	duration := p.UpdatedAt.Sub(p.StartedAt).Milliseconds()

	if err := s.history.Finish(ctx, p.SessionID, status, p.Error, duration); err != nil && s.log != nil {
		s.log.Errorw("flash_history_update_failed", "session", p.SessionID, "err", err)
	}
	meta := flashMeta(p)
	meta["duration_ms"] = duration
	if err := s.eventRepo.Append(ctx, models.Event{
		OccurredAt:  p.UpdatedAt,
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	}); err != nil && s.log != nil {
		s.log.Errorw("flash_event_append_failed", "session", p.SessionID, "err", err)
	}
}
