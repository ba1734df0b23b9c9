package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/midlakesunited/fourth-official/internal/fixture"
	"github.com/midlakesunited/fourth-official/internal/scraper"
	"github.com/midlakesunited/fourth-official/internal/storage"
)

// ErrCycleInProgress is returned when a cycle is requested while another one
// is still running. Cycles never interleave; the caller simply tries later.
var ErrCycleInProgress = errors.New("a sync cycle is already running")

// Source produces the current fixture list, typically by scraping the
// schedule page.
type Source interface {
	FetchFixtures(ctx context.Context) (*scraper.Result, error)
}

// Store persists sync state across cycles and restarts.
type Store interface {
	Load() (map[string]storage.SyncedFixture, error)
	Put(key string, sf storage.SyncedFixture) error
	MarkAnnounced(key string) error
	Delete(key string) error
}

// Platform is the chat-platform surface the syncer consumes. The syncer
// depends only on these operations, never on a concrete SDK.
type Platform interface {
	CreateScheduledEvent(ctx context.Context, f fixture.Fixture) (string, error)
	UpdateScheduledEventTime(ctx context.Context, eventID string, start, end time.Time) error
	DeleteScheduledEvent(ctx context.Context, eventID string) error
	Announce(ctx context.Context, f fixture.Fixture) error
}

// Summary reports what one cycle did.
type Summary struct {
	Added     int
	Updated   int
	Removed   int
	Unchanged int
	Skipped   int // schedule rows that could not be parsed
	Failed    int // fixtures whose remote operation failed; retried next cycle
}

func (s Summary) String() string {
	return fmt.Sprintf("added %d, updated %d, removed %d", s.Added, s.Updated, s.Removed)
}

// Syncer runs the fetch -> parse -> diff -> apply cycle. It exclusively owns
// the fixture snapshot and the sync state; nothing else touches them.
type Syncer struct {
	mu       sync.Mutex
	source   Source
	store    Store
	platform Platform
	log      *zap.Logger
}

// New creates a Syncer.
func New(source Source, store Store, platform Platform, log *zap.Logger) *Syncer {
	return &Syncer{
		source:   source,
		store:    store,
		platform: platform,
		log:      log,
	}
}

// Run executes one full sync cycle. At most one cycle runs at a time; a
// concurrent call fails immediately with ErrCycleInProgress.
//
// A fetch or parse failure aborts the cycle with state untouched. Remote API
// failures are scoped to the fixture that hit them: the cycle keeps going and
// the fixture is retried on the next run, which is safe because creation is
// checked against the persisted mapping first.
func (s *Syncer) Run(ctx context.Context) (Summary, error) {
	if !s.mu.TryLock() {
		return Summary{}, ErrCycleInProgress
	}
	defer s.mu.Unlock()

	started := time.Now()

	state, err := s.store.Load()
	if err != nil {
		return Summary{}, fmt.Errorf("loading sync state: %w", err)
	}

	result, err := s.source.FetchFixtures(ctx)
	if err != nil {
		return Summary{}, err
	}

	for _, row := range result.Skipped {
		s.log.Warn("skipped schedule row",
			zap.String("raw", row.Raw),
			zap.String("reason", row.Reason))
	}

	previous := make(fixture.Snapshot, len(state))
	for key, sf := range state {
		previous[key] = sf.Fixture
	}

	changes := fixture.Diff(previous, result.Fixtures)

	summary := Summary{Skipped: len(result.Skipped)}
	s.applyAdded(ctx, state, changes.Added, &summary)
	s.applyUpdated(ctx, state, changes.Updated, &summary)
	s.applyRemoved(ctx, state, changes.Removed, &summary)
	s.applyUnchanged(ctx, state, changes.Unchanged, &summary)

	s.log.Info("sync cycle complete",
		zap.Int("added", summary.Added),
		zap.Int("updated", summary.Updated),
		zap.Int("removed", summary.Removed),
		zap.Int("unchanged", summary.Unchanged),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("took", time.Since(started)))

	return summary, ctx.Err()
}

func (s *Syncer) applyAdded(ctx context.Context, state map[string]storage.SyncedFixture, added []fixture.Fixture, summary *Summary) {
	for _, f := range added {
		if ctx.Err() != nil {
			return
		}
		key := f.Key()

		// The persisted mapping is checked before creating so that a retried
		// cycle never produces a duplicate remote event.
		eventID := ""
		announced := false
		if existing, ok := state[key]; ok {
			eventID = existing.EventID
			announced = existing.Announced
		}

		if eventID == "" {
			id, err := s.platform.CreateScheduledEvent(ctx, f)
			if err != nil {
				s.log.Error("creating scheduled event failed",
					zap.String("opponent", f.Opponent),
					zap.String("date", f.Date),
					zap.Error(err))
				summary.Failed++
				continue
			}
			eventID = id
			if err := s.store.Put(key, storage.SyncedFixture{Fixture: f, EventID: eventID}); err != nil {
				s.log.Error("persisting mapping failed", zap.String("key", key), zap.Error(err))
				summary.Failed++
				continue
			}
		}

		if !announced {
			if err := s.platform.Announce(ctx, f); err != nil {
				// Leave the fixture unmarked; the announcement is retried
				// next cycle without re-creating the event.
				s.log.Error("announcement failed",
					zap.String("opponent", f.Opponent),
					zap.Error(err))
				summary.Failed++
			} else if err := s.store.MarkAnnounced(key); err != nil {
				s.log.Error("marking announced failed", zap.String("key", key), zap.Error(err))
			}
		}

		s.log.Info("fixture added",
			zap.String("opponent", f.Opponent),
			zap.Time("kickoff", f.Kickoff),
			zap.String("event_id", eventID))
		summary.Added++
	}
}

func (s *Syncer) applyUpdated(ctx context.Context, state map[string]storage.SyncedFixture, updated []fixture.Fixture, summary *Summary) {
	for _, f := range updated {
		if ctx.Err() != nil {
			return
		}
		key := f.Key()
		existing := state[key]

		if err := s.platform.UpdateScheduledEventTime(ctx, existing.EventID, f.Kickoff, f.End); err != nil {
			s.log.Error("updating scheduled event failed",
				zap.String("opponent", f.Opponent),
				zap.String("event_id", existing.EventID),
				zap.Error(err))
			summary.Failed++
			continue
		}

		// Persist the new kickoff only after the remote edit succeeds, so a
		// failed edit shows up as updated again next cycle.
		existing.Fixture = f
		if err := s.store.Put(key, existing); err != nil {
			s.log.Error("persisting updated fixture failed", zap.String("key", key), zap.Error(err))
			summary.Failed++
			continue
		}

		s.log.Info("fixture rescheduled",
			zap.String("opponent", f.Opponent),
			zap.Time("kickoff", f.Kickoff))
		summary.Updated++
	}
}

func (s *Syncer) applyRemoved(ctx context.Context, state map[string]storage.SyncedFixture, removed []fixture.Fixture, summary *Summary) {
	for _, f := range removed {
		if ctx.Err() != nil {
			return
		}
		key := f.Key()
		existing := state[key]

		if existing.EventID != "" {
			if err := s.platform.DeleteScheduledEvent(ctx, existing.EventID); err != nil {
				s.log.Error("deleting scheduled event failed",
					zap.String("opponent", f.Opponent),
					zap.String("event_id", existing.EventID),
					zap.Error(err))
				summary.Failed++
				continue
			}
		}

		if err := s.store.Delete(key); err != nil {
			s.log.Error("deleting state row failed", zap.String("key", key), zap.Error(err))
			summary.Failed++
			continue
		}

		s.log.Info("fixture removed",
			zap.String("opponent", f.Opponent),
			zap.String("date", f.Date))
		summary.Removed++
	}
}

func (s *Syncer) applyUnchanged(ctx context.Context, state map[string]storage.SyncedFixture, unchanged []fixture.Fixture, summary *Summary) {
	for _, f := range unchanged {
		if ctx.Err() != nil {
			return
		}
		key := f.Key()
		existing := state[key]

		// An unchanged fixture whose announcement never went out gets its
		// announcement retried here; the event itself already exists.
		if !existing.Announced && existing.EventID != "" {
			if err := s.platform.Announce(ctx, f); err != nil {
				s.log.Error("announcement retry failed",
					zap.String("opponent", f.Opponent),
					zap.Error(err))
				summary.Failed++
			} else {
				existing.Announced = true
				if err := s.store.MarkAnnounced(key); err != nil {
					s.log.Error("marking announced failed", zap.String("key", key), zap.Error(err))
				}
			}
		}

		// Location-only edits are unchanged by policy: refresh local state,
		// no remote call.
		if existing.Fixture.Location != f.Location {
			existing.Fixture = f
			if err := s.store.Put(key, existing); err != nil {
				s.log.Error("refreshing state row failed", zap.String("key", key), zap.Error(err))
			}
		}

		summary.Unchanged++
	}
}
