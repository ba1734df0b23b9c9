package discord

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/midlakesunited/fourth-official/internal/fixture"
)

// DryRun is a platform implementation that logs what would be done without
// touching Discord. Useful for trying a cycle against the live schedule page.
type DryRun struct {
	log     *zap.Logger
	created int
}

// NewDryRun creates a dry-run platform.
func NewDryRun(log *zap.Logger) *DryRun {
	return &DryRun{log: log}
}

func (d *DryRun) CreateScheduledEvent(ctx context.Context, f fixture.Fixture) (string, error) {
	d.created++
	id := fmt.Sprintf("dry-run-%d", d.created)
	d.log.Info("[dry run] would create scheduled event",
		zap.String("name", f.Title()),
		zap.Time("kickoff", f.Kickoff),
		zap.String("location", f.Venue()),
		zap.String("event_id", id))
	return id, nil
}

func (d *DryRun) UpdateScheduledEventTime(ctx context.Context, eventID string, start, end time.Time) error {
	d.log.Info("[dry run] would update scheduled event",
		zap.String("event_id", eventID),
		zap.Time("start", start))
	return nil
}

func (d *DryRun) DeleteScheduledEvent(ctx context.Context, eventID string) error {
	d.log.Info("[dry run] would delete scheduled event", zap.String("event_id", eventID))
	return nil
}

func (d *DryRun) Announce(ctx context.Context, f fixture.Fixture) error {
	d.log.Info("[dry run] would announce", zap.String("message", FormatAnnouncement(f)))
	return nil
}
