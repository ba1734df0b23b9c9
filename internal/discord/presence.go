package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const idlePresence = "the Midlakes United Schedule"

// PresenceUpdater keeps the bot's status pointing at the next upcoming match.
type PresenceUpdater struct {
	session *discordgo.Session
	guildID string
	log     *zap.Logger
}

// NewPresenceUpdater creates a PresenceUpdater for the guild.
func NewPresenceUpdater(session *discordgo.Session, guildID string, log *zap.Logger) *PresenceUpdater {
	return &PresenceUpdater{
		session: session,
		guildID: guildID,
		log:     log,
	}
}

// Run updates presence immediately and then on every tick until ctx is done.
// Failures are logged and retried on the next tick, never fatal.
func (p *PresenceUpdater) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.update()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.update()
		}
	}
}

func (p *PresenceUpdater) update() {
	events, err := p.session.GuildScheduledEvents(p.guildID, false)
	if err != nil {
		p.log.Warn("fetching scheduled events for presence failed", zap.Error(err))
		return
	}

	now := time.Now()
	var next *discordgo.GuildScheduledEvent
	for _, ev := range events {
		if !ev.ScheduledStartTime.After(now) {
			continue
		}
		if next == nil || ev.ScheduledStartTime.Before(next.ScheduledStartTime) {
			next = ev
		}
	}

	status := idlePresence
	if next != nil {
		hours := int(next.ScheduledStartTime.Sub(now).Hours())
		status = fmt.Sprintf("Matchday in %dh: %s", hours, next.Name)
	}

	if err := p.session.UpdateWatchStatus(0, status); err != nil {
		p.log.Warn("updating presence failed", zap.Error(err))
		return
	}
	p.log.Debug("presence updated", zap.String("status", status))
}
