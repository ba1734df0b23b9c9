package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/midlakesunited/fourth-official/internal/fixture"
)

// APIError wraps a failed Discord operation. Status carries the HTTP status
// code when Discord answered at all.
type APIError struct {
	Op     string
	Status int
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("discord: %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("discord: %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

func wrapErr(op string, err error) error {
	status := 0
	if rerr, ok := err.(*discordgo.RESTError); ok && rerr.Response != nil {
		status = rerr.Response.StatusCode
	}
	return &APIError{Op: op, Status: status, Err: err}
}

// Client applies sync results against a Discord guild: scheduled events for
// fixtures and announcement messages in the configured channel.
type Client struct {
	session   *discordgo.Session
	guildID   string
	channelID string
}

// NewClient creates a Client bound to one guild and one announcement channel.
func NewClient(session *discordgo.Session, guildID, channelID string) *Client {
	return &Client{
		session:   session,
		guildID:   guildID,
		channelID: channelID,
	}
}

// CreateScheduledEvent creates an external scheduled event for the fixture
// and returns the remote event ID.
func (c *Client) CreateScheduledEvent(ctx context.Context, f fixture.Fixture) (string, error) {
	start, end := f.Kickoff, f.End
	params := &discordgo.GuildScheduledEventParams{
		Name:               f.Title(),
		Description:        fmt.Sprintf("Match %s at %s", f.Opponent, f.Venue()),
		ScheduledStartTime: &start,
		ScheduledEndTime:   &end,
		EntityType:         discordgo.GuildScheduledEventEntityTypeExternal,
		PrivacyLevel:       discordgo.GuildScheduledEventPrivacyLevelGuildOnly,
		EntityMetadata: &discordgo.GuildScheduledEventEntityMetadata{
			Location: f.Venue(),
		},
	}

	ev, err := c.session.GuildScheduledEventCreate(c.guildID, params, discordgo.WithContext(ctx))
	if err != nil {
		return "", wrapErr("create scheduled event", err)
	}
	return ev.ID, nil
}

// UpdateScheduledEventTime moves an existing scheduled event to a new window.
func (c *Client) UpdateScheduledEventTime(ctx context.Context, eventID string, start, end time.Time) error {
	params := &discordgo.GuildScheduledEventParams{
		ScheduledStartTime: &start,
		ScheduledEndTime:   &end,
	}
	if _, err := c.session.GuildScheduledEventEdit(c.guildID, eventID, params, discordgo.WithContext(ctx)); err != nil {
		return wrapErr("update scheduled event", err)
	}
	return nil
}

// DeleteScheduledEvent cancels a scheduled event.
func (c *Client) DeleteScheduledEvent(ctx context.Context, eventID string) error {
	if err := c.session.GuildScheduledEventDelete(c.guildID, eventID, discordgo.WithContext(ctx)); err != nil {
		return wrapErr("delete scheduled event", err)
	}
	return nil
}

// Announce posts the new-fixture announcement to the configured channel.
func (c *Client) Announce(ctx context.Context, f fixture.Fixture) error {
	if _, err := c.session.ChannelMessageSend(c.channelID, FormatAnnouncement(f), discordgo.WithContext(ctx)); err != nil {
		return wrapErr("post announcement", err)
	}
	return nil
}

// FormatAnnouncement renders the announcement message for a new fixture.
// The <t:...:F> token makes Discord show the kickoff in each reader's zone.
func FormatAnnouncement(f fixture.Fixture) string {
	return fmt.Sprintf("📅 New Match Scheduled: **%s**\n🕒 When: <t:%d:F>\n📍 Where: %s\n🔗 RSVP via the Events tab!",
		f.Title(), f.Kickoff.Unix(), f.Venue())
}
