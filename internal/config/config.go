// Package config loads the bot's configuration from environment variables.
//
// Required variables are validated up front: the bot refuses to start with an
// incomplete configuration rather than failing partway through a sync cycle.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Defaults for the optional settings.
const (
	DefaultScheduleURL  = "https://www.midlakesunited.com/schedule/"
	DefaultStateDBPath  = "fourth-official.db"
	DefaultTimezone     = "US/Pacific"
	DefaultSyncInterval = 24 * time.Hour
)

// Config holds everything the bot needs to run.
type Config struct {
	Token             string // DISCORD_TOKEN
	GuildID           string // GUILD_ID
	AnnounceChannelID string // ANNOUNCE_CHANNEL_ID
	ModeratorRoleID   string // MODERATOR_ROLE_ID

	ScheduleURL  string         // SCHEDULE_URL
	StateDBPath  string         // STATE_DB_PATH
	Timezone     *time.Location // CLUB_TIMEZONE, zone the schedule page implies
	SyncInterval time.Duration  // SYNC_INTERVAL
}

// Load reads configuration from the environment. All missing required
// variables are reported together in one error.
func Load() (*Config, error) {
	cfg := &Config{
		Token:             os.Getenv("DISCORD_TOKEN"),
		GuildID:           os.Getenv("GUILD_ID"),
		AnnounceChannelID: os.Getenv("ANNOUNCE_CHANNEL_ID"),
		ModeratorRoleID:   os.Getenv("MODERATOR_ROLE_ID"),
		ScheduleURL:       os.Getenv("SCHEDULE_URL"),
		StateDBPath:       os.Getenv("STATE_DB_PATH"),
		SyncInterval:      DefaultSyncInterval,
	}

	var missing []string
	for _, v := range []struct {
		name  string
		value string
	}{
		{"DISCORD_TOKEN", cfg.Token},
		{"GUILD_ID", cfg.GuildID},
		{"ANNOUNCE_CHANNEL_ID", cfg.AnnounceChannelID},
		{"MODERATOR_ROLE_ID", cfg.ModeratorRoleID},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.ScheduleURL == "" {
		cfg.ScheduleURL = DefaultScheduleURL
	}
	if cfg.StateDBPath == "" {
		cfg.StateDBPath = DefaultStateDBPath
	}

	tz := os.Getenv("CLUB_TIMEZONE")
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid CLUB_TIMEZONE %q: %w", tz, err)
	}
	cfg.Timezone = loc

	if v := os.Getenv("SYNC_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SYNC_INTERVAL %q: %w", v, err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("invalid SYNC_INTERVAL %q: must be positive", v)
		}
		cfg.SyncInterval = interval
	}

	return cfg, nil
}
