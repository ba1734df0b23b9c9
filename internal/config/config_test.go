package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("GUILD_ID", "guild-1")
	t.Setenv("ANNOUNCE_CHANNEL_ID", "chan-1")
	t.Setenv("MODERATOR_ROLE_ID", "role-1")
	t.Setenv("SCHEDULE_URL", "")
	t.Setenv("STATE_DB_PATH", "")
	t.Setenv("CLUB_TIMEZONE", "")
	t.Setenv("SYNC_INTERVAL", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Token)
	assert.Equal(t, "guild-1", cfg.GuildID)
	assert.Equal(t, DefaultScheduleURL, cfg.ScheduleURL)
	assert.Equal(t, DefaultStateDBPath, cfg.StateDBPath)
	assert.Equal(t, DefaultTimezone, cfg.Timezone.String())
	assert.Equal(t, DefaultSyncInterval, cfg.SyncInterval)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SCHEDULE_URL", "https://example.com/fixtures/")
	t.Setenv("STATE_DB_PATH", "/tmp/state.db")
	t.Setenv("CLUB_TIMEZONE", "Europe/London")
	t.Setenv("SYNC_INTERVAL", "6h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/fixtures/", cfg.ScheduleURL)
	assert.Equal(t, "/tmp/state.db", cfg.StateDBPath)
	assert.Equal(t, "Europe/London", cfg.Timezone.String())
	assert.Equal(t, 6*time.Hour, cfg.SyncInterval)
}

func TestLoadReportsAllMissingVariables(t *testing.T) {
	setRequired(t)
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("MODERATOR_ROLE_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
	assert.Contains(t, err.Error(), "MODERATOR_ROLE_ID")
	assert.NotContains(t, err.Error(), "GUILD_ID")
}

func TestLoadInvalidTimezone(t *testing.T) {
	setRequired(t)
	t.Setenv("CLUB_TIMEZONE", "Not/AZone")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLUB_TIMEZONE")
}

func TestLoadInvalidSyncInterval(t *testing.T) {
	setRequired(t)

	for _, bad := range []string{"often", "-1h", "0"} {
		t.Setenv("SYNC_INTERVAL", bad)
		_, err := Load()
		require.Error(t, err, "interval %q should be rejected", bad)
		assert.Contains(t, err.Error(), "SYNC_INTERVAL")
	}
}
