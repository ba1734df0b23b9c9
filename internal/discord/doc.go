// Package discord is the bot's Discord surface, built on discordgo.
//
// It implements the platform operations the syncer consumes (scheduled event
// create/update/delete, channel announcements), serves the role-gated !resync
// command, and keeps the bot's presence pointing at the next match. A dry-run
// implementation logs every action instead of calling the API.
package discord
