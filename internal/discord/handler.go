package discord

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/midlakesunited/fourth-official/internal/syncer"
)

// ResyncCommand is the one moderator command: trigger a sync cycle now.
const ResyncCommand = "!resync"

// ErrNotAuthorized is reported when the invoking member lacks the moderator
// role. It never reaches further than the invoking channel.
var ErrNotAuthorized = errors.New("not authorized")

// cycleTimeout bounds a manually triggered cycle.
const cycleTimeout = 5 * time.Minute

// Runner runs one sync cycle; satisfied by *syncer.Syncer.
type Runner interface {
	Run(ctx context.Context) (syncer.Summary, error)
}

// Handler serves the !resync command.
type Handler struct {
	runner  Runner
	guildID string
	roleID  string
	log     *zap.Logger
	reply   func(channelID, message string) error
}

// NewHandler creates a Handler wired to the given session for replies.
func NewHandler(session *discordgo.Session, runner Runner, guildID, roleID string, log *zap.Logger) *Handler {
	return &Handler{
		runner:  runner,
		guildID: guildID,
		roleID:  roleID,
		log:     log,
		reply: func(channelID, message string) error {
			_, err := session.ChannelMessageSend(channelID, message)
			return err
		},
	}
}

// Register attaches the message handler to the session.
func (h *Handler) Register(session *discordgo.Session) {
	session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		h.onMessage(m)
	})
}

func (h *Handler) onMessage(m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.GuildID != h.guildID || m.Content != ResyncCommand {
		return
	}

	// Authorization is decided before any fetch or platform work happens.
	if !memberHasRole(m.Member, h.roleID) {
		h.log.Warn("unauthorized resync attempt",
			zap.String("user", m.Author.Username),
			zap.String("user_id", m.Author.ID))
		h.send(m.ChannelID, "❌ You don't have permission to run this command.")
		return
	}

	h.log.Info("manual resync requested",
		zap.String("user", m.Author.Username),
		zap.String("user_id", m.Author.ID))
	h.send(m.ChannelID, "🔄 Refreshing fixtures from the schedule...")

	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	summary, err := h.runner.Run(ctx)
	switch {
	case errors.Is(err, syncer.ErrCycleInProgress):
		h.send(m.ChannelID, "⏳ A sync is already running, try again in a minute.")
	case err != nil:
		h.log.Error("manual resync failed", zap.Error(err))
		h.send(m.ChannelID, "❌ Refresh failed. Check the logs for details.")
	default:
		h.send(m.ChannelID, "✅ Refresh complete: "+summary.String()+".")
	}
}

func (h *Handler) send(channelID, message string) {
	if err := h.reply(channelID, message); err != nil {
		h.log.Error("sending reply failed", zap.String("channel_id", channelID), zap.Error(err))
	}
}

// memberHasRole reports whether the member carries the given role. A nil
// member (DM, or missing member payload) is never authorized.
func memberHasRole(member *discordgo.Member, roleID string) bool {
	if member == nil {
		return false
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}
