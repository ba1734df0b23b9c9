// Command fourth-official mirrors the Midlakes United fixture list into
// Discord scheduled events.
//
// `fourth-official run` starts the long-lived bot: a daily sync cycle, the
// moderator !resync command, and an hourly presence update. `fourth-official
// sync` runs a single cycle and exits, which suits cron-style deployments and
// --dry-run inspection. `fourth-official export` renders the synced fixture
// list as an iCalendar file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/midlakesunited/fourth-official/internal/calendar"
	"github.com/midlakesunited/fourth-official/internal/config"
	"github.com/midlakesunited/fourth-official/internal/discord"
	"github.com/midlakesunited/fourth-official/internal/fixture"
	"github.com/midlakesunited/fourth-official/internal/logger"
	"github.com/midlakesunited/fourth-official/internal/scraper"
	"github.com/midlakesunited/fourth-official/internal/storage"
	"github.com/midlakesunited/fourth-official/internal/syncer"
)

const (
	presenceInterval = time.Hour
	cycleTimeout     = 10 * time.Minute
)

var (
	flagDryRun bool
	flagDebug  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fourth-official",
		Short:         "Sync the Midlakes United fixture list into Discord scheduled events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Log Discord actions instead of performing them")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the bot: daily sync, !resync command, presence updates",
		RunE:  runBot,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Run one sync cycle and exit",
		RunE:  runOnce,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export [file]",
		Short: "Export synced fixtures as an iCalendar file (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExport,
	})

	return cmd
}

type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *storage.Store
	session *discordgo.Session
	syncer  *syncer.Syncer
}

// setup wires configuration, storage, the Discord session, and the syncer.
// The session is created but not opened; REST calls work without a gateway
// connection and only `run` needs one.
func setup() (*app, error) {
	// A .env file is a convenience for local runs, not a requirement.
	_ = godotenv.Load()

	log, err := logger.New(flagDebug)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.StateDBPath)
	if err != nil {
		return nil, err
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	var platform syncer.Platform = discord.NewClient(session, cfg.GuildID, cfg.AnnounceChannelID)
	if flagDryRun {
		platform = discord.NewDryRun(log)
	}

	sc := scraper.New(cfg.ScheduleURL, cfg.Timezone)

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		session: session,
		syncer:  syncer.New(sc, store, platform, log),
	}, nil
}

func runBot(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.store.Close()

	handler := discord.NewHandler(a.session, a.syncer, a.cfg.GuildID, a.cfg.ModeratorRoleID, a.log)
	handler.Register(a.session)

	a.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		a.log.Info("connected to discord",
			zap.String("user", r.User.Username),
			zap.String("guild_id", a.cfg.GuildID))
	})

	if err := a.session.Open(); err != nil {
		return fmt.Errorf("opening discord session: %w", err)
	}
	defer a.session.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go discord.NewPresenceUpdater(a.session, a.cfg.GuildID, a.log).Run(ctx, presenceInterval)

	runCycle := func() {
		cycleCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
		defer cancel()
		if _, err := a.syncer.Run(cycleCtx); err != nil {
			// Never fatal: log and wait for the next tick.
			a.log.Error("sync cycle failed", zap.Error(err))
		}
	}

	a.log.Info("starting sync loop", zap.Duration("interval", a.cfg.SyncInterval))
	runCycle()

	ticker := time.NewTicker(a.cfg.SyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutting down")
			return nil
		case <-ticker.C:
			runCycle()
		}
	}
}

func runOnce(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	summary, err := a.syncer.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Sync complete: %s (unchanged %d, rows skipped %d, failed %d)\n",
		summary, summary.Unchanged, summary.Skipped, summary.Failed)
	return nil
}

// runExport reads local state only; it needs no Discord credentials.
func runExport(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	path := os.Getenv("STATE_DB_PATH")
	if path == "" {
		path = config.DefaultStateDBPath
	}
	store, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	state, err := store.Load()
	if err != nil {
		return err
	}
	fixtures := make([]fixture.Fixture, 0, len(state))
	for _, sf := range state {
		fixtures = append(fixtures, sf.Fixture)
	}

	ics := calendar.Generate(fixtures, time.Now())
	if len(args) == 0 {
		fmt.Print(ics)
		return nil
	}
	if err := os.WriteFile(args[0], []byte(ics), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", args[0], err)
	}
	fmt.Printf("Wrote %d fixtures to %s\n", len(fixtures), args[0])
	return nil
}
