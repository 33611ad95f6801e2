package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"herald.app/relay/common/id"
	"herald.app/relay/core/db"
	"herald.app/relay/core/db/sqlc"
	"herald.app/relay/internal/discord"
	"herald.app/relay/internal/model"
	"herald.app/relay/internal/store"
)

var dryRun bool

var announcementsCmd = &cobra.Command{
	Use:   "announcements",
	Short: "Inspect persisted announcement records",
}

var announcementsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List announcement messages the bot listens to in a guild",
	RunE:  runAnnouncementsList,
}

var announcementsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records whose Discord message no longer exists",
	RunE:  runAnnouncementsPrune,
}

func init() {
	announcementsPruneCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report stale records without deleting them")

	announcementsCmd.AddCommand(announcementsListCmd)
	announcementsCmd.AddCommand(announcementsPruneCmd)
}

func openDatabase(ctx context.Context, cfg db.Config) (*db.DB, error) {
	if !cfg.Enabled() {
		return nil, errors.New("DATABASE_URL is required for announcement records")
	}
	return db.New(ctx, cfg)
}

func runAnnouncementsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if guildID == "" {
		return errors.New("--guild or DISCORD_GUILD_ID is required")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	database, err := openDatabase(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := store.NewAnnouncementStore(database.Queries()).ListByGuild(ctx, guildID)
	if err != nil {
		return err
	}
	printAnnouncements(cmd.OutOrStdout(), records)
	return nil
}

func runAnnouncementsPrune(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if guildID == "" {
		return errors.New("--guild or DISCORD_GUILD_ID is required")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	database, err := openDatabase(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	session, err := newSession(cfg)
	if err != nil {
		return err
	}
	platform := discord.NewPlatform(session)

	var stale []model.Announcement
	err = database.WithTx(ctx, func(q *sqlc.Queries) error {
		var txErr error
		stale, txErr = pruneStale(ctx, store.NewAnnouncementStore(q), platform.MessageExists, guildID, dryRun)
		return txErr
	})
	if err != nil {
		return err
	}

	verb := "deleted"
	if dryRun {
		verb = "would delete"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d stale record(s)\n", verb, len(stale))
	printAnnouncements(cmd.OutOrStdout(), stale)
	return nil
}

type messageChecker func(ctx context.Context, channelID, messageID string) (bool, error)

// pruneStale removes records in guild whose message is gone and returns them.
func pruneStale(ctx context.Context, announcements store.AnnouncementStore, exists messageChecker, guild string, reportOnly bool) ([]model.Announcement, error) {
	records, err := announcements.ListByGuild(ctx, guild)
	if err != nil {
		return nil, err
	}

	var stale []model.Announcement
	for _, a := range records {
		ok, err := exists(ctx, a.ChannelID, a.MessageID)
		if err != nil {
			return nil, fmt.Errorf("checking message %s: %w", a.MessageID, err)
		}
		if ok {
			continue
		}
		stale = append(stale, a)
		if reportOnly {
			continue
		}
		if err := announcements.DeleteByMessageID(ctx, a.MessageID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return stale, nil
}

func printAnnouncements(w io.Writer, records []model.Announcement) {
	if len(records) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tCHANNEL\tMESSAGE\tPOSTED")
	for _, a := range records {
		posted := a.CreatedAt
		if msgID, err := id.ParseDiscordID(a.MessageID); err == nil {
			posted = id.DiscordTime(msgID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Kind, a.ChannelID, a.MessageID, posted.UTC().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}
