package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"herald.app/relay/common/id"
	"herald.app/relay/common/logger"
	"herald.app/relay/core/config"
)

var (
	guildID string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "relayctl",
	Short: "Operate the herald Discord bot",
	Long: `relayctl manages the herald bot out of band.

Available commands:
  commands      - register or remove the slash commands
  roles         - print the role configuration read from the environment
  announcements - inspect and prune persisted announcement records`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&guildID, "guild", "g", "", "Guild id (default: DISCORD_GUILD_ID)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(announcementsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and prepares logging for a subcommand.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(config.ServiceTypeCLI)
	if err != nil {
		return config.Config{}, err
	}
	logger.Setup(cfg)
	if err := id.Init(2); err != nil {
		return config.Config{}, fmt.Errorf("initializing id generator: %w", err)
	}
	for _, key := range cfg.Roles.Rejected {
		slog.Warn("ignoring role with invalid id", "key", key)
	}
	if guildID == "" {
		guildID = cfg.Discord.GuildID
	}
	return cfg, nil
}

// newSession returns a REST-only session; relayctl never opens the gateway.
func newSession(cfg config.Config) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	return session, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
