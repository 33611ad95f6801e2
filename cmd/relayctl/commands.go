package main

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"herald.app/relay/core/config"
	"herald.app/relay/internal/gateway"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Manage slash command registration",
}

var commandsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Register setup-roles and verify, replacing whatever is registered",
	RunE:  runCommandsSync,
}

var commandsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every registered slash command in the scope",
	RunE:  runCommandsClear,
}

func init() {
	commandsCmd.AddCommand(commandsSyncCmd)
	commandsCmd.AddCommand(commandsClearCmd)
}

func runCommandsSync(cmd *cobra.Command, _ []string) error {
	session, appID, err := commandSession()
	if err != nil {
		return err
	}

	registered, err := gateway.SyncCommands(session, appID, guildID)
	if err != nil {
		return err
	}
	for _, c := range registered {
		fmt.Fprintf(cmd.OutOrStdout(), "registered /%s (%s) in %s\n", c.Name, c.ID, scopeName(guildID))
	}
	return nil
}

func runCommandsClear(cmd *cobra.Command, _ []string) error {
	session, appID, err := commandSession()
	if err != nil {
		return err
	}

	if err := gateway.ClearCommands(session, appID, guildID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared commands in %s\n", scopeName(guildID))
	return nil
}

func commandSession() (*discordgo.Session, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	session, err := newSession(cfg)
	if err != nil {
		return nil, "", err
	}
	appID, err := resolveAppID(session, cfg)
	if err != nil {
		return nil, "", err
	}
	return session, appID, nil
}

func resolveAppID(session *discordgo.Session, cfg config.Config) (string, error) {
	if cfg.Discord.AppID != "" {
		return cfg.Discord.AppID, nil
	}
	me, err := session.User("@me")
	if err != nil {
		return "", fmt.Errorf("looking up bot user (set DISCORD_APP_ID to skip): %w", err)
	}
	return me.ID, nil
}

func scopeName(guildID string) string {
	if guildID == "" {
		return "global scope"
	}
	return "guild " + guildID
}
