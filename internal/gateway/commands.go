package gateway

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandSetupRoles = "setup-roles"
	CommandVerify     = "verify"
)

var adminPermission int64 = discordgo.PermissionAdministrator

var guildOnly = false

// Commands returns the slash command definitions the bot answers.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     CommandSetupRoles,
			Description:              "Post the role selection message in this channel",
			DefaultMemberPermissions: &adminPermission,
			DMPermission:             &guildOnly,
		},
		{
			Name:                     CommandVerify,
			Description:              "Post the verification message in this channel",
			DefaultMemberPermissions: &adminPermission,
			DMPermission:             &guildOnly,
		},
	}
}

// CommandRegistrar is the part of the session used to manage slash commands.
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// SyncCommands replaces the registered commands with Commands(). An empty
// guildID registers them globally.
func SyncCommands(r CommandRegistrar, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	registered, err := r.ApplicationCommandBulkOverwrite(appID, guildID, Commands())
	if err != nil {
		return nil, fmt.Errorf("registering commands: %w", err)
	}
	return registered, nil
}

// ClearCommands removes every command registered for the scope.
func ClearCommands(r CommandRegistrar, appID, guildID string) error {
	if _, err := r.ApplicationCommandBulkOverwrite(appID, guildID, []*discordgo.ApplicationCommand{}); err != nil {
		return fmt.Errorf("clearing commands: %w", err)
	}
	return nil
}
