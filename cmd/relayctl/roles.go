package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"herald.app/relay/core/config"
	"herald.app/relay/internal/discord"
	"herald.app/relay/internal/model"
	"herald.app/relay/internal/service"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Print the configured self-assignable roles",
	Long: `Print the roles read from ROLE_ID_*, ROLE_EMOJI_* and ROLE_DESC_*.

With --guild (or DISCORD_GUILD_ID) the roles are also resolved against the
live guild, showing exactly what setup-roles would post.`,
	RunE: runRoles,
}

func runRoles(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printRoleConfig(out, cfg.Roles)
	if len(cfg.Roles.Rejected) > 0 {
		fmt.Fprintf(out, "\nrejected: %v\n", cfg.Roles.Rejected)
	}

	if guildID == "" {
		return nil
	}

	session, err := newSession(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	resolver := service.NewRoleResolver(discord.NewPlatform(session), cfg.Roles, nil)
	entries, err := resolver.Resolve(ctx, guildID)
	if err != nil {
		return fmt.Errorf("resolving roles in guild %s: %w", guildID, err)
	}

	fmt.Fprintf(out, "\nresolved in guild %s:\n", guildID)
	printResolvedRoles(out, entries)
	return nil
}

func printRoleConfig(w io.Writer, roles config.RoleSet) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tEMOJI\tDESCRIPTION")
	for _, role := range roles.Roles() {
		desc := role.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", role.Name, role.ID, role.Emoji, desc)
	}
	tw.Flush()
}

func printResolvedRoles(w io.Writer, entries []model.RoleEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no configured role exists in this guild")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMOJI\tROLE\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Emoji, e.DisplayName, e.Description)
	}
	tw.Flush()
}
