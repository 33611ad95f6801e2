package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"herald.app/relay/core/config"
	"herald.app/relay/internal/discord"
	"herald.app/relay/internal/model"
)

// RoleResolver pairs configured roles with the roles that exist in a guild.
type RoleResolver interface {
	// Resolve returns the self-assignable roles in logical name order. Roles
	// missing from the guild are left out; each emoji maps to one role.
	Resolve(ctx context.Context, guildID string) ([]model.RoleEntry, error)
	// EmojiIndex keys the resolved roles by emoji.
	EmojiIndex(ctx context.Context, guildID string) (map[string]model.RoleEntry, error)
}

type roleResolver struct {
	platform discord.Platform
	roles    config.RoleSet
	logger   *slog.Logger
}

func NewRoleResolver(platform discord.Platform, roles config.RoleSet, logger *slog.Logger) RoleResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &roleResolver{
		platform: platform,
		roles:    roles,
		logger:   logger,
	}
}

func (r *roleResolver) Resolve(ctx context.Context, guildID string) ([]model.RoleEntry, error) {
	configured := r.roles.Roles()
	entries := make([]model.RoleEntry, 0, len(configured))

	for _, rc := range configured {
		role, err := r.platform.Role(ctx, guildID, rc.ID)
		if errors.Is(err, discord.ErrRoleNotFound) {
			r.logger.WarnContext(ctx, "configured role not found in guild",
				"role", rc.Name, "role_id", rc.ID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolving role %s: %w", rc.Name, err)
		}

		description := rc.Description
		if description == "" {
			description = "Get notified about " + strings.ToLower(role.Name)
		}

		entries = append(entries, model.RoleEntry{
			LogicalName: rc.Name,
			RoleID:      rc.ID,
			Emoji:       rc.Emoji,
			DisplayName: role.Name,
			Description: description,
		})
	}

	return r.dedupeEmojis(ctx, entries), nil
}

func (r *roleResolver) EmojiIndex(ctx context.Context, guildID string) (map[string]model.RoleEntry, error) {
	entries, err := r.Resolve(ctx, guildID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]model.RoleEntry, len(entries))
	for _, entry := range entries {
		index[entry.Emoji] = entry
	}
	return index, nil
}

// dedupeEmojis keeps the last entry for each emoji so a reaction always
// toggles the role it was rendered next to.
func (r *roleResolver) dedupeEmojis(ctx context.Context, entries []model.RoleEntry) []model.RoleEntry {
	last := make(map[string]int, len(entries))
	for i, entry := range entries {
		last[entry.Emoji] = i
	}
	if len(last) == len(entries) {
		return entries
	}

	kept := make([]model.RoleEntry, 0, len(last))
	for i, entry := range entries {
		if last[entry.Emoji] != i {
			winner := entries[last[entry.Emoji]]
			r.logger.WarnContext(ctx, "emoji shared by several roles, dropping earlier role",
				"emoji", entry.Emoji, "dropped", entry.LogicalName, "kept", winner.LogicalName)
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
