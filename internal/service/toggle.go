package service

import (
	"context"
	"errors"
	"log/slog"

	"herald.app/relay/internal/discord"
	"herald.app/relay/internal/model"
	"herald.app/relay/internal/store"
)

type roleToggleHandler struct {
	platform      discord.Platform
	resolver      RoleResolver
	announcements store.AnnouncementStore
	logger        *slog.Logger
}

// NewRoleToggleHandler adds or removes the role mapped to the reaction emoji.
func NewRoleToggleHandler(platform discord.Platform, resolver RoleResolver, announcements store.AnnouncementStore, logger *slog.Logger) ReactionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &roleToggleHandler{
		platform:      platform,
		resolver:      resolver,
		announcements: announcements,
		logger:        logger,
	}
}

func (h *roleToggleHandler) Name() string {
	return "role_toggle"
}

func (h *roleToggleHandler) Handle(ctx context.Context, event model.ReactionEvent) (model.Outcome, error) {
	// Any guild message can carry role reactions; only verification
	// announcements belong to the other handler.
	announcement, err := h.announcements.GetByMessageID(ctx, event.MessageID)
	switch {
	case err == nil && announcement.Kind == model.AnnouncementKindVerification:
		return model.OutcomeIgnored, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		h.logger.WarnContext(ctx, "announcement lookup failed, treating message as unrecorded", "error", err)
	}

	// Roles missing from the guild are absent from the index.
	index, err := h.resolver.EmojiIndex(ctx, event.GuildID)
	if err != nil {
		return model.OutcomeFailed, err
	}
	entry, ok := index[event.Emoji]
	if !ok {
		return model.OutcomeSkipped, nil
	}

	outcome, err := h.toggle(ctx, event, entry)
	if outcome == model.OutcomeIgnored {
		return outcome, err
	}

	// The reaction goes away whatever happened so the message stays reusable.
	if rmErr := h.platform.RemoveReaction(ctx, event.ChannelID, event.MessageID, event.Emoji, event.UserID); rmErr != nil {
		h.logger.WarnContext(ctx, "failed to remove role reaction", "error", rmErr)
	}

	return outcome, err
}

func (h *roleToggleHandler) toggle(ctx context.Context, event model.ReactionEvent, entry model.RoleEntry) (model.Outcome, error) {
	member, err := h.platform.Member(ctx, event.GuildID, event.UserID)
	if err != nil {
		return model.OutcomeFailed, err
	}
	if discord.IsBot(member) {
		return model.OutcomeIgnored, nil
	}

	if discord.HasRole(member, entry.RoleID) {
		if err := h.platform.RemoveRole(ctx, event.GuildID, event.UserID, entry.RoleID); err != nil {
			return model.OutcomeFailed, err
		}
		h.logger.InfoContext(ctx, "removed role", "role", entry.DisplayName, "role_id", entry.RoleID)
		return model.OutcomeRoleRemoved, nil
	}

	if err := h.platform.AddRole(ctx, event.GuildID, event.UserID, entry.RoleID); err != nil {
		return model.OutcomeFailed, err
	}
	h.logger.InfoContext(ctx, "added role", "role", entry.DisplayName, "role_id", entry.RoleID)
	return model.OutcomeRoleAdded, nil
}
