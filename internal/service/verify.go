package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"herald.app/relay/common/id"
	"herald.app/relay/internal/discord"
	"herald.app/relay/internal/model"
	"herald.app/relay/internal/store"
)

const verifiedDMFormat = "You have been verified in **%s**! You now have access to the server."

type verificationHandler struct {
	platform      discord.Platform
	announcements store.AnnouncementStore
	roleID        string
	logger        *slog.Logger
}

// NewVerificationHandler grants the verification role when a member reacts
// with the check mark on a verification announcement.
func NewVerificationHandler(platform discord.Platform, announcements store.AnnouncementStore, roleID string, logger *slog.Logger) ReactionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &verificationHandler{
		platform:      platform,
		announcements: announcements,
		roleID:        roleID,
		logger:        logger,
	}
}

func (h *verificationHandler) Name() string {
	return "verification"
}

func (h *verificationHandler) Handle(ctx context.Context, event model.ReactionEvent) (model.Outcome, error) {
	if event.Emoji != VerifyEmoji {
		return model.OutcomeIgnored, nil
	}

	announcement, err := h.announcements.GetByMessageID(ctx, event.MessageID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if !h.recognize(ctx, event) {
			return model.OutcomeIgnored, nil
		}
	case err != nil:
		return model.OutcomeFailed, err
	case announcement.Kind != model.AnnouncementKindVerification:
		return model.OutcomeIgnored, nil
	}

	if _, err := h.platform.Role(ctx, event.GuildID, h.roleID); err != nil {
		if errors.Is(err, discord.ErrRoleNotFound) {
			return model.OutcomeRoleMissing, fmt.Errorf("verification role %s: %w", h.roleID, err)
		}
		return model.OutcomeRoleLookupError, err
	}

	member, err := h.platform.Member(ctx, event.GuildID, event.UserID)
	if err != nil {
		return model.OutcomeRoleLookupError, err
	}
	if discord.IsBot(member) {
		return model.OutcomeIgnored, nil
	}

	if discord.HasRole(member, h.roleID) {
		h.removeReaction(ctx, event)
		return model.OutcomeAlreadyVerified, nil
	}

	if err := h.platform.AddRole(ctx, event.GuildID, event.UserID, h.roleID); err != nil {
		return model.OutcomeFailed, err
	}

	h.notify(ctx, event)
	h.removeReaction(ctx, event)
	return model.OutcomeRoleGranted, nil
}

// recognize identifies an unrecorded verification announcement by its author
// and embed title, then records it. Records kept in memory do not survive a
// restart, but the message does.
func (h *verificationHandler) recognize(ctx context.Context, event model.ReactionEvent) bool {
	msg, err := h.platform.Message(ctx, event.ChannelID, event.MessageID)
	if err != nil {
		h.logger.WarnContext(ctx, "could not fetch reacted message", "error", err)
		return false
	}
	selfID, err := h.platform.SelfID(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "could not resolve bot user", "error", err)
		return false
	}
	if !IsVerificationMessage(msg, selfID) {
		return false
	}

	record := &model.Announcement{
		ID:        id.New(),
		GuildID:   event.GuildID,
		ChannelID: event.ChannelID,
		MessageID: event.MessageID,
		Kind:      model.AnnouncementKindVerification,
	}
	if err := h.announcements.Create(ctx, record); err != nil {
		h.logger.WarnContext(ctx, "failed to backfill verification announcement", "error", err)
	} else {
		h.logger.InfoContext(ctx, "backfilled verification announcement")
	}
	return true
}

// IsVerificationMessage reports whether msg is a verification announcement
// posted by the bot with user id selfID.
func IsVerificationMessage(msg *discordgo.Message, selfID string) bool {
	if msg == nil || msg.Author == nil || selfID == "" || msg.Author.ID != selfID {
		return false
	}
	for _, embed := range msg.Embeds {
		if embed != nil && strings.Contains(embed.Title, verificationEmbedTitle) {
			return true
		}
	}
	return false
}

// notify sends the welcome DM. Failures are logged and swallowed.
func (h *verificationHandler) notify(ctx context.Context, event model.ReactionEvent) {
	guildName, err := h.platform.GuildName(ctx, event.GuildID)
	if err != nil {
		h.logger.WarnContext(ctx, "could not resolve guild name for welcome dm", "error", err)
		guildName = "the server"
	}
	if err := h.platform.DirectMessage(ctx, event.UserID, fmt.Sprintf(verifiedDMFormat, guildName)); err != nil {
		h.logger.InfoContext(ctx, "could not send welcome dm", "error", err)
	}
}

func (h *verificationHandler) removeReaction(ctx context.Context, event model.ReactionEvent) {
	if err := h.platform.RemoveReaction(ctx, event.ChannelID, event.MessageID, event.Emoji, event.UserID); err != nil {
		h.logger.WarnContext(ctx, "failed to remove verification reaction", "error", err)
	}
}
