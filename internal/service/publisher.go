package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"herald.app/relay/common/id"
	"herald.app/relay/internal/discord"
	"herald.app/relay/internal/model"
	"herald.app/relay/internal/obs"
	"herald.app/relay/internal/store"
)

// VerifyEmoji is the only reaction the verification flow listens to.
const VerifyEmoji = "✅"

const (
	rolesEmbedTitle        = "🎭 Server Roles"
	rolesEmbedIntro        = "React with the emojis below to get or remove roles:\n\n"
	rolesEmbedFooter       = "Click an emoji to add/remove a role"
	verificationEmbedTitle = "Discord Verification"
	verificationEmbedBody  = "React with ✅ below to verify your account.\n" +
		"Verification is required to access the server and its full range of features.\n" +
		"Ensure your Discord account is properly linked before proceeding."
	verificationFooterLayout = "01/02/2006 15:04"
)

type PublishStatus string

const (
	PublishStatusPublished         PublishStatus = "published"
	PublishStatusNothingConfigured PublishStatus = "nothing_configured"
	PublishStatusRoleMissing       PublishStatus = "role_missing"
)

type PublishResult struct {
	Status       PublishStatus
	Announcement *model.Announcement
	// Roles is the number of roles listed in a roles announcement.
	Roles           int
	FailedReactions int
	// RoleID is the verification role that was looked up.
	RoleID string
}

type PublisherConfig struct {
	EmbedColor       int
	ReactionInterval time.Duration
	VerifiedRoleID   string
}

// Publisher posts announcement embeds and records their identity so the
// reaction handlers can recognise them later.
type Publisher interface {
	PublishRoles(ctx context.Context, guildID, channelID string) (*PublishResult, error)
	PublishVerification(ctx context.Context, guildID, channelID string) (*PublishResult, error)
}

type publisher struct {
	platform      discord.Platform
	resolver      RoleResolver
	announcements store.AnnouncementStore
	cfg           PublisherConfig
	now           func() time.Time
	logger        *slog.Logger
}

func NewPublisher(platform discord.Platform, resolver RoleResolver, announcements store.AnnouncementStore, cfg PublisherConfig, logger *slog.Logger) Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &publisher{
		platform:      platform,
		resolver:      resolver,
		announcements: announcements,
		cfg:           cfg,
		now:           time.Now,
		logger:        logger,
	}
}

func (p *publisher) PublishRoles(ctx context.Context, guildID, channelID string) (*PublishResult, error) {
	entries, err := p.resolver.Resolve(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("resolving roles: %w", err)
	}
	if len(entries) == 0 {
		return &PublishResult{Status: PublishStatusNothingConfigured}, nil
	}

	announcement, err := p.post(ctx, guildID, channelID, model.AnnouncementKindRoles, RolesEmbed(entries, p.cfg.EmbedColor, p.now()))
	if err != nil {
		return nil, err
	}

	result := &PublishResult{
		Status:       PublishStatusPublished,
		Announcement: announcement,
		Roles:        len(entries),
	}

	// One token per interval keeps reactions spaced out; the first is immediate.
	limiter := rate.NewLimiter(rate.Every(p.cfg.ReactionInterval), 1)
	for i, entry := range entries {
		if err := limiter.Wait(ctx); err != nil {
			result.FailedReactions += len(entries) - i
			p.logger.WarnContext(ctx, "stopped adding reactions", "error", err, "remaining", len(entries)-i)
			break
		}
		if err := p.platform.React(ctx, channelID, announcement.MessageID, entry.Emoji); err != nil {
			result.FailedReactions++
			p.logger.ErrorContext(ctx, "failed to add role reaction",
				"error", err, "emoji", entry.Emoji, "role", entry.LogicalName)
		}
	}

	p.logger.InfoContext(ctx, "role announcement published",
		"message_id", announcement.MessageID, "roles", result.Roles, "failed_reactions", result.FailedReactions)
	return result, nil
}

func (p *publisher) PublishVerification(ctx context.Context, guildID, channelID string) (*PublishResult, error) {
	roleID := p.cfg.VerifiedRoleID
	if _, err := p.platform.Role(ctx, guildID, roleID); err != nil {
		if errors.Is(err, discord.ErrRoleNotFound) {
			return &PublishResult{Status: PublishStatusRoleMissing, RoleID: roleID}, nil
		}
		return nil, fmt.Errorf("looking up verification role: %w", err)
	}

	announcement, err := p.post(ctx, guildID, channelID, model.AnnouncementKindVerification, VerificationEmbed(p.cfg.EmbedColor, p.now()))
	if err != nil {
		return nil, err
	}

	result := &PublishResult{
		Status:       PublishStatusPublished,
		Announcement: announcement,
		RoleID:       roleID,
	}
	if err := p.platform.React(ctx, channelID, announcement.MessageID, VerifyEmoji); err != nil {
		result.FailedReactions = 1
		p.logger.ErrorContext(ctx, "failed to add verification reaction", "error", err)
	}

	p.logger.InfoContext(ctx, "verification announcement published", "message_id", announcement.MessageID)
	return result, nil
}

func (p *publisher) post(ctx context.Context, guildID, channelID string, kind model.AnnouncementKind, embed *discordgo.MessageEmbed) (*model.Announcement, error) {
	msg, err := p.platform.SendEmbed(ctx, channelID, embed)
	if err != nil {
		return nil, fmt.Errorf("sending %s announcement: %w", kind, err)
	}

	announcement := &model.Announcement{
		ID:        id.New(),
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: msg.ID,
		Kind:      kind,
	}
	if err := p.announcements.Create(ctx, announcement); err != nil {
		// An unrecorded announcement would never be answered, so take it down.
		if delErr := p.platform.DeleteMessage(ctx, channelID, msg.ID); delErr != nil {
			p.logger.ErrorContext(ctx, "failed to delete unrecorded announcement",
				"message_id", msg.ID, "channel_id", channelID, "error", delErr)
		}
		return nil, fmt.Errorf("recording %s announcement %s: %w", kind, msg.ID, err)
	}
	obs.AnnouncementPublished(string(kind))
	return announcement, nil
}

// RolesEmbed renders the role selection message.
func RolesEmbed(entries []model.RoleEntry, color int, now time.Time) *discordgo.MessageEmbed {
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = fmt.Sprintf("%s **%s** - %s", entry.Emoji, entry.DisplayName, entry.Description)
	}
	return &discordgo.MessageEmbed{
		Title:       rolesEmbedTitle,
		Description: rolesEmbedIntro + strings.Join(lines, "\n\n"),
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: rolesEmbedFooter},
		Timestamp:   now.Format(time.RFC3339),
	}
}

// VerificationEmbed renders the verification message.
func VerificationEmbed(color int, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       verificationEmbedTitle,
		Description: verificationEmbedBody,
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: now.Format(verificationFooterLayout)},
		Timestamp:   now.Format(time.RFC3339),
	}
}
