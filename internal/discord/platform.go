package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/bwmarrin/discordgo"
)

// ErrRoleNotFound is returned when a role id does not exist in the guild.
var ErrRoleNotFound = errors.New("role not found in guild")

// Platform is the subset of the Discord API the bot uses. Every call is a
// single request with no retries.
type Platform interface {
	Role(ctx context.Context, guildID, roleID string) (*discordgo.Role, error)
	GuildName(ctx context.Context, guildID string) (string, error)
	Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error)
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	Message(ctx context.Context, channelID, messageID string) (*discordgo.Message, error)
	MessageExists(ctx context.Context, channelID, messageID string) (bool, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// SelfID is the bot's own user id.
	SelfID(ctx context.Context) (string, error)
	React(ctx context.Context, channelID, messageID, emoji string) error
	RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error
	DirectMessage(ctx context.Context, userID, content string) error
}

type sessionPlatform struct {
	session *discordgo.Session
}

// NewPlatform adapts a discordgo session. Reads consult the gateway state
// cache before falling back to REST.
func NewPlatform(session *discordgo.Session) Platform {
	return &sessionPlatform{session: session}
}

func (p *sessionPlatform) Role(ctx context.Context, guildID, roleID string) (*discordgo.Role, error) {
	if p.session.State != nil {
		if role, err := p.session.State.Role(guildID, roleID); err == nil {
			return role, nil
		}
	}

	roles, err := p.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching roles for guild %s: %w", guildID, err)
	}
	for _, role := range roles {
		if role.ID == roleID {
			return role, nil
		}
	}
	return nil, ErrRoleNotFound
}

func (p *sessionPlatform) GuildName(ctx context.Context, guildID string) (string, error) {
	if p.session.State != nil {
		if guild, err := p.session.State.Guild(guildID); err == nil && guild.Name != "" {
			return guild.Name, nil
		}
	}

	guild, err := p.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fetching guild %s: %w", guildID, err)
	}
	return guild.Name, nil
}

func (p *sessionPlatform) Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	member, err := p.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching member %s: %w", userID, err)
	}
	return member, nil
}

func (p *sessionPlatform) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := p.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("adding role %s to %s: %w", roleID, userID, err)
	}
	return nil
}

func (p *sessionPlatform) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := p.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("removing role %s from %s: %w", roleID, userID, err)
	}
	return nil
}

func (p *sessionPlatform) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	msg, err := p.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("sending embed to channel %s: %w", channelID, err)
	}
	return msg, nil
}

func (p *sessionPlatform) Message(ctx context.Context, channelID, messageID string) (*discordgo.Message, error) {
	msg, err := p.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching message %s: %w", messageID, err)
	}
	return msg, nil
}

func (p *sessionPlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := p.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("deleting message %s: %w", messageID, err)
	}
	return nil
}

func (p *sessionPlatform) SelfID(ctx context.Context) (string, error) {
	if p.session.State != nil && p.session.State.User != nil {
		return p.session.State.User.ID, nil
	}
	me, err := p.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fetching bot user: %w", err)
	}
	return me.ID, nil
}

func (p *sessionPlatform) MessageExists(ctx context.Context, channelID, messageID string) (bool, error) {
	_, err := p.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err == nil {
		return true, nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("fetching message %s: %w", messageID, err)
}

func (p *sessionPlatform) React(ctx context.Context, channelID, messageID, emoji string) error {
	if err := p.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("adding reaction %s: %w", emoji, err)
	}
	return nil
}

func (p *sessionPlatform) RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	if err := p.session.MessageReactionRemove(channelID, messageID, emoji, userID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("removing reaction %s of %s: %w", emoji, userID, err)
	}
	return nil
}

func (p *sessionPlatform) DirectMessage(ctx context.Context, userID, content string) error {
	channel, err := p.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("opening dm channel with %s: %w", userID, err)
	}
	if _, err := p.session.ChannelMessageSend(channel.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("sending dm to %s: %w", userID, err)
	}
	return nil
}

// HasRole reports whether the member holds roleID.
func HasRole(member *discordgo.Member, roleID string) bool {
	if member == nil {
		return false
	}
	return slices.Contains(member.Roles, roleID)
}

// IsBot reports whether the member is an automated account.
func IsBot(member *discordgo.Member) bool {
	return member != nil && member.User != nil && member.User.Bot
}
