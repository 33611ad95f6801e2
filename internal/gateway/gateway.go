package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"herald.app/relay/common/logger"
	"herald.app/relay/internal/model"
	"herald.app/relay/internal/service"
)

// Intents are the gateway intents the handlers depend on.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessageReactions

const eventTimeout = 30 * time.Second

// Gateway turns discordgo events into service calls.
type Gateway struct {
	reactions service.ReactionRouter
	commands  service.CommandService
	logger    *slog.Logger
}

func New(reactions service.ReactionRouter, commands service.CommandService, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		reactions: reactions,
		commands:  commands,
		logger:    logger,
	}
}

// Register attaches the event handlers and returns a func that detaches them.
func (g *Gateway) Register(s *discordgo.Session) func() {
	removers := []func(){
		s.AddHandler(g.onReady),
		s.AddHandler(g.onReactionAdd),
		s.AddHandler(g.onInteractionCreate),
	}
	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}

func (g *Gateway) onReady(s *discordgo.Session, r *discordgo.Ready) {
	g.logger.Info("gateway ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (g *Gateway) onReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	g.HandleReaction(context.Background(), ReactionEventFrom(r))
}

// HandleReaction routes one reaction event inside its own span.
func (g *Gateway) HandleReaction(ctx context.Context, ev model.ReactionEvent) []service.HandlerResult {
	ctx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()

	sc := logger.StartSpan(ctx, "gateway.reaction_add", trace.WithSpanKind(trace.SpanKindConsumer))
	defer sc.End()
	sc.SetAttributes(
		attribute.String("discord.guild_id", ev.GuildID),
		attribute.String("discord.message_id", ev.MessageID),
		attribute.String("discord.emoji", ev.Emoji),
	)

	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{
		GuildID:   logger.Ptr(ev.GuildID),
		ChannelID: logger.Ptr(ev.ChannelID),
		MessageID: logger.Ptr(ev.MessageID),
		UserID:    logger.Ptr(ev.UserID),
		EventType: logger.Ptr("reaction_add"),
		Component: "relay.gateway",
	})

	results := g.reactions.Route(ctx, ev)
	for _, res := range results {
		if res.Err != nil {
			sc.RecordError(fmt.Errorf("%s: %w", res.Handler, res.Err))
		}
	}
	return results
}

// ReactionEventFrom reduces a gateway reaction event to the fields handlers use.
func ReactionEventFrom(r *discordgo.MessageReactionAdd) model.ReactionEvent {
	if r == nil || r.MessageReaction == nil {
		return model.ReactionEvent{}
	}
	ev := model.ReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.APIName(),
	}
	if r.Member != nil && r.Member.User != nil {
		ev.IsBot = r.Member.User.Bot
	}
	return ev
}

func (g *Gateway) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	name := i.ApplicationCommandData().Name
	sc := logger.StartSpan(ctx, "gateway.command", trace.WithSpanKind(trace.SpanKindServer))
	defer sc.End()
	sc.SetAttributes(attribute.String("discord.command", name))

	inv := InvocationFrom(i)
	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{
		GuildID:   logger.Ptr(inv.GuildID),
		ChannelID: logger.Ptr(inv.ChannelID),
		UserID:    logger.Ptr(inv.UserID),
		EventType: logger.Ptr("command:" + name),
		Component: "relay.gateway",
	})

	// Publishing spaces reactions out, so the reply is deferred past the
	// three second acknowledgement window.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, discordgo.WithContext(ctx))
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "failed to acknowledge command", "error", err)
		return
	}

	reply, err := g.Reply(ctx, name, inv)
	if err != nil {
		sc.RecordError(err)
		slog.WarnContext(ctx, "unknown command", "command", name)
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &reply}, discordgo.WithContext(ctx)); err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "failed to send command reply", "error", err)
	}
}

// Reply runs the named command and returns the private reply text.
func (g *Gateway) Reply(ctx context.Context, name string, inv service.CommandInvocation) (string, error) {
	switch name {
	case CommandSetupRoles:
		return g.commands.SetupRoles(ctx, inv), nil
	case CommandVerify:
		return g.commands.SetupVerification(ctx, inv), nil
	default:
		return "Unknown command.", fmt.Errorf("unknown command %q", name)
	}
}

// InvocationFrom extracts who ran a command and where.
func InvocationFrom(i *discordgo.InteractionCreate) service.CommandInvocation {
	inv := service.CommandInvocation{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
	}
	switch {
	case i.Member != nil:
		inv.MemberRoles = i.Member.Roles
		if i.Member.User != nil {
			inv.UserID = i.Member.User.ID
		}
	case i.User != nil:
		inv.UserID = i.User.ID
	}
	return inv
}
