package gateway_test

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"herald.app/relay/internal/gateway"
	"herald.app/relay/internal/model"
	"herald.app/relay/internal/service"
)

type mockRouter struct {
	events []model.ReactionEvent
}

func (m *mockRouter) Route(ctx context.Context, ev model.ReactionEvent) []service.HandlerResult {
	m.events = append(m.events, ev)
	return []service.HandlerResult{
		{Handler: "role_toggle", Outcome: model.OutcomeSkipped},
		{Handler: "verification", Outcome: model.OutcomeFailed, Err: errors.New("boom")},
	}
}

type mockCommands struct {
	rolesCalls  int
	verifyCalls int
	lastInv     service.CommandInvocation
}

func (m *mockCommands) SetupRoles(ctx context.Context, inv service.CommandInvocation) string {
	m.rolesCalls++
	m.lastInv = inv
	return "roles done"
}

func (m *mockCommands) SetupVerification(ctx context.Context, inv service.CommandInvocation) string {
	m.verifyCalls++
	m.lastInv = inv
	return "verify done"
}

type mockRegistrar struct {
	appID, guildID string
	commands       []*discordgo.ApplicationCommand
	err            error
}

func (m *mockRegistrar) ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	m.appID, m.guildID, m.commands = appID, guildID, commands
	if m.err != nil {
		return nil, m.err
	}
	return commands, nil
}

var _ = Describe("ReactionEventFrom", func() {
	It("uses the API name for custom emojis", func() {
		ev := gateway.ReactionEventFrom(&discordgo.MessageReactionAdd{
			MessageReaction: &discordgo.MessageReaction{
				UserID:    "u1",
				MessageID: "m1",
				ChannelID: "c1",
				GuildID:   "g1",
				Emoji:     discordgo.Emoji{ID: "99", Name: "party"},
			},
			Member: &discordgo.Member{User: &discordgo.User{ID: "u1"}},
		})

		Expect(ev).To(Equal(model.ReactionEvent{
			GuildID: "g1", ChannelID: "c1", MessageID: "m1", UserID: "u1", Emoji: "party:99",
		}))
	})

	It("keeps unicode emojis as-is and flags bots", func() {
		ev := gateway.ReactionEventFrom(&discordgo.MessageReactionAdd{
			MessageReaction: &discordgo.MessageReaction{GuildID: "g1", Emoji: discordgo.Emoji{Name: "✅"}},
			Member:          &discordgo.Member{User: &discordgo.User{ID: "b", Bot: true}},
		})

		Expect(ev.Emoji).To(Equal("✅"))
		Expect(ev.IsBot).To(BeTrue())
	})

	It("tolerates a missing member", func() {
		ev := gateway.ReactionEventFrom(&discordgo.MessageReactionAdd{
			MessageReaction: &discordgo.MessageReaction{UserID: "u1"},
		})
		Expect(ev.IsBot).To(BeFalse())
		Expect(ev.UserID).To(Equal("u1"))
	})
})

var _ = Describe("Gateway", func() {
	var (
		router   *mockRouter
		commands *mockCommands
		g        *gateway.Gateway
	)

	BeforeEach(func() {
		router = &mockRouter{}
		commands = &mockCommands{}
		g = gateway.New(router, commands, nil)
	})

	It("passes reaction events to the router and returns every result", func() {
		results := g.HandleReaction(context.Background(), model.ReactionEvent{GuildID: "g1", Emoji: "✅"})

		Expect(router.events).To(HaveLen(1))
		Expect(results).To(HaveLen(2))
	})

	It("dispatches slash commands by name", func() {
		inv := service.CommandInvocation{GuildID: "g1", ChannelID: "c1", UserID: "u1"}

		reply, err := g.Reply(context.Background(), gateway.CommandSetupRoles, inv)
		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal("roles done"))

		reply, err = g.Reply(context.Background(), gateway.CommandVerify, inv)
		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal("verify done"))

		Expect(commands.rolesCalls).To(Equal(1))
		Expect(commands.verifyCalls).To(Equal(1))
		Expect(commands.lastInv).To(Equal(inv))
	})

	It("rejects unknown commands", func() {
		_, err := g.Reply(context.Background(), "nope", service.CommandInvocation{})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("InvocationFrom", func() {
	It("reads the guild member", func() {
		inv := gateway.InvocationFrom(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			GuildID:   "g1",
			ChannelID: "c1",
			Member:    &discordgo.Member{User: &discordgo.User{ID: "u1"}, Roles: []string{"r1"}},
		}})

		Expect(inv).To(Equal(service.CommandInvocation{
			GuildID: "g1", ChannelID: "c1", UserID: "u1", MemberRoles: []string{"r1"},
		}))
	})
})

var _ = Describe("command registration", func() {
	It("defines administrator-only guild commands", func() {
		cmds := gateway.Commands()
		Expect(cmds).To(HaveLen(2))
		for _, cmd := range cmds {
			Expect(*cmd.DefaultMemberPermissions).To(Equal(int64(discordgo.PermissionAdministrator)))
			Expect(*cmd.DMPermission).To(BeFalse())
		}
	})

	It("overwrites the scope with the command set", func() {
		reg := &mockRegistrar{}
		registered, err := gateway.SyncCommands(reg, "app", "guild")

		Expect(err).NotTo(HaveOccurred())
		Expect(registered).To(HaveLen(2))
		Expect(reg.appID).To(Equal("app"))
		Expect(reg.guildID).To(Equal("guild"))
	})

	It("clears with an empty set", func() {
		reg := &mockRegistrar{}
		Expect(gateway.ClearCommands(reg, "app", "")).To(Succeed())
		Expect(reg.commands).To(BeEmpty())
		Expect(reg.commands).NotTo(BeNil())
	})

	It("wraps registration errors", func() {
		reg := &mockRegistrar{err: errors.New("403")}
		_, err := gateway.SyncCommands(reg, "app", "")
		Expect(err).To(MatchError(ContainSubstring("registering commands")))
	})
})
