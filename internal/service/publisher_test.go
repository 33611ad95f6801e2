package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"herald.app/relay/core/config"
	"herald.app/relay/internal/model"
	"herald.app/relay/internal/service"
	"herald.app/relay/internal/store"
)

var _ = Describe("Publisher", func() {
	var (
		ctx           context.Context
		platform      *mockPlatform
		announcements *store.MemoryAnnouncementStore
		roles         config.RoleSet
		publisher     service.Publisher
	)

	build := func() {
		log, _ := bufferedLogger()
		publisher = service.NewPublisher(
			platform,
			service.NewRoleResolver(platform, roles, log),
			announcements,
			service.PublisherConfig{EmbedColor: 0x123456, VerifiedRoleID: "777"},
			log,
		)
	}

	BeforeEach(func() {
		ctx = context.Background()
		platform = newMockPlatform()
		announcements = store.NewMemoryAnnouncementStore()
		roles = config.LoadRoles([]string{
			"ROLE_ID_ANNOUNCEMENTS=1",
			"ROLE_ID_PATCH_NOTES=2",
		})
		platform.addGuildRole("1", "Announcements")
		platform.addGuildRole("2", "Patch Notes")
		build()
	})

	Describe("PublishRoles", func() {
		It("posts the role embed, records it and reacts in order", func() {
			result, err := publisher.PublishRoles(ctx, "guild", "chan")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(service.PublishStatusPublished))
			Expect(result.Roles).To(Equal(2))
			Expect(result.FailedReactions).To(BeZero())

			Expect(platform.sent).To(HaveLen(1))
			embed := platform.sent[0]
			Expect(embed.Title).To(Equal("🎭 Server Roles"))
			Expect(embed.Description).To(Equal("React with the emojis below to get or remove roles:\n\n" +
				"📢 **Announcements** - Get notified about announcements\n\n" +
				"📝 **Patch Notes** - Get notified about patch notes"))
			Expect(embed.Footer.Text).To(Equal("Click an emoji to add/remove a role"))
			Expect(embed.Color).To(Equal(0x123456))

			Expect(platform.reactions).To(HaveLen(2))
			Expect(platform.reactions[0].Emoji).To(Equal("📢"))
			Expect(platform.reactions[1].Emoji).To(Equal("📝"))

			stored, err := announcements.GetByMessageID(ctx, result.Announcement.MessageID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Kind).To(Equal(model.AnnouncementKindRoles))
			Expect(stored.ChannelID).To(Equal("chan"))
		})

		It("isolates reaction failures", func() {
			platform.reactErrFn = func(emoji string) error {
				if emoji == "📢" {
					return errors.New("unknown emoji")
				}
				return nil
			}

			result, err := publisher.PublishRoles(ctx, "guild", "chan")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FailedReactions).To(Equal(1))
			Expect(platform.reactions).To(HaveLen(1))
			Expect(platform.reactions[0].Emoji).To(Equal("📝"))
		})

		It("spaces reactions by the configured interval", func() {
			log, _ := bufferedLogger()
			publisher = service.NewPublisher(platform, service.NewRoleResolver(platform, roles, log), announcements,
				service.PublisherConfig{ReactionInterval: 50 * time.Millisecond}, log)

			start := time.Now()
			_, err := publisher.PublishRoles(ctx, "guild", "chan")
			Expect(err).NotTo(HaveOccurred())
			Expect(time.Since(start)).To(BeNumerically(">=", 40*time.Millisecond))
		})

		It("reports when nothing is configured", func() {
			roles = config.LoadRoles(nil)
			build()

			result, err := publisher.PublishRoles(ctx, "guild", "chan")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(service.PublishStatusNothingConfigured))
			Expect(platform.sent).To(BeEmpty())
		})

		It("takes the message down when it cannot be recorded", func() {
			Expect(announcements.Create(ctx, &model.Announcement{ID: 99, GuildID: "guild", ChannelID: "chan", MessageID: "msg-1", Kind: model.AnnouncementKindRoles})).To(Succeed())

			_, err := publisher.PublishRoles(ctx, "guild", "chan")
			Expect(err).To(MatchError(ContainSubstring("recording roles announcement msg-1")))
			Expect(platform.deleted).To(ConsistOf("msg-1"))
			Expect(platform.reactions).To(BeEmpty())
		})

		It("returns send failures", func() {
			platform.sendErr = errors.New("missing access")

			_, err := publisher.PublishRoles(ctx, "guild", "chan")
			Expect(err).To(MatchError(ContainSubstring("missing access")))
			Expect(platform.reactions).To(BeEmpty())
		})
	})

	Describe("PublishVerification", func() {
		It("reports a missing verification role", func() {
			result, err := publisher.PublishVerification(ctx, "guild", "chan")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(service.PublishStatusRoleMissing))
			Expect(result.RoleID).To(Equal("777"))
			Expect(platform.sent).To(BeEmpty())
		})

		It("posts the verification embed and reacts with the check mark", func() {
			platform.addGuildRole("777", "Verified")

			result, err := publisher.PublishVerification(ctx, "guild", "chan")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(service.PublishStatusPublished))

			embed := platform.sent[0]
			Expect(embed.Title).To(Equal("Discord Verification"))
			Expect(embed.Description).To(HavePrefix("React with ✅ below to verify your account.\n"))
			Expect(embed.Footer.Text).To(MatchRegexp(`^\d{2}/\d{2}/\d{4} \d{2}:\d{2}$`))

			Expect(platform.reactions).To(ConsistOf(HaveField("Emoji", "✅")))

			stored, err := announcements.GetByMessageID(ctx, result.Announcement.MessageID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Kind).To(Equal(model.AnnouncementKindVerification))
		})
	})
})

var _ = Describe("VerificationEmbed", func() {
	It("formats the footer as month/day/year hour:minute", func() {
		at := time.Date(2024, 3, 7, 9, 5, 0, 0, time.UTC)
		Expect(service.VerificationEmbed(0, at).Footer.Text).To(Equal("03/07/2024 09:05"))
	})
})
