package config_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"herald.app/relay/core/config"
)

var _ = Describe("Load", func() {
	var saved map[string]string

	keys := []string{
		"RELAY_ENV", "TOKEN", "EMBED_COLOR", "ROLE_VERIFIED", "STAFF_ROLE_ID",
		"GITHUB_WEBHOOK_SECRET", "GITHUB_SECRET", "GITHUB_CHANNEL_ID", "DISCORD_CHANNEL_ID",
		"GITLAB_WEBHOOK_TOKEN", "WEBHOOK_PORT", "PORT", "REDIS_URL", "ROLE_ID_NEWS",
	}

	BeforeEach(func() {
		saved = map[string]string{}
		for _, key := range keys {
			if v, ok := os.LookupEnv(key); ok {
				saved[key] = v
			}
			Expect(os.Unsetenv(key)).To(Succeed())
		}
		// production skips .env loading
		Expect(os.Setenv("RELAY_ENV", "production")).To(Succeed())
		Expect(os.Setenv("TOKEN", "bot-token")).To(Succeed())
	})

	AfterEach(func() {
		for _, key := range keys {
			_ = os.Unsetenv(key)
			if v, ok := saved[key]; ok {
				_ = os.Setenv(key, v)
			}
		}
	})

	It("applies defaults", func() {
		cfg, err := config.Load(config.ServiceTypeServer)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.IsProduction()).To(BeTrue())
		Expect(cfg.Port).To(Equal("5000"))
		Expect(cfg.Discord.EmbedColor).To(Equal(config.DefaultEmbedColor))
		Expect(cfg.Discord.ReactionInterval).To(Equal(300 * time.Millisecond))
		Expect(cfg.Verify.RoleID).To(Equal(config.DefaultVerifiedRoleID))
		Expect(cfg.Webhook.Enabled()).To(BeFalse())
		Expect(cfg.Webhook.MaxBodyBytes).To(Equal(int64(5 << 20)))
		Expect(cfg.Redis.Enabled()).To(BeFalse())
		Expect(cfg.Redis.DeliveryTTL).To(Equal(24 * time.Hour))
	})

	It("requires a bot token", func() {
		Expect(os.Unsetenv("TOKEN")).To(Succeed())
		_, err := config.Load(config.ServiceTypeCLI)
		Expect(err).To(MatchError(ContainSubstring("TOKEN")))
	})

	It("refuses a relay channel without a webhook secret", func() {
		Expect(os.Setenv("GITHUB_CHANNEL_ID", "999")).To(Succeed())
		_, err := config.Load(config.ServiceTypeServer)
		Expect(err).To(MatchError(ContainSubstring("GITHUB_WEBHOOK_SECRET")))
	})

	It("does not require the secret for the cli", func() {
		Expect(os.Setenv("GITHUB_CHANNEL_ID", "999")).To(Succeed())
		_, err := config.Load(config.ServiceTypeCLI)
		Expect(err).NotTo(HaveOccurred())
	})

	It("falls back to legacy variable names", func() {
		Expect(os.Setenv("DISCORD_CHANNEL_ID", "777")).To(Succeed())
		Expect(os.Setenv("GITHUB_SECRET", "s3cret")).To(Succeed())
		Expect(os.Setenv("PORT", "8080")).To(Succeed())

		cfg, err := config.Load(config.ServiceTypeServer)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Webhook.ChannelID).To(Equal("777"))
		Expect(cfg.Webhook.GitHubSecret).To(Equal("s3cret"))
		Expect(cfg.Port).To(Equal("8080"))
		Expect(cfg.Webhook.GitLabEnabled()).To(BeFalse())
	})

	It("prefers the primary names", func() {
		Expect(os.Setenv("GITHUB_CHANNEL_ID", "1")).To(Succeed())
		Expect(os.Setenv("DISCORD_CHANNEL_ID", "2")).To(Succeed())
		Expect(os.Setenv("GITHUB_WEBHOOK_SECRET", "a")).To(Succeed())
		Expect(os.Setenv("GITHUB_SECRET", "b")).To(Succeed())
		Expect(os.Setenv("GITLAB_WEBHOOK_TOKEN", "tok")).To(Succeed())

		cfg, err := config.Load(config.ServiceTypeServer)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Webhook.ChannelID).To(Equal("1"))
		Expect(cfg.Webhook.GitHubSecret).To(Equal("a"))
		Expect(cfg.Webhook.GitLabEnabled()).To(BeTrue())
	})

	It("parses the embed color", func() {
		Expect(os.Setenv("EMBED_COLOR", "#FF0000")).To(Succeed())
		cfg, err := config.Load(config.ServiceTypeServer)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Discord.EmbedColor).To(Equal(0xFF0000))
	})

	It("rejects a malformed embed color", func() {
		Expect(os.Setenv("EMBED_COLOR", "blurple")).To(Succeed())
		_, err := config.Load(config.ServiceTypeServer)
		Expect(err).To(MatchError(ContainSubstring("EMBED_COLOR")))
	})

	It("reads roles from the process environment", func() {
		Expect(os.Setenv("ROLE_ID_NEWS", "444444444444444444")).To(Succeed())
		cfg, err := config.Load(config.ServiceTypeServer)
		Expect(err).NotTo(HaveOccurred())
		_, ok := cfg.Roles.Lookup("news")
		Expect(ok).To(BeTrue())
	})
})
