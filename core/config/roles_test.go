package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"herald.app/relay/core/config"
)

var _ = Describe("LoadRoles", func() {
	It("returns an empty set when no roles are declared", func() {
		set := config.LoadRoles([]string{"PATH=/usr/bin", "TOKEN=abc"})
		Expect(set.Len()).To(Equal(0))
		Expect(set.Roles()).To(BeEmpty())
	})

	It("applies built-in emojis and overrides", func() {
		set := config.LoadRoles([]string{
			"ROLE_ID_ANNOUNCEMENTS=111111111111111111",
			"ROLE_ID_PATCH_NOTES=222222222222222222",
			"ROLE_ID_GAMER=333333333333333333",
			"ROLE_EMOJI_GAMER=🎮",
			"ROLE_DESC_PATCH_NOTES=Release notes as they ship",
		})

		Expect(set.Roles()).To(Equal([]config.RoleConfig{
			{Name: "announcements", ID: "111111111111111111", Emoji: "📢"},
			{Name: "gamer", ID: "333333333333333333", Emoji: "🎮"},
			{Name: "patch_notes", ID: "222222222222222222", Emoji: "📝", Description: "Release notes as they ship"},
		}))
	})

	It("uses the check mark for unknown names", func() {
		set := config.LoadRoles([]string{"ROLE_ID_NEWS=444444444444444444"})
		role, ok := set.Lookup("news")
		Expect(ok).To(BeTrue())
		Expect(role.Emoji).To(Equal(config.DefaultRoleEmoji))
	})

	It("ignores overrides for names without an id", func() {
		set := config.LoadRoles([]string{
			"ROLE_EMOJI_GHOST=👻",
			"ROLE_DESC_GHOST=Boo",
		})
		Expect(set.Len()).To(Equal(0))
	})

	It("ignores empty ids and empty overrides", func() {
		set := config.LoadRoles([]string{
			"ROLE_ID_EMPTY=",
			"ROLE_ID_NEWS=444444444444444444",
			"ROLE_EMOJI_NEWS=",
		})
		Expect(set.Len()).To(Equal(1))
		role, _ := set.Lookup("news")
		Expect(role.Emoji).To(Equal("✅"))
	})

	It("rejects ids that are not snowflakes", func() {
		set := config.LoadRoles([]string{
			"ROLE_ID_BROKEN=not-a-number",
			"ROLE_ID_NEWS=444444444444444444",
		})
		Expect(set.Len()).To(Equal(1))
		Expect(set.Rejected).To(ConsistOf("ROLE_ID_BROKEN"))
	})

	It("lets the last duplicate key win", func() {
		set := config.LoadRoles([]string{
			"ROLE_ID_News=444444444444444444",
			"ROLE_ID_NEWS=555555555555555555",
		})
		role, ok := set.Lookup("news")
		Expect(ok).To(BeTrue())
		Expect(role.ID).To(Equal("555555555555555555"))
	})

	It("skips malformed environ entries", func() {
		set := config.LoadRoles([]string{"garbage", "ROLE_ID_=123"})
		Expect(set.Len()).To(Equal(0))
	})
})

var _ = Describe("NewRoleSet", func() {
	It("fills default emojis and orders by name", func() {
		set := config.NewRoleSet(
			config.RoleConfig{Name: "patch_notes", ID: "2"},
			config.RoleConfig{Name: "announcements", ID: "1"},
		)
		roles := set.Roles()
		Expect(roles[0].Name).To(Equal("announcements"))
		Expect(roles[0].Emoji).To(Equal("📢"))
		Expect(roles[1].Emoji).To(Equal("📝"))
	})

	It("hands out copies", func() {
		set := config.NewRoleSet(config.RoleConfig{Name: "news", ID: "1"})
		roles := set.Roles()
		roles[0].ID = "mutated"
		Expect(set.Roles()[0].ID).To(Equal("1"))
	})
})
