package service_test

import (
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"herald.app/relay/internal/model"
	"herald.app/relay/internal/service"
)

var _ = Describe("PushRenderer", func() {
	var renderer *service.PushRenderer

	push := func(messages ...string) model.PushEvent {
		commits := make([]model.Commit, len(messages))
		for i, msg := range messages {
			commits[i] = model.Commit{
				ID:      strings.Repeat(string(rune('a'+i)), 40),
				Message: msg,
				URL:     "https://github.com/acme/widgets/commit/" + strings.Repeat(string(rune('a'+i)), 40),
				Author:  model.Actor{Name: "Mona"},
				Added:   []string{"a.go"},
			}
		}
		return model.PushEvent{
			Source:     model.SourceGitHub,
			Ref:        "refs/heads/main",
			Repository: model.Repository{Name: "widgets", FullName: "acme/widgets", URL: "https://github.com/acme/widgets"},
			Pusher:     model.Actor{Name: "mona", AvatarURL: "https://avatars.example/mona.png"},
			Commits:    commits,
		}
	}

	BeforeEach(func() {
		renderer = service.NewPushRenderer(0xABCDEF)
	})

	It("renders visible commits in full and hidden ones masked", func() {
		rendered := renderer.Render(push("fix bug", "wip: secret change"))
		embed := rendered.Embed

		Expect(rendered.Visible).To(Equal(1))
		Expect(rendered.Masked).To(Equal(1))
		Expect(embed.Title).To(Equal("**[`widgets:main`]** 2 new commits"))
		Expect(embed.URL).To(Equal("https://github.com/acme/widgets"))
		Expect(embed.Color).To(Equal(0xABCDEF))
		Expect(embed.Author.Name).To(Equal("mona"))
		Expect(embed.Footer.Text).To(Equal("2 added"))

		lines := strings.Split(embed.Description, "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(Equal("[`aaaaaaa`](https://github.com/acme/widgets/commit/" + strings.Repeat("a", 40) + ") fix bug - Mona"))

		masked := service.Mask("wip: secret change")
		Expect(utf8.RuneCountInString(masked)).To(Equal(utf8.RuneCountInString("wip: secret change")))
		Expect(lines[1]).To(HavePrefix("[🔒 `bbbbbbb`]"))
		Expect(lines[1]).To(ContainSubstring(" " + masked + " - " + service.Mask("Mona")))
		Expect(lines[1]).NotTo(ContainSubstring("secret"))
	})

	It("masks the repository and pusher when every commit is hidden", func() {
		embed := renderer.Render(push("[hidden] rotate keys")).Embed
		Expect(embed.Title).To(Equal("**[`" + service.Mask("widgets") + ":main`]** 1 new commit"))
		Expect(embed.Author.Name).To(Equal(service.Mask("mona")))
	})

	It("only uses the first line of a commit message", func() {
		embed := renderer.Render(push("fix bug\n\nlong explanation")).Embed
		Expect(embed.Description).NotTo(ContainSubstring("long explanation"))
	})

	It("summarises file changes across commits", func() {
		event := push("one", "two")
		event.Commits[0].Modified = []string{"x", "y"}
		event.Commits[1].Removed = []string{"z"}
		event.Commits[1].Added = nil

		Expect(renderer.Render(event).Embed.Footer.Text).To(Equal("1 added • 2 modified • 1 removed"))
	})

	It("omits the footer when no files changed", func() {
		event := push("docs")
		event.Commits[0].Added = nil
		Expect(renderer.Render(event).Embed.Footer).To(BeNil())
	})

	It("keeps the description within the embed limit", func() {
		messages := make([]string, 200)
		for i := range messages {
			messages[i] = strings.Repeat("x", 60)
		}
		description := renderer.Render(push(messages...)).Embed.Description
		Expect(utf8.RuneCountInString(description)).To(BeNumerically("<=", 4096))
		Expect(description).To(MatchRegexp(`\.\.\. and \d+ more$`))
	})
})
