package mapper_test

import (
	"time"

	"github.com/google/go-github/v71/github"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"herald.app/relay/internal/mapper"
	"herald.app/relay/internal/model"
)

const githubPushPayload = `{
  "ref": "refs/heads/main",
  "repository": {"name": "widgets", "full_name": "acme/widgets", "html_url": "https://github.com/acme/widgets"},
  "pusher": {"name": "Mona Lisa", "email": "mona@example.com"},
  "sender": {"login": "octocat", "avatar_url": "https://avatars.githubusercontent.com/u/1", "html_url": "https://github.com/octocat"},
  "commits": [
    {
      "id": "0123456789abcdef0123456789abcdef01234567",
      "message": "fix bug\n\ndetails",
      "timestamp": "2024-05-01T10:00:00Z",
      "url": "https://github.com/acme/widgets/commit/0123456",
      "author": {"name": "Mona Lisa", "email": "mona@example.com", "username": "octocat"},
      "added": ["new.go"],
      "removed": [],
      "modified": ["main.go", "go.mod"]
    }
  ]
}`

var _ = Describe("FromGitHubPush", func() {
	parse := func(payload string) *github.PushEvent {
		event, err := github.ParseWebHook("push", []byte(payload))
		Expect(err).NotTo(HaveOccurred())
		push, ok := event.(*github.PushEvent)
		Expect(ok).To(BeTrue())
		return push
	}

	It("maps the push payload", func() {
		event := mapper.FromGitHubPush(parse(githubPushPayload), "delivery-1")

		Expect(event.Source).To(Equal(model.SourceGitHub))
		Expect(event.DeliveryID).To(Equal("delivery-1"))
		Expect(event.Branch()).To(Equal("main"))
		Expect(event.Repository).To(Equal(model.Repository{
			Name:     "widgets",
			FullName: "acme/widgets",
			URL:      "https://github.com/acme/widgets",
		}))
		Expect(event.Pusher).To(Equal(model.Actor{
			Name:      "Mona Lisa",
			Login:     "octocat",
			AvatarURL: "https://avatars.githubusercontent.com/u/1",
			URL:       "https://github.com/octocat",
		}))

		Expect(event.Commits).To(HaveLen(1))
		commit := event.Commits[0]
		Expect(commit.ShortID()).To(Equal("0123456"))
		Expect(commit.Title()).To(Equal("fix bug"))
		Expect(commit.Author.Login).To(Equal("octocat"))
		Expect(commit.Timestamp).To(BeTemporally("==", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
		Expect(commit.Added).To(ConsistOf("new.go"))
		Expect(commit.Modified).To(HaveLen(2))
	})

	It("falls back to the sender login when the pusher has no name", func() {
		event := mapper.FromGitHubPush(parse(`{"ref":"refs/heads/dev","sender":{"login":"octocat"}}`), "")
		Expect(event.Pusher.Name).To(Equal("octocat"))
		Expect(event.Commits).To(BeEmpty())
	})
})
