package mapper

import (
	"github.com/google/go-github/v71/github"

	"herald.app/relay/internal/model"
)

// FromGitHubPush maps a go-github push payload onto the forge-neutral model.
func FromGitHubPush(event *github.PushEvent, deliveryID string) model.PushEvent {
	repo := event.GetRepo()
	out := model.PushEvent{
		Source:     model.SourceGitHub,
		DeliveryID: deliveryID,
		Ref:        event.GetRef(),
		Repository: model.Repository{
			Name:     repo.GetName(),
			FullName: repo.GetFullName(),
			URL:      repo.GetHTMLURL(),
		},
		Pusher:  githubPusher(event),
		Commits: make([]model.Commit, 0, len(event.Commits)),
	}

	for _, c := range event.Commits {
		if c == nil {
			continue
		}
		author := c.GetAuthor()
		out.Commits = append(out.Commits, model.Commit{
			ID:        c.GetID(),
			Message:   c.GetMessage(),
			URL:       c.GetURL(),
			Timestamp: c.GetTimestamp().Time,
			Author: model.Actor{
				Name:  author.GetName(),
				Login: author.GetLogin(),
			},
			Added:    c.Added,
			Removed:  c.Removed,
			Modified: c.Modified,
		})
	}

	return out
}

// githubPusher combines the pusher (git identity) with the sender (GitHub
// account) so the embed author gets both a name and an avatar.
func githubPusher(event *github.PushEvent) model.Actor {
	pusher := event.GetPusher()
	sender := event.GetSender()

	actor := model.Actor{
		Name:      pusher.GetName(),
		Login:     sender.GetLogin(),
		AvatarURL: sender.GetAvatarURL(),
		URL:       sender.GetHTMLURL(),
	}
	if actor.Login == "" {
		actor.Login = pusher.GetLogin()
	}
	if actor.Name == "" {
		actor.Name = actor.Login
	}
	return actor
}
