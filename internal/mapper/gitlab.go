package mapper

import (
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"herald.app/relay/internal/model"
)

// FromGitLabPush maps a GitLab "Push Hook" payload onto the forge-neutral model.
func FromGitLabPush(event *gitlab.PushEvent) model.PushEvent {
	out := model.PushEvent{
		Source: model.SourceGitLab,
		Ref:    event.Ref,
		Repository: model.Repository{
			Name:     event.Project.Name,
			FullName: event.Project.PathWithNamespace,
			URL:      event.Project.WebURL,
		},
		Pusher: model.Actor{
			Name:      event.UserName,
			Login:     event.UserUsername,
			AvatarURL: event.UserAvatar,
			URL:       gitlabProfileURL(event.Project.WebURL, event.Project.PathWithNamespace, event.UserUsername),
		},
		Commits: make([]model.Commit, 0, len(event.Commits)),
	}

	for _, c := range event.Commits {
		if c == nil {
			continue
		}
		commit := model.Commit{
			ID:       c.ID,
			Message:  c.Message,
			URL:      c.URL,
			Author:   model.Actor{Name: c.Author.Name},
			Added:    c.Added,
			Removed:  c.Removed,
			Modified: c.Modified,
		}
		if c.Timestamp != nil {
			commit.Timestamp = *c.Timestamp
		}
		out.Commits = append(out.Commits, commit)
	}

	return out
}

// gitlabProfileURL derives https://host/<username> from the project web URL.
func gitlabProfileURL(webURL, pathWithNamespace, username string) string {
	if webURL == "" || username == "" || pathWithNamespace == "" {
		return ""
	}
	base := strings.TrimSuffix(webURL, "/"+pathWithNamespace)
	if base == webURL {
		return ""
	}
	return base + "/" + username
}
