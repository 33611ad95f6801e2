package model

import (
	"strings"
	"time"
)

// Source identifies which forge delivered a push.
type Source string

const (
	SourceGitHub Source = "github"
	SourceGitLab Source = "gitlab"
)

// PushEvent is a forge-neutral push notification.
type PushEvent struct {
	Source     Source     `json:"source"`
	DeliveryID string     `json:"delivery_id,omitempty"`
	Ref        string     `json:"ref"`
	Repository Repository `json:"repository"`
	Pusher     Actor      `json:"pusher"`
	Commits    []Commit   `json:"commits"`
}

type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	URL      string `json:"url"`
}

type Actor struct {
	Name      string `json:"name"`
	Login     string `json:"login,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	URL       string `json:"url,omitempty"`
}

type Commit struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
	Author    Actor     `json:"author"`
	Added     []string  `json:"added,omitempty"`
	Removed   []string  `json:"removed,omitempty"`
	Modified  []string  `json:"modified,omitempty"`
}

// Branch strips the refs/heads/ prefix. Tags and other refs are returned as-is.
func (e PushEvent) Branch() string {
	return strings.TrimPrefix(e.Ref, "refs/heads/")
}

// ShortID returns the first seven characters of the commit id.
func (c Commit) ShortID() string {
	if len(c.ID) <= 7 {
		return c.ID
	}
	return c.ID[:7]
}

// Title returns the first line of the commit message.
func (c Commit) Title() string {
	title, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimRight(title, "\r")
}

// AuthorName prefers the commit author's name, then their login.
func (c Commit) AuthorName() string {
	if c.Author.Name != "" {
		return c.Author.Name
	}
	return c.Author.Login
}
