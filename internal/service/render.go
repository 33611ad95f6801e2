package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"herald.app/relay/internal/model"
)

// Discord rejects embed descriptions longer than this.
const maxEmbedDescription = 4096

// PushRenderer turns a push into a single embed listing all of its commits.
type PushRenderer struct {
	color int
	now   func() time.Time
}

func NewPushRenderer(color int) *PushRenderer {
	return &PushRenderer{color: color, now: time.Now}
}

// RenderedPush is the embed plus how many commits were shown in each form.
type RenderedPush struct {
	Embed   *discordgo.MessageEmbed
	Visible int
	Masked  int
}

func (r *PushRenderer) Render(event model.PushEvent) RenderedPush {
	lines := make([]string, 0, len(event.Commits))
	var added, modified, removed, masked int

	for _, commit := range event.Commits {
		added += len(commit.Added)
		modified += len(commit.Modified)
		removed += len(commit.Removed)

		if IsHidden(commit.Message) {
			masked++
			lines = append(lines, fmt.Sprintf("[🔒 `%s`](%s) %s - %s",
				commit.ShortID(), commit.URL, Mask(commit.Title()), Mask(commit.AuthorName())))
			continue
		}
		lines = append(lines, fmt.Sprintf("[`%s`](%s) %s - %s",
			commit.ShortID(), commit.URL, commit.Title(), commit.AuthorName()))
	}

	allHidden := masked == len(event.Commits) && masked > 0

	repoName := event.Repository.Name
	pusherName := pusherDisplayName(event)
	if allHidden {
		repoName = Mask(repoName)
		pusherName = Mask(pusherName)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("**[`%s:%s`]** %s", repoName, event.Branch(), commitCount(len(event.Commits))),
		URL:         event.Repository.URL,
		Description: joinWithinLimit(lines, maxEmbedDescription),
		Color:       r.color,
		Timestamp:   r.now().Format(time.RFC3339),
	}
	if pusherName != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    pusherName,
			URL:     event.Pusher.URL,
			IconURL: event.Pusher.AvatarURL,
		}
	}
	if footer := changeSummary(added, modified, removed); footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	}

	return RenderedPush{
		Embed:   embed,
		Visible: len(event.Commits) - masked,
		Masked:  masked,
	}
}

func pusherDisplayName(event model.PushEvent) string {
	if event.Pusher.Name != "" {
		return event.Pusher.Name
	}
	return event.Pusher.Login
}

func commitCount(n int) string {
	if n == 1 {
		return "1 new commit"
	}
	return fmt.Sprintf("%d new commits", n)
}

func changeSummary(added, modified, removed int) string {
	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", added))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", modified))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", removed))
	}
	return strings.Join(parts, " • ")
}

// joinWithinLimit joins lines with newlines. When the result would exceed
// limit runes, trailing lines are replaced with "... and N more".
func joinWithinLimit(lines []string, limit int) string {
	joined := strings.Join(lines, "\n")
	if utf8.RuneCountInString(joined) <= limit {
		return joined
	}

	var b strings.Builder
	size := 0
	for i, line := range lines {
		marker := fmt.Sprintf("... and %d more", len(lines)-i)
		need := utf8.RuneCountInString(line) + 1
		if size+need+utf8.RuneCountInString(marker) > limit {
			b.WriteString(marker)
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
		size += need
	}
	return b.String()
}
