package service

import (
	"context"
	"fmt"
	"log/slog"

	"herald.app/relay/internal/discord"
	"herald.app/relay/internal/model"
	"herald.app/relay/internal/obs"
)

type RelayResult struct {
	Posted    bool
	MessageID string
	Commits   int
	Masked    int
}

// PushRelay posts push notifications into the configured channel.
type PushRelay interface {
	Relay(ctx context.Context, event model.PushEvent) (*RelayResult, error)
}

type pushRelay struct {
	platform  discord.Platform
	renderer  *PushRenderer
	channelID string
	logger    *slog.Logger
}

func NewPushRelay(platform discord.Platform, renderer *PushRenderer, channelID string, logger *slog.Logger) PushRelay {
	if logger == nil {
		logger = slog.Default()
	}
	return &pushRelay{
		platform:  platform,
		renderer:  renderer,
		channelID: channelID,
		logger:    logger,
	}
}

func (r *pushRelay) Relay(ctx context.Context, event model.PushEvent) (*RelayResult, error) {
	if len(event.Commits) == 0 {
		r.logger.DebugContext(ctx, "push without commits ignored", "ref", event.Ref)
		return &RelayResult{}, nil
	}

	rendered := r.renderer.Render(event)
	msg, err := r.platform.SendEmbed(ctx, r.channelID, rendered.Embed)
	if err != nil {
		return nil, fmt.Errorf("relaying push to channel %s: %w", r.channelID, err)
	}

	obs.PushRelayed(string(event.Source), rendered.Visible, rendered.Masked)
	r.logger.InfoContext(ctx, "push relayed",
		"repository", event.Repository.FullName,
		"ref", event.Ref,
		"commits", len(event.Commits),
		"masked", rendered.Masked,
	)

	return &RelayResult{
		Posted:    true,
		MessageID: msg.ID,
		Commits:   len(event.Commits),
		Masked:    rendered.Masked,
	}, nil
}
