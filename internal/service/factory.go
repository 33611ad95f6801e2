package service

import (
	"log/slog"

	"herald.app/relay/core/config"
	"herald.app/relay/internal/discord"
	"herald.app/relay/internal/store"
)

type Services struct {
	platform discord.Platform
	stores   *store.Stores
	cfg      config.Config
	logger   *slog.Logger
}

func NewServices(platform discord.Platform, stores *store.Stores, cfg config.Config) *Services {
	return &Services{
		platform: platform,
		stores:   stores,
		cfg:      cfg,
		logger:   slog.Default(),
	}
}

func (s *Services) Roles() RoleResolver {
	return NewRoleResolver(s.platform, s.cfg.Roles, s.logger)
}

func (s *Services) Publisher() Publisher {
	return NewPublisher(s.platform, s.Roles(), s.stores.Announcements(), PublisherConfig{
		EmbedColor:       s.cfg.Discord.EmbedColor,
		ReactionInterval: s.cfg.Discord.ReactionInterval,
		VerifiedRoleID:   s.cfg.Verify.RoleID,
	}, s.logger)
}

func (s *Services) Commands() CommandService {
	return NewCommandService(s.Publisher(), s.cfg.Verify.StaffRoleID, s.logger)
}

func (s *Services) Reactions() ReactionRouter {
	return NewReactionRouter(s.logger,
		NewRoleToggleHandler(s.platform, s.Roles(), s.stores.Announcements(), s.logger),
		NewVerificationHandler(s.platform, s.stores.Announcements(), s.cfg.Verify.RoleID, s.logger),
	)
}

func (s *Services) Relay() PushRelay {
	return NewPushRelay(s.platform, NewPushRenderer(s.cfg.Discord.EmbedColor), s.cfg.Webhook.ChannelID, s.logger)
}

func (s *Services) Deliveries() store.DeliveryStore {
	return s.stores.Deliveries()
}

func (s *Services) Announcements() store.AnnouncementStore {
	return s.stores.Announcements()
}
