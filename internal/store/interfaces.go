package store

import (
	"context"
	"errors"

	"herald.app/relay/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// AnnouncementStore persists the identity of messages the bot posted.
type AnnouncementStore interface {
	Create(ctx context.Context, announcement *model.Announcement) error
	GetByMessageID(ctx context.Context, messageID string) (*model.Announcement, error)
	ListByGuild(ctx context.Context, guildID string) ([]model.Announcement, error)
	DeleteByMessageID(ctx context.Context, messageID string) error
}

// DeliveryStore records webhook delivery ids already processed.
type DeliveryStore interface {
	// Claim returns true the first time a delivery id is seen.
	Claim(ctx context.Context, deliveryID string) (bool, error)
	// Release forgets a claim so a redelivery is processed again.
	Release(ctx context.Context, deliveryID string) error
}
