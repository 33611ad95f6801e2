package store

import (
	"time"

	"github.com/redis/go-redis/v9"

	"herald.app/relay/core/db/sqlc"
)

type Stores struct {
	announcements AnnouncementStore
	deliveries    DeliveryStore
}

// NewStores picks a backend per concern. Nil queries fall back to an
// in-memory announcement store; a nil redis client disables delivery dedupe.
func NewStores(queries *sqlc.Queries, rdb *redis.Client, deliveryTTL time.Duration) *Stores {
	s := &Stores{}

	if queries != nil {
		s.announcements = newAnnouncementStore(queries)
	} else {
		s.announcements = NewMemoryAnnouncementStore()
	}

	if rdb != nil {
		s.deliveries = newRedisDeliveryStore(rdb, deliveryTTL)
	} else {
		s.deliveries = noopDeliveryStore{}
	}

	return s
}

func (s *Stores) Announcements() AnnouncementStore {
	return s.announcements
}

func (s *Stores) Deliveries() DeliveryStore {
	return s.deliveries
}
