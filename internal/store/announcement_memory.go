package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"herald.app/relay/internal/model"
)

// MemoryAnnouncementStore keeps announcement records in process memory.
// Records are lost on restart.
type MemoryAnnouncementStore struct {
	mu        sync.RWMutex
	byMessage map[string]model.Announcement
	now       func() time.Time
}

func NewMemoryAnnouncementStore() *MemoryAnnouncementStore {
	return &MemoryAnnouncementStore{
		byMessage: make(map[string]model.Announcement),
		now:       time.Now,
	}
}

func (s *MemoryAnnouncementStore) Create(_ context.Context, announcement *model.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byMessage[announcement.MessageID]; exists {
		return fmt.Errorf("announcement for message %s already exists", announcement.MessageID)
	}
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = s.now()
	}
	s.byMessage[announcement.MessageID] = *announcement
	return nil
}

func (s *MemoryAnnouncementStore) GetByMessageID(_ context.Context, messageID string) (*model.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	announcement, ok := s.byMessage[messageID]
	if !ok {
		return nil, ErrNotFound
	}
	return &announcement, nil
}

func (s *MemoryAnnouncementStore) ListByGuild(_ context.Context, guildID string) ([]model.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Announcement
	for _, announcement := range s.byMessage {
		if announcement.GuildID == guildID {
			result = append(result, announcement)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (s *MemoryAnnouncementStore) DeleteByMessageID(_ context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byMessage[messageID]; !ok {
		return ErrNotFound
	}
	delete(s.byMessage, messageID)
	return nil
}
