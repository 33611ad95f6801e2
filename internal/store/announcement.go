package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"herald.app/relay/core/db/sqlc"
	"herald.app/relay/internal/model"
)

type announcementStore struct {
	queries *sqlc.Queries
}

func newAnnouncementStore(queries *sqlc.Queries) AnnouncementStore {
	return &announcementStore{queries: queries}
}

// NewAnnouncementStore returns an announcement store bound to queries,
// which may be transaction scoped.
func NewAnnouncementStore(queries *sqlc.Queries) AnnouncementStore {
	return newAnnouncementStore(queries)
}

func (s *announcementStore) Create(ctx context.Context, announcement *model.Announcement) error {
	row, err := s.queries.CreateAnnouncement(ctx, sqlc.CreateAnnouncementParams{
		ID:        announcement.ID,
		GuildID:   announcement.GuildID,
		ChannelID: announcement.ChannelID,
		MessageID: announcement.MessageID,
		Kind:      string(announcement.Kind),
	})
	if err != nil {
		return err
	}
	*announcement = *toAnnouncementModel(row)
	return nil
}

func (s *announcementStore) GetByMessageID(ctx context.Context, messageID string) (*model.Announcement, error) {
	row, err := s.queries.GetAnnouncementByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAnnouncementModel(row), nil
}

func (s *announcementStore) ListByGuild(ctx context.Context, guildID string) ([]model.Announcement, error) {
	rows, err := s.queries.ListAnnouncementsByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return toAnnouncementModels(rows), nil
}

func (s *announcementStore) DeleteByMessageID(ctx context.Context, messageID string) error {
	affected, err := s.queries.DeleteAnnouncementByMessageID(ctx, messageID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func toAnnouncementModel(row sqlc.Announcement) *model.Announcement {
	return &model.Announcement{
		ID:        row.ID,
		GuildID:   row.GuildID,
		ChannelID: row.ChannelID,
		MessageID: row.MessageID,
		Kind:      model.AnnouncementKind(row.Kind),
		CreatedAt: row.CreatedAt.Time,
	}
}

func toAnnouncementModels(rows []sqlc.Announcement) []model.Announcement {
	result := make([]model.Announcement, len(rows))
	for i, row := range rows {
		result[i] = *toAnnouncementModel(row)
	}
	return result
}
