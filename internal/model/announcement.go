package model

import "time"

// AnnouncementKind tells which reaction handler owns an announcement message.
type AnnouncementKind string

const (
	AnnouncementKindRoles        AnnouncementKind = "roles"
	AnnouncementKindVerification AnnouncementKind = "verification"
)

func (k AnnouncementKind) Valid() bool {
	switch k {
	case AnnouncementKindRoles, AnnouncementKindVerification:
		return true
	}
	return false
}

// Announcement identifies a message the bot posted and listens to reactions on.
type Announcement struct {
	ID        int64            `json:"id"`
	GuildID   string           `json:"guild_id"`
	ChannelID string           `json:"channel_id"`
	MessageID string           `json:"message_id"`
	Kind      AnnouncementKind `json:"kind"`
	CreatedAt time.Time        `json:"created_at"`
}
