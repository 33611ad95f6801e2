package id

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// discordEpoch is the first second of 2015 in milliseconds, the epoch
// Discord ids count from.
const discordEpoch int64 = 1420070400000

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node used for announcement record ids.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new time-ordered int64 ID. Init must have been called.
func New() int64 {
	return node.Generate().Int64()
}

// ParseDiscordID validates a Discord snowflake given in its decimal string form.
func ParseDiscordID(s string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing discord id %q: %w", s, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("parsing discord id %q: must be positive", s)
	}
	return parsed, nil
}

// DiscordTime returns the creation time encoded in a Discord snowflake.
func DiscordTime(discordID snowflake.ID) time.Time {
	ms := (discordID.Int64() >> 22) + discordEpoch
	return time.UnixMilli(ms).UTC()
}
