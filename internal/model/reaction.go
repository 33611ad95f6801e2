package model

// ReactionEvent is a "reaction added" gateway event, reduced to what the
// handlers need.
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	// Emoji is the API form: the unicode character for standard emojis,
	// name:id for custom ones.
	Emoji string
	// IsBot is true when the gateway already told us the reactor is automated.
	IsBot bool
}

// Outcome is the terminal state of one reaction handler run.
type Outcome string

const (
	OutcomeIgnored         Outcome = "ignored"
	OutcomeSkipped         Outcome = "skipped"
	OutcomeRoleAdded       Outcome = "role_added"
	OutcomeRoleRemoved     Outcome = "role_removed"
	OutcomeFailed          Outcome = "failed"
	OutcomeRoleMissing     Outcome = "role_missing"
	OutcomeRoleLookupError Outcome = "role_lookup_error"
	OutcomeAlreadyVerified Outcome = "already_verified"
	OutcomeRoleGranted     Outcome = "role_granted"
)
