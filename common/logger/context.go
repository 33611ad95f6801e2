package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Gateway handlers and webhook handlers enrich the context once; everything below
// them logs with plain slog calls and still carries guild_id, user_id and friends.
type LogFields struct {
	GuildID    *string // Discord guild snowflake
	ChannelID  *string // Discord channel snowflake
	MessageID  *string // Discord message snowflake
	UserID     *string // Discord user snowflake
	DeliveryID *string // Webhook delivery id (X-GitHub-Delivery)
	EventType  *string // Gateway or webhook event type (e.g., "reaction_add", "push")
	Component  string  // Component name (OTel semantic convention style, e.g., "relay.service.toggle")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	result.GuildID = preferString(next.GuildID, result.GuildID)
	result.ChannelID = preferString(next.ChannelID, result.ChannelID)
	result.MessageID = preferString(next.MessageID, result.MessageID)
	result.UserID = preferString(next.UserID, result.UserID)
	result.DeliveryID = preferString(next.DeliveryID, result.DeliveryID)
	result.EventType = preferString(next.EventType, result.EventType)
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

func preferString(next, current *string) *string {
	if next != nil && *next != "" {
		return next
	}
	return current
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{GuildID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
