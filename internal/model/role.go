package model

// RoleEntry is a configured role resolved against a live guild.
type RoleEntry struct {
	LogicalName string `json:"logical_name"`
	RoleID      string `json:"role_id"`
	Emoji       string `json:"emoji"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}
