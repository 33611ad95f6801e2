package config

import (
	"sort"
	"strings"

	"herald.app/relay/common/id"
)

const (
	roleIDPrefix    = "ROLE_ID_"
	roleEmojiPrefix = "ROLE_EMOJI_"
	roleDescPrefix  = "ROLE_DESC_"

	// DefaultRoleEmoji is used for logical names without a built-in emoji.
	DefaultRoleEmoji = "✅"
)

var defaultRoleEmojis = map[string]string{
	"announcements":       "📢",
	"event_announcements": "🎉",
	"patch_notes":         "📝",
}

// RoleConfig is one self-assignable role declared through the environment.
type RoleConfig struct {
	// Name is the logical role name, the lowercased env key suffix.
	Name  string
	ID    string
	Emoji string
	// Description is empty unless ROLE_DESC_<NAME> is set; the resolver
	// derives one from the guild role name otherwise.
	Description string
}

// RoleSet is the immutable result of LoadRoles, ordered by logical name.
type RoleSet struct {
	roles []RoleConfig
	// Rejected lists ROLE_ID_* keys whose value is not a Discord id.
	Rejected []string
}

// LoadRoles builds the role set from KEY=VALUE pairs in three passes: ids,
// then emoji overrides, then description overrides. Overrides for names
// without an id are ignored. Later duplicates of a key win.
func LoadRoles(environ []string) RoleSet {
	pairs := splitEnviron(environ)
	byName := make(map[string]*RoleConfig)
	var rejected []string

	for _, kv := range pairs {
		name, ok := logicalName(kv.key, roleIDPrefix)
		if !ok || kv.value == "" {
			continue
		}
		if _, err := id.ParseDiscordID(kv.value); err != nil {
			rejected = append(rejected, kv.key)
			continue
		}
		byName[name] = &RoleConfig{
			Name:  name,
			ID:    kv.value,
			Emoji: DefaultEmojiFor(name),
		}
	}

	for _, kv := range pairs {
		name, ok := logicalName(kv.key, roleEmojiPrefix)
		if !ok || kv.value == "" {
			continue
		}
		if role, exists := byName[name]; exists {
			role.Emoji = kv.value
		}
	}

	for _, kv := range pairs {
		name, ok := logicalName(kv.key, roleDescPrefix)
		if !ok || kv.value == "" {
			continue
		}
		if role, exists := byName[name]; exists {
			role.Description = kv.value
		}
	}

	roles := make([]RoleConfig, 0, len(byName))
	for _, role := range byName {
		roles = append(roles, *role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })

	return RoleSet{roles: roles, Rejected: rejected}
}

// NewRoleSet builds a set from explicit entries, mostly for tests and tools.
func NewRoleSet(roles ...RoleConfig) RoleSet {
	out := make([]RoleConfig, len(roles))
	copy(out, roles)
	for i := range out {
		if out[i].Emoji == "" {
			out[i].Emoji = DefaultEmojiFor(out[i].Name)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return RoleSet{roles: out}
}

// Roles returns a copy of the configured roles in logical name order.
func (s RoleSet) Roles() []RoleConfig {
	out := make([]RoleConfig, len(s.roles))
	copy(out, s.roles)
	return out
}

func (s RoleSet) Len() int {
	return len(s.roles)
}

func (s RoleSet) Lookup(name string) (RoleConfig, bool) {
	for _, role := range s.roles {
		if role.Name == name {
			return role, true
		}
	}
	return RoleConfig{}, false
}

// DefaultEmojiFor returns the built-in emoji for a logical role name.
func DefaultEmojiFor(name string) string {
	if emoji, ok := defaultRoleEmojis[name]; ok {
		return emoji
	}
	return DefaultRoleEmoji
}

type envPair struct {
	key   string
	value string
}

func splitEnviron(environ []string) []envPair {
	pairs := make([]envPair, 0, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		pairs = append(pairs, envPair{key: key, value: value})
	}
	return pairs
}

func logicalName(key, prefix string) (string, bool) {
	if !strings.HasPrefix(key, prefix) {
		return "", false
	}
	name := strings.ToLower(strings.TrimPrefix(key, prefix))
	if name == "" {
		return "", false
	}
	return name, true
}
