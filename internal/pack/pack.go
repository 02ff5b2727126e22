package pack

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Entry is one role's prompt template inside a pack.
type Entry struct {
	Role                string         `json:"role"`
	SystemPrompt        string         `json:"system_prompt"`
	UserTemplate        string         `json:"user_template"`
	Params              map[string]any `json:"params,omitempty"`
	AllowedPlaceholders []string       `json:"allowed_placeholders,omitempty"`
	Position            int            `json:"position"`
}

// Pack is a versioned, localized bundle of prompt templates for all roles.
// Packs are immutable once published; an edit creates a new version.
type Pack struct {
	Slug       string  `json:"slug"`
	Locale     string  `json:"locale"`
	Version    int     `json:"version"`
	SchemaJSON string  `json:"schema_json,omitempty"` // JSON object keyed by role
	Entries    []Entry `json:"entries"`
}

// Entry returns the entry for a role, or nil if the pack has none.
func (p *Pack) Entry(role string) *Entry {
	for i := range p.Entries {
		if p.Entries[i].Role == role {
			return &p.Entries[i]
		}
	}
	return nil
}

// envOverridePrefix scopes prompt text overrides. A variable
// QUORUM_PROMPT_<SLUG>_<LOCALE>_<ROLE> replaces that entry's system prompt
// before the pack is returned to callers. Slug dashes fold to underscores.
const envOverridePrefix = "QUORUM_PROMPT_"

func overrideKey(slug, locale, role string) string {
	norm := func(s string) string {
		return strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	}
	return fmt.Sprintf("%s%s_%s_%s", envOverridePrefix, norm(slug), norm(locale), norm(role))
}

// ApplyEnvOverrides returns a copy of the pack with environment-scoped
// system prompt overrides applied. The original pack is not mutated.
func ApplyEnvOverrides(p *Pack) *Pack {
	out := *p
	out.Entries = make([]Entry, len(p.Entries))
	copy(out.Entries, p.Entries)
	for i := range out.Entries {
		if v, ok := os.LookupEnv(overrideKey(p.Slug, p.Locale, out.Entries[i].Role)); ok {
			out.Entries[i].SystemPrompt = v
		}
	}
	return &out
}

// OverrideFingerprint digests the active override set for a pack identity so
// cache keys change when overrides change.
func OverrideFingerprint(slug, locale string, roles []string) string {
	pairs := make([]string, 0, len(roles))
	for _, role := range roles {
		key := overrideKey(slug, locale, role)
		if v, ok := os.LookupEnv(key); ok {
			pairs = append(pairs, key+"="+v)
		}
	}
	if len(pairs) == 0 {
		return ""
	}
	sort.Strings(pairs)
	return digest(strings.Join(pairs, "\n"))
}
