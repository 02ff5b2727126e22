// Package bullets distills 3-5 short action bullets per role from
// arbitrarily-shaped model output. Models group recommendations under many
// different field names and shapes, so extraction runs as an ordered chain
// of strategies: the first one that produces anything wins, and the result
// is normalized afterwards.
package bullets

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hpungsan/quorum/internal/roster"
)

const (
	minBullets   = 3
	maxBullets   = 5
	minBulletLen = 8
)

// strategy extracts candidate bullets from decoded raw output.
type strategy func(role string, raw map[string]any) []string

// chain is the fixed priority order. The advisor synthesis strategy sits
// ahead of the text strategies so the synthesis role's structured fields
// beat generic scanning.
var chain = []strategy{
	byRoleField,
	recommendationsArray,
	advisorSynthesis,
	markdownList,
	sentenceSplit,
	genericScan,
}

// Derive extracts normalized action bullets for a role from its raw output.
// It always returns between 3 and 5 items, padding with synthetic
// placeholders when extraction comes up short.
func Derive(role string, raw json.RawMessage) []string {
	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}

	var candidates []string
	if decoded != nil {
		for _, s := range chain {
			if found := s(role, decoded); len(found) > 0 {
				candidates = found
				break
			}
		}
	}

	return Normalize(candidates)
}

// Normalize trims, length-filters, case-insensitively dedupes, pads to the
// minimum, and caps at the maximum.
func Normalize(candidates []string) []string {
	out := make([]string, 0, maxBullets)
	seen := make(map[string]bool)
	for _, c := range candidates {
		c = strings.TrimSpace(strings.Trim(strings.TrimSpace(c), "-*•"))
		c = strings.TrimSpace(c)
		if len(c) < minBulletLen {
			continue
		}
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
		if len(out) == maxBullets {
			break
		}
	}

	for n := 1; len(out) < minBullets; n++ {
		placeholder := fmt.Sprintf("Key point #%d", n)
		if seen[strings.ToLower(placeholder)] {
			continue
		}
		seen[strings.ToLower(placeholder)] = true
		out = append(out, placeholder)
	}

	return out
}

// isAdvisor reports whether the role gets the synthesis-field preference.
func isAdvisor(role string) bool {
	return roster.IsSynthesisRole(role)
}
