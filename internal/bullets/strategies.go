package bullets

import (
	"fmt"
	"sort"
	"strings"
)

// byRoleField handles output where the model already grouped bullets by
// role: {"bullets": {"STRATEGIST": [...]}} or a top-level "bullets_by_role".
func byRoleField(role string, raw map[string]any) []string {
	for _, field := range []string{"bullets", "bullets_by_role"} {
		group, ok := raw[field].(map[string]any)
		if !ok {
			continue
		}
		if items := stringList(group[role]); len(items) > 0 {
			return items
		}
	}
	return nil
}

// recommendationsArray handles the flat {"recommendations": [...]} shape.
func recommendationsArray(_ string, raw map[string]any) []string {
	return stringList(raw["recommendations"])
}

// advisorSynthesis prefers the synthesis role's structured fields: the
// primary recommendation, trade-off strings, and the synthesis list.
func advisorSynthesis(role string, raw map[string]any) []string {
	if !isAdvisor(role) {
		return nil
	}

	var out []string
	if primary, ok := raw["primary_recommendation"].(string); ok && strings.TrimSpace(primary) != "" {
		out = append(out, primary)
	}
	if tradeoffs, ok := raw["tradeoffs"].([]any); ok {
		for _, t := range tradeoffs {
			entry, ok := t.(map[string]any)
			if !ok {
				continue
			}
			option, _ := entry["option"].(string)
			upside, _ := entry["upside"].(string)
			risk, _ := entry["risk"].(string)
			if option == "" {
				continue
			}
			out = append(out, fmt.Sprintf("%s: %s/%s", option, upside, risk))
		}
	}
	out = append(out, stringList(raw["synthesis"])...)
	return out
}

// sentenceSplit falls back to free-text analysis/summary fields, splitting
// on newlines, bullet characters, and sentence boundaries.
func sentenceSplit(_ string, raw map[string]any) []string {
	for _, field := range []string{"analysis", "summary"} {
		text, ok := raw[field].(string)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		if parts := splitSentences(text); len(parts) > 0 {
			return parts
		}
	}
	return nil
}

func splitSentences(text string) []string {
	splitter := func(r rune) bool {
		switch r {
		case '\n', '•', '.', '!', '?', ';':
			return true
		}
		return false
	}
	var out []string
	for _, part := range strings.FieldsFunc(text, splitter) {
		part = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(part), "-* "))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// genericScan is the last resort: recursively walk arrays and nested
// objects, pulling string leaves and the conventional label fields from
// objects.
func genericScan(_ string, raw map[string]any) []string {
	var out []string
	scanValue(raw, 0, &out)
	return out
}

var labelFields = []string{"action", "text", "name", "title", "description"}

func scanValue(v any, depth int, out *[]string) {
	if depth > 6 || len(*out) >= maxBullets*2 {
		return
	}
	switch val := v.(type) {
	case string:
		*out = append(*out, val)
	case []any:
		for _, item := range val {
			scanValue(item, depth+1, out)
		}
	case map[string]any:
		labeled := false
		for _, field := range labelFields {
			if s, ok := val[field].(string); ok && strings.TrimSpace(s) != "" {
				*out = append(*out, s)
				labeled = true
				break
			}
		}
		if labeled {
			return
		}
		// Sorted keys keep extraction deterministic across runs.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			scanValue(val[k], depth+1, out)
		}
	}
}

// stringList coerces a JSON value into a []string, skipping non-strings.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
