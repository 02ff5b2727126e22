package roster

import (
	"math"
	"strings"
	"unicode"
)

// Stability caps for heuristic adjustment. The global budget bounds the sum
// of absolute deltas across all roles; the per-role cap bounds any single
// role's effective shift after global scaling.
const (
	HeuristicBudget = 0.25
	HeuristicCap    = 0.15
)

// HeuristicRule nudges a role's weight when its keyword appears in the
// request corpus. Rules come from the heuristics store as a read-only
// snapshot per request.
type HeuristicRule struct {
	Keyword string  `json:"keyword"`
	RoleKey string  `json:"role_key"`
	Delta   float64 `json:"delta"`
	Locale  string  `json:"locale"`
}

// FiredRule records a rule that matched the corpus, for telemetry. Raw
// numeric weights never leave the process; only the fired keywords do.
type FiredRule struct {
	Keyword string  `json:"keyword"`
	RoleKey string  `json:"role_key"`
	Delta   float64 `json:"delta"`
}

// NormalizeWeights clamps negatives to zero and scales the map to sum to 1.
// An all-zero (or all-negative) map redistributes uniformly.
func NormalizeWeights(weights map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(weights))
	sum := 0.0
	for key, w := range weights {
		if w < 0 {
			w = 0
		}
		out[key] = w
		sum += w
	}
	if sum < 1e-9 {
		if len(out) == 0 {
			return out
		}
		uniform := 1.0 / float64(len(out))
		for key := range out {
			out[key] = uniform
		}
		return out
	}
	for key := range out {
		out[key] /= sum
	}
	return out
}

// ApplyHeuristics adjusts base weights by keyword-triggered deltas and
// returns the re-normalized map plus the rules that fired. Matching is
// token-based: a rule fires when its keyword equals or is contained in any
// corpus token. Deltas are first scaled so their absolute sum stays within
// HeuristicBudget, then each role's shift is clamped to ±HeuristicCap.
func ApplyHeuristics(base map[string]float64, corpus string, rules []HeuristicRule) (map[string]float64, []FiredRule) {
	tokens := Tokenize(corpus)

	deltas := make(map[string]float64)
	var fired []FiredRule
	for _, rule := range rules {
		if _, ok := base[rule.RoleKey]; !ok {
			continue
		}
		if !matchesAny(tokens, rule.Keyword) {
			continue
		}
		deltas[rule.RoleKey] += rule.Delta
		fired = append(fired, FiredRule{Keyword: rule.Keyword, RoleKey: rule.RoleKey, Delta: rule.Delta})
	}

	// Global budget: scale all deltas proportionally.
	absSum := 0.0
	for _, d := range deltas {
		absSum += math.Abs(d)
	}
	if absSum > HeuristicBudget {
		scale := HeuristicBudget / absSum
		for key := range deltas {
			deltas[key] *= scale
		}
	}

	adjusted := make(map[string]float64, len(base))
	for key, w := range base {
		shift := deltas[key]
		if shift > HeuristicCap {
			shift = HeuristicCap
		} else if shift < -HeuristicCap {
			shift = -HeuristicCap
		}
		w += shift
		if w < 0 {
			w = 0
		} else if w > 1 {
			w = 1
		}
		adjusted[key] = w
	}

	return NormalizeWeights(adjusted), fired
}

// Tokenize lower-cases the corpus and folds punctuation into spaces,
// returning the resulting word tokens.
func Tokenize(corpus string) []string {
	folded := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r > 127 && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			// Localized keywords match case-insensitively too.
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, corpus)
	return strings.Fields(folded)
}

func matchesAny(tokens []string, keyword string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return false
	}
	for _, tok := range tokens {
		if tok == kw || strings.Contains(tok, kw) {
			return true
		}
	}
	return false
}
