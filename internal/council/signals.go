package council

import (
	"sort"
	"strings"
)

// maxSignals caps the pre-consensus candidate list embedded in the
// synthesis prompt.
const maxSignals = 12

// Signal is one weight-scored candidate recommendation drawn from the role
// outputs. Score stays internal; only the ordered texts reach the model.
type Signal struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// PreConsensusSignals collects candidate recommendations across all role
// outputs, deduplicates them case-insensitively while accumulating each
// contributing role's weight, and returns up to maxSignals ordered by
// aggregate weight descending with lexicographic tie-break.
func PreConsensusSignals(outputs []RoleOutput, weights map[string]float64) []Signal {
	type bucket struct {
		text  string
		score float64
	}
	buckets := make(map[string]*bucket)

	for _, out := range outputs {
		weight := weights[out.Role]
		for _, rec := range out.Recommendations {
			text := strings.TrimSpace(rec)
			if text == "" {
				continue
			}
			key := strings.ToLower(text)
			if b, ok := buckets[key]; ok {
				b.score += weight
			} else {
				buckets[key] = &bucket{text: text, score: weight}
			}
		}
	}

	signals := make([]Signal, 0, len(buckets))
	for _, b := range buckets {
		signals = append(signals, Signal{Text: b.text, Score: b.score})
	}
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].Score != signals[j].Score {
			return signals[i].Score > signals[j].Score
		}
		return signals[i].Text < signals[j].Text
	})

	if len(signals) > maxSignals {
		signals = signals[:maxSignals]
	}
	return signals
}
