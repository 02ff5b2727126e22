// Package council runs one deliberation: a sequence of persona calls
// followed by a consensus synthesis call, with all-or-nothing fallback when
// anything goes wrong mid-batch.
package council

import (
	"encoding/json"
	"sort"

	"github.com/hpungsan/quorum/internal/provider"
	"github.com/hpungsan/quorum/internal/roster"
)

// RoleOutput is one persona's contribution. Raw is preserved verbatim for
// later reinterpretation; Analysis and Recommendations are a lossy
// projection used for display and bullet derivation.
type RoleOutput struct {
	Role            string          `json:"role"`
	Raw             json.RawMessage `json:"raw"`
	Analysis        string          `json:"analysis"`
	Recommendations []string        `json:"recommendations"`
	LatencyMs       int64           `json:"latency_ms,omitempty"`
	Usage           provider.Usage  `json:"usage,omitempty"`
}

// Step is one planned provider call. DependsOnPrior declares that the
// step's prompt embeds every earlier step's raw output; the runner enforces
// the edge instead of trusting slice order at the call site.
type Step struct {
	Role           string
	Position       int
	DependsOnPrior bool
}

// PlanSteps turns a resolved lineup into an ordered step plan. Steps that
// depend on prior output are moved to the end regardless of their requested
// position, so a preset that accidentally puts the advisor first still
// executes correctly.
func PlanSteps(lineup roster.Lineup) []Step {
	steps := make([]Step, 0, len(lineup.Roles))
	for _, rw := range lineup.Roles {
		steps = append(steps, Step{
			Role:           rw.RoleKey,
			Position:       rw.Position,
			DependsOnPrior: roster.IsSynthesisRole(rw.RoleKey),
		})
	}
	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].DependsOnPrior != steps[j].DependsOnPrior {
			return !steps[i].DependsOnPrior
		}
		return steps[i].Position < steps[j].Position
	})
	return steps
}

// priorOutputsJSON serializes completed outputs for embedding into a
// dependent step's prompt. The raw payloads pass through verbatim.
func priorOutputsJSON(outputs []RoleOutput) string {
	type prior struct {
		Role string          `json:"role"`
		Raw  json.RawMessage `json:"raw"`
	}
	priors := make([]prior, 0, len(outputs))
	for _, out := range outputs {
		priors = append(priors, prior{Role: out.Role, Raw: out.Raw})
	}
	b, err := json.Marshal(priors)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// project derives the lossy analysis/recommendations view from raw output.
func project(raw json.RawMessage) (string, []string) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", nil
	}

	analysis, _ := obj["analysis"].(string)
	if analysis == "" {
		analysis, _ = obj["summary"].(string)
	}

	var recs []string
	if items, ok := obj["recommendations"].([]any); ok {
		for _, item := range items {
			if s, ok := item.(string); ok {
				recs = append(recs, s)
			}
		}
	}
	return analysis, recs
}
