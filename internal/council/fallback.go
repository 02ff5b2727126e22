package council

import (
	"encoding/json"

	"github.com/hpungsan/quorum/internal/roster"
)

// fallbackPayloads is the fixed four-role batch substituted when any live
// call fails. Content is deliberately generic: it keeps the session usable
// without pretending to be a real deliberation.
var fallbackPayloads = map[string]string{
	roster.RoleStrategist: `{
		"analysis": "The live council was unavailable; this is a standing strategic checklist.",
		"recommendations": [
			"Clarify the single decision being made and its deadline",
			"List the two or three options actually on the table",
			"Identify the constraint that binds first"
		]
	}`,
	roster.RoleFuturist: `{
		"analysis": "The live council was unavailable; consider the time horizon explicitly.",
		"recommendations": [
			"Write down what must be true in two years for this to pay off",
			"Name the trend most likely to invalidate the plan",
			"Schedule a horizon review before committing further"
		]
	}`,
	roster.RoleBehaviorist: `{
		"analysis": "The live council was unavailable; watch for decision-process bias.",
		"recommendations": [
			"Separate the decision owner from the delivery owner",
			"Precommit to review criteria before momentum builds",
			"Ask who disagrees and why before closing the question"
		]
	}`,
	roster.RoleAdvisor: `{
		"primary_recommendation": "Defer the final commitment until a live deliberation can run",
		"tradeoffs": [
			{"option": "Decide now", "upside": "momentum", "risk": "unexamined blind spots"},
			{"option": "Wait for the council", "upside": "fuller picture", "risk": "delay"}
		],
		"synthesis": [
			"Treat this output as a placeholder, not a recommendation",
			"Re-run the consultation when the provider is reachable"
		]
	}`,
}

// FallbackOutputs returns the deterministic four-role fallback batch.
func FallbackOutputs() []RoleOutput {
	keys := []string{roster.RoleStrategist, roster.RoleFuturist, roster.RoleBehaviorist, roster.RoleAdvisor}
	outputs := make([]RoleOutput, 0, len(keys))
	for _, role := range keys {
		raw := json.RawMessage(fallbackPayloads[role])
		analysis, recs := project(raw)
		outputs = append(outputs, RoleOutput{
			Role:            role,
			Raw:             raw,
			Analysis:        analysis,
			Recommendations: recs,
		})
	}
	return outputs
}

// FallbackConsensus returns the fixed legacy-shape consensus substituted
// when the synthesis call fails.
func FallbackConsensus() json.RawMessage {
	return json.RawMessage(`{
		"summary": "The consensus step could not reach the model; the individual role outputs above stand on their own.",
		"risks": [
			"This summary was generated without the synthesis step",
			"Role outputs may conflict without a blended resolution"
		],
		"unanimous_recommendation": "Re-run the consultation to obtain a synthesized consensus"
	}`)
}
