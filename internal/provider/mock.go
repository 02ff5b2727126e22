package provider

import (
	"context"
	"encoding/json"
	"fmt"
)

// RoleParam is the params key the orchestrator sets so a mock can answer
// in character. The live client ignores it.
const RoleParam = "role"

// ConsensusRole is the RoleParam value for the synthesis call.
const ConsensusRole = "CONSENSUS"

// Mock is a deterministic offline Client. V2 switches the consensus reply to
// the executive shape. FailRole, when set, makes the call for that role
// error, which exercises the orchestrator's all-or-nothing fallback.
type Mock struct {
	V2       bool
	FailRole string
}

// Send returns a canned, role-appropriate reply. Responses are wrapped in
// prose on purpose: parsing must survive non-JSON framing.
func (m *Mock) Send(_ context.Context, _, _ string, params map[string]any) (*Reply, error) {
	role, _ := params[RoleParam].(string)
	if m.FailRole != "" && role == m.FailRole {
		return nil, fmt.Errorf("mock provider configured to fail for role %s", role)
	}

	payload := m.payloadFor(role)
	raw, _ := json.Marshal(payload)
	text := "Here is my take:\n" + string(raw) + "\nEnd of response."

	data, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	return &Reply{
		Data:      data,
		Text:      text,
		Usage:     Usage{PromptTokens: 128, CompletionTokens: 96},
		LatencyMs: 1,
		Model:     ModelMock,
	}, nil
}

func (m *Mock) payloadFor(role string) map[string]any {
	switch role {
	case "STRATEGIST":
		return map[string]any{
			"analysis": "Market position is defensible but capital intensity is high.",
			"recommendations": []string{
				"Sequence the launch behind one lighthouse customer",
				"Cap the initial spend at one quarter of runway",
				"Define exit criteria before committing",
			},
		}
	case "FUTURIST":
		return map[string]any{
			"analysis": "The category is consolidating; a two-year window remains open.",
			"recommendations": []string{
				"Price for the market of 2027, not today",
				"Watch regulatory drift in the target region quarterly",
				"Build optionality into vendor contracts",
			},
		}
	case "BEHAVIORIST":
		return map[string]any{
			"analysis": "Team appetite for the move is real but loss aversion will surface at the first setback.",
			"recommendations": []string{
				"Precommit to a review date to counter sunk-cost pressure",
				"Separate the decision owner from the delivery owner",
				"Make the reversal path explicit and cheap",
			},
		}
	case "ADVISOR":
		return map[string]any{
			"primary_recommendation": "Enter with a bounded pilot rather than a full commitment",
			"tradeoffs": []map[string]any{
				{"option": "Full entry", "upside": "first-mover share", "risk": "runway exposure"},
				{"option": "Pilot", "upside": "cheap learning", "risk": "slower land-grab"},
			},
			"synthesis": []string{
				"Run a 90-day pilot with one anchor customer",
				"Hold a go/no-go review with fixed criteria",
			},
		}
	case ConsensusRole:
		if m.V2 {
			return map[string]any{
				"decision":            "PROCEED_WITH_CONDITIONS",
				"summary":             "Enter via a bounded pilot; commit fully only after the review gate.",
				"consensus_bullets":   []string{"Pilot first", "Fixed review gate", "Bounded spend"},
				"rationale_bullets":   []string{"Window is open but not urgent", "Team bias needs a precommitted checkpoint"},
				"top_risks":           []string{"Runway exposure", "Regulatory drift"},
				"conditions":          []string{"Anchor customer signed", "Spend cap honored"},
				"disagreements":       []string{},
				"review_horizon_days": 90,
				"confidence":          0.72,
				"source_map":          map[string]any{"Pilot first": []string{"STRATEGIST", "ADVISOR"}},
			}
		}
		return map[string]any{
			"summary": "The council favors a bounded pilot before any full commitment.",
			"risks":   []string{"Runway exposure", "Regulatory drift"},
			"unanimous_recommendation": "Run a 90-day pilot with explicit exit criteria",
		}
	default:
		return map[string]any{
			"analysis":        "No perspective registered for this role.",
			"recommendations": []string{"Review the lineup configuration"},
		}
	}
}
