// Package consensus classifies and validates the synthesized consensus
// artifact. Two shapes are accepted: the legacy {summary, risks,
// unanimous_recommendation} object and the richer "executive" object. The
// model never tags its output with a version; the shape is detected from
// the fields present.
package consensus

import "encoding/json"

// Shape identifies which consensus layout an artifact follows.
type Shape string

const (
	ShapeLegacy    Shape = "legacy"
	ShapeExecutive Shape = "executive"
)

// executiveFields are the signals that only appear in the executive shape.
// Any one of them classifies the artifact as executive, even without a
// decision field.
var executiveFields = []string{
	"decision",
	"consensus_bullets",
	"rationale_bullets",
	"top_risks",
	"conditions",
	"disagreements",
	"review_horizon_days",
	"confidence",
	"source_map",
}

// DetectShape classifies a consensus artifact.
func DetectShape(raw json.RawMessage) Shape {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ShapeLegacy
	}
	return detectShapeObj(obj)
}

func detectShapeObj(obj map[string]any) Shape {
	for _, field := range executiveFields {
		if _, ok := obj[field]; ok {
			return ShapeExecutive
		}
	}
	return ShapeLegacy
}
