package consensus

import (
	"encoding/json"
	"testing"
)

func TestDetectShape_Legacy(t *testing.T) {
	raw := json.RawMessage(`{"summary": "Do the pilot", "risks": ["runway"], "unanimous_recommendation": "pilot"}`)
	if got := DetectShape(raw); got != ShapeLegacy {
		t.Errorf("DetectShape = %q, want legacy", got)
	}
}

func TestDetectShape_ExecutiveByDecision(t *testing.T) {
	raw := json.RawMessage(`{"decision": "GO", "summary": "Proceed"}`)
	if got := DetectShape(raw); got != ShapeExecutive {
		t.Errorf("DetectShape = %q, want executive", got)
	}
}

func TestDetectShape_ReviewHorizonAloneIsExecutive(t *testing.T) {
	// A v2-only field without a decision still classifies as executive.
	raw := json.RawMessage(`{"summary": "Proceed", "review_horizon_days": 90}`)
	if got := DetectShape(raw); got != ShapeExecutive {
		t.Errorf("DetectShape = %q, want executive", got)
	}
}

const advisorSchema = `{
	"ADVISOR": {
		"type": "object",
		"required": ["summary"],
		"properties": {
			"summary": {"type": "string"},
			"decision": {"type": "string"},
			"top_risks": {"type": "array", "items": {"type": "string"}}
		}
	}
}`

func TestValidate_SchemaPass(t *testing.T) {
	raw := json.RawMessage(`{"summary": "Proceed with the pilot"}`)
	report := Validate(raw, advisorSchema)

	if !report.SchemaChecked || !report.SchemaOK {
		t.Errorf("schema pass = checked:%v ok:%v, want both true", report.SchemaChecked, report.SchemaOK)
	}
	if report.ShapeChecked {
		t.Error("shape pass should not run for a legacy artifact")
	}
	if !report.Validated() {
		t.Error("Validated() = false, want true")
	}
}

func TestValidate_SchemaFailure(t *testing.T) {
	raw := json.RawMessage(`{"decision": "GO"}`) // missing required summary
	report := Validate(raw, advisorSchema)

	if report.SchemaOK {
		t.Error("SchemaOK = true, want false for missing required field")
	}
	if report.Validated() {
		t.Error("Validated() = true, want false")
	}
}

func TestValidate_ChairmanFallbackKey(t *testing.T) {
	schema := `{"CHAIRMAN": {"type": "object", "required": ["summary"]}}`
	raw := json.RawMessage(`{"summary": "Proceed"}`)
	report := Validate(raw, schema)

	if !report.SchemaOK {
		t.Error("CHAIRMAN fallback schema key not used")
	}
}

func TestValidate_NoSchemaPermissiveFallback(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{"summary string", `{"summary": "ok"}`, true},
		{"decision string", `{"decision": "GO"}`, true},
		{"top_risks strings", `{"top_risks": ["a", "b"]}`, true},
		{"conditions strings", `{"conditions": ["a"]}`, true},
		{"nothing usable", `{"foo": 42}`, false},
		{"summary wrong type", `{"summary": 42}`, false},
		{"summary empty string", `{"summary": ""}`, false},
		{"decision empty string", `{"decision": ""}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := Validate(json.RawMessage(tc.raw), "")
			if report.SchemaOK != tc.want {
				t.Errorf("SchemaOK = %v, want %v", report.SchemaOK, tc.want)
			}
		})
	}
}

func TestValidate_UncompilableSchemaFallsBack(t *testing.T) {
	report := Validate(json.RawMessage(`{"summary": "ok"}`), `{not json`)
	if !report.SchemaChecked || !report.SchemaOK {
		t.Error("uncompilable schema should fall back to the permissive check")
	}
}

func TestValidate_ExecutiveShapePass(t *testing.T) {
	raw := json.RawMessage(`{
		"decision": "PROCEED_WITH_CONDITIONS",
		"summary": "Pilot first",
		"consensus_bullets": ["Pilot first", "Review gate"],
		"review_horizon_days": 90,
		"confidence": 0.7
	}`)
	report := Validate(raw, "")

	if !report.ShapeChecked || !report.ShapeOK {
		t.Errorf("shape pass = checked:%v ok:%v, want both true", report.ShapeChecked, report.ShapeOK)
	}
	if !report.Validated() {
		t.Error("Validated() = false, want true")
	}
}

func TestValidate_ExecutiveShapeViolations(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"bullets wrong type", `{"decision": "GO", "consensus_bullets": [1, 2]}`},
		{"no headline", `{"review_horizon_days": 30}`},
		{"negative horizon", `{"decision": "GO", "review_horizon_days": -1}`},
		{"confidence out of range", `{"decision": "GO", "confidence": 1.5}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := Validate(json.RawMessage(tc.raw), "")
			if !report.ShapeChecked {
				t.Fatal("shape pass did not run for executive artifact")
			}
			if report.ShapeOK {
				t.Error("ShapeOK = true, want false")
			}
			if report.Validated() {
				t.Error("Validated() = true, want false")
			}
		})
	}
}

func TestValidate_PassesDisagreeMeansNotValidated(t *testing.T) {
	// Schema accepts any object with a summary; shape check rejects the
	// ill-typed bullets. The persisted flag must reflect both passes.
	raw := json.RawMessage(`{"summary": "ok", "consensus_bullets": [1]}`)
	report := Validate(raw, advisorSchema)

	if !report.SchemaOK {
		t.Error("SchemaOK = false, want true (schema has no bullets constraint)")
	}
	if report.ShapeOK {
		t.Error("ShapeOK = true, want false")
	}
	if report.Validated() {
		t.Error("Validated() must AND both passes")
	}
}

func TestValidate_GarbageInput(t *testing.T) {
	report := Validate(json.RawMessage(`not json at all`), advisorSchema)
	if report.SchemaOK || report.Validated() {
		t.Error("garbage input must not validate")
	}
}
