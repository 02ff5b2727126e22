package consensus

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema lookup keys inside a pack's stored schema object. CHAIRMAN is the
// legacy name for the synthesis role and survives in older packs.
const (
	schemaRoleKey      = "ADVISOR"
	schemaRoleFallback = "CHAIRMAN"
)

// Report is the outcome of validating one consensus artifact. Each pass
// records separately whether it ran and whether it passed, so callers see
// the full picture instead of the last pass silently overwriting earlier
// ones.
type Report struct {
	Shape         Shape `json:"shape"`
	SchemaChecked bool  `json:"schema_checked"`
	SchemaOK      bool  `json:"schema_ok"`
	ShapeChecked  bool  `json:"shape_checked"`
	ShapeOK       bool  `json:"shape_ok"`
}

// Validated is the flag persisted with the minutes record: the logical AND
// of every pass that ran.
func (r Report) Validated() bool {
	ok := true
	ran := false
	if r.SchemaChecked {
		ran = true
		ok = ok && r.SchemaOK
	}
	if r.ShapeChecked {
		ran = true
		ok = ok && r.ShapeOK
	}
	return ran && ok
}

// Validate runs both validation passes over a consensus artifact.
//
// Pass 1 compiles the pack's stored schema for the synthesis role and
// validates against it; if no schema is stored or compilation fails, a
// permissive structural check substitutes. Pass 2 runs only for
// executive-shaped artifacts and applies the fixed executive-shape check
// regardless of what the stored schema says.
func Validate(raw json.RawMessage, packSchemaJSON string) Report {
	report := Report{Shape: DetectShape(raw)}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		report.SchemaChecked = true
		report.SchemaOK = false
		return report
	}

	report.SchemaChecked = true
	if schema := compileRoleSchema(packSchemaJSON); schema != nil {
		inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		report.SchemaOK = err == nil && schema.Validate(inst) == nil
	} else {
		report.SchemaOK = structurallyPlausible(obj)
	}

	if report.Shape == ShapeExecutive {
		report.ShapeChecked = true
		report.ShapeOK = executiveConforms(obj)
	}

	return report
}

// compileRoleSchema extracts and compiles the synthesis role's schema from
// the pack's stored schema object. Returns nil when nothing usable exists.
func compileRoleSchema(packSchemaJSON string) *jsonschema.Schema {
	if strings.TrimSpace(packSchemaJSON) == "" {
		return nil
	}
	var byRole map[string]json.RawMessage
	if err := json.Unmarshal([]byte(packSchemaJSON), &byRole); err != nil {
		return nil
	}
	roleSchema, ok := byRole[schemaRoleKey]
	if !ok {
		roleSchema, ok = byRole[schemaRoleFallback]
	}
	if !ok {
		return nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(roleSchema))
	if err != nil {
		return nil
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("consensus.json", doc); err != nil {
		return nil
	}
	schema, err := compiler.Compile("consensus.json")
	if err != nil {
		return nil
	}
	return schema
}

// structurallyPlausible is the permissive fallback check: a string decision
// or summary, or any of the well-known bullet arrays. An empty decision or
// summary string does not count; a blank headline carries no consensus.
func structurallyPlausible(obj map[string]any) bool {
	if s, ok := obj["decision"].(string); ok && s != "" {
		return true
	}
	if s, ok := obj["summary"].(string); ok && s != "" {
		return true
	}
	for _, field := range []string{"consensus_bullets", "top_risks", "conditions"} {
		if isStringArray(obj[field]) {
			return true
		}
	}
	return false
}

// executiveConforms is the fixed executive-shape check: a headline string,
// well-typed bullet arrays, and sane numeric fields where present.
func executiveConforms(obj map[string]any) bool {
	decision, hasDecision := obj["decision"].(string)
	summary, hasSummary := obj["summary"].(string)
	if (!hasDecision || decision == "") && (!hasSummary || summary == "") {
		return false
	}

	for _, field := range []string{"consensus_bullets", "rationale_bullets", "top_risks", "conditions", "disagreements"} {
		if v, ok := obj[field]; ok && !isStringArray(v) {
			return false
		}
	}
	if v, ok := obj["review_horizon_days"]; ok {
		days, isNum := v.(float64)
		if !isNum || days < 0 {
			return false
		}
	}
	if v, ok := obj["confidence"]; ok {
		conf, isNum := v.(float64)
		if !isNum || conf < 0 || conf > 1 {
			return false
		}
	}
	return true
}

func isStringArray(v any) bool {
	items, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}
