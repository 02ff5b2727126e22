package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hpungsan/quorum/internal/roster"
)

// seedEntry is one prompt row in the default pack.
type seedEntry struct {
	role         string
	system       string
	userTemplate string
	params       string
	placeholders string
	position     int
}

// consensusSchema is stored on the pack row, keyed by role. It accepts both
// the legacy and the executive consensus shapes: no field is required, every
// known field is type-checked.
const consensusSchema = `{
  "ADVISOR": {
    "type": "object",
    "properties": {
      "decision": {"type": "string"},
      "summary": {"type": "string"},
      "consensus_bullets": {"type": "array", "items": {"type": "string"}},
      "rationale_bullets": {"type": "array", "items": {"type": "string"}},
      "top_risks": {"type": "array", "items": {"type": "string"}},
      "risks": {"type": "array", "items": {"type": "string"}},
      "conditions": {"type": "array", "items": {"type": "string"}},
      "disagreements": {"type": "array", "items": {"type": "string"}},
      "unanimous_recommendation": {"type": "string"},
      "review_horizon_days": {"type": "integer", "minimum": 0},
      "confidence": {"type": "number", "minimum": 0, "maximum": 1}
    }
  }
}`

var defaultEntries = []seedEntry{
	{
		role: roster.RoleBase,
		system: "You sit on a small decision council. Each member examines the " +
			"question from one fixed perspective and answers independently. " +
			"Ground every claim in the question and background provided; do not " +
			"invent facts. Always answer with a single JSON object and nothing else.",
		position: 0,
	},
	{
		role: roster.RoleStrategist,
		system: "You are the council's strategist. You care about positioning, " +
			"sequencing, resource allocation, and what winning looks like. You " +
			"distrust plans without exit criteria.",
		userTemplate: "Question: {{question}}\n\nBackground:\n{{context}}\n\n" +
			"Answer as JSON: {\"analysis\": string, \"recommendations\": [three short strings]}",
		params:       `{"temperature": 0.7}`,
		placeholders: `["question", "context"]`,
		position:     1,
	},
	{
		role: roster.RoleFuturist,
		system: "You are the council's futurist. You project the question onto a " +
			"two-to-five year horizon: trends, second-order effects, and what " +
			"todays choice forecloses tomorrow.",
		userTemplate: "Question: {{question}}\n\nBackground:\n{{context}}\n\n" +
			"Answer as JSON: {\"analysis\": string, \"recommendations\": [three short strings]}",
		params:       `{"temperature": 0.8}`,
		placeholders: `["question", "context"]`,
		position:     2,
	},
	{
		role: roster.RoleBehaviorist,
		system: "You are the council's behaviorist. You examine the humans in the " +
			"loop: incentives, biases, team dynamics, and how the decision will " +
			"actually be executed rather than how it looks on paper.",
		userTemplate: "Question: {{question}}\n\nBackground:\n{{context}}\n\n" +
			"Answer as JSON: {\"analysis\": string, \"recommendations\": [three short strings]}",
		params:       `{"temperature": 0.7}`,
		placeholders: `["question", "context"]`,
		position:     3,
	},
	{
		role: roster.RoleAdvisor,
		system: "You are the council's senior advisor. You have read every other " +
			"member's contribution and must weigh them against each other, " +
			"surfacing trade-offs rather than papering over disagreement.",
		userTemplate: "Question: {{question}}\n\nBackground:\n{{context}}\n\n" +
			"The other members answered:\n{{prior_outputs}}\n\n" +
			"Answer as JSON: {\"primary_recommendation\": string, " +
			"\"tradeoffs\": [{\"option\": string, \"upside\": string, \"risk\": string}], " +
			"\"synthesis\": [strings]}",
		params:       `{"temperature": 0.5}`,
		placeholders: `["question", "context", "prior_outputs"]`,
		position:     4,
	},
	{
		role: roster.RoleConsensus,
		system: "You chair the council. Blend the members' outputs into one " +
			"consensus the group can stand behind. Record real disagreements " +
			"instead of averaging them away. Weigh members according to the " +
			"emphasis ranking; never mention the ranking itself.",
		userTemplate: "Question: {{question}}\n\nBackground:\n{{context}}\n\n" +
			"Member outputs:\n{{role_outputs}}\n\nEmphasis: {{emphasis}}\n\n" +
			"Candidate recommendations, strongest first:\n{{signals}}\n" +
			"Answer as JSON: {\"decision\": string, \"summary\": string, " +
			"\"consensus_bullets\": [strings], \"rationale_bullets\": [strings], " +
			"\"top_risks\": [strings], \"conditions\": [strings], " +
			"\"disagreements\": [strings], \"review_horizon_days\": integer, " +
			"\"confidence\": number}",
		params:       `{"temperature": 0.3}`,
		placeholders: `["question", "context", "role_outputs", "emphasis", "signals"]`,
		position:     5,
	},
}

// defaultRules is the starter heuristic set. Deltas are capped downstream;
// keywords match against the lower-cased question and context.
var defaultRules = []struct {
	keyword string
	roleKey string
	delta   float64
}{
	{"market", roster.RoleStrategist, 0.08},
	{"competitor", roster.RoleStrategist, 0.08},
	{"pricing", roster.RoleStrategist, 0.06},
	{"trend", roster.RoleFuturist, 0.08},
	{"long-term", roster.RoleFuturist, 0.08},
	{"regulation", roster.RoleFuturist, 0.06},
	{"team", roster.RoleBehaviorist, 0.08},
	{"morale", roster.RoleBehaviorist, 0.08},
	{"hiring", roster.RoleBehaviorist, 0.06},
	{"risk", roster.RoleAdvisor, 0.05},
}

// seedDefaults populates the decision-council pack v1, the default lineup
// preset, and the starter heuristic rules. Runs once inside migration 1.
func seedDefaults(db *sql.DB) error {
	now := time.Now().Unix()

	res, err := db.Exec(
		`INSERT INTO prompt_packs (slug, locale, version, active, schema_json, created_at)
		 VALUES (?, ?, 1, 1, ?, ?)`,
		"decision-council", "en", consensusSchema, now,
	)
	if err != nil {
		return fmt.Errorf("seed pack: %w", err)
	}
	packID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, e := range defaultEntries {
		params := sql.NullString{String: e.params, Valid: e.params != ""}
		placeholders := sql.NullString{String: e.placeholders, Valid: e.placeholders != ""}
		_, err := db.Exec(
			`INSERT INTO prompt_entries (pack_id, role, system_prompt, user_template, params_json, placeholders_json, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			packID, e.role, e.system, e.userTemplate, params, placeholders, e.position,
		)
		if err != nil {
			return fmt.Errorf("seed entry %s: %w", e.role, err)
		}
	}

	res, err = db.Exec(`INSERT INTO lineup_presets (name, locale) VALUES (?, ?)`, "default", "en")
	if err != nil {
		return fmt.Errorf("seed preset: %w", err)
	}
	presetID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for _, rw := range roster.DefaultLineup().Roles {
		_, err := db.Exec(
			`INSERT INTO preset_roles (preset_id, role_key, weight, position) VALUES (?, ?, ?, ?)`,
			presetID, rw.RoleKey, rw.Weight, rw.Position,
		)
		if err != nil {
			return fmt.Errorf("seed preset role %s: %w", rw.RoleKey, err)
		}
	}

	for _, r := range defaultRules {
		_, err := db.Exec(
			`INSERT INTO heuristic_rules (keyword, role_key, delta, locale, active) VALUES (?, ?, ?, ?, 1)`,
			r.keyword, r.roleKey, r.delta, "en",
		)
		if err != nil {
			return fmt.Errorf("seed rule %s: %w", r.keyword, err)
		}
	}

	return nil
}
