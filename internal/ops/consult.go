package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/hpungsan/quorum/internal/audit"
	"github.com/hpungsan/quorum/internal/bullets"
	"github.com/hpungsan/quorum/internal/config"
	"github.com/hpungsan/quorum/internal/consensus"
	"github.com/hpungsan/quorum/internal/council"
	"github.com/hpungsan/quorum/internal/db"
	"github.com/hpungsan/quorum/internal/errors"
	"github.com/hpungsan/quorum/internal/minutes"
	"github.com/hpungsan/quorum/internal/provider"
	"github.com/hpungsan/quorum/internal/roster"
)

// ConsultInput contains parameters for the Consult operation.
type ConsultInput struct {
	Question    string
	Context     string
	Preset      string              // named lineup preset, optional
	Roles       []roster.RoleWeight // custom lineup, used when no preset
	PackSlug    string              // defaults from config
	Locale      string              // defaults from config
	PackVersion int                 // 0 = active version
	Mock        bool                // deterministic offline provider
	MockV2      bool                // mock with executive-shape consensus
}

// ConsultOutput contains the result of the Consult operation.
type ConsultOutput struct {
	ID             string            `json:"id"`
	Consensus      json.RawMessage   `json:"consensus"`
	AdvisorBullets []string          `json:"advisor_bullets"`
	Validated      bool              `json:"validated"`
	Fallback       bool              `json:"fallback"`
	FiredRules     []roster.FiredRule `json:"fired_rules,omitempty"`
	Repro          Repro             `json:"repro"`
}

// Consult runs one full deliberation session: resolve the lineup, load the
// pinned pack, run every role, adjust weights from the question corpus,
// synthesize a consensus, validate it, derive display bullets, and persist
// the whole session as an immutable record.
func Consult(ctx context.Context, database *sql.DB, cfg *config.Config, deps Deps, input ConsultInput) (*ConsultOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, errors.NewInvalidRequest("question must not be empty")
	}

	if err := deps.Gate.Allow(ctx, "consult"); err != nil {
		return nil, err
	}

	slug := input.PackSlug
	if slug == "" {
		slug = cfg.PackSlug
	}
	locale := input.Locale
	if locale == "" {
		locale = cfg.PackLocale
	}

	var presetRoles []roster.RoleWeight
	if input.Preset != "" {
		var err error
		presetRoles, err = db.GetPreset(database, input.Preset, locale)
		if err != nil {
			return nil, err
		}
	}
	lineup := roster.Resolve(presetRoles, input.Roles)

	client := deps.Client
	if input.Mock || input.MockV2 {
		client = &provider.Mock{V2: input.MockV2}
	}

	p, hash, err := deps.Cache.Get(slug, locale, input.PackVersion)
	if err != nil {
		return nil, err
	}

	delib := council.Deliberate(ctx, client, p, council.DeliberateInput{
		Question: question,
		Context:  input.Context,
		Lineup:   lineup,
	})

	rules, err := db.ListHeuristicRules(database, locale)
	if err != nil {
		return nil, err
	}
	weights, fired := roster.ApplyHeuristics(lineup.WeightMap(), question+" "+input.Context, rules)

	synth := council.Synthesize(ctx, client, p, council.SynthesizeInput{
		Question: question,
		Context:  input.Context,
		Outputs:  delib.Outputs,
		Weights:  weights,
	})

	report := consensus.Validate(synth.Consensus, p.SchemaJSON)

	advisorBullets := deriveAdvisorBullets(delib.Outputs)

	fallback := delib.Fallback || synth.Fallback
	model := delib.Model
	if fallback {
		model = provider.ModelMockFallback
	}

	id, err := minutes.NewID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	outputsJSON, err := json.Marshal(delib.Outputs)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	lineupJSON, err := json.Marshal(adjustedLineup(lineup, weights))
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	record := &minutes.Minutes{
		ID:                 id,
		Question:           question,
		RoleOutputs:        outputsJSON,
		Consensus:          synth.Consensus,
		AdvisorBullets:     advisorBullets,
		Lineup:             lineupJSON,
		PackSlug:           p.Slug,
		PackLocale:         p.Locale,
		PackVersion:        p.Version,
		PackHash:           hash,
		Model:              model,
		ConsensusValidated: report.Validated(),
		CreatedAt:          time.Now().Unix(),
	}
	if c := strings.TrimSpace(input.Context); c != "" {
		record.Context = &c
	}

	if err := db.InsertMinutes(database, record); err != nil {
		return nil, err
	}

	event := audit.EventConsult
	if fallback {
		event = audit.EventConsultFallback
	}
	_ = audit.Record(database, event, map[string]any{
		"id": id, "model": model, "validated": report.Validated(),
	})

	return &ConsultOutput{
		ID:             id,
		Consensus:      synth.Consensus,
		AdvisorBullets: advisorBullets,
		Validated:      report.Validated(),
		Fallback:       fallback,
		FiredRules:     fired,
		Repro: Repro{
			PackSlug:    p.Slug,
			PackLocale:  p.Locale,
			PackVersion: p.Version,
			PackHash:    hash,
			Model:       model,
		},
	}, nil
}

// deriveAdvisorBullets prefers the synthesis role's output; when a lineup
// runs without one, the last persona's output feeds the chain instead.
func deriveAdvisorBullets(outputs []council.RoleOutput) []string {
	for i := len(outputs) - 1; i >= 0; i-- {
		if roster.IsSynthesisRole(outputs[i].Role) {
			return bullets.Derive(outputs[i].Role, outputs[i].Raw)
		}
	}
	if len(outputs) == 0 {
		return bullets.Derive("", nil)
	}
	last := outputs[len(outputs)-1]
	return bullets.Derive(last.Role, last.Raw)
}

// adjustedLineup rewrites the resolved lineup with the post-heuristic
// weights so the persisted record reflects what synthesis actually used.
func adjustedLineup(lineup roster.Lineup, weights map[string]float64) []roster.RoleWeight {
	roles := make([]roster.RoleWeight, 0, len(lineup.Roles))
	for _, rw := range lineup.Roles {
		if w, ok := weights[rw.RoleKey]; ok {
			rw.Weight = w
		}
		roles = append(roles, rw)
	}
	return roles
}
