package council

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/quorum/internal/pack"
	"github.com/hpungsan/quorum/internal/provider"
	"github.com/hpungsan/quorum/internal/roster"
)

// recordingClient wraps another client and captures each call's prompts.
type recordingClient struct {
	inner provider.Client
	calls []recordedCall
}

type recordedCall struct {
	System string
	User   string
	Role   string
}

func (r *recordingClient) Send(ctx context.Context, system, user string, params map[string]any) (*provider.Reply, error) {
	role, _ := params[provider.RoleParam].(string)
	r.calls = append(r.calls, recordedCall{System: system, User: user, Role: role})
	return r.inner.Send(ctx, system, user, params)
}

func councilTestPack() *pack.Pack {
	personaEntry := func(role, persona string, pos int) pack.Entry {
		return pack.Entry{
			Role:                role,
			SystemPrompt:        "You are the " + persona + ".",
			UserTemplate:        "Question: {{question}}\nContext: {{context}}",
			AllowedPlaceholders: []string{"question", "context"},
			Position:            pos,
		}
	}
	return &pack.Pack{
		Slug:    "decision-council",
		Locale:  "en",
		Version: 1,
		Entries: []pack.Entry{
			{Role: roster.RoleBase, SystemPrompt: "You sit on a decision council.", Position: 0},
			personaEntry(roster.RoleStrategist, "strategist", 1),
			personaEntry(roster.RoleFuturist, "futurist", 2),
			personaEntry(roster.RoleBehaviorist, "behaviorist", 3),
			{
				Role:                roster.RoleAdvisor,
				SystemPrompt:        "You are the advisor.",
				UserTemplate:        "Question: {{question}}\nPrior outputs: {{prior_outputs}}",
				AllowedPlaceholders: []string{"question", "context", "prior_outputs"},
				Position:            4,
			},
			{
				Role:                roster.RoleConsensus,
				SystemPrompt:        "Blend the council's views into one consensus.",
				UserTemplate:        "Question: {{question}}\nOutputs: {{role_outputs}}\nEmphasis: {{emphasis}}\nSignals:\n{{signals}}",
				AllowedPlaceholders: []string{"question", "context", "role_outputs", "emphasis", "signals"},
				Position:            5,
			},
		},
	}
}

func TestPlanSteps_AdvisorAlwaysLast(t *testing.T) {
	lineup := roster.Resolve(nil, []roster.RoleWeight{
		{RoleKey: roster.RoleAdvisor, Weight: 0.5, Position: 1},
		{RoleKey: roster.RoleStrategist, Weight: 0.5, Position: 2},
	})

	steps := PlanSteps(lineup)
	if len(steps) != 2 {
		t.Fatalf("steps = %v, want 2", steps)
	}
	if steps[0].Role != roster.RoleStrategist {
		t.Errorf("steps[0] = %s, want STRATEGIST", steps[0].Role)
	}
	if steps[1].Role != roster.RoleAdvisor || !steps[1].DependsOnPrior {
		t.Errorf("steps[1] = %+v, want dependent ADVISOR", steps[1])
	}
}

func TestDeliberate_DefaultOrderAndPriorEmbedding(t *testing.T) {
	rec := &recordingClient{inner: &provider.Mock{}}
	lineup := roster.Resolve(nil, nil)

	result := Deliberate(context.Background(), rec, councilTestPack(), DeliberateInput{
		Question: "Should we enter the US market?",
		Lineup:   lineup,
	})

	require.False(t, result.Fallback)
	require.Equal(t, provider.ModelMock, result.Model)
	require.Len(t, result.Outputs, 4)

	wantOrder := []string{roster.RoleStrategist, roster.RoleFuturist, roster.RoleBehaviorist, roster.RoleAdvisor}
	for i, role := range wantOrder {
		require.Equal(t, role, result.Outputs[i].Role)
		require.Equal(t, role, rec.calls[i].Role)
	}

	// The advisor prompt embeds the other three roles' raw outputs verbatim.
	advisorPrompt := rec.calls[3].User
	for i := 0; i < 3; i++ {
		require.Contains(t, advisorPrompt, string(result.Outputs[i].Raw),
			"advisor prompt missing %s raw output", result.Outputs[i].Role)
	}
}

func TestDeliberate_ProjectionPopulated(t *testing.T) {
	result := Deliberate(context.Background(), &provider.Mock{}, councilTestPack(), DeliberateInput{
		Question: "q",
		Lineup:   roster.Resolve(nil, nil),
	})

	for _, out := range result.Outputs[:3] {
		if out.Analysis == "" {
			t.Errorf("%s analysis projection empty", out.Role)
		}
		if len(out.Recommendations) == 0 {
			t.Errorf("%s recommendations projection empty", out.Role)
		}
	}
}

func TestDeliberate_MidBatchFailureAbandonsWholeBatch(t *testing.T) {
	// Role 2 (FUTURIST) fails: the persisted outputs must equal the fixed
	// fallback fixture, never a mix of live and fallback results.
	client := &provider.Mock{FailRole: roster.RoleFuturist}

	result := Deliberate(context.Background(), client, councilTestPack(), DeliberateInput{
		Question: "q",
		Lineup:   roster.Resolve(nil, nil),
	})

	require.True(t, result.Fallback)
	require.Equal(t, provider.ModelMockFallback, result.Model)

	want := FallbackOutputs()
	require.Len(t, result.Outputs, len(want))
	for i := range want {
		require.Equal(t, want[i].Role, result.Outputs[i].Role)
		require.JSONEq(t, string(want[i].Raw), string(result.Outputs[i].Raw))
	}
}

func TestDeliberate_MissingEntryFallsBack(t *testing.T) {
	p := councilTestPack()
	p.Entries = p.Entries[:2] // BASE + STRATEGIST only

	result := Deliberate(context.Background(), &provider.Mock{}, p, DeliberateInput{
		Question: "q",
		Lineup:   roster.Resolve(nil, nil),
	})

	if !result.Fallback {
		t.Error("compile failure should trigger the batch fallback")
	}
}

func TestFallbackOutputs_Deterministic(t *testing.T) {
	a := FallbackOutputs()
	b := FallbackOutputs()
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.Equal(t, string(a[i].Raw), string(b[i].Raw))
	}
	require.Equal(t, roster.RoleAdvisor, a[len(a)-1].Role)
}

func TestPreConsensusSignals_WeightScoringAndDedupe(t *testing.T) {
	outputs := []RoleOutput{
		{Role: roster.RoleStrategist, Recommendations: []string{"Run a pilot", "Cap the spend"}},
		{Role: roster.RoleFuturist, Recommendations: []string{"run a pilot", "Watch regulation"}},
	}
	weights := map[string]float64{
		roster.RoleStrategist: 0.6,
		roster.RoleFuturist:   0.4,
	}

	signals := PreConsensusSignals(outputs, weights)
	require.Len(t, signals, 3)

	// "Run a pilot" accumulates 0.6+0.4 = 1.0 and keeps first-seen casing.
	require.Equal(t, "Run a pilot", signals[0].Text)
	require.InDelta(t, 1.0, signals[0].Score, 1e-9)

	// Equal scores tie-break lexicographically... 0.6 > 0.4 here, so order
	// is by score: Cap the spend (0.6) before Watch regulation (0.4).
	require.Equal(t, "Cap the spend", signals[1].Text)
	require.Equal(t, "Watch regulation", signals[2].Text)
}

func TestPreConsensusSignals_LexTieBreakAndCap(t *testing.T) {
	var recs []string
	for _, s := range []string{"zeta option", "alpha option", "mid option"} {
		recs = append(recs, s)
	}
	outputs := []RoleOutput{{Role: roster.RoleStrategist, Recommendations: recs}}
	weights := map[string]float64{roster.RoleStrategist: 0.5}

	signals := PreConsensusSignals(outputs, weights)
	require.Equal(t, []string{"alpha option", "mid option", "zeta option"},
		[]string{signals[0].Text, signals[1].Text, signals[2].Text})

	// Cap at 12.
	many := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		many = append(many, strings.Repeat("x", i+1)+" unique rec")
	}
	signals = PreConsensusSignals([]RoleOutput{{Role: roster.RoleStrategist, Recommendations: many}}, weights)
	require.Len(t, signals, 12)
}

func TestSynthesize_EmbedsOutputsAndSignalsNotWeights(t *testing.T) {
	rec := &recordingClient{inner: &provider.Mock{V2: true}}
	outputs := FallbackOutputs()
	weights := map[string]float64{
		roster.RoleStrategist:  0.4,
		roster.RoleFuturist:    0.3,
		roster.RoleBehaviorist: 0.2,
		roster.RoleAdvisor:     0.1,
	}

	result := Synthesize(context.Background(), rec, councilTestPack(), SynthesizeInput{
		Question: "Should we enter the US market?",
		Outputs:  outputs,
		Weights:  weights,
	})

	require.False(t, result.Fallback)
	require.Len(t, rec.calls, 1)
	prompt := rec.calls[0].User

	for _, out := range outputs {
		require.Contains(t, prompt, string(out.Raw))
	}
	// Emphasis is a ranked role list; raw numbers never reach the model.
	require.Contains(t, prompt, "STRATEGIST > FUTURIST > BEHAVIORIST > ADVISOR")
	require.NotContains(t, prompt, "0.4")
	require.NotContains(t, prompt, "0.3")

	var obj map[string]any
	require.NoError(t, json.Unmarshal(result.Consensus, &obj))
	require.Contains(t, obj, "decision")
}

func TestSynthesize_FailureUsesLegacyFallback(t *testing.T) {
	client := &provider.Mock{FailRole: provider.ConsensusRole}

	result := Synthesize(context.Background(), client, councilTestPack(), SynthesizeInput{
		Question: "q",
		Outputs:  FallbackOutputs(),
		Weights:  map[string]float64{roster.RoleStrategist: 1},
	})

	require.True(t, result.Fallback)
	require.Equal(t, provider.ModelMockFallback, result.Model)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(result.Consensus, &obj))
	require.Contains(t, obj, "summary")
	require.Len(t, obj["risks"], 2)
	require.Contains(t, obj, "unanimous_recommendation")
}

func TestSynthesize_MissingConsensusEntryFallsBack(t *testing.T) {
	p := councilTestPack()
	p.Entries = p.Entries[:5] // drop CONSENSUS

	result := Synthesize(context.Background(), &provider.Mock{}, p, SynthesizeInput{
		Question: "q",
		Outputs:  FallbackOutputs(),
		Weights:  map[string]float64{roster.RoleStrategist: 1},
	})

	require.True(t, result.Fallback)
}
