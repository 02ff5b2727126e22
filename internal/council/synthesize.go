package council

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hpungsan/quorum/internal/pack"
	"github.com/hpungsan/quorum/internal/provider"
	"github.com/hpungsan/quorum/internal/roster"
)

// Synthesis is the result of the final blending call.
type Synthesis struct {
	Consensus json.RawMessage
	Model     string
	Fallback  bool
}

// SynthesizeInput carries everything the consensus prompt embeds.
type SynthesizeInput struct {
	Question string
	Context  string
	Outputs  []RoleOutput
	Weights  map[string]float64
}

// Synthesize compiles the CONSENSUS pack entry with the prior role outputs,
// a qualitative emphasis ordering, and the pre-consensus signal list, then
// sends one more provider call. Numeric weights order the material but are
// never written into the prompt. On any failure the fixed legacy-shape
// fallback substitutes and the session still completes.
func Synthesize(ctx context.Context, client provider.Client, p *pack.Pack, in SynthesizeInput) *Synthesis {
	signals := PreConsensusSignals(in.Outputs, in.Weights)

	data := map[string]string{
		"question":     in.Question,
		"context":      in.Context,
		"role_outputs": priorOutputsJSON(in.Outputs),
		"emphasis":     emphasisOrder(in.Weights),
		"signals":      renderSignals(signals),
	}

	compiled, err := pack.CompileForRole(p, roster.RoleConsensus, data)
	if err != nil {
		return &Synthesis{Consensus: FallbackConsensus(), Model: provider.ModelMockFallback, Fallback: true}
	}

	params := make(map[string]any, len(compiled.Params)+1)
	for k, v := range compiled.Params {
		params[k] = v
	}
	params[provider.RoleParam] = provider.ConsensusRole

	reply, err := client.Send(ctx, compiled.System, compiled.User, params)
	if err != nil {
		return &Synthesis{Consensus: FallbackConsensus(), Model: provider.ModelMockFallback, Fallback: true}
	}

	// The reply is accepted as-is: legacy and executive shapes are both
	// valid and get distinguished later by shape detection.
	return &Synthesis{Consensus: reply.Data, Model: reply.Model}
}

// emphasisOrder renders the weight map as a ranked role list without
// exposing the numbers themselves.
func emphasisOrder(weights map[string]float64) string {
	type rw struct {
		role   string
		weight float64
	}
	ranked := make([]rw, 0, len(weights))
	for role, weight := range weights {
		ranked = append(ranked, rw{role, weight})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].role < ranked[j].role
	})

	names := make([]string, 0, len(ranked))
	for _, r := range ranked {
		names = append(names, r.role)
	}
	return strings.Join(names, " > ")
}

func renderSignals(signals []Signal) string {
	var b strings.Builder
	for i, s := range signals {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Text)
	}
	return b.String()
}
