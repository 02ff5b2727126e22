package council

import (
	"context"
	"fmt"

	"github.com/hpungsan/quorum/internal/pack"
	"github.com/hpungsan/quorum/internal/provider"
	"github.com/hpungsan/quorum/internal/roster"
)

// Deliberation is the result of running the full role batch.
type Deliberation struct {
	Outputs  []RoleOutput
	Model    string
	Fallback bool
}

// DeliberateInput carries the request payload into the role batch.
type DeliberateInput struct {
	Question string
	Context  string
	Lineup   roster.Lineup
}

// Deliberate invokes every role in the lineup strictly in plan order. The
// synthesis-dependent step's prompt embeds all prior raw outputs, which is
// why execution is sequential rather than parallel. Any failure anywhere in
// the batch (compile, provider, or parse) abandons the whole batch in favor
// of the fixed fallback set; a single role is never retried or substituted
// in isolation.
func Deliberate(ctx context.Context, client provider.Client, p *pack.Pack, in DeliberateInput) *Deliberation {
	steps := PlanSteps(in.Lineup)

	outputs, model, err := runSteps(ctx, client, p, steps, in)
	if err != nil {
		return &Deliberation{
			Outputs:  FallbackOutputs(),
			Model:    provider.ModelMockFallback,
			Fallback: true,
		}
	}
	return &Deliberation{Outputs: outputs, Model: model}
}

func runSteps(ctx context.Context, client provider.Client, p *pack.Pack, steps []Step, in DeliberateInput) ([]RoleOutput, string, error) {
	outputs := make([]RoleOutput, 0, len(steps))
	model := ""

	for i, step := range steps {
		if step.DependsOnPrior && i != len(outputs) {
			// The plan guarantees this; a violation means the plan was
			// tampered with after construction.
			return nil, "", fmt.Errorf("step %s depends on prior outputs but %d of %d are complete", step.Role, len(outputs), i)
		}

		data := map[string]string{
			"question": in.Question,
			"context":  in.Context,
		}
		if step.DependsOnPrior {
			data["prior_outputs"] = priorOutputsJSON(outputs)
		}

		compiled, err := pack.CompileForRole(p, step.Role, data)
		if err != nil {
			return nil, "", err
		}

		params := make(map[string]any, len(compiled.Params)+1)
		for k, v := range compiled.Params {
			params[k] = v
		}
		params[provider.RoleParam] = step.Role

		reply, err := client.Send(ctx, compiled.System, compiled.User, params)
		if err != nil {
			return nil, "", err
		}

		analysis, recs := project(reply.Data)
		outputs = append(outputs, RoleOutput{
			Role:            step.Role,
			Raw:             reply.Data,
			Analysis:        analysis,
			Recommendations: recs,
			LatencyMs:       reply.LatencyMs,
			Usage:           reply.Usage,
		})
		model = reply.Model
	}

	return outputs, model, nil
}
