package generate

import (
	"context"
	"fmt"
	"strings"

	"springnorm/internal/logging"
	"springnorm/internal/sequence"
	"springnorm/internal/specs"
)

// systemPrompt instructs the provider on the output contract. The parser
// tolerates deviations, but asking for the contract up front keeps the happy
// path cheap.
const systemPrompt = `You are an assistant that designs test sequences for spring force testing machines.

When the user asks for a test sequence, respond with conversational text plus a data block:

---SEQUENCE_DATA_START---
[{"Row": "R00", "CMD": "ZF", "Description": "Zero Force", "Condition": "", "Unit": "", "Tolerance": "", "Speed rpm": ""}]
---SEQUENCE_DATA_END---

Rules:
- The data block is a JSON array of objects with exactly these keys: Row, CMD, Description, Condition, Unit, Tolerance, Speed rpm.
- Valid commands: ZF, ZD, TH, Mv(P), Calc, TD, PMsg, Fr(P), FL(P), Scrag, SR, PkF, PkP, Po(F), Po(PkF), Mv(F), PUi, LP.
- Tolerance format: value(min,max), for example 23.6(21.24,25.96).
- Scrag conditions reference an earlier row as R<row>,<count>, for example R03,2.
- When the user asks a question that needs no sequence, reply with plain text and no data block.`

// Result is what an asynchronous generation delivers.
type Result struct {
	Block  *sequence.SequenceBlock
	Speeds specs.Speeds
	Err    error
}

// Generator drives one provider with one spring specification.
type Generator struct {
	provider Provider
	spec     SpringSpecification
}

// NewGenerator creates a generator for the given provider and specification.
func NewGenerator(provider Provider, spec SpringSpecification) *Generator {
	return &Generator{provider: provider, spec: spec}
}

// Spec returns the specification the generator prompts with.
func (g *Generator) Spec() SpringSpecification { return g.spec }

// Generate sends the user's request with the specification as context,
// parses the response, and attaches advisory speeds. The provider call is
// the only thing that can fail; parsing never does.
func (g *Generator) Generate(ctx context.Context, userPrompt string) (*sequence.SequenceBlock, specs.Speeds, error) {
	speeds := specs.OptimalSpeeds(g.spec.Geometry())

	prompt := userPrompt
	if spec := strings.TrimSpace(g.spec.PromptText()); spec != "" {
		prompt = spec + "\n\n" + userPrompt
	}
	prompt += fmt.Sprintf(
		"\n\nRecommended machine settings: threshold speed %d rpm, movement speed %d rpm, contact force %d N.",
		speeds.ThresholdSpeed, speeds.MovementSpeed, speeds.ContactForce)

	raw, err := g.provider.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		logging.GenerateError("provider call failed: %v", err)
		return nil, speeds, err
	}

	block := sequence.Dispatch(sequence.SanitizeResponse(raw))
	logging.Generate("generated block %s: %d rows", block.ID, len(block.Rows))
	return block, speeds, nil
}

// GenerateAsync runs Generate on a background goroutine and delivers the
// result on the returned channel. Cancel the context to abandon the call;
// the channel is buffered so the worker never blocks on delivery.
func (g *Generator) GenerateAsync(ctx context.Context, userPrompt string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		block, speeds, err := g.Generate(ctx, userPrompt)
		out <- Result{Block: block, Speeds: speeds, Err: err}
	}()
	return out
}
