package workflow

import (
	"context"
	"time"

	"github.com/iotrisk/orchestrator/internal/audit"
	"github.com/iotrisk/orchestrator/internal/llmfactory"
	"github.com/iotrisk/orchestrator/internal/model"
)

// ChallengerC is the compliance challenger: it evaluates the synthesized
// draft's reasoning against an opaque reference set of regulatory
// checkpoints supplied via the prompt, accepting when major checkpoints
// are addressed and downgrading minor omissions to needs_review rather
// than reject.
type ChallengerC struct {
	Factory              *llmfactory.Factory
	Recorder             *audit.Recorder
	Prompts              PromptBuilder
	ComplianceReference  string
	Provider             string
	Model                string
	Temperature          float64
	Timeout              time.Duration
}

func (c *ChallengerC) Name() string { return "challenger_c" }

func (c *ChallengerC) Run(ctx context.Context, s model.State) (stateDelta, error) {
	critique := runChallenger(ctx, model.ChallengerC, s, c.Factory, c.Recorder,
		c.Provider, c.Model, c.Temperature, c.Timeout,
		func(draft model.RiskAssessment) string {
			return c.Prompts.ChallengerCPrompt(draft, c.ComplianceReference)
		})
	return appendCritique(critique), nil
}
