package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/llm"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
)

// Plan is the planner's structured output.
type Plan struct {
	Category             Category `json:"category"`
	RecommendedProviders []string `json:"recommended_providers"`
	Reason               string   `json:"reason"`
}

// FallbackPlan is the documented fallback used whenever the model's
// output cannot be parsed as a Plan.
func FallbackPlan(serpAPIConfigured bool) Plan {
	provider := "web_search_generic"
	if serpAPIConfigured {
		provider = "serpapi"
	}
	return Plan{
		Category:             CategoryGeneric,
		RecommendedProviders: []string{provider},
		Reason:               "fallback",
	}
}

// Planner chooses a tool category and recommended providers for a query.
type Planner struct {
	llmClient llm.Client
	registry  *Registry
	model     string
	logger    zerolog.Logger
}

// NewPlanner constructs a Planner.
func NewPlanner(llmClient llm.Client, registry *Registry, model string) *Planner {
	return &Planner{
		llmClient: llmClient,
		registry:  registry,
		model:     model,
		logger:    util.NewLogger(zerolog.ErrorLevel),
	}
}

// Plan builds a prompt enumerating the catalog categories and the
// already-configured providers, asks the model for a single JSON object,
// and parses it robustly: any parse failure returns the documented
// fallback rather than propagating an error. An empty
// RecommendedProviders is a valid, meaningful planner output — it means
// "answer likely available internally, skip tools".
func (p *Planner) Plan(ctx context.Context, query string) Plan {
	prompt := p.buildPrompt(query)

	raw := p.llmClient.Call(ctx, prompt, p.model, 0.0)
	plan, ok := parsePlan(raw)
	if !ok {
		p.logger.Warn().Str("raw", raw).Msg("planner: could not parse model output, using fallback")
		return FallbackPlan(p.serpAPIConfigured())
	}
	return plan
}

func (p *Planner) serpAPIConfigured() bool {
	return p.registry != nil && p.registry.IsReady("serpapi")
}

func (p *Planner) buildPrompt(query string) string {
	var b strings.Builder
	b.WriteString("You are a BFSI (Banking, Financial Services, Insurance) research assistant ")
	b.WriteString("deciding which external tool category, if any, would help answer a question.\n\n")

	b.WriteString("Tool categories:\n")
	for _, cat := range Categories() {
		fmt.Fprintf(&b, "- %s\n", cat)
	}

	b.WriteString("\nConfigured providers (only these can actually be used):\n")
	if p.registry != nil {
		for _, id := range p.registry.ConfiguredProviderIDs() {
			fmt.Fprintf(&b, "- %s (ready: %t)\n", id, p.registry.IsReady(id))
		}
	}

	b.WriteString("\nReturn exactly one JSON object with fields \"category\", ")
	b.WriteString("\"recommended_providers\", and \"reason\". recommended_providers may be an ")
	b.WriteString("empty list if the question is likely answerable from the document alone.\n\n")
	fmt.Fprintf(&b, "QUESTION: %s\n", query)

	return b.String()
}

func parsePlan(raw string) (Plan, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return Plan{}, false
	}

	var plan Plan
	if err := json.Unmarshal([]byte(raw[start:end+1]), &plan); err != nil {
		return Plan{}, false
	}
	if plan.Category == "" {
		return Plan{}, false
	}

	return plan, true
}
