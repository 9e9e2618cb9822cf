// Package toolagent composes the planner, credential resolver, and
// executor into the single call a query needs: plan, resolve
// credentials, execute, and return both the snippets and their
// concatenation as a convenience text block. Any internal failure
// degrades to ("", nil) rather than propagating.
package toolagent

import (
	"context"
	"strings"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/tools"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
)

// Agent composes tools.Planner, tools.CredentialResolver, and
// tools.Executor.
type Agent struct {
	planner  *tools.Planner
	resolver *tools.CredentialResolver
	executor *tools.Executor
	logger   zerolog.Logger
}

// NewAgent constructs a tool agent.
func NewAgent(planner *tools.Planner, resolver *tools.CredentialResolver, executor *tools.Executor) *Agent {
	return &Agent{
		planner:  planner,
		resolver: resolver,
		executor: executor,
		logger:   util.NewLogger(zerolog.ErrorLevel),
	}
}

// Run plans, resolves credentials, and executes for query, returning the
// snippets and their plain-text concatenation. On any internal failure it
// returns ("", nil).
func (a *Agent) Run(ctx context.Context, query string) (string, []models.ToolSnippet) {
	if a == nil || a.planner == nil || a.resolver == nil || a.executor == nil {
		return "", nil
	}

	plan := a.planner.Plan(ctx, query)
	if len(plan.RecommendedProviders) == 0 {
		a.logger.Debug().Str("query", query).Msg("tool agent: planner recommends no providers")
		return "", nil
	}

	resolved := a.resolver.Resolve(plan.RecommendedProviders, plan.Category)
	if len(resolved.Ready) == 0 {
		return "", nil
	}

	snippets := a.executor.Execute(ctx, resolved.Ready, query, plan.Category)
	return joinSnippets(snippets), snippets
}

// RunForSlots runs a targeted search restricted to the missing slots
// text, used by the orchestrator's partial-external-completion path.
func (a *Agent) RunForSlots(ctx context.Context, originalQuery string, missingSlots []string) (string, []models.ToolSnippet) {
	if len(missingSlots) == 0 {
		return "", nil
	}
	targeted := originalQuery + " (focus specifically on: " + strings.Join(missingSlots, ", ") + ")"
	return a.Run(ctx, targeted)
}

func joinSnippets(snippets []models.ToolSnippet) string {
	var b strings.Builder
	for i, s := range snippets {
		if s.Error {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
