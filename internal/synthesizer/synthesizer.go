// Package synthesizer implements the synthesizer agent (C10): merging
// the three structured fact lists into a final answer, blocking or
// streaming, under a verbatim prompt contract that keeps provenance
// authoritative and system-computed rather than model-generated.
package synthesizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/llm"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
)

// SystemInstruction is the verbatim system instruction the prompt
// contract requires; it must appear in every synthesis prompt so the
// model never emits provenance labels of its own.
const SystemInstruction = "You are synthesizing a financial research answer. Use ONLY the provided facts. " +
	"Do NOT add any provenance labels. Do NOT write [INTERNAL] or [EXTERNAL]. Just write the answer text. " +
	"Respect any length or format requested in the question."

// Agent is the synthesizer agent.
type Agent struct {
	llmClient   llm.Client
	model       string
	temperature float32
}

// NewAgent constructs a synthesizer Agent.
func NewAgent(llmClient llm.Client, model string, temperature float32) *Agent {
	return &Agent{llmClient: llmClient, model: model, temperature: temperature}
}

// Synthesize performs a blocking synthesis call and returns the answer
// text. variation, if non-empty, is appended to elicit a diverse
// candidate (used by the reranker).
func (a *Agent) Synthesize(
	ctx context.Context,
	internal []models.InternalFact,
	external []models.ExternalFact,
	memory []models.MemoryFact,
	question string,
	variation string,
) string {
	prompt := BuildPrompt(internal, external, memory, question, variation)
	answer := a.llmClient.Call(ctx, prompt, a.model, a.temperature)
	return stripProvenanceLabels(answer)
}

// SynthesizeStream performs a streaming synthesis call, returning a
// channel of raw text pieces. The orchestrator is responsible for
// forwarding each piece as a StreamToken event and for joining pieces
// with llm.JoinPieces for the final answer text.
func (a *Agent) SynthesizeStream(
	ctx context.Context,
	internal []models.InternalFact,
	external []models.ExternalFact,
	memory []models.MemoryFact,
	question string,
	variation string,
) <-chan string {
	prompt := BuildPrompt(internal, external, memory, question, variation)
	return a.llmClient.Stream(ctx, prompt, a.model, a.temperature)
}

// BuildPrompt renders the shared prompt contract: the verbatim system
// instruction, three labeled fact sections (each showing "(none)" when
// empty so the model cannot mistake absence for irrelevance), the
// question, and an ANSWER: cue.
func BuildPrompt(
	internal []models.InternalFact,
	external []models.ExternalFact,
	memory []models.MemoryFact,
	question string,
	variation string,
) string {
	var b strings.Builder

	b.WriteString(SystemInstruction)
	b.WriteString("\n\n")

	b.WriteString("INTERNAL FACTS:\n")
	if len(internal) == 0 {
		b.WriteString("(none)\n")
	} else {
		for _, f := range internal {
			fmt.Fprintf(&b, "- %s\n", f.Text)
		}
	}

	b.WriteString("\nEXTERNAL FACTS:\n")
	if len(external) == 0 {
		b.WriteString("(none)\n")
	} else {
		for _, f := range external {
			fmt.Fprintf(&b, "- %s (source: %s)\n", f.Text, f.URL)
		}
	}

	b.WriteString("\nPRIOR MEMORY:\n")
	if len(memory) == 0 {
		b.WriteString("(none)\n")
	} else {
		for _, f := range memory {
			fmt.Fprintf(&b, "- %s\n", f.Text)
		}
	}

	b.WriteString("\nQUESTION:\n")
	b.WriteString(question)
	if variation != "" {
		b.WriteString("\n")
		b.WriteString(variation)
	}
	b.WriteString("\n\nANSWER:\n")

	return b.String()
}

// stripProvenanceLabels removes any [INTERNAL]/[EXTERNAL] labels the
// model emitted despite the prompt's instruction not to, so a
// non-compliant model can never leak a label downstream.
func stripProvenanceLabels(answer string) string {
	answer = strings.ReplaceAll(answer, "[INTERNAL]", "")
	answer = strings.ReplaceAll(answer, "[EXTERNAL]", "")
	return strings.TrimSpace(answer)
}

// StripProvenanceLabels exposes stripProvenanceLabels for callers that
// assemble a final answer themselves from a stream of raw pieces (the
// orchestrator's streaming path), rather than through Synthesize.
func StripProvenanceLabels(answer string) string {
	return stripProvenanceLabels(answer)
}
