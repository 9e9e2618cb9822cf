package synthesizer

import (
	"context"
	"strings"
	"testing"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
)

type stubLLM struct {
	response     string
	lastPrompt   string
	streamPieces []string
}

func (s *stubLLM) Call(ctx context.Context, prompt, model string, temperature float32) string {
	s.lastPrompt = prompt
	return s.response
}

func (s *stubLLM) Stream(ctx context.Context, prompt, model string, temperature float32) <-chan string {
	s.lastPrompt = prompt
	out := make(chan string, len(s.streamPieces))
	for _, p := range s.streamPieces {
		out <- p
	}
	close(out)
	return out
}

func TestBuildPrompt_EmptySectionsShowNoneMarker(t *testing.T) {
	prompt := BuildPrompt(nil, nil, nil, "What was revenue?", "")

	if !strings.Contains(prompt, SystemInstruction) {
		t.Error("expected prompt to contain the verbatim system instruction")
	}
	for _, section := range []string{"INTERNAL FACTS:", "EXTERNAL FACTS:", "PRIOR MEMORY:"} {
		if !strings.Contains(prompt, section) {
			t.Errorf("expected prompt to contain section header %q", section)
		}
	}
	if strings.Count(prompt, "(none)") != 3 {
		t.Errorf("expected 3 '(none)' markers for 3 empty sections, got %d", strings.Count(prompt, "(none)"))
	}
}

func TestBuildPrompt_RendersFacts(t *testing.T) {
	internal := []models.InternalFact{{Text: "Revenue was £25.3 billion."}}
	external := []models.ExternalFact{{Text: "Market cap ≈ $290B", URL: "https://example/q"}}
	memory := []models.MemoryFact{{Text: "Previously asked about CET1 ratio."}}

	prompt := BuildPrompt(internal, external, memory, "compare revenue and market cap", "")

	if !strings.Contains(prompt, "£25.3 billion") {
		t.Error("expected internal fact text in prompt")
	}
	if !strings.Contains(prompt, "https://example/q") {
		t.Error("expected external fact URL in prompt")
	}
	if !strings.Contains(prompt, "CET1 ratio") {
		t.Error("expected memory fact text in prompt")
	}
}

func TestAgent_Synthesize_StripsProvenanceLabels(t *testing.T) {
	stub := &stubLLM{response: "[INTERNAL] Revenue was £25.3 billion. [EXTERNAL]"}
	agent := NewAgent(stub, "gpt-4o-mini", 0.2)

	answer := agent.Synthesize(context.Background(), nil, nil, nil, "What was revenue?", "")
	if strings.Contains(answer, "[INTERNAL]") || strings.Contains(answer, "[EXTERNAL]") {
		t.Errorf("expected provenance labels to be stripped, got %q", answer)
	}
}

func TestAgent_Synthesize_AppendsVariation(t *testing.T) {
	stub := &stubLLM{response: "ok"}
	agent := NewAgent(stub, "gpt-4o-mini", 0.2)

	agent.Synthesize(context.Background(), nil, nil, nil, "What was revenue?", "Answer concisely in three lines")
	if !strings.Contains(stub.lastPrompt, "Answer concisely in three lines") {
		t.Error("expected variation string to appear in the rendered prompt")
	}
}
