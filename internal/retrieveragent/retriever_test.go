package retrieveragent

import (
	"context"
	"testing"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
)

type stubLLM struct {
	response string
}

func (s *stubLLM) Call(ctx context.Context, prompt, model string, temperature float32) string {
	return s.response
}

func (s *stubLLM) Stream(ctx context.Context, prompt, model string, temperature float32) <-chan string {
	out := make(chan string)
	close(out)
	return out
}

func TestAgent_Retrieve_FallsBackToChunkTextWhenLLMEmpty(t *testing.T) {
	agent := NewAgent(nil, &stubLLM{response: ""}, "gpt-4o-mini", 0.0)

	page := 3
	chunks := []models.Chunk{
		{Index: 0, Text: "Total revenue in 2024 was £25.3 billion.", Page: &page},
	}

	partials := agent.Retrieve(context.Background(), "What was total revenue?", chunks)
	if len(partials) != 1 {
		t.Fatalf("expected 1 partial answer, got %d", len(partials))
	}
	if partials[0].Text != chunks[0].Text {
		t.Errorf("expected fallback to chunk text, got %q", partials[0].Text)
	}
	if partials[0].Page == nil || *partials[0].Page != 3 {
		t.Errorf("expected page to carry through, got %v", partials[0].Page)
	}
}

func TestAgent_Retrieve_UsesLLMAnswerWhenPresent(t *testing.T) {
	agent := NewAgent(nil, &stubLLM{response: "£25.3 billion"}, "gpt-4o-mini", 0.0)

	chunks := []models.Chunk{
		{Index: 0, Text: "Total revenue in 2024 was £25.3 billion."},
	}

	partials := agent.Retrieve(context.Background(), "What was total revenue?", chunks)
	if len(partials) != 1 || partials[0].Text != "£25.3 billion" {
		t.Fatalf("expected LLM-extracted answer, got %+v", partials)
	}
}

func TestAgent_Retrieve_EmptyChunks(t *testing.T) {
	agent := NewAgent(nil, &stubLLM{}, "gpt-4o-mini", 0.0)
	if partials := agent.Retrieve(context.Background(), "q", nil); partials != nil {
		t.Errorf("expected nil partials for no chunks, got %v", partials)
	}
}
