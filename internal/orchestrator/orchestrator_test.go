package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
)

func TestMissingSlots_FindsKnownTriggerPhrases(t *testing.T) {
	slots := missingSlots("What was the market cap and net income last year?")

	wantAny := map[string]bool{"market capitalization": false, "net income": false}
	for _, s := range slots {
		if _, ok := wantAny[s]; ok {
			wantAny[s] = true
		}
	}
	for slot, found := range wantAny {
		if !found {
			t.Errorf("expected slot %q to be detected in %v", slot, slots)
		}
	}
}

func TestMissingSlots_NoTriggersReturnsEmpty(t *testing.T) {
	if slots := missingSlots("What color is the logo?"); len(slots) != 0 {
		t.Errorf("expected no slots, got %v", slots)
	}
}

func TestIsComparisonQuestion(t *testing.T) {
	tests := []struct {
		question string
		want     bool
	}{
		{"Compare revenue this year versus last year.", true},
		{"Revenue this year vs last year?", true},
		{"What was total revenue?", false},
	}
	for _, tt := range tests {
		if got := isComparisonQuestion(tt.question); got != tt.want {
			t.Errorf("isComparisonQuestion(%q) = %v, want %v", tt.question, got, tt.want)
		}
	}
}

func TestUncoveredSlots_DropsSlotsPresentInEvidence(t *testing.T) {
	slots := []string{"revenue", "net income"}
	evidence := "Total revenue grew 5% year over year."

	got := uncoveredSlots(slots, evidence)
	if len(got) != 1 || got[0] != "net income" {
		t.Errorf("expected only 'net income' uncovered, got %v", got)
	}
}

func TestUncoveredSlots_MatchesAnySynonymNotJustCanonicalName(t *testing.T) {
	slots := []string{"market capitalization", "net income"}
	evidence := "Market cap of $290B was reported; net profit was $5B."

	got := uncoveredSlots(slots, evidence)
	if len(got) != 0 {
		t.Errorf("expected both slots covered via synonym match, got uncovered %v", got)
	}
}

func TestBuildProvenance_OrdersInternalBeforeExternalAndTruncates(t *testing.T) {
	longText := make([]byte, models.ProvenanceMaxTextLen+50)
	for i := range longText {
		longText[i] = 'a'
	}

	internal := []models.InternalFact{{Text: string(longText)}}
	external := []models.ExternalFact{{Text: "short external fact", URL: "https://example.com", Tool: "serpapi", Category: "generic"}}

	entries := buildProvenance(internal, external, "/tmp/doc.pdf")

	if len(entries) != 2 {
		t.Fatalf("expected 2 provenance entries, got %d", len(entries))
	}
	if entries[0].Type != models.ProvenanceInternal {
		t.Errorf("expected internal entry first, got %v", entries[0].Type)
	}
	if entries[1].Type != models.ProvenanceExternal {
		t.Errorf("expected external entry second, got %v", entries[1].Type)
	}
	if len([]rune(entries[0].Text)) != models.ProvenanceMaxTextLen {
		t.Errorf("expected internal text truncated to %d runes, got %d", models.ProvenanceMaxTextLen, len([]rune(entries[0].Text)))
	}
}

func TestExternalFactsFrom_SkipsErrorSnippets(t *testing.T) {
	snippets := []models.ToolSnippet{
		{Text: "good snippet", Tool: "serpapi"},
		{Text: "Tool failed or unavailable", Tool: "serpapi", Error: true},
	}

	facts := externalFactsFrom(snippets)
	if len(facts) != 1 || facts[0].Text != "good snippet" {
		t.Errorf("expected only the non-error snippet to survive, got %v", facts)
	}
}

func TestWorkflowExpired(t *testing.T) {
	notExpired, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()
	if workflowExpired(notExpired) {
		t.Error("expected a far-future deadline to not be expired")
	}

	expired, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	if !workflowExpired(expired) {
		t.Error("expected an elapsed deadline to be reported as expired")
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if workflowExpired(canceled) {
		t.Error("expected an explicitly canceled (non-deadline) context to not count as a workflow timeout")
	}
}

func TestSend_AbandonsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan models.StreamEvent) // unbuffered, no reader
	done := make(chan struct{})
	go func() {
		send(ctx, out, models.StreamEvent{Type: models.StreamLog, Message: "should not block"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send blocked despite a done context and no reader")
	}
}

func TestNoopLLM_NeverBlocksOrPanics(t *testing.T) {
	var client noopLLM
	ctx := context.Background()
	if got := client.Call(ctx, "prompt", "model", 0); got != "" {
		t.Errorf("expected empty response from noopLLM.Call, got %q", got)
	}

	pieces := 0
	for range client.Stream(ctx, "prompt", "model", 0) {
		pieces++
	}
	if pieces != 0 {
		t.Errorf("expected noopLLM.Stream to yield no pieces, got %d", pieces)
	}
}
