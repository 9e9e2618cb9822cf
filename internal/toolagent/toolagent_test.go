package toolagent

import (
	"context"
	"testing"
)

func TestAgent_Run_NilAgentNeverPanics(t *testing.T) {
	var agent *Agent
	text, snippets := agent.Run(context.Background(), "market cap")
	if text != "" || snippets != nil {
		t.Errorf("expected empty result from nil agent, got (%q, %v)", text, snippets)
	}
}

func TestAgent_RunForSlots_EmptySlotsIsNoop(t *testing.T) {
	agent := NewAgent(nil, nil, nil)
	text, snippets := agent.RunForSlots(context.Background(), "compare revenue and market cap", nil)
	if text != "" || snippets != nil {
		t.Errorf("expected empty result for no missing slots, got (%q, %v)", text, snippets)
	}
}
