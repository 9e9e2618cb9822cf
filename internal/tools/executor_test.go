package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
)

func TestExecutor_Execute_UnknownProviderYieldsErrorSnippet(t *testing.T) {
	reg := NewRegistry("/nonexistent", "/nonexistent")
	executor := NewExecutor(reg)

	snippets := executor.Execute(context.Background(), []string{"does_not_exist"}, "market cap", CategoryMarket)
	if len(snippets) != 1 || !snippets[0].Error {
		t.Fatalf("expected a single error snippet, got %+v", snippets)
	}
	if snippets[0].Text != "Tool failed or unavailable" {
		t.Errorf("unexpected error snippet text: %q", snippets[0].Text)
	}
}

func TestExecutor_Execute_ProviderOverrideTakesPrecedence(t *testing.T) {
	reg := NewRegistry("/nonexistent", "/nonexistent")
	executor := NewExecutor(reg)

	called := false
	executor.RegisterProviderOverride("custom", func(ctx context.Context, e *Executor, providerID, query string, category Category) []models.ToolSnippet {
		called = true
		return []models.ToolSnippet{{Tool: "custom", Text: "stubbed"}}
	})

	snippets := executor.Execute(context.Background(), []string{"custom"}, "query", CategoryGeneric)
	if !called {
		t.Fatalf("expected provider override to be called")
	}
	if len(snippets) != 1 || snippets[0].Text != "stubbed" {
		t.Errorf("expected override's snippet, got %+v", snippets)
	}
}

func TestGenericHTTPProvider_NonOKStatusYieldsErrorSnippet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	reg := NewRegistry("/nonexistent", "/nonexistent")
	reg.providers["stub_provider"] = ProviderConfig{
		Category:         CategoryFinancials,
		EndpointTemplate: server.URL + "/?q={q}",
		RequiredFields:   nil,
	}

	executor := NewExecutor(reg)
	snippets := genericHTTPProvider(context.Background(), executor, "stub_provider", "revenue", CategoryFinancials)
	if len(snippets) != 1 || !snippets[0].Error {
		t.Fatalf("expected a single error snippet, got %+v", snippets)
	}
}
