package embeddings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenAIEmbedder(t *testing.T) {
	tests := []struct {
		name        string
		model       string
		apiKey      string
		expectError bool
		expectedDim int
		description string
	}{
		{
			name:        "valid text-embedding-3-small",
			model:       "text-embedding-3-small",
			apiKey:      "test-api-key",
			expectError: false,
			expectedDim: 1536,
			description: "should create embedder for text-embedding-3-small",
		},
		{
			name:        "valid text-embedding-3-large",
			model:       "text-embedding-3-large",
			apiKey:      "test-api-key",
			expectError: false,
			expectedDim: 3072,
			description: "should create embedder for text-embedding-3-large",
		},
		{
			name:        "unsupported model",
			model:       "unsupported-model",
			apiKey:      "test-api-key",
			expectError: true,
			description: "should return error for unsupported model",
		},
		{
			name:        "missing api key",
			model:       "text-embedding-3-small",
			apiKey:      "",
			expectError: true,
			description: "should return error when API key is missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder, err := NewOpenAIEmbedder(tt.apiKey, tt.model)
			if tt.expectError {
				if err == nil {
					t.Fatalf("%s: expected error, got nil", tt.description)
				}
				return
			}
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.description, err)
			}
			if embedder.dimension != tt.expectedDim {
				t.Errorf("%s: dimension = %d, want %d", tt.description, embedder.dimension, tt.expectedDim)
			}
			if embedder.ModelID() != tt.model {
				t.Errorf("ModelID() = %q, want %q", embedder.ModelID(), tt.model)
			}
		})
	}
}

func TestOpenAIEmbedder_Embed_NeverReturnsErrorToCaller(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	embedder, err := NewOpenAIEmbedder("test-api-key", "text-embedding-3-small")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	embedder.apiURL = server.URL

	vec := embedder.Embed(context.Background(), "hello world")
	if vec != nil {
		t.Errorf("expected nil vector on transport failure, got %v", vec)
	}
}

func TestOpenAIEmbedder_Embed_EmptyContent(t *testing.T) {
	embedder, err := NewOpenAIEmbedder("test-api-key", "text-embedding-3-small")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if vec := embedder.Embed(context.Background(), "   "); vec != nil {
		t.Errorf("expected nil vector for empty content, got %v", vec)
	}
}

func TestOpenAIEmbedder_Embed_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3],"index":0}]}`))
	}))
	defer server.Close()

	embedder, err := NewOpenAIEmbedder("test-api-key", "text-embedding-3-small")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	embedder.apiURL = server.URL

	vec := embedder.Embed(context.Background(), "hello world")
	if len(vec) != 3 {
		t.Fatalf("expected 3-dim vector, got %v", vec)
	}
}
