package chunking

import (
	"strings"
	"testing"
)

func TestNewTokenChunker(t *testing.T) {
	chunker, err := NewTokenChunker()
	if err != nil {
		t.Fatalf("Failed to create token chunker: %v", err)
	}
	if chunker == nil {
		t.Fatal("Expected non-nil chunker")
	}
}

func TestTokenChunker_Chunk(t *testing.T) {
	chunker, err := NewTokenChunker()
	if err != nil {
		t.Fatalf("Failed to create token chunker: %v", err)
	}

	longContent := strings.Repeat(
		"This is a sentence about quarterly revenue and net income figures. ", 40,
	)

	tests := []struct {
		name        string
		content     string
		chunkSize   int
		overlap     int
		expectError bool
		description string
	}{
		{
			name:        "empty content",
			content:     "",
			chunkSize:   50,
			overlap:     0,
			expectError: true,
			description: "should return error for empty content",
		},
		{
			name:        "invalid chunk size - zero",
			content:     "Hello world",
			chunkSize:   0,
			overlap:     0,
			expectError: true,
			description: "should return error for zero chunk size",
		},
		{
			name:        "invalid overlap - equal to chunk size",
			content:     "Hello world",
			chunkSize:   5,
			overlap:     5,
			expectError: true,
			description: "should return error when overlap equals chunk size",
		},
		{
			name:        "single chunk - short content",
			content:     "Hello world, this is a test.",
			chunkSize:   50,
			overlap:     0,
			expectError: false,
			description: "should create a single chunk for short content",
		},
		{
			name:        "multiple chunks - long content",
			content:     longContent,
			chunkSize:   30,
			overlap:     5,
			expectError: false,
			description: "should split long content into multiple overlapping chunks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := chunker.Chunk(tt.content, tt.chunkSize, tt.overlap, nil)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error for test: %s", tt.description)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for test %s: %v", tt.description, err)
			}

			if len(chunks) == 0 {
				t.Fatalf("expected at least one chunk for test: %s", tt.description)
			}

			for i, chunk := range chunks {
				if chunk.Text == "" {
					t.Errorf("chunk %d has empty text for test: %s", i, tt.description)
				}
				if chunk.Index != i {
					t.Errorf("chunk %d has index %d, want %d", i, chunk.Index, i)
				}
				count, err := chunker.CountTokens(chunk.Text)
				if err != nil {
					t.Fatalf("failed to count tokens for chunk %d: %v", i, err)
				}
				if count > tt.chunkSize {
					t.Errorf("chunk %d has %d tokens, exceeds chunkSize %d", i, count, tt.chunkSize)
				}
			}
		})
	}
}

func TestTokenChunker_Chunk_PageAssignment(t *testing.T) {
	chunker, err := NewTokenChunker()
	if err != nil {
		t.Fatalf("Failed to create token chunker: %v", err)
	}

	// Non-ASCII currency symbols push the rune count below the byte count,
	// exercising the rune-based page lookup rather than a byte-based one.
	content := "Revenue was £10 million in the first half. " +
		"Revenue was €12 million in the second half, an increase year over year."
	pages := []PageBreak{
		{Offset: 0, Page: 1},
		{Offset: 44, Page: 2},
	}

	chunks, err := chunker.Chunk(content, 15, 3, pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}

	if chunks[0].Page == nil || *chunks[0].Page != 1 {
		t.Errorf("expected first chunk on page 1, got %v", chunks[0].Page)
	}

	lastPage := chunks[len(chunks)-1].Page
	if lastPage == nil || *lastPage < 1 {
		t.Errorf("expected last chunk to have a valid page, got %v", lastPage)
	}
}

func TestTokenChunker_CountTokens(t *testing.T) {
	chunker, err := NewTokenChunker()
	if err != nil {
		t.Fatalf("Failed to create token chunker: %v", err)
	}

	count, err := chunker.CountTokens("Hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count <= 0 {
		t.Errorf("expected positive token count, got %d", count)
	}

	emptyCount, err := chunker.CountTokens("")
	if err != nil {
		t.Fatalf("unexpected error counting empty string: %v", err)
	}
	if emptyCount != 0 {
		t.Errorf("expected 0 tokens for empty string, got %d", emptyCount)
	}
}
