package llm

import "testing"

func TestJoinPieces(t *testing.T) {
	tests := []struct {
		name   string
		pieces []string
		want   string
	}{
		{
			name:   "run-together uppercase tokens get a boundary space",
			pieces: []string{"NOT", "RELEVANT"},
			want:   "NOT RELEVANT",
		},
		{
			name:   "uppercase start inserts a boundary space",
			pieces: []string{"hello", "World"},
			want:   "hello World",
		},
		{
			name:   "sentence-terminal punctuation inserts a boundary space",
			pieces: []string{"Done.", "Next"},
			want:   "Done. Next",
		},
		{
			name:   "comma before an uppercase next piece still inserts a space",
			pieces: []string{"Revenue grew,", "Net"},
			want:   "Revenue grew, Net",
		},
		{
			name:   "subwords are not over-split",
			pieces: []string{"inv", "igorate"},
			want:   "invigorate",
		},
		{
			name:   "piece already carrying leading whitespace is not doubled",
			pieces: []string{"Hello", " world"},
			want:   "Hello world",
		},
		{
			name:   "empty pieces are skipped",
			pieces: []string{"a", "", "b"},
			want:   "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JoinPieces(tt.pieces)
			if got != tt.want {
				t.Errorf("JoinPieces(%v) = %q, want %q", tt.pieces, got, tt.want)
			}
		})
	}
}

func TestNewOpenAIClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIClient(""); err != ErrNoAPIKey {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
	if _, err := NewOpenAIClient("sk-test"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
