package classifier

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name               string
		query              string
		chunkTexts         []string
		wantInternalSuffic bool
	}{
		{
			name:               "high overlap is internally sufficient",
			query:              "What was total revenue in 2024?",
			chunkTexts:         []string{"Total revenue in 2024 was £25.3 billion."},
			wantInternalSuffic: true,
		},
		{
			name:               "low overlap needs external",
			query:              "What is the current market capitalization?",
			chunkTexts:         []string{"Historical figures from 2019 annual report."},
			wantInternalSuffic: false,
		},
		{
			name:               "zero chunks needs external",
			query:              "Anything",
			chunkTexts:         nil,
			wantInternalSuffic: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.query, tt.chunkTexts, DefaultThreshold)
			if result.InternalSufficient != tt.wantInternalSuffic {
				t.Errorf("InternalSufficient = %v, want %v (similarity %v)",
					result.InternalSufficient, tt.wantInternalSuffic, result.MaxSimilarity)
			}
			if result.InternalSufficient == result.ExternalNeeded {
				t.Errorf("InternalSufficient and ExternalNeeded must be complementary")
			}
		})
	}
}

func TestClassify_CompletesQuickly(t *testing.T) {
	chunkTexts := make([]string, 100)
	for i := range chunkTexts {
		chunkTexts[i] = "the quick brown fox jumps over the lazy dog in chunk text repeatedly"
	}

	start := time.Now()
	Classify("quick brown fox", chunkTexts, DefaultThreshold)
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Classify took %v, want < 100ms for 100 chunks", elapsed)
	}
}
