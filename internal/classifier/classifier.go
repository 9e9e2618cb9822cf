// Package classifier implements the classifier agent (C7): a fast, pure
// local decision of whether internal retrieval alone is likely
// sufficient to answer a query. It performs no LLM calls, no embedding
// calls, and no network I/O, so it can never block the rest of the
// pipeline.
package classifier

import (
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/retrieval"
)

// DefaultThreshold is the max-similarity cutoff at or above which
// internal evidence is considered sufficient.
const DefaultThreshold = 0.70

// Result is the classifier's decision.
type Result struct {
	InternalSufficient bool
	ExternalNeeded     bool
	Reason             string
	MaxSimilarity      float64
}

// Classify scores query against chunkTexts using token-overlap similarity
// exclusively (never embeddings) and compares the max score against
// threshold.
func Classify(query string, chunkTexts []string, threshold float64) Result {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	if len(chunkTexts) == 0 {
		return Result{
			InternalSufficient: false,
			ExternalNeeded:     true,
			Reason:             "no chunks available",
			MaxSimilarity:      0,
		}
	}

	scored := retrieval.TokenOverlap(query, chunkTexts)
	maxSim := 0.0
	if len(scored) > 0 {
		maxSim = scored[0].Similarity
	}

	if maxSim >= threshold {
		return Result{
			InternalSufficient: true,
			ExternalNeeded:     false,
			Reason:             "internal token overlap meets threshold",
			MaxSimilarity:      maxSim,
		}
	}

	return Result{
		InternalSufficient: false,
		ExternalNeeded:     true,
		Reason:             "internal token overlap below threshold",
		MaxSimilarity:      maxSim,
	}
}
