// Package reranker implements the optional reranker (C11-reranker):
// generating N candidate answers via varied synthesis prompts and
// selecting the best by a weighted score of verifier confidence,
// embedding similarity to the query, and an answer-length penalty.
package reranker

import (
	"context"
	"strings"
	"time"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/embeddings"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/retrieval"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/synthesizer"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/verifier"
)

// Variations are the distinct synthesis prompt variations used to elicit
// diverse candidates; cycled through when n exceeds len(Variations).
var Variations = []string{
	"Answer concisely in three lines.",
	"Answer with bullet points.",
	"Answer in a single well-formed paragraph.",
}

// lengthPenaltyWindowMin/Max define the favored word-count window
// (spec.md §4.12); the ramp below lengthPenaltyWindowMin and the decay
// above lengthPenaltyWindowMax, and the floor, are this implementation's
// own choice since the window's exact curve is unspecified (see
// DESIGN.md's Open Question resolution).
const (
	lengthPenaltyWindowMin = 50
	lengthPenaltyWindowMax = 400
	lengthPenaltyDecayEnd  = 800
	lengthPenaltyFloor     = 0.1
)

// Candidate is one generated candidate answer together with its score
// components.
type Candidate struct {
	Answer     string
	Confidence float64
	Verdict    verifier.Verdict
	Score      float64
}

// GenerateCandidates calls the synthesizer n times with different
// variation strings, returning the raw answer text for each.
func GenerateCandidates(
	ctx context.Context,
	agent *synthesizer.Agent,
	internal []models.InternalFact,
	external []models.ExternalFact,
	memory []models.MemoryFact,
	question string,
	n int,
) []string {
	candidates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		variation := Variations[i%len(Variations)]
		candidates = append(candidates, agent.Synthesize(ctx, internal, external, memory, question, variation))
	}
	return candidates
}

// Rank scores each candidate by
// 0.5*verifier_confidence + 0.3*embedding_similarity_to_query + 0.2*length_penalty
// and returns the winner. Ties (equal score) break toward the higher
// verifier confidence.
func Rank(
	ctx context.Context,
	embedder embeddings.Client,
	query string,
	candidates []string,
	provenance []models.ProvenanceEntry,
	partials []models.PartialAnswer,
	externalSnippets []models.ToolSnippet,
	docDate time.Time,
) Candidate {
	scored := make([]Candidate, len(candidates))

	for i, answer := range candidates {
		verdict := verifier.Verify(answer, provenance, partials, externalSnippets, docDate)
		embSim := embeddingSimilarityToQuery(ctx, embedder, query, answer)
		lengthPenalty := lengthPenalty(answer)

		score := 0.5*verdict.Confidence + 0.3*embSim + 0.2*lengthPenalty

		scored[i] = Candidate{
			Answer:     answer,
			Confidence: verdict.Confidence,
			Verdict:    verdict,
			Score:      score,
		}
	}

	return pickBest(scored)
}

func pickBest(scored []Candidate) Candidate {
	best := scored[0]
	for _, c := range scored[1:] {
		if c.Score > best.Score || (c.Score == best.Score && c.Confidence > best.Confidence) {
			best = c
		}
	}
	return best
}

func embeddingSimilarityToQuery(ctx context.Context, embedder embeddings.Client, query, answer string) float64 {
	scored := retrieval.EmbeddingSimilarity(ctx, embedder, query, []string{answer}, [][]float32{nil})
	if len(scored) == 0 {
		return 0
	}
	return scored[0].Similarity
}

// lengthPenalty favors answers of lengthPenaltyWindowMin..lengthPenaltyWindowMax
// words: a linear ramp from 0 to 1 below the window, a flat 1.0 inside
// it, and a linear decay to lengthPenaltyFloor by lengthPenaltyDecayEnd
// words above it.
func lengthPenalty(answer string) float64 {
	words := len(strings.Fields(answer))

	switch {
	case words <= 0:
		return 0
	case words < lengthPenaltyWindowMin:
		return float64(words) / float64(lengthPenaltyWindowMin)
	case words <= lengthPenaltyWindowMax:
		return 1.0
	case words >= lengthPenaltyDecayEnd:
		return lengthPenaltyFloor
	default:
		span := float64(lengthPenaltyDecayEnd - lengthPenaltyWindowMax)
		progress := float64(words-lengthPenaltyWindowMax) / span
		return 1.0 - progress*(1.0-lengthPenaltyFloor)
	}
}
