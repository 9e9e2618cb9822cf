// Package retrieval implements the two similarity functions used across
// the orchestration core: local token-overlap scoring (used exclusively by
// the classifier) and embedding-cosine scoring with a silent fallback to
// token overlap (used by the retriever agent and memory recall).
package retrieval

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/embeddings"
)

// Scored is one ranked result: the source index into the caller's slice,
// the matched text, and the similarity in [0,1].
type Scored struct {
	Index      int
	Text       string
	Similarity float64
}

// Tokenize lowercases text, splits on non-alphanumeric runes, and drops
// tokens of length <= 2, per the shared tokenization rule used by both
// similarity functions.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 2 {
			tokens[cur.String()] = struct{}{}
		}
		cur.Reset()
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// TokenOverlap scores query against each of texts as
// |query_tokens ∩ text_tokens| / max(1, |query_tokens|), a pure local
// computation with no network calls. It is expected to complete in well
// under 100ms for up to 100 texts.
func TokenOverlap(query string, texts []string) []Scored {
	queryTokens := Tokenize(query)
	denom := float64(len(queryTokens))
	if denom < 1 {
		denom = 1
	}

	scored := make([]Scored, len(texts))
	for i, text := range texts {
		textTokens := Tokenize(text)
		overlap := 0
		for tok := range queryTokens {
			if _, ok := textTokens[tok]; ok {
				overlap++
			}
		}
		scored[i] = Scored{Index: i, Text: text, Similarity: float64(overlap) / denom}
	}

	sortDescending(scored)
	return scored
}

// TopKTokenOverlap returns the top-k TokenOverlap results, descending.
func TopKTokenOverlap(query string, texts []string, k int) []Scored {
	return topK(TokenOverlap(query, texts), k)
}

// EmbeddingSimilarity computes the query embedding once and scores each of
// texts by cosine similarity against its (possibly precomputed) embedding.
// textEmbeddings may contain nil entries; if the query embedding or any
// text embedding is unavailable, EmbeddingSimilarity falls back to
// TokenOverlap for the whole batch, silently, per spec.
func EmbeddingSimilarity(
	ctx context.Context,
	embedder embeddings.Client,
	query string,
	texts []string,
	textEmbeddings [][]float32,
) []Scored {
	if embedder == nil {
		return TokenOverlap(query, texts)
	}

	queryVec := embedder.Embed(ctx, query)
	if queryVec == nil {
		return TokenOverlap(query, texts)
	}

	scored := make([]Scored, len(texts))
	for i, text := range texts {
		vec := textEmbeddings[i]
		if vec == nil {
			vec = embedder.Embed(ctx, text)
		}
		if vec == nil {
			return TokenOverlap(query, texts)
		}
		scored[i] = Scored{Index: i, Text: text, Similarity: cosine(queryVec, vec)}
	}

	sortDescending(scored)
	return scored
}

// TopKEmbedding returns the top-k EmbeddingSimilarity results, descending.
func TopKEmbedding(
	ctx context.Context,
	embedder embeddings.Client,
	query string,
	texts []string,
	textEmbeddings [][]float32,
	k int,
) []Scored {
	return topK(EmbeddingSimilarity(ctx, embedder, query, texts, textEmbeddings), k)
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func sortDescending(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
}

func topK(scored []Scored, k int) []Scored {
	if k < 0 || k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}
