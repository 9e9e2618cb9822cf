// Package retrieveragent implements the retriever agent (C8): embedding
// (or token-overlap fallback) similarity search over a PDF's chunks,
// followed by a per-chunk LLM call that produces a short extractive
// partial answer, falling back to the chunk text itself when the model
// returns nothing.
package retrieveragent

import (
	"context"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/embeddings"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/llm"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/retrieval"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
)

const (
	maxChunkFallbackLen = 400
	defaultTopK         = 15
)

// Agent is the retriever agent.
type Agent struct {
	embedder    embeddings.Client
	llmClient   llm.Client
	model       string
	temperature float32
	logger      zerolog.Logger
}

// NewAgent constructs a retriever Agent. embedder may be nil, in which
// case EmbeddingSimilarity silently falls back to token overlap.
func NewAgent(embedder embeddings.Client, llmClient llm.Client, model string, temperature float32) *Agent {
	return &Agent{
		embedder:    embedder,
		llmClient:   llmClient,
		model:       model,
		temperature: temperature,
		logger:      util.NewLogger(zerolog.ErrorLevel),
	}
}

// Retrieve scores chunks against query by embedding similarity (falling
// back to token overlap), takes the top min(k, len(chunks)) results, and
// asks the LLM for a short extractive partial answer per chunk.
func (a *Agent) Retrieve(ctx context.Context, query string, chunks []models.Chunk) []models.PartialAnswer {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	k := defaultTopK
	if k > len(chunks) {
		k = len(chunks)
	}

	scored := retrieval.TopKEmbedding(ctx, a.embedder, query, texts, make([][]float32, len(texts)), k)

	partials := make([]models.PartialAnswer, 0, len(scored))
	for _, s := range scored {
		chunk := chunks[s.Index]

		text := a.extractPartialAnswer(ctx, query, chunk.Text)
		if text == "" {
			text = truncate(chunk.Text, maxChunkFallbackLen)
		}

		partials = append(partials, models.PartialAnswer{
			Text:       text,
			ChunkText:  chunk.Text,
			Page:       chunk.Page,
			Similarity: s.Similarity,
		})
	}

	return partials
}

func (a *Agent) extractPartialAnswer(ctx context.Context, query, chunkText string) string {
	prompt := "You are extracting a short answer to a question from one excerpt of a financial document.\n" +
		"Answer using ONLY the excerpt below. If the excerpt does not contain the answer, reply with an empty response.\n\n" +
		"EXCERPT:\n" + chunkText + "\n\nQUESTION: " + query + "\nANSWER:"

	return a.llmClient.Call(ctx, prompt, a.model, a.temperature)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
