// Package embeddings wraps the remote embedding service (C1). The sole
// operation, Embed, never returns an error: a failure is logged and
// reported as a nil vector, which callers treat as "no embedding
// available" and silently degrade to token-based similarity, per spec.
package embeddings

import (
	"context"

	"github.com/rs/zerolog"
)

// Client is the embedding client contract every provider implements.
type Client interface {
	// Embed returns the embedding vector for text, or nil if the remote
	// call failed for any reason. Embed itself never panics; the nil
	// vector is its only failure signal.
	Embed(ctx context.Context, text string) []float32
	ModelID() string
}

// degrade centralizes the "log and return nil" pattern every provider uses
// to satisfy the "must not raise" contract of C1.
func degrade(logger zerolog.Logger, err error, msg string) []float32 {
	logger.Warn().Err(err).Msg(msg)
	return nil
}
