package chunking

import (
	"unicode/utf8"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
	"github.com/tiktoken-go/tokenizer"
)

// TokenChunker implements Chunker as a token-budget-accurate sliding
// window, for callers that want windows sized by model token count rather
// than raw character count (e.g. when feeding chunks directly to an LLM
// with a tight context budget).
type TokenChunker struct {
	encoding tokenizer.Codec
	logger   zerolog.Logger
}

// NewTokenChunker constructs a TokenChunker using the cl100k_base
// encoding.
func NewTokenChunker() (*TokenChunker, error) {
	encoding, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, err
	}
	return &TokenChunker{
		encoding: encoding,
		logger:   util.NewLogger(zerolog.ErrorLevel),
	}, nil
}

// Chunk splits text into overlapping token windows of chunkSize tokens
// with overlap tokens shared between consecutive windows. chunkSize and
// overlap are interpreted as token counts rather than characters.
func (t *TokenChunker) Chunk(text string, chunkSize, overlap int, pages []PageBreak) ([]models.Chunk, error) {
	if text == "" {
		return nil, ErrContentEmpty
	}
	if chunkSize <= 0 {
		return nil, ErrInvalidSize
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, ErrInvalidOverlap
	}

	tokens, _, err := t.encoding.Encode(text)
	if err != nil {
		t.logger.Err(err).Msg("failed to tokenize content")
		return nil, err
	}

	total := len(tokens)
	step := chunkSize - overlap

	var chunks []models.Chunk
	idx := 0
	for start := 0; start < total; start += step {
		end := start + chunkSize
		if end > total {
			end = total
		}

		chunkText, err := t.encoding.Decode(tokens[start:end])
		if err != nil {
			t.logger.Err(err).Msg("failed to decode chunk tokens")
			return nil, err
		}

		// Page breaks are recorded as character offsets into the
		// concatenated text, but start/end here are token indices, so the
		// prefix up to start is decoded back to characters before the page
		// lookup.
		prefix, err := t.encoding.Decode(tokens[:start])
		if err != nil {
			t.logger.Err(err).Msg("failed to decode prefix for page lookup")
			prefix = ""
		}

		chunks = append(chunks, models.Chunk{
			Index: idx,
			Text:  chunkText,
			Page:  pageForOffset(pages, utf8.RuneCountInString(prefix)),
		})
		idx++

		if end >= total {
			break
		}
	}

	return chunks, nil
}

// CountTokens returns the number of tokens in text under the cl100k_base
// encoding.
func (t *TokenChunker) CountTokens(text string) (int, error) {
	tokens, _, err := t.encoding.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(tokens), nil
}
