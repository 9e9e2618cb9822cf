// Package chunking implements the sliding-window chunker collaborator
// (§6): splitting extracted PDF text into overlapping windows carrying
// page numbers forward from the PDF loader's page breaks. The default
// implementation is character-based, as spec.md §6 specifies; a
// token-aware variant (TokenChunker) is also available for callers that
// want token-budget-accurate windows.
package chunking

import (
	"errors"
	"strings"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
)

var (
	ErrContentEmpty   = errors.New("chunking: content cannot be empty")
	ErrInvalidSize    = errors.New("chunking: chunkSize must be positive")
	ErrInvalidOverlap = errors.New("chunking: overlap must be between 0 and chunkSize")
)

// PageBreak marks the rune offset in a document's concatenated text at
// which a new PDF page begins; produced by the PDF loader.
type PageBreak struct {
	Offset int
	Page   int
}

// Chunker is the sliding-window chunker contract (§6 collaborator).
type Chunker interface {
	Chunk(text string, chunkSize, overlap int, pages []PageBreak) ([]models.Chunk, error)
}

// CharChunker implements Chunker as a character-based sliding window, per
// spec.md §6's exact description.
type CharChunker struct{}

// NewCharChunker constructs the default character-based chunker.
func NewCharChunker() *CharChunker { return &CharChunker{} }

// Chunk splits text into overlapping character windows of chunkSize with
// overlap characters shared between consecutive windows, each annotated
// with the page it falls on (by offset lookup into pages).
func (c *CharChunker) Chunk(text string, chunkSize, overlap int, pages []PageBreak) ([]models.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrContentEmpty
	}
	if chunkSize <= 0 {
		return nil, ErrInvalidSize
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, ErrInvalidOverlap
	}

	runes := []rune(text)
	total := len(runes)
	step := chunkSize - overlap

	var chunks []models.Chunk
	idx := 0
	for start := 0; start < total; start += step {
		end := start + chunkSize
		if end > total {
			end = total
		}

		chunkText := string(runes[start:end])
		page := pageForOffset(pages, start)

		chunks = append(chunks, models.Chunk{
			Index: idx,
			Text:  chunkText,
			Page:  page,
		})
		idx++

		if end >= total {
			break
		}
	}

	return chunks, nil
}

func pageForOffset(pages []PageBreak, offset int) *int {
	if len(pages) == 0 {
		return nil
	}
	page := pages[0].Page
	for _, pb := range pages {
		if pb.Offset > offset {
			break
		}
		page = pb.Page
	}
	return &page
}
