// Package pdfsource implements the PDF loader collaborator (§6):
// extracting concatenated page text from a PDF file, up to a configured
// page cap, never raising to its caller.
package pdfsource

import (
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/chunking"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
)

// Loader is the PDF loader contract.
type Loader interface {
	// ExtractText reads up to maxPages pages from path and returns the
	// concatenated page text (pages separated by a blank line) along with
	// the page break offsets chunking.Chunker needs to annotate chunks
	// with page numbers. A single page's extraction failure yields an
	// empty string for that page rather than aborting the whole load.
	ExtractText(path string, maxPages int) (string, []chunking.PageBreak)
}

// DefaultLoader implements Loader using github.com/ledongthuc/pdf.
type DefaultLoader struct {
	logger zerolog.Logger
}

// NewDefaultLoader constructs the default PDF loader.
func NewDefaultLoader() *DefaultLoader {
	return &DefaultLoader{logger: util.NewLogger(zerolog.ErrorLevel)}
}

// ExtractText implements Loader.
func (l *DefaultLoader) ExtractText(path string, maxPages int) (string, []chunking.PageBreak) {
	file, r, err := pdf.Open(path)
	if err != nil {
		l.logger.Warn().Err(err).Str("path", path).Msg("extract_text: failed to open PDF")
		return "", nil
	}
	defer file.Close()

	totalPages := r.NumPage()
	if maxPages > 0 && totalPages > maxPages {
		totalPages = maxPages
	}

	var b strings.Builder
	var breaks []chunking.PageBreak
	runeOffset := 0

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		// Offset is in runes, not bytes, so it lines up with chunking's
		// rune-indexed sliding window even when the text contains
		// multi-byte characters (currency symbols, em dashes, accents).
		breaks = append(breaks, chunking.PageBreak{Offset: runeOffset, Page: pageNum})

		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			l.logger.Warn().Err(err).Int("page", pageNum).Msg("extract_text: failed to extract page")
			continue
		}

		if pageNum > 1 {
			b.WriteString("\n\n")
			runeOffset += utf8.RuneCountInString("\n\n")
		}
		b.WriteString(text)
		runeOffset += utf8.RuneCountInString(text)
	}

	return b.String(), breaks
}
