// Package memory implements the per-PDF semantic memory store (C4): an
// append-only JSON array file per PDF, written atomically, with similarity
// ranking for recall at synthesis time.
package memory

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/embeddings"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/retrieval"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
)

const hashPrefixLen = 10

// Store persists and recalls memory entries for a PDF.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore constructs a Store rooted at dir (created on first write if
// absent).
func NewStore(dir string) *Store {
	return &Store{dir: dir, logger: util.NewLogger(zerolog.ErrorLevel)}
}

// FilenameFor returns the memory filename for pdfPath, per
// memory_<basename>_<sha256(abspath)[:10]>.json.
func FilenameFor(pdfPath string) (string, error) {
	abs, err := filepath.Abs(pdfPath)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	hash := fmt.Sprintf("%x", sum)[:hashPrefixLen]
	base := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	return fmt.Sprintf("memory_%s_%s.json", base, hash), nil
}

func (s *Store) pathFor(pdfPath string) (string, error) {
	name, err := FilenameFor(pdfPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// Load returns the memory entries for pdfPath, or an empty slice if the
// file is missing or unreadable.
func (s *Store) Load(pdfPath string) []models.MemoryEntry {
	path, err := s.pathFor(pdfPath)
	if err != nil {
		s.logger.Warn().Err(err).Msg("memory: load: bad path")
		return []models.MemoryEntry{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []models.MemoryEntry{}
	}

	var entries []models.MemoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("memory: load: unparseable file")
		return []models.MemoryEntry{}
	}
	return entries
}

// Append reads the current list, appends entry, and writes it back
// atomically (write to a sibling temp file, then rename over the
// target), so concurrent readers never observe a torn write.
func (s *Store) Append(pdfPath string, entry models.MemoryEntry) error {
	path, err := s.pathFor(pdfPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("memory: append: mkdir: %w", err)
	}

	entries := s.Load(pdfPath)
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: append: marshal: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("memory: append: write temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("memory: append: rename: %w", err)
	}

	return nil
}

// Clear deletes the PDF's memory file if present. A missing file is not
// an error.
func (s *Store) Clear(pdfPath string) error {
	path, err := s.pathFor(pdfPath)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("memory: clear: %w", err)
	}
	return nil
}

// ListAll returns the absolute paths of all memory files in the store
// directory.
func (s *Store) ListAll() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			abs, err := filepath.Abs(filepath.Join(s.dir, e.Name()))
			if err != nil {
				continue
			}
			paths = append(paths, abs)
		}
	}
	return paths, nil
}

// FindRelevant ranks entries by cosine similarity of the query embedding
// against each entry's stored answer embedding, falling back to token
// overlap over the concatenated question+answer text when embeddings are
// unavailable.
func FindRelevant(
	ctx context.Context,
	embedder embeddings.Client,
	query string,
	entries []models.MemoryEntry,
	topK int,
) []models.MemoryEntry {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	vecs := make([][]float32, len(entries))
	for i, e := range entries {
		texts[i] = e.Question + " " + e.Answer
		vecs[i] = e.Embedding
	}

	scored := retrieval.TopKEmbedding(ctx, embedder, query, texts, vecs, topK)

	out := make([]models.MemoryEntry, 0, len(scored))
	for _, s := range scored {
		out = append(out, entries[s.Index])
	}
	return out
}
