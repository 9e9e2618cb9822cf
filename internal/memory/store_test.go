package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
)

func TestFilenameFor_DistinctPathsNeverCollide(t *testing.T) {
	a, err := FilenameFor("/tmp/a/report.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := FilenameFor("/tmp/b/report.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Errorf("expected distinct filenames for distinct absolute paths, got %q for both", a)
	}
}

func TestStore_AppendAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	pdfPath := filepath.Join(dir, "doc.pdf")

	before := store.Load(pdfPath)
	if len(before) != 0 {
		t.Fatalf("expected empty memory before first append, got %d entries", len(before))
	}

	entry := models.MemoryEntry{ID: "1", Question: "q", Answer: "a", Confidence: 0.9}
	if err := store.Append(pdfPath, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after := store.Load(pdfPath)
	if len(after) != len(before)+1 {
		t.Fatalf("expected exactly one more entry, got %d", len(after))
	}
	if after[len(after)-1].ID != "1" {
		t.Errorf("expected last entry ID '1', got %q", after[len(after)-1].ID)
	}

	name, _ := FilenameFor(pdfPath)
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("unexpected error reading memory file: %v", err)
	}
	var parsed []models.MemoryEntry
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("memory file does not parse as a JSON array: %v", err)
	}
}

func TestStore_Clear_DeletesFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	pdfPath := filepath.Join(dir, "doc.pdf")

	if err := store.Append(pdfPath, models.MemoryEntry{ID: "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, _ := FilenameFor(pdfPath)
	fullPath := filepath.Join(dir, name)
	if _, err := os.Stat(fullPath); err != nil {
		t.Fatalf("expected memory file to exist before Clear: %v", err)
	}

	if err := store.Clear(pdfPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(fullPath); !os.IsNotExist(err) {
		t.Errorf("expected memory file to be deleted after Clear, stat err = %v", err)
	}

	if err := store.Clear(pdfPath); err != nil {
		t.Errorf("expected Clear on missing file to be a no-op, got %v", err)
	}
}

func TestFindRelevant_FallsBackToTokenOverlapWithoutEmbedder(t *testing.T) {
	entries := []models.MemoryEntry{
		{Question: "What was revenue in 2024?", Answer: "Revenue was £25.3 billion."},
		{Question: "Who is the CEO?", Answer: "Jane Doe is the CEO."},
	}

	relevant := FindRelevant(context.Background(), nil, "revenue 2024", entries, 1)
	if len(relevant) != 1 {
		t.Fatalf("expected 1 relevant entry, got %d", len(relevant))
	}
	if relevant[0].Question != "What was revenue in 2024?" {
		t.Errorf("expected revenue entry to rank first, got %q", relevant[0].Question)
	}
}
