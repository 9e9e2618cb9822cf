package pdfsource

import "testing"

func TestDefaultLoader_ExtractText_MissingFileNeverRaises(t *testing.T) {
	loader := NewDefaultLoader()

	text, breaks := loader.ExtractText("/nonexistent/does-not-exist.pdf", 20)
	if text != "" {
		t.Errorf("expected empty text for missing file, got %q", text)
	}
	if breaks != nil {
		t.Errorf("expected nil page breaks for missing file, got %v", breaks)
	}
}
