package verifier

import (
	"testing"
	"time"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
)

func TestVerify_InternalOnlySuccess(t *testing.T) {
	provenance := []models.ProvenanceEntry{
		{Type: models.ProvenanceInternal, Source: "/tmp/doc.pdf", Text: "Total revenue in 2024 was £25.3 billion."},
	}
	partials := []models.PartialAnswer{{Similarity: 0.9}}

	verdict := Verify("Total revenue in 2024 was £25.3 billion.", provenance, partials, nil, time.Time{})

	if verdict.Confidence < 0.7 {
		t.Errorf("expected confidence >= 0.7 for well-supported internal answer, got %v (%s)", verdict.Confidence, verdict.Explanation)
	}
	for _, f := range verdict.Flags {
		if f == FlagPartialExternalComplete {
			t.Errorf("verifier itself must never append PARTIAL_EXTERNAL_COMPLETION")
		}
	}
}

func TestVerify_ConfidenceIsClamped(t *testing.T) {
	verdict := Verify("", nil, nil, nil, time.Time{})
	if verdict.Confidence < 0.0 || verdict.Confidence > 1.0 {
		t.Errorf("confidence %v out of [0,1]", verdict.Confidence)
	}
}

func TestVerify_NumericContradictionFlag(t *testing.T) {
	provenance := []models.ProvenanceEntry{
		{Type: models.ProvenanceInternal, Text: "CET1 ratio was 14.2%"},
		{Type: models.ProvenanceExternal, Category: "market", Text: "CET1 ratio was 12.8%"},
	}

	verdict := Verify("CET1 ratio differs across sources.", provenance, nil, nil, time.Time{})

	found := false
	for _, f := range verdict.Flags {
		if f == FlagNumericContradiction {
			found = true
		}
	}
	if !found {
		t.Errorf("expected NUMERIC_CONTRADICTION flag, got %v", verdict.Flags)
	}
}

func TestVerify_OnlyGenericWebFlag(t *testing.T) {
	provenance := []models.ProvenanceEntry{
		{Type: models.ProvenanceExternal, Category: "generic", Text: "Market cap ≈ $290B"},
	}

	verdict := Verify("Market cap is approximately $290B.", provenance, nil, nil, time.Time{})

	found := false
	for _, f := range verdict.Flags {
		if f == FlagOnlyGenericWeb {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ONLY_GENERIC_WEB flag, got %v", verdict.Flags)
	}
}

func TestVerify_LowEvidenceCoverageFlag(t *testing.T) {
	provenance := []models.ProvenanceEntry{
		{Type: models.ProvenanceInternal, Text: "Headquarters moved to a new building last spring."},
	}

	verdict := Verify("Net income grew sharply due to cost discipline.", provenance, nil, nil, time.Time{})

	found := false
	for _, f := range verdict.Flags {
		if f == FlagLowEvidenceCoverage {
			found = true
		}
	}
	if !found {
		t.Errorf("expected LOW_EVIDENCE_COVERAGE flag, got %v (%s)", verdict.Flags, verdict.Explanation)
	}
}
