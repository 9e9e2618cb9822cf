// Package verifier implements the verifier agent (C11-verifier):
// computing a weighted confidence score and quality flags from the
// system-computed provenance and evidence structures, never from the
// answer text's own claims about its sources.
package verifier

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/retrieval"
)

// Flag names, per §4.11. PARTIAL_EXTERNAL_COMPLETION is appended by the
// orchestrator, not by Verify, and is declared here only so callers share
// one string constant.
const (
	FlagOnlyGenericWeb          = "ONLY_GENERIC_WEB"
	FlagNumericContradiction    = "NUMERIC_CONTRADICTION"
	FlagOutdatedExternalData    = "OUTDATED_EXTERNAL_DATA"
	FlagLowEvidenceCoverage     = "LOW_EVIDENCE_COVERAGE"
	FlagPotentialHallucination  = "POTENTIAL_HALLUCINATION"
	FlagPartialExternalComplete = "PARTIAL_EXTERNAL_COMPLETION"
)

// LowEvidenceCoverageThreshold follows spec.md's 0.4 cutoff rather than
// the alternate 0.5 cutoff observed elsewhere; see DESIGN.md's Open
// Question resolution.
const LowEvidenceCoverageThreshold = 0.4

// OutdatedDataThreshold is how much older an external snippet's detected
// date may be than the document's publish date before it is flagged.
const OutdatedDataThreshold = 180 * 24 * time.Hour

// SourceWeights is the per-category source-quality weight table, exposed
// as a package variable so a caller can override it, per §9's guidance
// that the weight table is under-specified and should be configurable.
var SourceWeights = map[string]float64{
	"internal":   1.0,
	"regulatory": 0.9,
	"credit":     0.85,
	"financials": 0.8,
	"macro":      0.85,
	"market":     0.8,
	"news":       0.7,
	"generic":    0.5,
}

// Verdict is the verifier's output.
type Verdict struct {
	Confidence  float64
	Flags       []string
	Explanation string
}

var numberPattern = regexp.MustCompile(`\d[\d,.]*\s*%?`)

// Verify computes confidence and flags for answer against provenance,
// partials, and externalSnippets. docDate, if non-zero, is the source
// PDF's detected publish date, used for the outdated-data check.
func Verify(
	answer string,
	provenance []models.ProvenanceEntry,
	partials []models.PartialAnswer,
	externalSnippets []models.ToolSnippet,
	docDate time.Time,
) Verdict {
	maxInternalSim := maxInternalSimilarity(partials)
	sourceQuality := sourceQualityScore(provenance)
	coverage := coverageScore(answer, provenance)

	var flags []string
	consistency, contradictionFound := consistencyScore(answer, provenance, externalSnippets, docDate, &flags)

	confidence := 0.4*maxInternalSim + 0.3*sourceQuality + 0.2*coverage + 0.1*consistency
	confidence = clamp01(confidence)

	if hasOnlyGenericExternal(provenance) {
		flags = append(flags, FlagOnlyGenericWeb)
	}
	if coverage < LowEvidenceCoverageThreshold {
		flags = append(flags, FlagLowEvidenceCoverage)
	}
	if hasUnsupportedEntities(answer, provenance) {
		flags = append(flags, FlagPotentialHallucination)
	}

	_ = contradictionFound

	return Verdict{
		Confidence:  confidence,
		Flags:       dedupe(flags),
		Explanation: explain(maxInternalSim, sourceQuality, coverage, consistency),
	}
}

func maxInternalSimilarity(partials []models.PartialAnswer) float64 {
	max := 0.0
	for _, p := range partials {
		if p.Similarity > max {
			max = p.Similarity
		}
	}
	return max
}

func sourceQualityScore(provenance []models.ProvenanceEntry) float64 {
	if len(provenance) == 0 {
		return 0
	}
	var sum float64
	for _, p := range provenance {
		key := string(p.Type)
		if p.Category != "" {
			key = p.Category
		}
		weight, ok := SourceWeights[key]
		if !ok {
			weight = SourceWeights["generic"]
		}
		sum += weight
	}
	return sum / float64(len(provenance))
}

func coverageScore(answer string, provenance []models.ProvenanceEntry) float64 {
	sentences := splitSentences(answer)
	if len(sentences) == 0 {
		return 0
	}

	var evidence strings.Builder
	for _, p := range provenance {
		evidence.WriteString(p.Text)
		evidence.WriteString(" ")
	}
	evidenceTokens := retrieval.Tokenize(evidence.String())

	covered := 0
	for _, sentence := range sentences {
		sentenceTokens := retrieval.Tokenize(sentence)
		if len(sentenceTokens) == 0 {
			continue
		}
		overlap := 0
		for tok := range sentenceTokens {
			if _, ok := evidenceTokens[tok]; ok {
				overlap++
			}
		}
		if float64(overlap)/float64(len(sentenceTokens)) > 0 {
			covered++
		}
	}

	return float64(covered) / float64(len(sentences))
}

func consistencyScore(
	answer string,
	provenance []models.ProvenanceEntry,
	externalSnippets []models.ToolSnippet,
	docDate time.Time,
	flags *[]string,
) (float64, bool) {
	score := 1.0
	contradiction := false

	if numbersDisagree(provenance) {
		score -= 0.5
		contradiction = true
		*flags = append(*flags, FlagNumericContradiction)
	}

	if !docDate.IsZero() && externalDataOutdated(externalSnippets, docDate) {
		score -= 0.3
		*flags = append(*flags, FlagOutdatedExternalData)
	}

	sentences := splitSentences(answer)
	unsupported := 0
	for _, sentence := range sentences {
		if !sentenceSupported(sentence, provenance) {
			unsupported++
		}
	}
	if len(sentences) > 0 {
		score -= 0.2 * (float64(unsupported) / float64(len(sentences)))
	}

	if score < 0 {
		score = 0
	}
	return score, contradiction
}

func numbersDisagree(provenance []models.ProvenanceEntry) bool {
	seen := map[string]string{}
	for _, p := range provenance {
		for _, num := range numberPattern.FindAllString(p.Text, -1) {
			context := contextWindow(p.Text, num)
			if existing, ok := seen[context]; ok && existing != num {
				return true
			}
			seen[context] = num
		}
	}
	return false
}

func contextWindow(text, num string) string {
	idx := strings.Index(text, num)
	if idx < 0 {
		return ""
	}
	start := idx - 15
	if start < 0 {
		start = 0
	}
	end := idx
	return strings.ToLower(strings.TrimSpace(text[start:end]))
}

func externalDataOutdated(snippets []models.ToolSnippet, docDate time.Time) bool {
	for _, s := range snippets {
		detected := detectDate(s.Text)
		if detected.IsZero() {
			continue
		}
		if docDate.Sub(detected) > OutdatedDataThreshold {
			return true
		}
	}
	return false
}

var datePattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

func detectDate(text string) time.Time {
	match := datePattern.FindString(text)
	if match == "" {
		return time.Time{}
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return time.Time{}
	}
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
}

func sentenceSupported(sentence string, provenance []models.ProvenanceEntry) bool {
	sentenceTokens := retrieval.Tokenize(sentence)
	if len(sentenceTokens) == 0 {
		return true
	}
	for _, p := range provenance {
		evidenceTokens := retrieval.Tokenize(p.Text)
		for tok := range sentenceTokens {
			if _, ok := evidenceTokens[tok]; ok {
				return true
			}
		}
	}
	return false
}

func hasOnlyGenericExternal(provenance []models.ProvenanceEntry) bool {
	found := false
	for _, p := range provenance {
		if p.Type != models.ProvenanceExternal {
			continue
		}
		found = true
		weight, ok := SourceWeights[p.Category]
		if !ok || weight > 0.5 {
			return false
		}
	}
	return found
}

func hasUnsupportedEntities(answer string, provenance []models.ProvenanceEntry) bool {
	answerNumbers := numberPattern.FindAllString(answer, -1)
	if len(answerNumbers) == 0 {
		return false
	}

	var evidence strings.Builder
	for _, p := range provenance {
		evidence.WriteString(p.Text)
		evidence.WriteString(" ")
	}
	evidenceText := evidence.String()

	for _, num := range answerNumbers {
		if !strings.Contains(evidenceText, num) {
			return true
		}
	}
	return false
}

func splitSentences(text string) []string {
	raw := regexp.MustCompile(`[.!?]+`).Split(text, -1)
	var sentences []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func dedupe(flags []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, f := range flags {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func explain(maxInternalSim, sourceQuality, coverage, consistency float64) string {
	return strconv.FormatFloat(maxInternalSim, 'f', 2, 64) + " internal similarity, " +
		strconv.FormatFloat(sourceQuality, 'f', 2, 64) + " source quality, " +
		strconv.FormatFloat(coverage, 'f', 2, 64) + " coverage, " +
		strconv.FormatFloat(consistency, 'f', 2, 64) + " consistency"
}
