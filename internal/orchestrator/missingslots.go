package orchestrator

import "strings"

// slotTriggers maps a named financial slot to the phrases in a question
// that indicate the slot is being asked about. It is fixed and small,
// scoped to the BFSI questions this system answers, rather than a general
// NLP slot-filling model.
var slotTriggers = map[string][]string{
	"market capitalization": {"market cap", "market capitalization"},
	"revenue":               {"revenue", "total revenue", "turnover"},
	"net income":            {"net income", "profit", "net profit"},
	"cet1 ratio":            {"cet1", "tier 1 capital"},
	"credit rating":         {"credit rating", "rated"},
	"share price":           {"share price", "stock price"},
	"dividend":              {"dividend"},
}

var comparisonTriggers = []string{"compare", "versus", " vs ", " vs. ", " and "}

// missingSlots reports which slots a question asks about: every slot with
// at least one trigger phrase in the lowercased question. It looks only
// at the question; secondaryCompletion applies the classifier gate and
// drops slots the evidence already covers (uncoveredSlots).
func missingSlots(question string) []string {
	lower := strings.ToLower(question)

	var found []string
	for slot, triggers := range slotTriggers {
		for _, trigger := range triggers {
			if strings.Contains(lower, trigger) {
				found = append(found, slot)
				break
			}
		}
	}
	return found
}

// isComparisonQuestion reports whether the question asks to compare two
// or more things, which typically means multiple slots must each be
// independently supported rather than treated as one fact.
func isComparisonQuestion(question string) bool {
	lower := " " + strings.ToLower(question) + " "
	for _, trigger := range comparisonTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}
