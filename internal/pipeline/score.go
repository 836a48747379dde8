package pipeline

import (
	"regexp"
	"strings"

	"github.com/sells-group/trialmap/internal/model"
)

// Numeral tokens recognized as skin-type references. Longest alternatives
// first so "iii" is not consumed as "i". "l" is a legacy alias for type I
// seen in older protocols, not a Latin 50.
var (
	numeralPattern = regexp.MustCompile(`(?i)\b(vi|v|iv|iii|ii|i|l|[1-6])\b`)
	rangePattern   = regexp.MustCompile(`(?i)\b(vi|v|iv|iii|ii|i|l|[1-6])\b\s*(?:-|to|through)\s*\b(vi|v|iv|iii|ii|i|l|[1-6])\b`)
)

// numeralValue maps a matched token to its skin-type value 1-6.
// Returns 0 for unrecognized tokens.
func numeralValue(token string) int {
	switch strings.ToUpper(token) {
	case "I", "L", "1":
		return 1
	case "II", "2":
		return 2
	case "III", "3":
		return 3
	case "IV", "4":
		return 4
	case "V", "5":
		return 5
	case "VI", "6":
		return 6
	}
	return 0
}

// ClassifySentence extracts a canonical skin-type classification from one
// eligibility sentence. It is a pure function of its inputs.
//
// Decision order, first match wins:
//  1. a disqualifying term ("wrinkle" by default) vetoes the sentence and,
//     at the caller, the whole owning study;
//  2. "all" or "any" sets all six flags;
//  3. a numeral range "X - Y" / "X to Y" / "X through Y" with X < Y sets
//     the inclusive span. A backwards range (X >= Y) is discarded outright
//     and does NOT fall through to enumeration — the sentence classifies
//     as Not Specified. That matches the historical extractor and is
//     pinned by tests;
//  4. otherwise every standalone numeral token sets its flag, label built
//     from the deduplicated numerals in first-seen order.
func ClassifySentence(sentence string, rules *Rules) model.ScoreClassification {
	if rules == nil {
		rules = DefaultRules()
	}

	result := model.NewScoreClassification()
	text := strings.ToLower(sentence)

	for _, term := range rules.DisqualifyingTerms {
		if term != "" && strings.Contains(text, strings.ToLower(term)) {
			result.Label = model.LabelNotASkinType
			return result
		}
	}

	if strings.Contains(text, "all") || strings.Contains(text, "any") {
		for _, t := range model.AllSkinTypes() {
			result.Flags[t] = true
		}
		result.Label = model.LabelAll
		return result
	}

	if m := rangePattern.FindStringSubmatch(text); m != nil {
		start, end := numeralValue(m[1]), numeralValue(m[2])
		if start != 0 && end != 0 && start < end {
			for v := start; v <= end; v++ {
				result.Flags[model.SkinType(v)] = true
			}
			result.Label = model.SkinType(start).Roman() + "-" + model.SkinType(end).Roman()
		}
		// Backwards or degenerate range: no enumeration fallback.
		return result
	}

	seen := make(map[int]bool)
	var romans []string
	for _, m := range numeralPattern.FindAllStringSubmatch(text, -1) {
		v := numeralValue(m[1])
		if v == 0 || seen[v] {
			continue
		}
		seen[v] = true
		result.Flags[model.SkinType(v)] = true
		romans = append(romans, model.SkinType(v).Roman())
	}
	if len(romans) > 0 {
		result.Label = strings.Join(romans, ", ")
	}

	return result
}
