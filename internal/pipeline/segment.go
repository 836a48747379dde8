// Package pipeline implements the trialmap extraction stages: criteria
// segmentation, skin-type classification, study aggregation, row assembly,
// and geocode planning.
package pipeline

import (
	"regexp"
	"strings"

	"github.com/sells-group/trialmap/internal/model"
)

var (
	exclusionMarker = regexp.MustCompile(`(?i)exclusion`)
	sentenceSplit   = regexp.MustCompile(`[.\n]`)
)

// SegmentCriteria splits eligibility-criteria text into keyword-bearing
// sentences, tagged inclusion or exclusion.
//
// The split is positional, not structural: everything before the first
// occurrence of the word "exclusion" (any case) is treated as inclusion
// criteria, everything after as exclusion criteria. This mirrors how the
// registry formats criteria in practice and is intentionally preserved
// as-is. If the marker never appears the whole text is inclusion-only.
func SegmentCriteria(text, keyword string) []model.EligibilitySentence {
	if text == "" || keyword == "" {
		return nil
	}

	inclusion := text
	exclusion := ""
	if loc := exclusionMarker.FindStringIndex(text); loc != nil {
		inclusion = text[:loc[0]]
		exclusion = text[loc[1]:]
	}

	keyword = strings.ToLower(keyword)

	var out []model.EligibilitySentence
	for _, seg := range []struct {
		text        string
		isExclusion bool
	}{
		{inclusion, false},
		{exclusion, true},
	} {
		if seg.text == "" {
			continue
		}
		for _, sentence := range sentenceSplit.Split(seg.text, -1) {
			trimmed := strings.TrimSpace(sentence)
			if trimmed == "" {
				continue
			}
			if !strings.Contains(strings.ToLower(trimmed), keyword) {
				continue
			}
			out = append(out, model.EligibilitySentence{
				Text:        trimmed,
				IsExclusion: seg.isExclusion,
			})
		}
	}

	return out
}

// InclusionSentences filters a segmented list down to inclusion sentences,
// preserving document order. The first entry is authoritative for
// classification.
func InclusionSentences(sentences []model.EligibilitySentence) []model.EligibilitySentence {
	var out []model.EligibilitySentence
	for _, s := range sentences {
		if !s.IsExclusion {
			out = append(out, s)
		}
	}
	return out
}
