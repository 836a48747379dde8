package pipeline

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/trialmap/internal/model"
)

// AssembleResult is the row assembler's output plus its diagnostic counts.
type AssembleResult struct {
	Rows           []model.AssembledRow
	RaceKeys       []string
	StudiesIn      int
	NoFacilities   int
	NoInclusion    int
	Vetoed         int
	UnparsedRows   int
	UnparsedNCTIDs []string
}

// AssembleRows joins classification and aggregation output into one flat row
// per (study, facility) pair.
//
// Per study: aggregate details and skip when no facility qualifies; segment
// the criteria text and skip when no inclusion sentence mentions the keyword;
// classify the FIRST inclusion sentence only — a disqualifying veto drops the
// study with no fallback to later sentences. Surviving studies emit one row
// per facility with race counts zero-filled across the union of race keys
// seen in the whole run. Rows whose six type flags are all clear (keyword
// matched but no numeral extracted) are dropped last and counted.
func AssembleRows(studies []model.StudyRecord, opts DetailOptions, rules *Rules) AssembleResult {
	res := AssembleResult{StudiesIn: len(studies)}
	raceKeys := make(map[string]bool)

	var rows []model.AssembledRow
	for i := range studies {
		study := &studies[i]
		nctID := study.NCTID()

		details := ExtractStudyDetails(study, opts)
		if len(details.Facilities) == 0 {
			res.NoFacilities++
			continue
		}

		// Race keys from every study with facilities contribute to the
		// run-wide column union, matching the historical dataset shape.
		for k := range details.RaceData {
			raceKeys[k] = true
		}

		inclusion := InclusionSentences(SegmentCriteria(study.EligibilityCriteria(), rules.Keyword))
		if len(inclusion) == 0 {
			res.NoInclusion++
			continue
		}

		score := ClassifySentence(inclusion[0].Text, rules)
		if score.IsVeto() {
			res.Vetoed++
			zap.L().Debug("assemble: study vetoed by disqualifying term",
				zap.String("nct_id", nctID),
				zap.String("sentence", inclusion[0].Text),
			)
			continue
		}

		for _, fac := range details.Facilities {
			flags := make(map[model.SkinType]bool, len(score.Flags))
			for t, set := range score.Flags {
				flags[t] = set
			}
			rows = append(rows, model.AssembledRow{
				NCTID:          nctID,
				Status:         details.Status,
				Enrollment:     details.Enrollment,
				EnrollmentType: details.EnrollmentType,
				LastUpdateYear: details.LastUpdateYear,
				ExtractedScore: score.Label,
				Flags:          flags,
				Facility:       fac,
				RaceData:       details.RaceData,
			})
		}
	}

	res.RaceKeys = sortedKeys(raceKeys)

	// Zero-fill the race-key union and drop Not Specified survivors.
	unparsedStudies := make(map[string]bool)
	for i := range rows {
		row := &rows[i]
		filled := make(map[string]int, len(res.RaceKeys))
		for _, k := range res.RaceKeys {
			filled[k] = row.RaceData[k]
		}
		row.RaceData = filled

		if row.FlagSum() == 0 {
			res.UnparsedRows++
			unparsedStudies[row.NCTID] = true
			continue
		}
		res.Rows = append(res.Rows, *row)
	}
	res.UnparsedNCTIDs = sortedKeys(unparsedStudies)

	if res.UnparsedRows > 0 {
		zap.L().Info("assemble: dropped rows with no specific skin-type flags",
			zap.Int("rows", res.UnparsedRows),
			zap.Int("studies", len(res.UnparsedNCTIDs)),
		)
	}

	return res
}

// UnparsedRowsOf returns the rows that would be dropped for having no type
// flags, for the review CSV.
func UnparsedRowsOf(studies []model.StudyRecord, opts DetailOptions, rules *Rules) []model.AssembledRow {
	var out []model.AssembledRow
	for i := range studies {
		study := &studies[i]
		details := ExtractStudyDetails(study, opts)
		if len(details.Facilities) == 0 {
			continue
		}
		inclusion := InclusionSentences(SegmentCriteria(study.EligibilityCriteria(), rules.Keyword))
		if len(inclusion) == 0 {
			continue
		}
		score := ClassifySentence(inclusion[0].Text, rules)
		if score.IsVeto() || score.FlagCount() > 0 {
			continue
		}
		for _, fac := range details.Facilities {
			out = append(out, model.AssembledRow{
				NCTID:          study.NCTID(),
				ExtractedScore: score.Label,
				Facility:       fac,
			})
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
