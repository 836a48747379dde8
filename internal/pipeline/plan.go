package pipeline

import (
	"strings"
	"unicode"

	"github.com/sells-group/trialmap/internal/model"
)

// SkipReason explains why a row was ruled out of geocoding.
type SkipReason string

// Fatal-flaw reasons. A skipped row keeps its source data untouched.
const (
	SkipMissingFacility SkipReason = "missing_facility"
	SkipBadPrefix       SkipReason = "bad_facility_prefix"
	SkipBadZip          SkipReason = "bad_zip"
	SkipSiteSuffix      SkipReason = "facility_ends_with_site"
	SkipNumberedSite    SkipReason = "facility_ends_with_number"
)

// QueryPlan is the planner's verdict for one row: either a concrete search
// query, or a skip with its reason. It replaces the historical "SKIP"
// sentinel string so downstream code cannot confuse a marker with data.
type QueryPlan struct {
	Query  string
	Reason SkipReason
}

// Workable reports whether the row should be geocoded.
func (p QueryPlan) Workable() bool { return p.Reason == "" }

// missingValues are source strings that mean "no data". "nan" survives from
// datasets that round-tripped through spreadsheet tooling.
func missingValue(s string) bool {
	return s == "" || s == "N/A" || s == "nan"
}

// PlanQuery decides whether and how to geocode one facility row.
//
// Fatal flaws, checked in order: missing facility name, a known junk name
// prefix, an all-zeros zip, a name ending in "site" (anonymized sponsor
// sites), or a name ending in digits (numbered site labels). Workable rows
// get "{facility}, {city}, {state} {zip}", with the zip segment omitted
// entirely when the zip itself is missing.
func PlanQuery(fac *model.FacilityRecord, rules *Rules) QueryPlan {
	if rules == nil {
		rules = DefaultRules()
	}

	if missingValue(fac.Facility) {
		return QueryPlan{Reason: SkipMissingFacility}
	}
	for _, prefix := range rules.BadFacilityPrefix {
		if prefix != "" && strings.HasPrefix(fac.Facility, prefix) {
			return QueryPlan{Reason: SkipBadPrefix}
		}
	}
	for _, zip := range rules.BadZips {
		if zip != "" && fac.Zip == zip {
			return QueryPlan{Reason: SkipBadZip}
		}
	}
	if strings.HasSuffix(strings.ToLower(fac.Facility), "site") {
		return QueryPlan{Reason: SkipSiteSuffix}
	}
	if endsWithDigit(fac.Facility) {
		return QueryPlan{Reason: SkipNumberedSite}
	}

	if missingValue(fac.Zip) {
		return QueryPlan{Query: fac.Facility + ", " + fac.City + ", " + fac.State}
	}
	return QueryPlan{Query: fac.Facility + ", " + fac.City + ", " + fac.State + " " + fac.Zip}
}

func endsWithDigit(s string) bool {
	if s == "" {
		return false
	}
	r := rune(s[len(s)-1])
	return unicode.IsDigit(r)
}
