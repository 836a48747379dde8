package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RunSummary collects the counts every stage reports, for the run report.
type RunSummary struct {
	RunID     string
	Keyword   string
	StartedAt time.Time
	Duration  time.Duration

	StudiesFetched int
	Assembly       AssembleResult
	Geocode        GeocodeStats
	CacheCalls     int
	CacheHits      int
	CacheMisses    int
}

// FormatReport generates a human-readable run report.
func FormatReport(s RunSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Trial Map Run: %s\n", s.RunID)
	fmt.Fprintf(&b, "Keyword: %s\n", s.Keyword)
	fmt.Fprintf(&b, "Started: %s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %s\n\n", s.Duration.Round(time.Millisecond))

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Studies fetched: %d\n", s.StudiesFetched)
	fmt.Fprintf(&b, "- Studies in: %d\n", s.Assembly.StudiesIn)
	fmt.Fprintf(&b, "- Rows out: %d\n", len(s.Assembly.Rows))
	fmt.Fprintf(&b, "- Race columns: %d\n\n", len(s.Assembly.RaceKeys))

	b.WriteString("## Assembly\n")
	fmt.Fprintf(&b, "- No qualifying facilities: %d\n", s.Assembly.NoFacilities)
	fmt.Fprintf(&b, "- No inclusion sentence with keyword: %d\n", s.Assembly.NoInclusion)
	fmt.Fprintf(&b, "- Vetoed by disqualifying term: %d\n", s.Assembly.Vetoed)
	fmt.Fprintf(&b, "- Unparsed rows dropped: %d (%d studies)\n\n",
		s.Assembly.UnparsedRows, len(s.Assembly.UnparsedNCTIDs))

	b.WriteString("## Geocoding\n")
	fmt.Fprintf(&b, "- Queries planned: %d\n", s.Geocode.Planned)
	fmt.Fprintf(&b, "- Rows skipped: %d\n", s.Geocode.Skipped)
	if len(s.Geocode.SkipsByReason) > 0 {
		reasons := make([]string, 0, len(s.Geocode.SkipsByReason))
		for r := range s.Geocode.SkipsByReason {
			reasons = append(reasons, string(r))
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Fprintf(&b, "  - %s: %d\n", r, s.Geocode.SkipsByReason[SkipReason(r)])
		}
	}
	fmt.Fprintf(&b, "- Resolved: %d\n", s.Geocode.Resolved)
	fmt.Fprintf(&b, "- No results: %d\n", s.Geocode.NoResults)
	fmt.Fprintf(&b, "- Failed: %d\n", s.Geocode.Failed)
	fmt.Fprintf(&b, "- External calls: %d (hits %d, misses %d)\n",
		s.CacheCalls, s.CacheHits, s.CacheMisses)

	return b.String()
}
