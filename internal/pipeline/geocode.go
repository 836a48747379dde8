package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/trialmap/internal/model"
	"github.com/sells-group/trialmap/pkg/geocode"
)

// NoResultsMarker is written to a row's place name when the geocoder
// answered but found nothing, so a confirmed miss is distinguishable from a
// row that was never looked up.
const NoResultsMarker = "NO_RESULTS_FOUND"

// GeocodeStats counts the planner's outcomes for the run report.
type GeocodeStats struct {
	Planned   int
	Skipped   int
	Resolved  int
	NoResults int
	Failed    int

	SkipsByReason map[SkipReason]int
}

// GeocodeRows plans a query per row and resolves it through the cached
// client, writing coordinates and place name back onto the originating row
// only. Rows that already carry coordinates are left alone. Lookup failures
// are soft: the row stays unresolved and the run continues.
func GeocodeRows(ctx context.Context, rows []model.AssembledRow, client *geocode.CachedClient, rules *Rules) GeocodeStats {
	stats := GeocodeStats{SkipsByReason: make(map[SkipReason]int)}

	for i := range rows {
		row := &rows[i]
		if row.Facility.HasCoordinates() {
			continue
		}

		plan := PlanQuery(&row.Facility, rules)
		if !plan.Workable() {
			stats.Skipped++
			stats.SkipsByReason[plan.Reason]++
			continue
		}
		stats.Planned++

		result, matched := client.Lookup(ctx, plan.Query)
		switch {
		case matched:
			lat, lon := result.Latitude, result.Longitude
			row.Facility.Latitude = &lat
			row.Facility.Longitude = &lon
			row.Facility.PlaceName = result.Name
			stats.Resolved++
		case result != nil && !result.Matched:
			row.Facility.PlaceName = NoResultsMarker
			stats.NoResults++
			zap.L().Debug("geocode: no results",
				zap.String("nct_id", row.NCTID),
				zap.String("query", plan.Query),
			)
		default:
			stats.Failed++
		}

		if ctx.Err() != nil {
			zap.L().Warn("geocode: run cancelled", zap.Error(ctx.Err()))
			break
		}
	}

	return stats
}
