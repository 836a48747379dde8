package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trialmap/internal/model"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func rowAt(nctID string, lat, lon *float64, types ...model.SkinType) model.AssembledRow {
	flags := make(map[model.SkinType]bool)
	for _, t := range types {
		flags[t] = true
	}
	return model.AssembledRow{
		NCTID:          nctID,
		Status:         "RECRUITING",
		Enrollment:     intPtr(50),
		LastUpdateYear: "2022",
		ExtractedScore: "II",
		Flags:          flags,
		Facility: model.FacilityRecord{
			Facility: "Derm Center", City: "Boston", State: "MA",
			Latitude: lat, Longitude: lon, PlaceName: "Derm Center",
		},
		RaceData: map[string]int{"Race_White": 10},
	}
}

func TestGroupLocations_CollapsesByCoordinate(t *testing.T) {
	lat, lon := 42.330001, -71.100001
	rows := []model.AssembledRow{
		rowAt("NCT00000001", &lat, &lon, model.TypeII),
		rowAt("NCT00000002", &lat, &lon, model.TypeIII),
	}

	locs := GroupLocations(rows)
	require.Len(t, locs, 1)
	assert.Equal(t, "42.330001,-71.100001", locs[0].Key)
	require.Len(t, locs[0].Studies, 2)
	assert.Equal(t, "NCT00000001", locs[0].Studies[0].NCTID)
	assert.Equal(t, []int{2}, locs[0].Studies[0].SkinTypes)
	assert.Equal(t, []int{3}, locs[0].Studies[1].SkinTypes)
}

func TestGroupLocations_DropsUnresolvedRows(t *testing.T) {
	lat, lon := 42.33, -71.1
	rows := []model.AssembledRow{
		rowAt("NCT00000001", &lat, &lon, model.TypeII),
		rowAt("NCT00000002", nil, nil, model.TypeIII),
	}

	locs := GroupLocations(rows)
	require.Len(t, locs, 1)
	require.Len(t, locs[0].Studies, 1)
	assert.Equal(t, "NCT00000001", locs[0].Studies[0].NCTID)
}

func TestGroupLocations_DeterministicOrder(t *testing.T) {
	aLat, aLon := 30.0, -90.0
	bLat, bLon := 45.0, -80.0
	rows := []model.AssembledRow{
		rowAt("NCT00000001", &bLat, &bLon, model.TypeII),
		rowAt("NCT00000002", &aLat, &aLon, model.TypeII),
	}

	locs := GroupLocations(rows)
	require.Len(t, locs, 2)
	assert.Less(t, locs[0].Key, locs[1].Key)
}

func TestLocationKey_RoundsToSixDecimals(t *testing.T) {
	assert.Equal(t, LocationKey(42.3300001, -71.1), LocationKey(42.3300002, -71.1))
	assert.NotEqual(t, LocationKey(42.330001, -71.1), LocationKey(42.330002, -71.1))
}
