// Package render produces the map artifacts: grouped location data, a
// GeoJSON feature collection, and a self-contained interactive HTML map.
package render

import (
	"fmt"
	"sort"

	"github.com/sells-group/trialmap/internal/model"
)

// StudyAtLocation is one study's entry in a location popup.
type StudyAtLocation struct {
	NCTID          string         `json:"nctId"`
	Status         string         `json:"status"`
	Enrollment     *int           `json:"enrollment"`
	EnrollmentType string         `json:"enrollmentType"`
	LastUpdateYear string         `json:"lastUpdateYear"`
	ExtractedScore string         `json:"extractedScore"`
	SkinTypes      []int          `json:"skinTypes"`
	RaceData       map[string]int `json:"raceData"`
}

// Location is one map marker: every study row that resolved to the same
// rounded coordinate pair.
type Location struct {
	Key       string            `json:"key"`
	Latitude  float64           `json:"lat"`
	Longitude float64           `json:"lon"`
	Facility  string            `json:"facility"`
	PlaceName string            `json:"placeName"`
	City      string            `json:"city"`
	State     string            `json:"state"`
	Studies   []StudyAtLocation `json:"studies"`
}

// LocationKey rounds a coordinate pair to six decimals so rows geocoded to
// the same place collapse onto one marker.
func LocationKey(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}

// GroupLocations collapses geocoded rows into one Location per coordinate
// pair. Rows without coordinates are excluded. Output is ordered by key so
// rendering is deterministic.
func GroupLocations(rows []model.AssembledRow) []Location {
	byKey := make(map[string]*Location)

	for i := range rows {
		row := &rows[i]
		if !row.Facility.HasCoordinates() {
			continue
		}

		lat, lon := *row.Facility.Latitude, *row.Facility.Longitude
		key := LocationKey(lat, lon)
		loc, ok := byKey[key]
		if !ok {
			loc = &Location{
				Key:       key,
				Latitude:  lat,
				Longitude: lon,
				Facility:  row.Facility.Facility,
				PlaceName: row.Facility.PlaceName,
				City:      row.Facility.City,
				State:     row.Facility.State,
			}
			byKey[key] = loc
		}

		var skinTypes []int
		for _, t := range model.AllSkinTypes() {
			if row.Flags[t] {
				skinTypes = append(skinTypes, int(t))
			}
		}
		loc.Studies = append(loc.Studies, StudyAtLocation{
			NCTID:          row.NCTID,
			Status:         row.Status,
			Enrollment:     row.Enrollment,
			EnrollmentType: row.EnrollmentType,
			LastUpdateYear: row.LastUpdateYear,
			ExtractedScore: row.ExtractedScore,
			SkinTypes:      skinTypes,
			RaceData:       row.RaceData,
		})
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Location, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}
