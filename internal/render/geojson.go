package render

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureCollection converts grouped locations into a GeoJSON feature
// collection, one point feature per marker.
func FeatureCollection(locations []Location) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}

	for i := range locations {
		loc := &locations[i]

		nctIDs := make([]string, 0, len(loc.Studies))
		for _, s := range loc.Studies {
			nctIDs = append(nctIDs, s.NCTID)
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       loc.Key,
			Geometry: geom.NewPointFlat(geom.XY, []float64{loc.Longitude, loc.Latitude}).SetSRID(4326),
			Properties: map[string]any{
				"facility":  loc.Facility,
				"placeName": loc.PlaceName,
				"city":      loc.City,
				"state":     loc.State,
				"studies":   len(loc.Studies),
				"nctIds":    nctIDs,
			},
		})
	}

	return fc
}

// WriteGeoJSON writes the locations to path as a GeoJSON file.
func WriteGeoJSON(path string, locations []Location) error {
	fc := FeatureCollection(locations)
	data, err := fc.MarshalJSON()
	if err != nil {
		return eris.Wrap(err, "render: marshal geojson")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "render: create output dir")
		}
	}
	return eris.Wrap(os.WriteFile(path, data, 0o644), "render: write geojson")
}
