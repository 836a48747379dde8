package render

import (
	"embed"
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/trialmap/internal/model"
)

//go:embed map.tmpl
var mapFS embed.FS

var mapTemplate = template.Must(template.ParseFS(mapFS, "map.tmpl"))

// statusDisplay maps registry status codes to the labels shown in the
// filter sidebar. Codes not listed fall back to title-cased words.
var statusDisplay = map[string]string{
	"RECRUITING":              "Recruiting",
	"ACTIVE_NOT_RECRUITING":   "Active, not recruiting",
	"COMPLETED":               "Completed",
	"ENROLLING_BY_INVITATION": "Enrolling by invitation",
	"NOT_YET_RECRUITING":      "Not yet recruiting",
	"SUSPENDED":               "Suspended",
	"TERMINATED":              "Terminated",
	"WITHDRAWN":               "Withdrawn",
	"UNKNOWN":                 "Unknown",
}

var titleCaser = cases.Title(language.AmericanEnglish)

// StatusLabel returns the sidebar label for a registry status code.
func StatusLabel(code string) string {
	if label, ok := statusDisplay[code]; ok {
		return label
	}
	words := strings.ReplaceAll(strings.ToLower(code), "_", " ")
	return titleCaser.String(words)
}

// StatusOption is one status checkbox in the sidebar.
type StatusOption struct {
	Code  string
	Label string
}

// MapData is everything the map template needs.
type MapData struct {
	Title         string
	LocationsJSON template.JS
	Statuses      []StatusOption
	EnrollTypes   []string
	SkinTypes     []int
	MinYear       int
	MaxYear       int
	MaxEnrollment int
	RaceKeys      []string
	MaxRaceCounts map[string]int
}

// BuildMapData derives the sidebar filter bounds from the grouped locations
// and serializes them for the template.
func BuildMapData(title string, locations []Location, raceKeys []string) (*MapData, error) {
	data := &MapData{
		Title:         title,
		RaceKeys:      raceKeys,
		MaxRaceCounts: make(map[string]int, len(raceKeys)),
	}
	for _, t := range model.AllSkinTypes() {
		data.SkinTypes = append(data.SkinTypes, int(t))
	}

	seenStatus := make(map[string]bool)
	seenEnrollType := make(map[string]bool)
	for _, loc := range locations {
		for _, s := range loc.Studies {
			if !seenStatus[s.Status] {
				seenStatus[s.Status] = true
				data.Statuses = append(data.Statuses, StatusOption{
					Code:  s.Status,
					Label: StatusLabel(s.Status),
				})
			}
			if s.EnrollmentType != "" && s.EnrollmentType != "N/A" && !seenEnrollType[s.EnrollmentType] {
				seenEnrollType[s.EnrollmentType] = true
				data.EnrollTypes = append(data.EnrollTypes, s.EnrollmentType)
			}
			if s.Enrollment != nil && *s.Enrollment > data.MaxEnrollment {
				data.MaxEnrollment = *s.Enrollment
			}
			if year, err := strconv.Atoi(s.LastUpdateYear); err == nil {
				if data.MinYear == 0 || year < data.MinYear {
					data.MinYear = year
				}
				if year > data.MaxYear {
					data.MaxYear = year
				}
			}
			for _, k := range raceKeys {
				if s.RaceData[k] > data.MaxRaceCounts[k] {
					data.MaxRaceCounts[k] = s.RaceData[k]
				}
			}
		}
	}
	if data.MinYear == 0 {
		data.MinYear = 2000
	}
	if data.MaxYear < data.MinYear {
		data.MaxYear = data.MinYear
	}

	locJSON, err := json.Marshal(locations)
	if err != nil {
		return nil, eris.Wrap(err, "render: marshal locations")
	}
	data.LocationsJSON = template.JS(locJSON) //nolint:gosec // JSON from our own structs

	return data, nil
}

// WriteMap renders the interactive map HTML to path.
func WriteMap(path, title string, locations []Location, raceKeys []string) error {
	data, err := BuildMapData(title, locations, raceKeys)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "render: create output dir")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "render: create map file")
	}
	defer f.Close() //nolint:errcheck

	if err := mapTemplate.Execute(f, data); err != nil {
		return eris.Wrap(err, "render: execute template")
	}
	return eris.Wrap(f.Close(), "render: close map file")
}
