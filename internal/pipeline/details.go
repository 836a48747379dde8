package pipeline

import (
	"strconv"
	"strings"

	"github.com/sells-group/trialmap/internal/model"
)

// raceMeasureTitle is the baseline measure the aggregator reads demographics from.
const raceMeasureTitle = "Race (NIH/OMB)"

// DetailOptions controls facility qualification during aggregation.
type DetailOptions struct {
	// Country a location must match to contribute a facility.
	Country string

	// RequireGeoPoint drops locations the registry has no coordinates for.
	// The map-only pipeline sets this; the geocoding pipeline clears it and
	// fills coordinates later.
	RequireGeoPoint bool
}

// ExtractStudyDetails pulls status, enrollment, last-update year, qualifying
// facilities, and race demographics out of one study record. Missing source
// fields default ("N/A", nil, empty) and are never treated as errors.
func ExtractStudyDetails(study *model.StudyRecord, opts DetailOptions) model.StudyDetails {
	details := model.StudyDetails{
		Status:         "N/A",
		EnrollmentType: "N/A",
		LastUpdateYear: "N/A",
		RaceData:       make(map[string]int),
	}

	protocol := &study.ProtocolSection

	if protocol.Status.OverallStatus != "" {
		details.Status = protocol.Status.OverallStatus
	}
	if pd := protocol.Status.LastUpdatePostDate; pd != nil && len(pd.Date) >= 4 {
		details.LastUpdateYear = pd.Date[:4]
	}

	if protocol.Design != nil && protocol.Design.EnrollmentInfo != nil && protocol.Design.EnrollmentInfo.Count != nil {
		count := *protocol.Design.EnrollmentInfo.Count
		details.Enrollment = &count
		if protocol.Design.EnrollmentInfo.Type != "" {
			details.EnrollmentType = protocol.Design.EnrollmentInfo.Type
		}
	}

	if protocol.ContactsLocations != nil {
		for _, loc := range protocol.ContactsLocations.Locations {
			if loc.Country != opts.Country {
				continue
			}
			if opts.RequireGeoPoint && loc.GeoPoint == nil {
				continue
			}
			fac := model.FacilityRecord{
				Facility: defaultNA(loc.Facility),
				City:     defaultNA(loc.City),
				State:    defaultNA(loc.State),
				Zip:      defaultNA(loc.Zip),
			}
			if loc.GeoPoint != nil {
				lat, lon := loc.GeoPoint.Lat, loc.GeoPoint.Lon
				fac.Latitude = &lat
				fac.Longitude = &lon
			}
			details.Facilities = append(details.Facilities, fac)
		}
	}

	// Race demographics are aggregated once per study, not per facility.
	if study.ResultsSection != nil && study.ResultsSection.BaselineCharacteristics != nil {
		for _, measure := range study.ResultsSection.BaselineCharacteristics.Measures {
			if measure.Title != raceMeasureTitle || len(measure.Classes) == 0 {
				continue
			}
			for _, cat := range measure.Classes[0].Categories {
				if cat.Title == "" {
					continue
				}
				total := 0
				for _, m := range cat.Measurements {
					if v, err := strconv.Atoi(m.Value); err == nil {
						total += v
					}
				}
				details.RaceData[RaceKey(cat.Title)] = total
			}
		}
	}

	return details
}

// RaceKey derives the dataset column key for a race category title.
func RaceKey(title string) string {
	return "Race_" + strings.Join(strings.Fields(title), "_")
}

func defaultNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
