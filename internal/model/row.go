package model

import "strconv"

// FacilityRecord is one qualifying site of a study. Latitude/Longitude are
// nil until the source or the geocoding stage provides them; PlaceName is
// set only by the geocoder.
type FacilityRecord struct {
	Facility  string
	City      string
	State     string
	Zip       string
	Latitude  *float64
	Longitude *float64
	PlaceName string
}

// HasCoordinates reports whether both coordinates are present.
func (f *FacilityRecord) HasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// StudyDetails is the aggregator output for one study.
type StudyDetails struct {
	Status         string
	Enrollment     *int
	EnrollmentType string
	LastUpdateYear string
	Facilities     []FacilityRecord
	RaceData       map[string]int
}

// AssembledRow is the flat merge of study metadata, classification flags,
// one facility, and the zero-filled race counts. It is the sole interface
// to the export and rendering stages.
type AssembledRow struct {
	NCTID          string
	Status         string
	Enrollment     *int
	EnrollmentType string
	LastUpdateYear string
	ExtractedScore string
	Flags          map[SkinType]bool
	Facility       FacilityRecord
	RaceData       map[string]int
}

// FlagSum returns how many of the six type flags are set.
func (r *AssembledRow) FlagSum() int {
	n := 0
	for _, t := range AllSkinTypes() {
		if r.Flags[t] {
			n++
		}
	}
	return n
}

// EnrollmentDisplay renders the enrollment count, or "N/A" when absent.
func (r *AssembledRow) EnrollmentDisplay() string {
	if r.Enrollment == nil {
		return "N/A"
	}
	return strconv.Itoa(*r.Enrollment)
}
