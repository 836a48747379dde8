package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trialmap/internal/model"
)

func intPtr(n int) *int { return &n }

func testStudy() model.StudyRecord {
	return model.StudyRecord{
		ProtocolSection: model.ProtocolSection{
			Identification: model.IdentificationModule{NCTID: "NCT01234567"},
			Status: model.StatusModule{
				OverallStatus:      "RECRUITING",
				LastUpdatePostDate: &model.DateStruct{Date: "2023-06-15"},
			},
			Design: &model.DesignModule{
				EnrollmentInfo: &model.EnrollmentInfo{Count: intPtr(120), Type: "ESTIMATED"},
			},
			Eligibility: &model.EligibilityModule{
				EligibilityCriteria: "Fitzpatrick skin type II to IV.",
			},
			ContactsLocations: &model.ContactsLocationsModule{
				Locations: []model.Location{
					{
						Facility: "Derm Research Center",
						City:     "Boston",
						State:    "Massachusetts",
						Zip:      "02115",
						Country:  "United States",
						GeoPoint: &model.GeoPoint{Lat: 42.33, Lon: -71.1},
					},
					{
						Facility: "Clinique de Paris",
						City:     "Paris",
						Country:  "France",
					},
				},
			},
		},
		ResultsSection: &model.ResultsSection{
			BaselineCharacteristics: &model.BaselineCharacteristicsModule{
				Measures: []model.Measure{
					{
						Title: "Age",
						Classes: []model.MeasureClass{{
							Categories: []model.MeasureCategory{{
								Title:        "18-65",
								Measurements: []model.Measurement{{Value: "120"}},
							}},
						}},
					},
					{
						Title: "Race (NIH/OMB)",
						Classes: []model.MeasureClass{{
							Categories: []model.MeasureCategory{
								{
									Title: "White",
									Measurements: []model.Measurement{
										{Value: "40"}, {Value: "35"},
									},
								},
								{
									Title: "Black or African American",
									Measurements: []model.Measurement{
										{Value: "20"}, {Value: "NA"},
									},
								},
							},
						}},
					},
				},
			},
		},
	}
}

func TestExtractStudyDetails(t *testing.T) {
	study := testStudy()
	details := ExtractStudyDetails(&study, DetailOptions{Country: "United States"})

	assert.Equal(t, "RECRUITING", details.Status)
	assert.Equal(t, "2023", details.LastUpdateYear)
	require.NotNil(t, details.Enrollment)
	assert.Equal(t, 120, *details.Enrollment)
	assert.Equal(t, "ESTIMATED", details.EnrollmentType)

	// Only the US site qualifies.
	require.Len(t, details.Facilities, 1)
	fac := details.Facilities[0]
	assert.Equal(t, "Derm Research Center", fac.Facility)
	assert.Equal(t, "Boston", fac.City)
	require.NotNil(t, fac.Latitude)
	assert.InDelta(t, 42.33, *fac.Latitude, 1e-9)

	// Measurements sum per category; non-numeric values count as zero.
	assert.Equal(t, map[string]int{
		"Race_White":                     75,
		"Race_Black_or_African_American": 20,
	}, details.RaceData)
}

func TestExtractStudyDetails_Defaults(t *testing.T) {
	study := model.StudyRecord{}
	details := ExtractStudyDetails(&study, DetailOptions{Country: "United States"})

	assert.Equal(t, "N/A", details.Status)
	assert.Equal(t, "N/A", details.LastUpdateYear)
	assert.Equal(t, "N/A", details.EnrollmentType)
	assert.Nil(t, details.Enrollment)
	assert.Empty(t, details.Facilities)
	assert.Empty(t, details.RaceData)
}

func TestExtractStudyDetails_RequireGeoPoint(t *testing.T) {
	study := testStudy()
	study.ProtocolSection.ContactsLocations.Locations = append(
		study.ProtocolSection.ContactsLocations.Locations,
		model.Location{Facility: "No Coords Clinic", Country: "United States"},
	)

	withGeo := ExtractStudyDetails(&study, DetailOptions{Country: "United States", RequireGeoPoint: true})
	require.Len(t, withGeo.Facilities, 1)
	assert.Equal(t, "Derm Research Center", withGeo.Facilities[0].Facility)

	withoutGeo := ExtractStudyDetails(&study, DetailOptions{Country: "United States"})
	assert.Len(t, withoutGeo.Facilities, 2)
}

func TestExtractStudyDetails_MissingLocationFieldsDefaultNA(t *testing.T) {
	study := model.StudyRecord{
		ProtocolSection: model.ProtocolSection{
			ContactsLocations: &model.ContactsLocationsModule{
				Locations: []model.Location{{Country: "United States"}},
			},
		},
	}
	details := ExtractStudyDetails(&study, DetailOptions{Country: "United States"})
	require.Len(t, details.Facilities, 1)
	assert.Equal(t, "N/A", details.Facilities[0].Facility)
	assert.Equal(t, "N/A", details.Facilities[0].City)
	assert.Equal(t, "N/A", details.Facilities[0].Zip)
}

func TestExtractStudyDetails_ShortDateIgnored(t *testing.T) {
	study := model.StudyRecord{
		ProtocolSection: model.ProtocolSection{
			Status: model.StatusModule{LastUpdatePostDate: &model.DateStruct{Date: "22"}},
		},
	}
	details := ExtractStudyDetails(&study, DetailOptions{Country: "United States"})
	assert.Equal(t, "N/A", details.LastUpdateYear)
}

func TestRaceKey(t *testing.T) {
	assert.Equal(t, "Race_White", RaceKey("White"))
	assert.Equal(t, "Race_Black_or_African_American", RaceKey("Black or African American"))
	assert.Equal(t, "Race_More_than_one_race", RaceKey("  More  than one   race "))
}
