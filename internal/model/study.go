// Package model defines the typed records flowing through the trialmap pipeline.
package model

// StudyRecord is a read-only view of one trial as returned by the
// ClinicalTrials.gov v2 API. Only the modules the pipeline consumes are
// mapped; everything else in the source document is ignored on decode.
type StudyRecord struct {
	ProtocolSection ProtocolSection `json:"protocolSection"`
	ResultsSection  *ResultsSection `json:"resultsSection,omitempty"`
}

// ProtocolSection groups the protocol-level modules of a study.
type ProtocolSection struct {
	Identification    IdentificationModule     `json:"identificationModule"`
	Status            StatusModule             `json:"statusModule"`
	Design            *DesignModule            `json:"designModule,omitempty"`
	Eligibility       *EligibilityModule       `json:"eligibilityModule,omitempty"`
	ContactsLocations *ContactsLocationsModule `json:"contactsLocationsModule,omitempty"`
}

// IdentificationModule carries the registry identifier.
type IdentificationModule struct {
	NCTID string `json:"nctId"`
}

// StatusModule carries overall status and the last-update date.
type StatusModule struct {
	OverallStatus      string      `json:"overallStatus"`
	LastUpdatePostDate *DateStruct `json:"lastUpdatePostDateStruct,omitempty"`
}

// DateStruct wraps a registry date string ("2024-03-15" or "2024-03").
type DateStruct struct {
	Date string `json:"date"`
}

// DesignModule carries enrollment information.
type DesignModule struct {
	EnrollmentInfo *EnrollmentInfo `json:"enrollmentInfo,omitempty"`
}

// EnrollmentInfo holds the enrollment count and whether it is actual or estimated.
type EnrollmentInfo struct {
	Count *int   `json:"count,omitempty"`
	Type  string `json:"type,omitempty"`
}

// EligibilityModule carries the free-text eligibility criteria.
type EligibilityModule struct {
	EligibilityCriteria string `json:"eligibilityCriteria"`
}

// ContactsLocationsModule lists study sites.
type ContactsLocationsModule struct {
	Locations []Location `json:"locations,omitempty"`
}

// Location is one study site. GeoPoint is nil when the registry has no
// coordinates for the site.
type Location struct {
	Facility string    `json:"facility,omitempty"`
	City     string    `json:"city,omitempty"`
	State    string    `json:"state,omitempty"`
	Zip      string    `json:"zip,omitempty"`
	Country  string    `json:"country,omitempty"`
	GeoPoint *GeoPoint `json:"geoPoint,omitempty"`
}

// GeoPoint is a registry-provided coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ResultsSection groups posted results modules.
type ResultsSection struct {
	BaselineCharacteristics *BaselineCharacteristicsModule `json:"baselineCharacteristicsModule,omitempty"`
}

// BaselineCharacteristicsModule lists baseline measures.
type BaselineCharacteristicsModule struct {
	Measures []Measure `json:"measures,omitempty"`
}

// Measure is one baseline characteristic ("Race (NIH/OMB)", "Age", ...).
type Measure struct {
	Title   string         `json:"title"`
	Classes []MeasureClass `json:"classes,omitempty"`
}

// MeasureClass groups measure categories.
type MeasureClass struct {
	Categories []MeasureCategory `json:"categories,omitempty"`
}

// MeasureCategory is one category of a measure with its per-group measurements.
type MeasureCategory struct {
	Title        string        `json:"title"`
	Measurements []Measurement `json:"measurements,omitempty"`
}

// Measurement is a single reported value. The registry reports values as
// strings; non-numeric values are treated as zero during aggregation.
type Measurement struct {
	Value string `json:"value"`
}

// SearchResponse is one page of the study search endpoint.
type SearchResponse struct {
	Studies       []StudyRecord `json:"studies"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

// NCTID returns the study identifier, or "N/A" when absent.
func (s *StudyRecord) NCTID() string {
	if s.ProtocolSection.Identification.NCTID == "" {
		return "N/A"
	}
	return s.ProtocolSection.Identification.NCTID
}

// EligibilityCriteria returns the raw criteria text, or "" when absent.
func (s *StudyRecord) EligibilityCriteria() string {
	if s.ProtocolSection.Eligibility == nil {
		return ""
	}
	return s.ProtocolSection.Eligibility.EligibilityCriteria
}
