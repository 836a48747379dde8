package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trialmap/internal/model"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func sampleRows() ([]model.AssembledRow, []string) {
	raceKeys := []string{"Race_Asian", "Race_White"}
	rows := []model.AssembledRow{
		{
			NCTID:          "NCT00000001",
			Status:         "RECRUITING",
			Enrollment:     intPtr(120),
			EnrollmentType: "ESTIMATED",
			LastUpdateYear: "2023",
			ExtractedScore: "II-IV",
			Flags: map[model.SkinType]bool{
				model.TypeII: true, model.TypeIII: true, model.TypeIV: true,
			},
			Facility: model.FacilityRecord{
				Facility: "Derm Center", City: "Boston", State: "MA", Zip: "02115",
				Latitude: floatPtr(42.33), Longitude: floatPtr(-71.1),
				PlaceName: "Derm Center",
			},
			RaceData: map[string]int{"Race_Asian": 5, "Race_White": 70},
		},
		{
			NCTID:          "NCT00000002",
			Status:         "COMPLETED",
			EnrollmentType: "N/A",
			LastUpdateYear: "N/A",
			ExtractedScore: "All",
			Flags: map[model.SkinType]bool{
				model.TypeI: true, model.TypeII: true, model.TypeIII: true,
				model.TypeIV: true, model.TypeV: true, model.TypeVI: true,
			},
			Facility: model.FacilityRecord{
				Facility: "Other Clinic", City: "Dallas", State: "TX", Zip: "75001",
			},
			RaceData: map[string]int{"Race_Asian": 0, "Race_White": 0},
		},
	}
	return rows, raceKeys
}

func TestWriteDataset_ColumnOrder(t *testing.T) {
	rows, raceKeys := sampleRows()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, WriteDataset(path, rows, raceKeys))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	wantHeader := []string{
		"nctId", "status", "enrollment", "enrollment_type", "last_update_year",
		"Type_I", "Type_II", "Type_III", "Type_IV", "Type_V", "Type_VI",
		"extracted_score", "facility", "city", "state", "zip",
		"latitude", "longitude", "place_name",
		"Race_Asian", "Race_White",
	}
	assert.Equal(t, wantHeader, records[0])

	first := records[1]
	assert.Equal(t, "NCT00000001", first[0])
	assert.Equal(t, "120", first[2])
	assert.Equal(t, []string{"0", "1", "1", "1", "0", "0"}, first[5:11])
	assert.Equal(t, "II-IV", first[11])
	assert.Equal(t, "42.33", first[16])
	assert.Equal(t, "70", first[20])

	second := records[2]
	assert.Equal(t, "N/A", second[2], "missing enrollment renders N/A")
	assert.Equal(t, "", second[16], "missing latitude renders empty")
}

func TestWriteReadDataset_RoundTrip(t *testing.T) {
	rows, raceKeys := sampleRows()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, WriteDataset(path, rows, raceKeys))

	loaded, loadedKeys, err := ReadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, raceKeys, loadedKeys)
	require.Len(t, loaded, 2)

	assert.Equal(t, rows[0].NCTID, loaded[0].NCTID)
	assert.Equal(t, rows[0].Flags, loaded[0].Flags)
	assert.Equal(t, rows[0].RaceData, loaded[0].RaceData)
	require.NotNil(t, loaded[0].Enrollment)
	assert.Equal(t, 120, *loaded[0].Enrollment)
	require.True(t, loaded[0].Facility.HasCoordinates())
	assert.InDelta(t, 42.33, *loaded[0].Facility.Latitude, 1e-9)

	assert.Nil(t, loaded[1].Enrollment)
	assert.False(t, loaded[1].Facility.HasCoordinates())
}

func TestReadDataset_RejectsForeignHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0o644))

	_, _, err := ReadDataset(path)
	assert.Error(t, err)
}

func TestWriteUnparsed(t *testing.T) {
	rows := []model.AssembledRow{{
		NCTID:          "NCT00000003",
		ExtractedScore: model.LabelNotSpecified,
		Facility:       model.FacilityRecord{Facility: "Derm Center", City: "Boston", State: "MA"},
	}}
	path := filepath.Join(t.TempDir(), "unparsed.csv")
	require.NoError(t, WriteUnparsed(path, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"nctId", "facility", "city", "state", "extracted_score"}, records[0])
	assert.Equal(t, []string{"NCT00000003", "Derm Center", "Boston", "MA", "Not Specified"}, records[1])
}

func TestWriteDataset_CreatesNestedDir(t *testing.T) {
	rows, raceKeys := sampleRows()
	path := filepath.Join(t.TempDir(), "a", "b", "dataset.csv")
	require.NoError(t, WriteDataset(path, rows, raceKeys))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
