package export

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trialmap/internal/model"
)

// ReadDataset reads a dataset CSV written by WriteDataset back into rows,
// returning the race keys found after the fixed columns.
func ReadDataset(path string) ([]model.AssembledRow, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "export: open dataset")
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrap(err, "export: read dataset")
	}
	if len(records) == 0 {
		return nil, nil, eris.New("export: dataset has no header")
	}

	header := records[0]
	if len(header) < len(fixedColumns) {
		return nil, nil, eris.Errorf("export: dataset has %d columns, want at least %d",
			len(header), len(fixedColumns))
	}
	for i, want := range fixedColumns {
		if header[i] != want {
			return nil, nil, eris.Errorf("export: column %d is %q, want %q", i, header[i], want)
		}
	}
	raceKeys := header[len(fixedColumns):]

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	rows := make([]model.AssembledRow, 0, len(records)-1)
	for n, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, nil, eris.Errorf("export: row %d has %d fields, want %d",
				n+1, len(rec), len(header))
		}

		row := model.AssembledRow{
			NCTID:          rec[col["nctId"]],
			Status:         rec[col["status"]],
			EnrollmentType: rec[col["enrollment_type"]],
			LastUpdateYear: rec[col["last_update_year"]],
			ExtractedScore: rec[col["extracted_score"]],
			Flags:          make(map[model.SkinType]bool),
			Facility: model.FacilityRecord{
				Facility:  rec[col["facility"]],
				City:      rec[col["city"]],
				State:     rec[col["state"]],
				Zip:       rec[col["zip"]],
				PlaceName: rec[col["place_name"]],
			},
			RaceData: make(map[string]int, len(raceKeys)),
		}

		if v := rec[col["enrollment"]]; v != "" && v != "N/A" {
			if n, err := strconv.Atoi(v); err == nil {
				row.Enrollment = &n
			}
		}
		for _, t := range model.AllSkinTypes() {
			row.Flags[t] = rec[col["Type_"+t.Roman()]] == "1"
		}
		row.Facility.Latitude = parseFloat(rec[col["latitude"]])
		row.Facility.Longitude = parseFloat(rec[col["longitude"]])
		for _, k := range raceKeys {
			if v := strings.TrimSpace(rec[col[k]]); v != "" {
				n, _ := strconv.Atoi(v)
				row.RaceData[k] = n
			}
		}

		rows = append(rows, row)
	}

	return rows, raceKeys, nil
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
