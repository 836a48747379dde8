// Package export writes the assembled dataset to CSV and XLSX, and reads
// the CSV back for the rendering stages.
package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trialmap/internal/model"
)

// fixedColumns is the stable leading column order of the dataset. Race
// columns follow, sorted, so runs over the same data diff cleanly.
var fixedColumns = []string{
	"nctId",
	"status",
	"enrollment",
	"enrollment_type",
	"last_update_year",
	"Type_I",
	"Type_II",
	"Type_III",
	"Type_IV",
	"Type_V",
	"Type_VI",
	"extracted_score",
	"facility",
	"city",
	"state",
	"zip",
	"latitude",
	"longitude",
	"place_name",
}

// Header returns the full column list for the given race keys.
func Header(raceKeys []string) []string {
	header := make([]string, 0, len(fixedColumns)+len(raceKeys))
	header = append(header, fixedColumns...)
	header = append(header, raceKeys...)
	return header
}

// Record flattens one row into CSV fields in Header order.
func Record(row *model.AssembledRow, raceKeys []string) []string {
	rec := make([]string, 0, len(fixedColumns)+len(raceKeys))
	rec = append(rec,
		row.NCTID,
		row.Status,
		row.EnrollmentDisplay(),
		row.EnrollmentType,
		row.LastUpdateYear,
	)
	for _, t := range model.AllSkinTypes() {
		rec = append(rec, boolField(row.Flags[t]))
	}
	rec = append(rec,
		row.ExtractedScore,
		row.Facility.Facility,
		row.Facility.City,
		row.Facility.State,
		row.Facility.Zip,
		floatField(row.Facility.Latitude),
		floatField(row.Facility.Longitude),
		row.Facility.PlaceName,
	)
	for _, k := range raceKeys {
		rec = append(rec, strconv.Itoa(row.RaceData[k]))
	}
	return rec
}

// WriteDataset writes the assembled rows to path as CSV.
func WriteDataset(path string, rows []model.AssembledRow, raceKeys []string) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(Header(raceKeys)); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for i := range rows {
		if err := w.Write(Record(&rows[i], raceKeys)); err != nil {
			return eris.Wrapf(err, "export: write row %d", i)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return eris.Wrap(f.Close(), "export: close csv")
}

var unparsedColumns = []string{"nctId", "facility", "city", "state", "extracted_score"}

// WriteUnparsed writes the keyword-matched-but-unscored rows for manual
// review.
func WriteUnparsed(path string, rows []model.AssembledRow) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(unparsedColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for i := range rows {
		row := &rows[i]
		rec := []string{
			row.NCTID,
			row.Facility.Facility,
			row.Facility.City,
			row.Facility.State,
			row.ExtractedScore,
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrapf(err, "export: write row %d", i)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return eris.Wrap(f.Close(), "export: close csv")
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrap(err, "export: create output dir")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: create file")
	}
	return f, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func floatField(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
