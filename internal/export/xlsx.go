package export

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/trialmap/internal/model"
)

const datasetSheetName = "Dataset"

// WriteDatasetXLSX writes the assembled rows to path as a spreadsheet with
// the same column layout as the CSV.
func WriteDatasetXLSX(path string, rows []model.AssembledRow, raceKeys []string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(datasetSheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	headerRow := sheet.AddRow()
	for _, name := range Header(raceKeys) {
		headerRow.AddCell().SetString(name)
	}

	for i := range rows {
		row := sheet.AddRow()
		for _, field := range Record(&rows[i], raceKeys) {
			row.AddCell().SetString(field)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "export: create output dir")
		}
	}
	return eris.Wrap(f.Save(path), "export: save xlsx")
}
