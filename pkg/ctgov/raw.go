package ctgov

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trialmap/internal/model"
)

type rawFile struct {
	Studies []model.StudyRecord `json:"studies"`
}

// SaveRaw writes the fetched studies to path as JSON so later stages can
// re-run without hitting the API.
func SaveRaw(path string, studies []model.StudyRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "ctgov: create output dir")
	}

	data, err := json.MarshalIndent(rawFile{Studies: studies}, "", "  ")
	if err != nil {
		return eris.Wrap(err, "ctgov: marshal studies")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "ctgov: write raw file")
	}
	return nil
}

// LoadRaw reads studies previously written by SaveRaw.
func LoadRaw(path string) ([]model.StudyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ctgov: read raw file")
	}

	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "ctgov: parse raw file")
	}
	return raw.Studies, nil
}
