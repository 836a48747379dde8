package pipeline

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Rules holds the tunable extraction knobs. The defaults encode the
// behavior the dataset was built with; a YAML rules file can override
// individual lists without a rebuild.
type Rules struct {
	Keyword            string   `yaml:"keyword"`
	DisqualifyingTerms []string `yaml:"disqualifying_terms"`
	BadFacilityPrefix  []string `yaml:"bad_facility_prefixes"`
	BadZips            []string `yaml:"bad_zips"`
}

// DefaultRules returns the built-in extraction rules.
func DefaultRules() *Rules {
	return &Rules{
		Keyword:            "fitzpatrick",
		DisqualifyingTerms: []string{"wrinkle"},
		BadFacilityPrefix:  []string{"Call Suneva"},
		BadZips:            []string{"00000"},
	}
}

// LoadRules reads a rules file and merges it over the defaults. A missing
// path returns the defaults unchanged.
func LoadRules(path string) (*Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Debug("rules file not found, using defaults", zap.String("path", path))
			return rules, nil
		}
		return nil, eris.Wrapf(err, "rules: read %s", path)
	}

	var overlay Rules
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, eris.Wrapf(err, "rules: parse %s", path)
	}

	if overlay.Keyword != "" {
		rules.Keyword = overlay.Keyword
	}
	if overlay.DisqualifyingTerms != nil {
		rules.DisqualifyingTerms = overlay.DisqualifyingTerms
	}
	if overlay.BadFacilityPrefix != nil {
		rules.BadFacilityPrefix = overlay.BadFacilityPrefix
	}
	if overlay.BadZips != nil {
		rules.BadZips = overlay.BadZips
	}

	return rules, nil
}
