package model

// SkinType is one of the six ordered Fitzpatrick categories.
type SkinType int

// Fitzpatrick skin types I through VI.
const (
	TypeI SkinType = iota + 1
	TypeII
	TypeIII
	TypeIV
	TypeV
	TypeVI
)

// AllSkinTypes returns the six types in order.
func AllSkinTypes() []SkinType {
	return []SkinType{TypeI, TypeII, TypeIII, TypeIV, TypeV, TypeVI}
}

// Roman returns the Roman-numeral form, or "" for out-of-range values.
func (t SkinType) Roman() string {
	switch t {
	case TypeI:
		return "I"
	case TypeII:
		return "II"
	case TypeIII:
		return "III"
	case TypeIV:
		return "IV"
	case TypeV:
		return "V"
	case TypeVI:
		return "VI"
	}
	return ""
}

// Labels for the three non-numeric classifier outcomes.
const (
	LabelNotSpecified = "Not Specified"
	LabelNotASkinType = "Not a Skin Type Score"
	LabelAll          = "All"
)

// ScoreClassification is the canonical output of the skin-type classifier.
// Flags is empty exactly when Label is "Not Specified" or the veto label.
type ScoreClassification struct {
	Label string
	Flags map[SkinType]bool
}

// NewScoreClassification returns an unclassified result.
func NewScoreClassification() ScoreClassification {
	return ScoreClassification{
		Label: LabelNotSpecified,
		Flags: make(map[SkinType]bool),
	}
}

// IsVeto reports whether the sentence matched a disqualifying term, which
// removes the owning study from the output set entirely.
func (c ScoreClassification) IsVeto() bool {
	return c.Label == LabelNotASkinType
}

// FlagCount returns the number of set type flags.
func (c ScoreClassification) FlagCount() int {
	n := 0
	for _, t := range AllSkinTypes() {
		if c.Flags[t] {
			n++
		}
	}
	return n
}

// EligibilitySentence is one keyword-bearing sentence from the criteria text.
type EligibilitySentence struct {
	Text        string
	IsExclusion bool
}
