package models

import "strings"

// Stage names one of the two frequency tables found in an export.
type Stage string

const (
	StageA Stage = "A"
	StageN Stage = "N"
)

// Stages lists the known stages in display order.
var Stages = []Stage{StageA, StageN}

// ParseStage accepts "A" or "N" (case-insensitive, surrounding space ignored).
func ParseStage(s string) (Stage, error) {
	switch Stage(strings.ToUpper(strings.TrimSpace(s))) {
	case StageA:
		return StageA, nil
	case StageN:
		return StageN, nil
	default:
		return "", NewValidationError("stage", s, "unknown stage, expected A or N")
	}
}

// Label is the section header that introduces the stage's table.
func (s Stage) Label() string {
	return "Stage " + string(s) + " - 256 Frequencies"
}

func (s Stage) String() string {
	return string(s)
}
