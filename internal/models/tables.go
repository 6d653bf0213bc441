package models

import (
	"fmt"
	"sync"
	"time"
)

// Tables holds the two sequences extracted from one export.
type Tables struct {
	StageA NumericSequence
	StageN NumericSequence
}

// Select returns the sequence for stage.
func (t Tables) Select(stage Stage) (NumericSequence, error) {
	switch stage {
	case StageA:
		return t.StageA, nil
	case StageN:
		return t.StageN, nil
	default:
		return NumericSequence{}, NewValidationError("stage", stage, "invalid stage selected")
	}
}

// Availability summarises which tables a parse produced.
type Availability struct {
	HasStageA bool
	HasStageN bool

	// DefaultStage is the stage to preselect: A unless only N exists.
	DefaultStage Stage
}

// Evaluate inspects the tables after a load.
func (t Tables) Evaluate() Availability {
	av := Availability{
		HasStageA:    !t.StageA.IsEmpty(),
		HasStageN:    !t.StageN.IsEmpty(),
		DefaultStage: StageA,
	}
	if !av.HasStageA && av.HasStageN {
		av.DefaultStage = StageN
	}
	return av
}

// Any reports whether at least one table has values.
func (av Availability) Any() bool {
	return av.HasStageA || av.HasStageN
}

// CanChooseStage is true only when both tables are present.
func (av Availability) CanChooseStage() bool {
	return av.HasStageA && av.HasStageN
}

// Summary describes the outcome of a load for the status line.
func (av Availability) Summary() string {
	switch {
	case av.HasStageA && av.HasStageN:
		return "Both Stage A and Stage N tables found."
	case av.HasStageA:
		return "Only Stage A table found."
	case av.HasStageN:
		return "Only Stage N table found."
	default:
		return "No Stage A or Stage N tables found in the file."
	}
}

// SizeLine reports the length of both tables.
func (t Tables) SizeLine() string {
	return fmt.Sprintf("Size - Stage A: %d | Stage N: %d", t.StageA.Len(), t.StageN.Len())
}

// LoadedDocument records the tables of the most recently loaded file.
type LoadedDocument struct {
	Path     string
	Tables   Tables
	LoadedAt time.Time
}

// TableRepository keeps the current document for the presentation layer.
type TableRepository struct {
	mu  sync.RWMutex
	doc LoadedDocument
}

// NewTableRepository creates an empty repository
func NewTableRepository() *TableRepository {
	return &TableRepository{}
}

// Store replaces the current document.
func (tr *TableRepository) Store(path string, tables Tables) LoadedDocument {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.doc = LoadedDocument{
		Path:     path,
		Tables:   tables,
		LoadedAt: time.Now(),
	}
	return tr.doc
}

// Current returns the current document.
func (tr *TableRepository) Current() LoadedDocument {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.doc
}

// Clear drops the current document.
func (tr *TableRepository) Clear() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.doc = LoadedDocument{}
}
