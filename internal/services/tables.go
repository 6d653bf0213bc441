package services

import (
	"context"

	"tab-sender/internal/models"
)

// Parser extracts tables from a file on disk.
type Parser interface {
	Parse(ctx context.Context, path string) (models.Tables, error)
}

// TableService loads exports and keeps the most recent one in the repository
type TableService struct {
	parser     Parser
	repository *models.TableRepository
}

// NewTableService creates a new table service
func NewTableService(parser Parser, repo *models.TableRepository) *TableService {
	return &TableService{
		parser:     parser,
		repository: repo,
	}
}

// Load parses path and makes it the current document. A read failure still
// replaces the current document, with empty tables.
func (ts *TableService) Load(ctx context.Context, path string) (models.LoadedDocument, error) {
	tables, err := ts.parser.Parse(ctx, path)
	if err != nil {
		return ts.repository.Store(path, models.Tables{}), err
	}
	return ts.repository.Store(path, tables), nil
}

// Reload parses the current document again.
func (ts *TableService) Reload(ctx context.Context) (models.LoadedDocument, error) {
	current := ts.repository.Current()
	if current.Path == "" {
		return current, models.NewValidationError("path", "", "no file selected")
	}
	return ts.Load(ctx, current.Path)
}

// Current returns the loaded document.
func (ts *TableService) Current() models.LoadedDocument {
	return ts.repository.Current()
}

// Sequence returns the values of stage in the current document.
func (ts *TableService) Sequence(stage models.Stage) (models.NumericSequence, error) {
	return ts.repository.Current().Tables.Select(stage)
}
