package extract

import (
	"context"
	"io/fs"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"tab-sender/internal/logger"
	"tab-sender/internal/models"
)

// FileParser reads an export from disk and extracts its tables.
type FileParser struct {
	attempts uint
	delay    time.Duration
	log      logger.Logger
}

// NewFileParser builds a parser that retries transient read failures.
// attempts below one are treated as one.
func NewFileParser(attempts uint, delay time.Duration, log logger.Logger) *FileParser {
	if attempts < 1 {
		attempts = 1
	}
	return &FileParser{attempts: attempts, delay: delay, log: log}
}

// Parse reads path and extracts both tables. When the file cannot be read
// it returns empty tables and a *models.ResourceError.
func (p *FileParser) Parse(ctx context.Context, path string) (models.Tables, error) {
	text, err := p.read(ctx, path)
	if err != nil {
		p.log.Error("TableExtractor", "read failed", err, map[string]interface{}{
			"path": path,
		})
		return models.Tables{}, models.NewResourceError(path, err)
	}

	tables := Extract(text)
	p.log.Info("TableExtractor", "tables extracted", map[string]interface{}{
		"path":    path,
		"stage_a": tables.StageA.Len(),
		"stage_n": tables.StageN.Len(),
	})
	return tables, nil
}

func (p *FileParser) read(ctx context.Context, path string) (string, error) {
	attempt := 0
	return retry.DoWithData(
		func() (string, error) {
			attempt++
			raw, err := os.ReadFile(path)
			if err != nil {
				p.log.Debug("TableExtractor", "read attempt failed", map[string]interface{}{
					"path":    path,
					"attempt": attempt,
					"error":   err.Error(),
				})
				return "", err
			}
			return Decode(raw)
		},
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(p.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
}

// Missing files and permission problems do not fix themselves.
func isTransient(err error) bool {
	return !errors.Is(err, fs.ErrNotExist) &&
		!errors.Is(err, fs.ErrPermission) &&
		!errors.Is(err, fs.ErrInvalid)
}

// Decode turns raw file bytes into text. A UTF-8 or UTF-16 byte order mark
// selects the encoding; anything else is read as UTF-8.
func Decode(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", errors.Wrap(err, "decode text")
	}
	return string(out), nil
}
