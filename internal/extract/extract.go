// Package extract recovers the Stage A and Stage N frequency tables from a
// text export.
//
// A table starts at its header ("... Stage A - 256 Frequencies"), skips the
// dash separator under it and runs until the next table marker, the next
// stage header or the end of the text. Values are stored as fixed-width
// five digit tokens meaning DD.DDD.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"tab-sender/internal/models"
)

// TableMarker opens every table in the export, e.g. "AJ Table #0 Stage A ...".
const TableMarker = "AJ Table"

// TokenWidth is the exact number of digits in an encoded value.
const TokenWidth = 5

var (
	digitRun = regexp.MustCompile(`\d+`)

	// ASCII hyphen, the unicode dash block and box drawing horizontals.
	separator = `[-\x{2010}-\x{2015}\x{2500}\x{2501}]+`

	// Unlike the exporter's own reader, a following stage header also ends a section.
	sectionEnd = `(?:` + regexp.QuoteMeta(TableMarker) + `|Stage [A-Z] - 256 Frequencies|\z)`

	sectionPatterns = map[models.Stage]*regexp.Regexp{
		models.StageA: sectionPattern(models.StageA.Label()),
		models.StageN: sectionPattern(models.StageN.Label()),
	}
)

func sectionPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(label) + `\s*` + separator + `\s*([\s\S]*?)` + sectionEnd)
}

// ErrBadToken is returned by Convert for anything but five ASCII digits.
var ErrBadToken = errors.New("token must be exactly five digits")

// Extract returns both tables found in text. Missing sections give empty
// sequences.
func Extract(text string) models.Tables {
	return models.Tables{
		StageA: extractWith(text, sectionPatterns[models.StageA]),
		StageN: extractWith(text, sectionPatterns[models.StageN]),
	}
}

// ExtractSection returns the values of the section introduced by label.
func ExtractSection(text, label string) models.NumericSequence {
	return extractWith(text, sectionPattern(label))
}

func extractWith(text string, pattern *regexp.Regexp) models.NumericSequence {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return models.NumericSequence{}
	}
	return models.NewNumericSequence(ExtractTokens(match[1]))
}

// ExtractTokens decodes every five digit run in block, line by line.
// Digit runs of any other length are skipped whole.
func ExtractTokens(block string) []float64 {
	var values []float64
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		for _, run := range digitRun.FindAllString(line, -1) {
			if len(run) != TokenWidth {
				continue
			}
			v, err := Convert(run)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
	}
	return values
}

// Convert reads a five digit token as DD.DDD: "12345" is 12.345.
func Convert(token string) (float64, error) {
	if len(token) != TokenWidth {
		return 0, errors.Wrapf(ErrBadToken, "got %q", token)
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, errors.Wrapf(ErrBadToken, "got %q", token)
		}
	}
	return strconv.ParseFloat(token[:2]+"."+token[2:], 64)
}
