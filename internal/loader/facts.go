// Package loader parses flattened SEC numeric-fact exports and entity
// identifier mappings into the engine's input types.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/annscreen/internal/common"
	"github.com/bobmcallan/annscreen/internal/models"
)

// factColumns are the required header names of a flattened facts file: one
// row per numeric fact, already joined with its submission context. Tabs
// separate columns, matching the SEC's quarterly financial-statement exports.
var factColumns = []string{"cik", "tag", "ddate", "fy", "fp", "form", "filed", "uom", "value"}

// FactLoader reads tab-separated fact exports into RawObservations.
type FactLoader struct {
	logger *common.Logger
}

// NewFactLoader creates a fact loader.
func NewFactLoader(logger *common.Logger) *FactLoader {
	return &FactLoader{logger: logger}
}

// LoadFile reads one facts file. See Load.
func (l *FactLoader) LoadFile(path string) ([]models.RawObservation, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open facts file: %w", err)
	}
	defer f.Close()
	return l.Load(f)
}

// Load parses a tab-separated facts export. Rows with unknown tags, sub-annual
// periods, or non-USD units are skipped and counted, never fatal; only a
// missing or malformed header aborts the load. When multiple known tags report
// the same (entity, concept, year), only the most authoritative tag's rows
// survive.
func (l *FactLoader) Load(r io.Reader) ([]models.RawObservation, int, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read facts header: %w", err)
	}
	cols, err := indexColumns(header, factColumns)
	if err != nil {
		return nil, 0, err
	}

	var tagged []taggedObservation
	skipped := 0

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			l.logger.Debug().Int("line", line).Err(err).Msg("Skipping unreadable facts row")
			continue
		}

		obs, rank, ok := l.parseRow(record, cols, line)
		if !ok {
			skipped++
			continue
		}
		tagged = append(tagged, taggedObservation{obs: obs, rank: rank})
	}

	observations := filterByTagRank(tagged)
	skipped += len(tagged) - len(observations)

	l.logger.Info().
		Int("observations", len(observations)).
		Int("skipped", skipped).
		Msg("Parsed facts file")

	return observations, skipped, nil
}

// parseRow converts one record into an observation. ok is false for rows the
// screen cannot use: unknown tags, non-FY periods, non-USD units, or rows
// with unparsable context fields.
func (l *FactLoader) parseRow(record []string, cols map[string]int, line int) (models.RawObservation, int, bool) {
	field := func(name string) string {
		idx := cols[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	binding, ok := tagBindings[field("tag")]
	if !ok {
		return models.RawObservation{}, 0, false
	}
	if !strings.EqualFold(field("fp"), "FY") {
		return models.RawObservation{}, 0, false
	}
	if !strings.EqualFold(field("uom"), "USD") {
		return models.RawObservation{}, 0, false
	}

	cik, err := strconv.ParseInt(field("cik"), 10, 64)
	if err != nil {
		l.logger.Debug().Int("line", line).Str("cik", field("cik")).Msg("Skipping row with bad cik")
		return models.RawObservation{}, 0, false
	}
	year, err := strconv.Atoi(field("fy"))
	if err != nil || year == 0 {
		l.logger.Debug().Int("line", line).Str("fy", field("fy")).Msg("Skipping row with bad fiscal year")
		return models.RawObservation{}, 0, false
	}
	filed, err := parseDate(field("filed"))
	if err != nil {
		l.logger.Debug().Int("line", line).Str("filed", field("filed")).Msg("Skipping row with bad filing date")
		return models.RawObservation{}, 0, false
	}
	periodEnd, err := parseDate(field("ddate"))
	if err != nil {
		l.logger.Debug().Int("line", line).Str("ddate", field("ddate")).Msg("Skipping row with bad period end")
		return models.RawObservation{}, 0, false
	}

	return models.RawObservation{
		EntityID:   cik,
		Concept:    binding.concept,
		FiscalYear: year,
		Annual:     true,
		Form:       field("form"),
		Filed:      filed,
		PeriodEnd:  periodEnd,
		Currency:   "USD",
		RawValue:   field("value"),
	}, binding.rank, true
}

// parseDate accepts the two date spellings the SEC exports use.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"20060102", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// indexColumns resolves required header names to column indexes,
// case-insensitively.
func indexColumns(header []string, required []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cols := make(map[string]int, len(required))
	for _, name := range required {
		idx, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("facts header missing required column %q", name)
		}
		cols[name] = idx
	}
	return cols, nil
}
