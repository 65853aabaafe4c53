package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bobmcallan/annscreen/internal/common"
	"github.com/bobmcallan/annscreen/internal/models"
)

var mappingColumns = []string{"cik", "ticker", "name"}

// MappingLoader reads entity display mappings from comma-separated files with
// a cik, ticker, name header.
type MappingLoader struct {
	logger *common.Logger
}

// NewMappingLoader creates a mapping loader.
func NewMappingLoader(logger *common.Logger) *MappingLoader {
	return &MappingLoader{logger: logger}
}

// LoadFile reads one mapping file. See Load.
func (l *MappingLoader) LoadFile(path string) ([]models.EntityDisplayInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()
	return l.Load(f)
}

// Load parses display mappings. Rows without a parsable cik are skipped; an
// empty ticker or name stays empty and resolves to the sentinel at display
// time.
func (l *MappingLoader) Load(r io.Reader) ([]models.EntityDisplayInfo, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping header: %w", err)
	}
	cols, err := indexColumns(header, mappingColumns)
	if err != nil {
		return nil, err
	}

	var infos []models.EntityDisplayInfo
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.logger.Debug().Int("line", line).Err(err).Msg("Skipping unreadable mapping row")
			continue
		}

		field := func(name string) string {
			idx := cols[name]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		cik, err := strconv.ParseInt(field("cik"), 10, 64)
		if err != nil || cik == 0 {
			l.logger.Debug().Int("line", line).Str("cik", field("cik")).Msg("Skipping mapping row with bad cik")
			continue
		}

		infos = append(infos, models.EntityDisplayInfo{
			EntityID: cik,
			Ticker:   strings.ToUpper(field("ticker")),
			Name:     field("name"),
		})
	}

	return infos, nil
}
