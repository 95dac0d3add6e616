package guideline

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/garyjia/invoice-labeler/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrUnsupportedFormat is returned for guideline files that are neither XLSX nor CSV
	ErrUnsupportedFormat = errors.New("unsupported guideline file format")

	// ErrMissingColumns is returned when the sheet lacks the vendor or label column
	ErrMissingColumns = errors.New("guideline sheet is missing required columns")
)

// ImporterConfig names the sheet and columns to read
type ImporterConfig struct {
	SheetMatch   string // case-insensitive substring of the sheet name
	VendorColumn string
	LabelColumn  string
}

// DefaultImporterConfig returns the layout of the "Koszty - przyklady" workbook
func DefaultImporterConfig() ImporterConfig {
	return ImporterConfig{
		SheetMatch:   "przyklady",
		VendorColumn: "Nazwa kontrahenta",
		LabelColumn:  "Etykieta",
	}
}

// Importer populates a mapping table and a sequence registry from a
// guideline spreadsheet
type Importer struct {
	config ImporterConfig
	logger *zap.Logger
}

// NewImporter creates a new guideline importer
func NewImporter(config ImporterConfig, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		config: config,
		logger: logger,
	}
}

// sheet is a header row plus data rows, whatever the source format
type sheet struct {
	name string
	rows [][]string
}

// ImportFile reads a guideline file, choosing the reader by extension
func (im *Importer) ImportFile(fileName string, r io.Reader, table *MappingTable, history HistoryObserver) (models.ImportSummary, error) {
	var (
		s   *sheet
		err error
	)

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		s, err = im.readXLSX(r)
	case ".csv":
		s, err = im.readCSV(r)
	default:
		return models.ImportSummary{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}
	if err != nil {
		return models.ImportSummary{}, err
	}

	if s == nil {
		im.logger.Warn("No guideline sheet matched, nothing imported",
			zap.String("file", fileName),
			zap.String("sheet_match", im.config.SheetMatch))
		return models.ImportSummary{}, nil
	}

	return im.apply(s, table, history)
}

// apply feeds every data row into the table. Nothing is mutated if the
// required columns are absent.
func (im *Importer) apply(s *sheet, table *MappingTable, history HistoryObserver) (models.ImportSummary, error) {
	summary := models.ImportSummary{SheetName: s.name}
	if len(s.rows) == 0 {
		return summary, nil
	}

	vendorIdx, labelIdx := -1, -1
	for i, header := range s.rows[0] {
		switch strings.TrimSpace(header) {
		case im.config.VendorColumn:
			vendorIdx = i
		case im.config.LabelColumn:
			labelIdx = i
		}
	}
	if vendorIdx < 0 || labelIdx < 0 {
		return summary, fmt.Errorf("%w: want %q and %q in sheet %q",
			ErrMissingColumns, im.config.VendorColumn, im.config.LabelColumn, s.name)
	}

	for _, row := range s.rows[1:] {
		summary.RowsRead++

		outcome := table.ImportEntry(cell(row, vendorIdx), cell(row, labelIdx), history)
		if outcome.Skipped {
			summary.RowsSkipped++
			continue
		}
		summary.EntriesImported++
		if outcome.HistoricalObserved {
			summary.HistoricalObserved++
		}
	}

	im.logger.Info("Guidelines imported",
		zap.String("sheet", s.name),
		zap.Int("rows_read", summary.RowsRead),
		zap.Int("entries_imported", summary.EntriesImported),
		zap.Int("rows_skipped", summary.RowsSkipped),
		zap.Int("historical_observed", summary.HistoricalObserved))

	return summary, nil
}

// cell returns row[i] or "" when the row is short
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
