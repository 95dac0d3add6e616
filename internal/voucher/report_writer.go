package voucher

import (
	"fmt"
	"io"

	"github.com/garyjia/invoice-labeler/internal/application/port"
	"github.com/garyjia/invoice-labeler/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var _ port.ReportWriter = (*ReportWriter)(nil)

// ReportWriter renders the journal as a single-sheet XLSX workbook
type ReportWriter struct {
	sheetName string
	logger    *zap.Logger
}

// NewReportWriter creates a report writer. An empty sheet name means "Raport".
func NewReportWriter(sheetName string, logger *zap.Logger) *ReportWriter {
	if sheetName == "" {
		sheetName = "Raport"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportWriter{
		sheetName: sheetName,
		logger:    logger,
	}
}

// Write renders a header row and one row per record
func (rw *ReportWriter) Write(w io.Writer, records []models.OutputRecord) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), rw.sheetName); err != nil {
		return fmt.Errorf("%w: %w", ErrReportWriteFailed, err)
	}

	if err := rw.setRow(f, 1, models.ReportColumns); err != nil {
		return err
	}
	for i, record := range records {
		if err := rw.setRow(f, i+2, record.Row()); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrReportWriteFailed, err)
	}

	rw.logger.Info("Report written",
		zap.String("sheet", rw.sheetName),
		zap.Int("records", len(records)))

	return nil
}

// setRow writes values as text cells starting at column A
func (rw *ReportWriter) setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReportWriteFailed, err)
	}

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(rw.sheetName, cell, &row); err != nil {
		return fmt.Errorf("%w: %w", ErrReportWriteFailed, err)
	}
	return nil
}
