package guideline

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// readXLSX returns the first sheet whose name contains the configured match,
// or nil when no sheet matches
func (im *Importer) readXLSX(r io.Reader) (*sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open guideline workbook: %w", err)
	}
	defer f.Close()

	match := strings.ToLower(im.config.SheetMatch)
	for _, name := range f.GetSheetList() {
		if !strings.Contains(strings.ToLower(name), match) {
			continue
		}

		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}

		im.logger.Debug("Reading guideline sheet",
			zap.String("sheet", name),
			zap.Int("rows", len(rows)))

		return &sheet{name: name, rows: rows}, nil
	}

	return nil, nil
}
