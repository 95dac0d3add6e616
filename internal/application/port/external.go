package port

import (
	"context"
	"io"

	"github.com/garyjia/invoice-labeler/internal/guideline"
	"github.com/garyjia/invoice-labeler/internal/models"
)

// TextLayer returns per-page text fragments of a document
type TextLayer interface {
	ExtractPages(ctx context.Context, doc []byte) ([][]string, error)
}

// Annotator draws a label on the first page of a document
type Annotator interface {
	Annotate(ctx context.Context, doc []byte, label string) ([]byte, error)
}

// ReportWriter renders records as a spreadsheet
type ReportWriter interface {
	Write(w io.Writer, records []models.OutputRecord) error
}

// GuidelineImporter fills a mapping table and sequence history from a file
type GuidelineImporter interface {
	ImportFile(fileName string, r io.Reader, table *guideline.MappingTable, history guideline.HistoryObserver) (models.ImportSummary, error)
}
