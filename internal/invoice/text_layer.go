package invoice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/garyjia/invoice-labeler/internal/application/port"
	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

var (
	// ErrEmptyDocument is returned when the document has no bytes
	ErrEmptyDocument = errors.New("document is empty")

	// ErrUnknownEngine is returned for an unrecognised text layer engine name
	ErrUnknownEngine = errors.New("unknown text layer engine")
)

// Engine names accepted by NewTextLayer
const (
	EngineFitz = "fitz"
	EnginePDF  = "pdf"
)

// TextLayerOptions selects and tunes the text layer
type TextLayerOptions struct {
	Engine         string
	OCREnabled     bool
	OCRLanguage    string
	TessdataPrefix string
	MinTextChars   int
}

// NewTextLayer builds the configured text layer, wrapped with the OCR
// fallback when enabled
func NewTextLayer(opts TextLayerOptions, logger *zap.Logger) (port.TextLayer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var primary port.TextLayer
	switch opts.Engine {
	case EngineFitz, "":
		primary = NewFitzTextLayer(logger)
	case EnginePDF:
		primary = NewPDFTextLayer(logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, opts.Engine)
	}

	if !opts.OCREnabled {
		return primary, nil
	}
	ocr := NewOCRTextLayer(opts.OCRLanguage, opts.TessdataPrefix, logger)
	return NewFallbackTextLayer(primary, ocr, opts.MinTextChars, logger), nil
}

var (
	_ port.TextLayer = (*FitzTextLayer)(nil)
	_ port.TextLayer = (*PDFTextLayer)(nil)
	_ port.TextLayer = (*OCRTextLayer)(nil)
	_ port.TextLayer = (*FallbackTextLayer)(nil)
)

// FitzTextLayer reads the text layer with MuPDF
type FitzTextLayer struct {
	logger *zap.Logger
}

// NewFitzTextLayer creates a MuPDF-backed text layer
func NewFitzTextLayer(logger *zap.Logger) *FitzTextLayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FitzTextLayer{logger: logger}
}

// ExtractPages returns the lines of every page
func (l *FitzTextLayer) ExtractPages(ctx context.Context, doc []byte) ([][]string, error) {
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}

	d, err := fitz.NewFromMemory(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer d.Close()

	pageCount := d.NumPage()
	l.logger.Debug("Reading text layer", zap.String("engine", EngineFitz), zap.Int("total_pages", pageCount))

	pages := make([][]string, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := d.Text(pageNum)
		if err != nil {
			return nil, fmt.Errorf("failed to read text of page %d: %w", pageNum+1, err)
		}
		pages = append(pages, splitLines(text))
	}

	return pages, nil
}

// PDFTextLayer reads the text layer with the pure Go PDF reader, one
// fragment per text row
type PDFTextLayer struct {
	logger *zap.Logger
}

// NewPDFTextLayer creates a pure Go text layer
func NewPDFTextLayer(logger *zap.Logger) *PDFTextLayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFTextLayer{logger: logger}
}

// ExtractPages returns the rows of every page
func (l *PDFTextLayer) ExtractPages(ctx context.Context, doc []byte) ([][]string, error) {
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}

	reader, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	pageCount := reader.NumPage()
	l.logger.Debug("Reading text layer", zap.String("engine", EnginePDF), zap.Int("total_pages", pageCount))

	pages := make([][]string, 0, pageCount)
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("failed to read text of page %d: %w", pageNum, err)
		}

		fragments := make([]string, 0, len(rows))
		for _, row := range rows {
			var sb strings.Builder
			for _, word := range row.Content {
				sb.WriteString(word.S)
			}
			fragments = append(fragments, sb.String())
		}
		pages = append(pages, fragments)
	}

	return pages, nil
}

// FallbackTextLayer uses secondary when primary yields too little text, as
// with scanned invoices
type FallbackTextLayer struct {
	primary      port.TextLayer
	secondary    port.TextLayer
	minTextChars int
	logger       *zap.Logger
}

// NewFallbackTextLayer wraps primary with a secondary text source
func NewFallbackTextLayer(primary, secondary port.TextLayer, minTextChars int, logger *zap.Logger) *FallbackTextLayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackTextLayer{
		primary:      primary,
		secondary:    secondary,
		minTextChars: minTextChars,
		logger:       logger,
	}
}

// ExtractPages tries the primary layer first. A primary failure is returned
// as is; the secondary is only consulted for sparse text.
func (l *FallbackTextLayer) ExtractPages(ctx context.Context, doc []byte) ([][]string, error) {
	pages, err := l.primary.ExtractPages(ctx, doc)
	if err != nil {
		return nil, err
	}

	chars := countTextChars(pages)
	if chars >= l.minTextChars {
		return pages, nil
	}

	l.logger.Info("Text layer too sparse, falling back to OCR",
		zap.Int("text_chars", chars),
		zap.Int("min_text_chars", l.minTextChars))

	ocrPages, err := l.secondary.ExtractPages(ctx, doc)
	if err != nil {
		l.logger.Warn("OCR fallback failed, keeping text layer", zap.Error(err))
		return pages, nil
	}
	return ocrPages, nil
}

func splitLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func countTextChars(pages [][]string) int {
	n := 0
	for _, fragments := range pages {
		for _, f := range fragments {
			for _, r := range f {
				if !unicode.IsSpace(r) {
					n++
				}
			}
		}
	}
	return n
}
