package invoice

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// ocrDPI is the render resolution for OCR input
const ocrDPI = 300

// OCRTextLayer renders each page with MuPDF and reads it with Tesseract
type OCRTextLayer struct {
	language       string
	tessdataPrefix string
	logger         *zap.Logger
}

// NewOCRTextLayer creates an OCR text layer. An empty language means Polish.
func NewOCRTextLayer(language, tessdataPrefix string, logger *zap.Logger) *OCRTextLayer {
	if language == "" {
		language = "pol"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OCRTextLayer{
		language:       language,
		tessdataPrefix: tessdataPrefix,
		logger:         logger,
	}
}

// ExtractPages returns the OCR'd lines of every page
func (l *OCRTextLayer) ExtractPages(ctx context.Context, doc []byte) ([][]string, error) {
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}

	d, err := fitz.NewFromMemory(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer d.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if l.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(l.tessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(l.language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	pageCount := d.NumPage()
	pages := make([][]string, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := d.ImagePNG(pageNum, ocrDPI)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", pageNum+1, err)
		}
		if err := client.SetImageFromBytes(img); err != nil {
			return nil, fmt.Errorf("failed to set image for page %d: %w", pageNum+1, err)
		}
		text, err := client.Text()
		if err != nil {
			return nil, fmt.Errorf("OCR failed on page %d: %w", pageNum+1, err)
		}

		l.logger.Debug("Page OCR complete", zap.Int("page", pageNum+1), zap.Int("text_length", len(text)))
		pages = append(pages, splitLines(text))
	}

	return pages, nil
}
