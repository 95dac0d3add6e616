package annotate

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/garyjia/invoice-labeler/internal/application/port"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"
)

var (
	// ErrEmptyDocument is returned when there is nothing to annotate
	ErrEmptyDocument = errors.New("document is empty")

	// ErrEmptyLabel is returned when the label to draw is blank
	ErrEmptyLabel = errors.New("label is empty")
)

// StampOptions controls how the label is drawn
type StampOptions struct {
	Font   string
	Points int
	Color  string // hex, e.g. #CC0000
	DX     int    // points from the left edge
	DY     int    // points from the top edge, negative moves down
}

// DefaultStampOptions draws 20pt red Helvetica-Bold 50pt from the left and
// 40pt below the top of the page
func DefaultStampOptions() StampOptions {
	return StampOptions{
		Font:   "Helvetica-Bold",
		Points: 20,
		Color:  "#CC0000",
		DX:     50,
		DY:     -40,
	}
}

var _ port.Annotator = (*PDFStamper)(nil)

// PDFStamper stamps the label as page content on page 1
type PDFStamper struct {
	options StampOptions
	logger  *zap.Logger
}

// NewPDFStamper creates a stamper
func NewPDFStamper(options StampOptions, logger *zap.Logger) *PDFStamper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFStamper{
		options: options,
		logger:  logger,
	}
}

// description renders the options in pdfcpu's watermark description syntax
func (s *PDFStamper) description() string {
	return fmt.Sprintf(
		"font:%s, points:%d, fillcolor:%s, position:tl, offset:%d %d, scalefactor:1 abs, rotation:0, opacity:1",
		s.options.Font, s.options.Points, s.options.Color, s.options.DX, s.options.DY)
}

// Annotate returns a copy of doc with label drawn on the first page
func (s *PDFStamper) Annotate(ctx context.Context, doc []byte, label string) ([]byte, error) {
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}
	if label == "" {
		return nil, ErrEmptyLabel
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wm, err := api.TextWatermark(label, s.description(), true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to build stamp: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(doc), &out, []string{"1"}, wm, conf); err != nil {
		return nil, fmt.Errorf("failed to stamp first page: %w", err)
	}

	s.logger.Debug("Document annotated",
		zap.String("label", label),
		zap.Int("input_bytes", len(doc)),
		zap.Int("output_bytes", out.Len()))

	return out.Bytes(), nil
}
