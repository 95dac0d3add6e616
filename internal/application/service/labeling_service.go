package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/garyjia/invoice-labeler/internal/application/port"
	"github.com/garyjia/invoice-labeler/internal/guideline"
	"github.com/garyjia/invoice-labeler/internal/invoice"
	"github.com/garyjia/invoice-labeler/internal/models"
	"github.com/garyjia/invoice-labeler/internal/voucher"
	"github.com/garyjia/invoice-labeler/pkg/utils"
	"go.uber.org/zap"
)

// Options holds the labeling settings
type Options struct {
	Defaults        voucher.Defaults
	ReportFileName  string
	AnnotatedPrefix string
}

// DefaultOptions returns the standard labeling settings
func DefaultOptions() Options {
	return Options{
		Defaults:        voucher.DefaultDefaults(),
		ReportFileName:  "raport_faktury.xlsx",
		AnnotatedPrefix: "faktura_z_opisem_",
	}
}

// ProcessOptions tunes a single ProcessDocument call
type ProcessOptions struct {
	// ConfirmDefaults allows processing before any guideline was imported
	ConfirmDefaults bool
}

// ProcessResult is the outcome of processing one invoice
type ProcessResult struct {
	Record       models.OutputRecord    `json:"record"`
	Fields       models.ExtractedFields `json:"fields"`
	DisplayLabel string                 `json:"display_label"`
	FileName     string                 `json:"file_name"`
	Annotated    bool                   `json:"annotated"`
	UsedDefaults bool                   `json:"used_defaults"`
}

// SessionInfo describes a started session
type SessionInfo struct {
	ID string `json:"session_id"`
}

// LabelingService runs the invoice labeling pipeline per session
type LabelingService interface {
	StartSession() SessionInfo
	EndSession(sessionID string) error
	ImportGuidelines(ctx context.Context, sessionID, fileName string, r io.Reader) (models.ImportSummary, error)
	ProcessDocument(ctx context.Context, sessionID string, doc []byte, opts ProcessOptions) (*ProcessResult, error)
	Records(ctx context.Context, sessionID string) ([]models.OutputRecord, error)
	ExportReport(ctx context.Context, sessionID string, w io.Writer) error
	LastAnnotated(ctx context.Context, sessionID string) (*AnnotatedDocument, error)
	ReportFileName() string
}

type labelingServiceImpl struct {
	sessions  *SessionStore
	importer  port.GuidelineImporter
	textLayer port.TextLayer
	annotator port.Annotator
	report    port.ReportWriter
	extractor *invoice.Extractor
	composer  *voucher.Composer
	options   Options
	logger    *zap.Logger
}

// NewLabelingService creates a new LabelingService
func NewLabelingService(
	sessions *SessionStore,
	importer port.GuidelineImporter,
	textLayer port.TextLayer,
	annotator port.Annotator,
	report port.ReportWriter,
	options Options,
	logger *zap.Logger,
) LabelingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &labelingServiceImpl{
		sessions:  sessions,
		importer:  importer,
		textLayer: textLayer,
		annotator: annotator,
		report:    report,
		extractor: invoice.NewExtractor(logger),
		composer:  voucher.NewComposer(options.Defaults, logger),
		options:   options,
		logger:    logger,
	}
}

// StartSession creates a session with empty registries
func (s *labelingServiceImpl) StartSession() SessionInfo {
	return SessionInfo{ID: s.sessions.Create().ID}
}

// EndSession discards a session
func (s *labelingServiceImpl) EndSession(sessionID string) error {
	if err := s.sessions.End(sessionID); err != nil {
		return userInputError("end session", err)
	}
	return nil
}

// ReportFileName returns the download name of the report
func (s *labelingServiceImpl) ReportFileName() string {
	return s.options.ReportFileName
}

func (s *labelingServiceImpl) session(op, sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, userInputError(op, err)
	}
	return sess, nil
}

// ImportGuidelines loads a guideline file into the session's mapping table
// and sequence registry
func (s *labelingServiceImpl) ImportGuidelines(ctx context.Context, sessionID, fileName string, r io.Reader) (models.ImportSummary, error) {
	const op = "import guidelines"

	sess, err := s.session(op, sessionID)
	if err != nil {
		return models.ImportSummary{}, err
	}
	if r == nil {
		return models.ImportSummary{}, userInputError(op, ErrNoDocument)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	summary, err := s.importer.ImportFile(fileName, r, sess.table, sess.registry)
	if err != nil {
		s.logger.Error("Failed to import guidelines",
			zap.String("session_id", sessionID),
			zap.String("file", fileName),
			zap.Error(err))
		if errors.Is(err, guideline.ErrUnsupportedFormat) || errors.Is(err, guideline.ErrMissingColumns) {
			return models.ImportSummary{}, userInputError(op, err)
		}
		return models.ImportSummary{}, collaboratorError(op, err)
	}

	return summary, nil
}

// ProcessDocument extracts fields, assigns the next number, records the
// result and annotates the document. A text layer failure leaves the session
// unchanged. An annotation failure returns the original bytes.
func (s *labelingServiceImpl) ProcessDocument(ctx context.Context, sessionID string, doc []byte, opts ProcessOptions) (*ProcessResult, error) {
	const op = "process document"

	sess, err := s.session(op, sessionID)
	if err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, userInputError(op, ErrNoDocument)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.table.Len() == 0 && !opts.ConfirmDefaults {
		return nil, userInputError(op, ErrGuidelinesNotLoaded)
	}

	pages, err := s.textLayer.ExtractPages(ctx, doc)
	if err != nil {
		s.logger.Error("Failed to read text layer",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, collaboratorError(op, fmt.Errorf("failed to read invoice text: %w", err))
	}

	fields := s.extractor.Extract(invoice.BuildDocumentText(pages))
	if fields.BuyerTaxID.Found && !utils.ValidNIP(fields.BuyerTaxID.Value) {
		s.logger.Warn("Buyer tax ID fails checksum",
			zap.String("session_id", sessionID),
			zap.String("buyer_tax_id", fields.BuyerTaxID.Value))
	}

	res := s.composer.ResolveAndAssign(fields.Vendor.Value, sess.table, sess.registry)
	record := s.composer.Compose(fields, res)
	sess.journal.Append(record)

	s.logger.Info("Invoice labeled",
		zap.String("session_id", sessionID),
		zap.String("vendor", record.Vendor),
		zap.String("invoice_number", record.InvoiceNumber),
		zap.String("label", record.Label))

	annotated := true
	content, err := s.annotator.Annotate(ctx, doc, res.DisplayLabel)
	if err != nil {
		s.logger.Warn("Annotation failed, returning original document",
			zap.String("session_id", sessionID),
			zap.String("label", res.DisplayLabel),
			zap.Error(err))
		content = doc
		annotated = false
	}

	fileName := utils.AnnotatedFileName(s.options.AnnotatedPrefix, res.DisplayLabel)
	sess.lastAnnotated = &AnnotatedDocument{
		FileName:  fileName,
		Content:   content,
		Annotated: annotated,
	}

	return &ProcessResult{
		Record:       record,
		Fields:       fields,
		DisplayLabel: res.DisplayLabel,
		FileName:     fileName,
		Annotated:    annotated,
		UsedDefaults: res.UsedDefaults,
	}, nil
}

// Records returns the session's records in processing order
func (s *labelingServiceImpl) Records(ctx context.Context, sessionID string) ([]models.OutputRecord, error) {
	sess, err := s.session("list records", sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.journal.Records(), nil
}

// ExportReport writes the session's report workbook to w
func (s *labelingServiceImpl) ExportReport(ctx context.Context, sessionID string, w io.Writer) error {
	const op = "export report"

	sess, err := s.session(op, sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.journal.Len() == 0 {
		return userInputError(op, ErrNoRecords)
	}
	if err := s.report.Write(w, sess.journal.Records()); err != nil {
		return collaboratorError(op, err)
	}
	return nil
}

// LastAnnotated returns the document produced by the last successful
// ProcessDocument call
func (s *labelingServiceImpl) LastAnnotated(ctx context.Context, sessionID string) (*AnnotatedDocument, error) {
	const op = "download annotated document"

	sess, err := s.session(op, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.lastAnnotated == nil {
		return nil, userInputError(op, ErrNoAnnotatedDocument)
	}
	return sess.lastAnnotated, nil
}
