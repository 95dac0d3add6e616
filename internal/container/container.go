package container

import (
	"fmt"

	"github.com/garyjia/invoice-labeler/internal/annotate"
	"github.com/garyjia/invoice-labeler/internal/application/port"
	"github.com/garyjia/invoice-labeler/internal/application/service"
	"github.com/garyjia/invoice-labeler/internal/config"
	"github.com/garyjia/invoice-labeler/internal/guideline"
	"github.com/garyjia/invoice-labeler/internal/invoice"
	httpapi "github.com/garyjia/invoice-labeler/internal/interfaces/http"
	"github.com/garyjia/invoice-labeler/internal/storage"
	"github.com/garyjia/invoice-labeler/internal/voucher"
	"go.uber.org/zap"
)

// Container wires the labeling pipeline from configuration.
// Collaborators are built once and shared by every session.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Collaborators
	textLayer port.TextLayer
	annotator port.Annotator
	importer  port.GuidelineImporter
	report    port.ReportWriter

	// Application
	sessions *service.SessionStore
	labeling service.LabelingService

	// Outputs
	fileStorage *storage.LocalFileStorage
}

// New builds all components. It fails only on invalid text layer settings.
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	textLayer, err := invoice.NewTextLayer(cfg.TextLayerOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create text layer: %w", err)
	}

	c := &Container{
		config:      cfg,
		logger:      logger,
		textLayer:   textLayer,
		annotator:   annotate.NewPDFStamper(cfg.StampOptions(), logger),
		importer:    guideline.NewImporter(cfg.ImporterConfig(), logger),
		report:      voucher.NewReportWriter(cfg.Labeling.ReportSheet, logger),
		sessions:    service.NewSessionStore(nil, logger),
		fileStorage: storage.NewLocalFileStorage(cfg.Storage.OutputDir, logger),
	}

	c.labeling = service.NewLabelingService(
		c.sessions,
		c.importer,
		c.textLayer,
		c.annotator,
		c.report,
		cfg.LabelingOptions(),
		logger,
	)

	logger.Info("Container initialized",
		zap.String("text_layer_engine", cfg.TextLayer.Engine),
		zap.Bool("ocr_enabled", cfg.TextLayer.OCREnabled),
		zap.String("output_dir", cfg.Storage.OutputDir))

	return c, nil
}

// Labeling returns the labeling service
func (c *Container) Labeling() service.LabelingService {
	return c.labeling
}

// FileStorage returns the batch output storage
func (c *Container) FileStorage() *storage.LocalFileStorage {
	return c.fileStorage
}

// HTTPServer builds the HTTP adapter over the labeling service
func (c *Container) HTTPServer() *httpapi.Server {
	return httpapi.NewServer(c.config.HTTPServerConfig(), c.labeling, c.logger)
}
