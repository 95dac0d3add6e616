package config

import (
	"github.com/garyjia/invoice-labeler/internal/annotate"
	"github.com/garyjia/invoice-labeler/internal/application/service"
	"github.com/garyjia/invoice-labeler/internal/guideline"
	"github.com/garyjia/invoice-labeler/internal/invoice"
	httpapi "github.com/garyjia/invoice-labeler/internal/interfaces/http"
	"github.com/garyjia/invoice-labeler/internal/voucher"
	"github.com/garyjia/invoice-labeler/pkg/utils"
)

// LoggerOptions converts the logger section for utils.NewLogger
func (c *Config) LoggerOptions() utils.LoggerConfig {
	return utils.LoggerConfig{
		Level:      c.Logger.Level,
		OutputPath: c.Logger.OutputPath,
		Format:     c.Logger.Format,
	}
}

// ImporterConfig converts the guideline section
func (c *Config) ImporterConfig() guideline.ImporterConfig {
	return guideline.ImporterConfig{
		SheetMatch:   c.Guideline.SheetMatch,
		VendorColumn: c.Guideline.VendorColumn,
		LabelColumn:  c.Guideline.LabelColumn,
	}
}

// TextLayerOptions converts the text_layer section
func (c *Config) TextLayerOptions() invoice.TextLayerOptions {
	return invoice.TextLayerOptions{
		Engine:         c.TextLayer.Engine,
		OCREnabled:     c.TextLayer.OCREnabled,
		OCRLanguage:    c.TextLayer.OCRLanguage,
		TessdataPrefix: c.TextLayer.TessdataPrefix,
		MinTextChars:   c.TextLayer.MinTextChars,
	}
}

// StampOptions converts the annotation section
func (c *Config) StampOptions() annotate.StampOptions {
	return annotate.StampOptions{
		Font:   c.Annotation.Font,
		Points: c.Annotation.Points,
		Color:  c.Annotation.Color,
		DX:     c.Annotation.DX,
		DY:     c.Annotation.DY,
	}
}

// LabelingOptions converts the labeling section
func (c *Config) LabelingOptions() service.Options {
	return service.Options{
		Defaults: voucher.Defaults{
			CostCenter: c.Labeling.DefaultCostCenter,
			Group:      c.Labeling.DefaultGroup,
		},
		ReportFileName:  c.Labeling.ReportFileName,
		AnnotatedPrefix: c.Labeling.AnnotatedPrefix,
	}
}

// HTTPServerConfig converts the server section
func (c *Config) HTTPServerConfig() httpapi.ServerConfig {
	return httpapi.ServerConfig{
		Host:           c.Server.Host,
		Port:           c.Server.Port,
		ReadTimeout:    c.Server.ReadTimeout,
		WriteTimeout:   c.Server.WriteTimeout,
		MaxUploadBytes: c.Server.MaxUploadBytes,
	}
}
