package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/garyjia/invoice-labeler/internal/application/service"
	"github.com/garyjia/invoice-labeler/internal/container"
	"github.com/garyjia/invoice-labeler/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// processOptions holds the flags of the process command
type processOptions struct {
	guidelines    string
	outDir        string
	allowDefaults bool
}

func newProcessCmd(root *rootOptions) *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process [flags] invoice.pdf...",
		Short: "Label invoices and write annotated copies plus the report",
		Long: `process handles the given invoices in argument order within one session.
Each annotated copy is written to the output directory under its label-derived
name, followed by the report workbook. A document whose text cannot be read is
reported and skipped; the others are still processed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.cliLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if opts.outDir != "" {
				cfg.Storage.OutputDir = opts.outDir
			}

			c, err := container.New(cfg, logger)
			if err != nil {
				return err
			}

			return runProcess(cmd.Context(), c, opts, args, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVarP(&opts.guidelines, "guidelines", "g", "", "Guideline workbook (.xlsx) or CSV")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Output directory (default storage.output_dir)")
	cmd.Flags().BoolVar(&opts.allowDefaults, "allow-defaults", false, "Process without guidelines using the default cost center and group")

	return cmd
}

func runProcess(ctx context.Context, c *container.Container, opts *processOptions, invoices []string, out io.Writer, logger *zap.Logger) error {
	labeling := c.Labeling()
	fileStorage := c.FileStorage()

	session := labeling.StartSession()
	defer labeling.EndSession(session.ID)

	if opts.guidelines != "" {
		summary, err := importGuidelines(ctx, labeling, session.ID, opts.guidelines)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Guidelines: %d entries from sheet %q (%d rows skipped, %d historical numbers)\n",
			summary.EntriesImported, summary.SheetName, summary.RowsSkipped, summary.HistoricalObserved)
	}

	failed := 0
	for _, path := range invoices {
		doc, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		result, err := labeling.ProcessDocument(ctx, session.ID, doc, service.ProcessOptions{
			ConfirmDefaults: opts.allowDefaults,
		})
		if errors.Is(err, service.ErrGuidelinesNotLoaded) {
			return fmt.Errorf("%w (pass --guidelines or --allow-defaults)", err)
		}
		if err != nil {
			failed++
			logger.Error("Invoice skipped", zap.String("file", path), zap.Error(err))
			fmt.Fprintf(out, "%s: FAILED: %v\n", filepath.Base(path), err)
			continue
		}

		annotated, err := labeling.LastAnnotated(ctx, session.ID)
		if err != nil {
			return err
		}
		written, err := fileStorage.Save(annotated.FileName, annotated.Content)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s: %s -> %s\n", filepath.Base(path), result.Record.Label, written)
	}

	var report bytes.Buffer
	if err := labeling.ExportReport(ctx, session.ID, &report); err != nil {
		if errors.Is(err, service.ErrNoRecords) {
			return fmt.Errorf("no invoice could be processed (%d failed)", failed)
		}
		return err
	}
	reportPath, err := fileStorage.Save(labeling.ReportFileName(), report.Bytes())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Report: %s\n", reportPath)

	if failed > 0 {
		return fmt.Errorf("%d of %d invoices failed", failed, len(invoices))
	}
	return nil
}

func importGuidelines(ctx context.Context, labeling service.LabelingService, sessionID, path string) (models.ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.ImportSummary{}, fmt.Errorf("failed to open guidelines: %w", err)
	}
	defer f.Close()

	return labeling.ImportGuidelines(ctx, sessionID, filepath.Base(path), f)
}
