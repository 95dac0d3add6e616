package main

import (
	"fmt"

	"github.com/garyjia/invoice-labeler/internal/config"
	"github.com/garyjia/invoice-labeler/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions holds the persistent flags
type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "labeler",
		Short: "Label invoices with cost center, group and sequence number",
		Long: `labeler reads invoice PDFs, extracts the vendor, buyer NIP and invoice
number, resolves the vendor's cost center (MPK) and group from a guideline
workbook, assigns the next year-scoped sequence number and stamps the label on
the first page. A report workbook lists every processed invoice.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "configs/config.yaml", "Path to the configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newProcessCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}

// loadConfig reads the configuration named by --config
func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.configPath)
}

func (o *rootOptions) cliLogger() (*zap.Logger, error) {
	logger, err := utils.NewCLILogger(o.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
