package invoice

import (
	"strings"

	"github.com/garyjia/invoice-labeler/internal/models"
	"go.uber.org/zap"
)

// Extractor recovers vendor, buyer tax ID and invoice number from the text
// layer of an invoice. Each field has its own chain; no field depends on
// another.
type Extractor struct {
	vendor        Chain
	buyerTaxID    Chain
	invoiceNumber Chain
	logger        *zap.Logger
}

// NewExtractor creates an extractor with the standard rule chains
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		vendor:        VendorChain(),
		buyerTaxID:    BuyerTaxIDChain(),
		invoiceNumber: InvoiceNumberChain(),
		logger:        logger,
	}
}

// Extract runs all three chains over the document text
func (e *Extractor) Extract(text string) models.ExtractedFields {
	var fields models.ExtractedFields
	var rules [3]string

	fields.Vendor, rules[0] = e.vendor.Extract(text)
	fields.BuyerTaxID, rules[1] = e.buyerTaxID.Extract(text)
	fields.InvoiceNumber, rules[2] = e.invoiceNumber.Extract(text)

	e.logger.Debug("Invoice fields extracted",
		zap.String("vendor", fields.VendorOrSentinel()),
		zap.String("vendor_rule", rules[0]),
		zap.String("buyer_tax_id", fields.BuyerTaxIDOrSentinel()),
		zap.String("buyer_tax_id_rule", rules[1]),
		zap.String("invoice_number", fields.InvoiceNumberOrSentinel()),
		zap.String("invoice_number_rule", rules[2]))

	return fields
}

// BuildDocumentText joins each page's fragments with newlines, in page
// order, ending every page with a newline
func BuildDocumentText(pages [][]string) string {
	var sb strings.Builder
	for _, fragments := range pages {
		sb.WriteString(strings.Join(fragments, "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}
