package voucher

import (
	"fmt"

	"github.com/garyjia/invoice-labeler/internal/models"
	"github.com/garyjia/invoice-labeler/internal/sequence"
	"go.uber.org/zap"
)

// Defaults are substituted when no guideline resolves a vendor
type Defaults struct {
	CostCenter string
	Group      string
}

// DefaultDefaults returns MPK000 and 0/0
func DefaultDefaults() Defaults {
	return Defaults{
		CostCenter: "MPK000",
		Group:      "0/0",
	}
}

// Resolution is the outcome of resolving a vendor and assigning a number
type Resolution struct {
	CostCenter      string
	Group           string
	Number          sequence.Number
	UsedDefaults    bool
	MachineLabel    string // group;costCenter;number
	DisplayLabel    string // group – costCenter – number
	FormattedNumber string
}

// MachineLabel joins the label parts with semicolons
func MachineLabel(group, costCenter, formattedNumber string) string {
	return fmt.Sprintf("%s;%s;%s", group, costCenter, formattedNumber)
}

// DisplayLabel joins the label parts with spaced en dashes
func DisplayLabel(group, costCenter, formattedNumber string) string {
	return fmt.Sprintf("%s – %s – %s", group, costCenter, formattedNumber)
}

// Composer resolves vendors, assigns sequence numbers and builds records
type Composer struct {
	defaults Defaults
	logger   *zap.Logger
}

// NewComposer creates a composer
func NewComposer(defaults Defaults, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		defaults: defaults,
		logger:   logger,
	}
}

// ResolveAndAssign looks the vendor up, fills each missing part from the
// defaults, and takes the next number for the resulting key. Each call
// consumes one number.
func (c *Composer) ResolveAndAssign(vendor string, resolver VendorResolverInterface, assigner SequenceAssignerInterface) Resolution {
	assignment := resolver.Lookup(vendor)

	res := Resolution{
		CostCenter: assignment.CostCenter,
		Group:      assignment.Group,
	}
	if res.CostCenter == "" {
		res.CostCenter = c.defaults.CostCenter
		res.UsedDefaults = true
	}
	if res.Group == "" {
		res.Group = c.defaults.Group
		res.UsedDefaults = true
	}

	res.Number = assigner.AssignNext(sequence.NewKey(res.CostCenter, res.Group))
	res.FormattedNumber = res.Number.Format()
	res.MachineLabel = MachineLabel(res.Group, res.CostCenter, res.FormattedNumber)
	res.DisplayLabel = DisplayLabel(res.Group, res.CostCenter, res.FormattedNumber)

	if res.UsedDefaults {
		c.logger.Info("No guideline for vendor, using defaults",
			zap.String("vendor", vendor),
			zap.String("cost_center", res.CostCenter),
			zap.String("group", res.Group))
	}

	return res
}

// Compose builds the output record for extracted fields and a resolution
func (c *Composer) Compose(fields models.ExtractedFields, res Resolution) models.OutputRecord {
	return models.OutputRecord{
		Vendor:                  fields.VendorOrSentinel(),
		BuyerTaxID:              fields.BuyerTaxIDOrSentinel(),
		InvoiceNumber:           fields.InvoiceNumberOrSentinel(),
		CostCenter:              res.CostCenter,
		Group:                   res.Group,
		SequenceNumberFormatted: res.FormattedNumber,
		Label:                   res.MachineLabel,
	}
}
