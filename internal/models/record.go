package models

// VendorEntry is one row of the vendor mapping table
type VendorEntry struct {
	VendorNameNormalized string `json:"vendor"`      // lowercase, trimmed
	CostCenter           string `json:"cost_center"` // MPK
	Group                string `json:"group"`       // Grupa
}

// Assignment is the cost center and group resolved for a vendor.
// Empty fields mean no guideline matched.
type Assignment struct {
	CostCenter string `json:"cost_center"`
	Group      string `json:"group"`
}

// SequenceState is the counter kept per sequence key
type SequenceState struct {
	LastValue int `json:"last_value"`
	LastYear  int `json:"last_year"`
}

// OutputRecord is one processed invoice as it appears in the report.
// Field order matches the report column order.
type OutputRecord struct {
	Vendor                  string `json:"vendor"`                    // Nazwa kontrahenta
	BuyerTaxID              string `json:"buyer_tax_id"`              // NIP nabywcy
	InvoiceNumber           string `json:"invoice_number"`            // Numer faktury
	CostCenter              string `json:"cost_center"`               // MPK
	Group                   string `json:"group"`                     // Grupa
	SequenceNumberFormatted string `json:"sequence_number_formatted"` // Numer kolejny
	Label                   string `json:"label"`                     // Etykieta
}

// Row returns the record's cells in report column order
func (r OutputRecord) Row() []string {
	return []string{
		r.Vendor,
		r.BuyerTaxID,
		r.InvoiceNumber,
		r.CostCenter,
		r.Group,
		r.SequenceNumberFormatted,
		r.Label,
	}
}

// ReportColumns are the report headers, in the same order as Row
var ReportColumns = []string{
	"Nazwa kontrahenta",
	"NIP nabywcy",
	"Numer faktury",
	"MPK",
	"Grupa",
	"Numer kolejny",
	"Etykieta",
}

// ImportSummary describes the outcome of a guideline import
type ImportSummary struct {
	SheetName          string `json:"sheet_name"`
	RowsRead           int    `json:"rows_read"`
	EntriesImported    int    `json:"entries_imported"`
	RowsSkipped        int    `json:"rows_skipped"`
	HistoricalObserved int    `json:"historical_observed"`
}
