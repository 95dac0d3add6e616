package models

// Sentinel values written to the report when a field could not be extracted
const (
	VendorNotFound       = "Nie znaleziono"
	BuyerTaxIDMissing    = "Brak"
	InvoiceNumberUnknown = "Nieznany"
)

// Field is an optionally extracted value. Absence is explicit rather than an
// empty string so callers can tell "not found" apart from a blank match.
type Field struct {
	Value string `json:"value,omitempty"`
	Found bool   `json:"found"`
}

// FoundField wraps an extracted value
func FoundField(value string) Field {
	return Field{Value: value, Found: true}
}

// Missing returns an absent field
func Missing() Field {
	return Field{}
}

// OrDefault returns the value or the given sentinel when absent
func (f Field) OrDefault(sentinel string) string {
	if !f.Found {
		return sentinel
	}
	return f.Value
}

// ExtractedFields holds the fields recovered from an invoice's text layer.
// No field depends on another being found.
type ExtractedFields struct {
	Vendor        Field `json:"vendor"`         // Sprzedawca
	BuyerTaxID    Field `json:"buyer_tax_id"`   // NIP nabywcy
	InvoiceNumber Field `json:"invoice_number"` // Numer faktury
}

// VendorOrSentinel returns the vendor name or the "not found" sentinel
func (e ExtractedFields) VendorOrSentinel() string {
	return e.Vendor.OrDefault(VendorNotFound)
}

// BuyerTaxIDOrSentinel returns the buyer tax ID or the "missing" sentinel
func (e ExtractedFields) BuyerTaxIDOrSentinel() string {
	return e.BuyerTaxID.OrDefault(BuyerTaxIDMissing)
}

// InvoiceNumberOrSentinel returns the invoice number or the "unknown" sentinel
func (e ExtractedFields) InvoiceNumberOrSentinel() string {
	return e.InvoiceNumber.OrDefault(InvoiceNumberUnknown)
}
