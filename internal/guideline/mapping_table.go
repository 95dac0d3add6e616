package guideline

import (
	"strings"

	"github.com/garyjia/invoice-labeler/internal/models"
	"github.com/garyjia/invoice-labeler/internal/sequence"
	"go.uber.org/zap"
)

// HistoryObserver receives historical sequence numbers found in labels
type HistoryObserver interface {
	ObserveHistorical(key sequence.Key, value, year int) bool
}

// EntryOutcome reports what a single ImportEntry call did
type EntryOutcome struct {
	Skipped            bool
	Stored             models.VendorEntry
	HistoricalObserved bool
}

// MappingTable maps normalised vendor names to cost center and group
type MappingTable struct {
	entries map[string]models.VendorEntry
	logger  *zap.Logger
}

// NewMappingTable creates an empty mapping table
func NewMappingTable(logger *zap.Logger) *MappingTable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MappingTable{
		entries: make(map[string]models.VendorEntry),
		logger:  logger,
	}
}

// ImportEntry parses label and stores its cost center and group under the
// vendor, replacing any earlier entry for the same normalised name. A
// historical number in the label is passed to history when the label also
// names both a cost center and a group. Rows with an empty vendor or label
// are skipped.
func (t *MappingTable) ImportEntry(vendorName, label string, history HistoryObserver) EntryOutcome {
	vendorName = strings.TrimSpace(vendorName)
	label = strings.TrimSpace(label)
	if vendorName == "" || label == "" {
		return EntryOutcome{Skipped: true}
	}

	parsed := ParseLabel(label)
	entry := models.VendorEntry{
		VendorNameNormalized: NormalizeVendor(vendorName),
		CostCenter:           parsed.CostCenter,
		Group:                parsed.Group,
	}
	t.entries[entry.VendorNameNormalized] = entry

	outcome := EntryOutcome{Stored: entry}
	if history != nil && parsed.HasHistorical && parsed.CostCenter != "" && parsed.Group != "" {
		key := sequence.NewKey(parsed.CostCenter, parsed.Group)
		history.ObserveHistorical(key, parsed.HistoricalValue, parsed.HistoricalYear)
		outcome.HistoricalObserved = true
	}

	return outcome
}

// Lookup returns the assignment for vendorName. A vendor without an entry
// yields an empty assignment, never an error.
func (t *MappingTable) Lookup(vendorName string) models.Assignment {
	entry, ok := t.entries[NormalizeVendor(vendorName)]
	if !ok {
		return models.Assignment{}
	}
	return models.Assignment{CostCenter: entry.CostCenter, Group: entry.Group}
}

// Len returns the number of vendors in the table
func (t *MappingTable) Len() int {
	return len(t.entries)
}
