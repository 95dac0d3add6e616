package voucher

import (
	"github.com/garyjia/invoice-labeler/internal/models"
	"github.com/garyjia/invoice-labeler/internal/sequence"
)

// VendorResolverInterface resolves a vendor to its cost center and group.
// An unknown vendor yields an empty assignment.
type VendorResolverInterface interface {
	Lookup(vendorName string) models.Assignment
}

// SequenceAssignerInterface hands out the next number for a key
type SequenceAssignerInterface interface {
	AssignNext(key sequence.Key) sequence.Number
}
