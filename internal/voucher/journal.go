package voucher

import "github.com/garyjia/invoice-labeler/internal/models"

// Journal is the ordered list of records produced in a session
type Journal struct {
	records []models.OutputRecord
}

// NewJournal creates an empty journal
func NewJournal() *Journal {
	return &Journal{}
}

// Append adds a record at the end
func (j *Journal) Append(record models.OutputRecord) {
	j.records = append(j.records, record)
}

// Records returns a copy of the records in processing order
func (j *Journal) Records() []models.OutputRecord {
	out := make([]models.OutputRecord, len(j.records))
	copy(out, j.records)
	return out
}

// Len returns the number of records
func (j *Journal) Len() int {
	return len(j.records)
}
