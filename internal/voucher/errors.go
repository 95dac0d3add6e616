package voucher

import "errors"

var (
	// ErrNoRecords is returned when a report is requested for an empty journal
	ErrNoRecords = errors.New("no records to export")

	// ErrReportWriteFailed is returned when the workbook cannot be produced
	ErrReportWriteFailed = errors.New("failed to write report")
)
