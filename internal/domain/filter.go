package domain

import "time"

// LoanFilter selects loans for list queries and reports. All fields are
// optional and combinable. Results are always ordered by loan date,
// newest first.
type LoanFilter struct {
	// CustomerName matches as a case-insensitive substring.
	CustomerName string
	// Status matches exactly against Active, Paid or Overdue.
	Status string
	// StartDate and EndDate bound the loan date inclusively. Callers are
	// expected to extend EndDate to end of day for day-granularity input.
	StartDate *time.Time
	EndDate   *time.Time
}
