package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/codenzaar/loan-tracker/internal/domain"
)

// LoanRepository defines the interface for loan data operations. Payments
// travel with their loan; they have no repository of their own.
type LoanRepository interface {
	// Create persists a new loan with its payments.
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan and its payments by id. Returns
	// sql.ErrNoRows when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// Find retrieves loans matching the filter, ordered by loan date
	// descending, payments attached.
	Find(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error)

	// UpdateLocked runs mutate against the loan inside a transaction that
	// holds a row lock on the loan, then persists the result. An error from
	// mutate aborts the transaction and is returned unchanged. Returns
	// sql.ErrNoRows when the loan is absent.
	UpdateLocked(ctx context.Context, id uuid.UUID, mutate func(loan *domain.Loan) error) (*domain.Loan, error)

	// Delete removes a loan and its payments permanently. Returns
	// sql.ErrNoRows when absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
