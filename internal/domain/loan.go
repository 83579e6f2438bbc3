package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive  = "Active"
	LoanStatusPaid    = "Paid"
	LoanStatusOverdue = "Overdue"
)

const (
	PaymentMethodCash         = "Cash"
	PaymentMethodCard         = "Card"
	PaymentMethodBankTransfer = "Bank Transfer"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// Payment is owned by exactly one loan and has no lifecycle of its own.
// Position preserves insertion order within the loan.
type Payment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	LoanID      uuid.UUID       `json:"-" db:"loan_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Date        time.Time       `json:"date" db:"date"`
	Description string          `json:"description" db:"description"`
	Method      string          `json:"payment_method" db:"method"`
	Position    int             `json:"-" db:"position"`
}

// Loan is the root aggregate. Status and the derived amount fields are
// filled by Recalculate and are never accepted from clients.
type Loan struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CustomerName string          `json:"customer_name" db:"customer_name"`
	LoanAmount   decimal.Decimal `json:"loan_amount" db:"loan_amount"`
	LoanDate     time.Time       `json:"loan_date" db:"loan_date"`
	DueDate      *time.Time      `json:"due_date,omitempty" db:"due_date"`
	Description  string          `json:"description" db:"description"`
	InterestRate decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	Payments     []Payment       `json:"payments" db:"-"`
	Status       string          `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`

	// Derived values, recomputed on every read and before every persist.
	TotalPaid         decimal.Decimal `json:"total_paid" db:"-"`
	RemainingAmount   decimal.Decimal `json:"remaining_amount" db:"-"`
	PaymentPercentage decimal.Decimal `json:"payment_percentage" db:"-"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	CustomerName string           `json:"customer_name" validate:"required"`
	LoanAmount   decimal.Decimal  `json:"loan_amount" validate:"decimal_gt=0"`
	LoanDate     string           `json:"loan_date,omitempty"`
	DueDate      string           `json:"due_date,omitempty"`
	Description  string           `json:"description,omitempty"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty" validate:"omitempty,decimal_gte=0"`
}

// UpdateLoanRequest carries partial updates. Nil means the field is left
// unchanged; an explicitly empty due_date or description clears it.
type UpdateLoanRequest struct {
	CustomerName *string          `json:"customer_name,omitempty"`
	LoanAmount   *decimal.Decimal `json:"loan_amount,omitempty"`
	LoanDate     *string          `json:"loan_date,omitempty"`
	DueDate      *string          `json:"due_date,omitempty"`
	Description  *string          `json:"description,omitempty"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty"`
}

type AddPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"decimal_gt=0"`
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description,omitempty"`
	Method      string          `json:"payment_method,omitempty" validate:"omitempty,oneof=Cash Card 'Bank Transfer'"`
}
