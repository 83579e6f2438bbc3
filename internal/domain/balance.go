package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TotalPaid sums all payment amounts on the loan. Order of the payment
// sequence does not affect the result.
func TotalPaid(l *Loan) decimal.Decimal {
	total := decimal.Zero
	for i := range l.Payments {
		total = total.Add(l.Payments[i].Amount)
	}
	return total
}

// RemainingAmount is the loan amount minus everything paid so far.
func RemainingAmount(l *Loan) decimal.Decimal {
	return l.LoanAmount.Sub(TotalPaid(l))
}

// PaymentPercentage returns how much of the loan has been paid, 0-100.
// A zero loan amount yields 0 rather than dividing by zero.
func PaymentPercentage(l *Loan) decimal.Decimal {
	if l.LoanAmount.IsZero() {
		return decimal.Zero
	}
	return TotalPaid(l).Div(l.LoanAmount).Mul(hundred)
}

// ComputeStatus derives the loan status. A fully paid loan is Paid even
// past its due date; an unpaid loan past its due date is Overdue.
func ComputeStatus(l *Loan, now time.Time) string {
	if RemainingAmount(l).LessThanOrEqual(decimal.Zero) {
		return LoanStatusPaid
	}
	if l.DueDate != nil && now.After(*l.DueDate) {
		return LoanStatusOverdue
	}
	return LoanStatusActive
}

// Recalculate fills the derived fields and the status. The service calls
// this before every persist and after every load so the stored status can
// never drift from the formula.
func Recalculate(l *Loan, now time.Time) {
	l.TotalPaid = TotalPaid(l)
	l.RemainingAmount = RemainingAmount(l)
	l.PaymentPercentage = PaymentPercentage(l)
	l.Status = ComputeStatus(l, now)
}
