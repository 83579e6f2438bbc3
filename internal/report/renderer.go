package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codenzaar/loan-tracker/internal/domain"
)

const (
	currency       = "PKR"
	dateFormat     = "Jan 2, 2006"
	dateTimeFormat = "Jan 2, 2006 3:04 PM"

	// entrySpace is the room required before starting another per-loan
	// block; summarySpace before the closing summary.
	entrySpace   = 150.0
	summarySpace = 100.0
)

// Meta carries the report header information.
type Meta struct {
	GeneratedAt time.Time
	Filters     []string
}

// RenderReceipt emits a single-loan receipt: identity, dates, the derived
// balance figures and the full payment history in insertion order.
func RenderReceipt(w DocumentWriter, loan *domain.Loan) {
	w.AddText("LOAN RECEIPT", Style{Size: 24, Align: "C"})
	w.MoveDown(14)

	w.AddText("Receipt #: "+loan.ID.String(), Style{Size: 12, Gray: true, Align: "R"})
	w.MoveDown(14)

	w.AddText("Customer Name: "+loan.CustomerName, Style{Size: 18})
	w.MoveDown(7)
	w.AddText("Loan Date: "+loan.LoanDate.Format(dateFormat), Style{Size: 14})
	if loan.DueDate != nil {
		w.AddText("Due Date: "+loan.DueDate.Format(dateFormat), Style{Size: 14})
	}
	w.MoveDown(14)

	w.AddText("Loan Details", Style{Size: 16})
	w.MoveDown(7)
	w.AddText(fmt.Sprintf("Loan Amount: %s %s", currency, formatAmount(loan.LoanAmount)), Style{Size: 14})
	w.AddText(fmt.Sprintf("Total Paid: %s %s", currency, formatAmount(domain.TotalPaid(loan))), Style{Size: 14})
	w.AddText(fmt.Sprintf("Remaining Amount: %s %s", currency, formatAmount(domain.RemainingAmount(loan))), Style{Size: 14})
	w.AddText("Status: "+loan.Status, Style{Size: 14})
	if loan.InterestRate.GreaterThan(decimal.Zero) {
		w.AddText(fmt.Sprintf("Interest Rate: %s%%", loan.InterestRate.String()), Style{Size: 14})
	}

	if loan.Description != "" {
		w.MoveDown(14)
		w.AddText("Description: "+loan.Description, Style{Size: 12})
	}

	w.MoveDown(20)
	w.AddText("Payment History", Style{Size: 16, Underline: true})
	w.MoveDown(7)

	if len(loan.Payments) == 0 {
		w.AddText("No payments recorded yet.", Style{Size: 12, Gray: true})
		return
	}

	for i, payment := range loan.Payments {
		if w.SpaceLeft() < 50 {
			w.AddPage()
		}

		w.AddText(fmt.Sprintf("%d. %s %s - %s (%s)",
			i+1, currency, formatAmount(payment.Amount),
			payment.Date.Format(dateFormat), payment.Method),
			Style{Size: 12})
		if payment.Description != "" {
			w.AddText("Note: "+payment.Description, Style{Size: 12, Indent: 20})
		}
		w.MoveDown(4)
	}
}

// RenderReport emits an aggregate report over a filtered collection:
// header with generation time and applied filters, one summary block per
// loan, and grand totals. An empty collection renders zero totals.
func RenderReport(w DocumentWriter, loans []*domain.Loan, meta Meta) {
	w.AddText("Loan Management Report", Style{Size: 20, Align: "C"})
	w.MoveDown(7)
	w.AddText("Generated on: "+meta.GeneratedAt.Format(dateTimeFormat), Style{Size: 12, Gray: true, Align: "C"})
	w.MoveDown(14)

	w.AddText(fmt.Sprintf("Total Loans: %d", len(loans)), Style{Size: 14})
	for _, line := range meta.Filters {
		w.AddText(line, Style{Size: 14})
	}
	w.MoveDown(14)

	totalAmount := decimal.Zero
	totalPaid := decimal.Zero
	totalRemaining := decimal.Zero

	for i, loan := range loans {
		if w.SpaceLeft() < entrySpace {
			w.AddPage()
		}

		paid := domain.TotalPaid(loan)
		remaining := domain.RemainingAmount(loan)

		w.AddText(fmt.Sprintf("%d. %s", i+1, loan.CustomerName), Style{Size: 12, Underline: true})
		w.AddText(fmt.Sprintf("Loan Amount: %s %s", currency, formatAmount(loan.LoanAmount)), Style{Size: 12, Indent: 15})
		w.AddText(fmt.Sprintf("Total Paid: %s %s", currency, formatAmount(paid)), Style{Size: 12, Indent: 15})
		w.AddText(fmt.Sprintf("Remaining: %s %s", currency, formatAmount(remaining)), Style{Size: 12, Indent: 15})
		w.AddText("Status: "+loan.Status, Style{Size: 12, Indent: 15})
		w.AddText("Date: "+loan.LoanDate.Format(dateFormat), Style{Size: 12, Indent: 15})
		w.MoveDown(7)

		totalAmount = totalAmount.Add(loan.LoanAmount)
		totalPaid = totalPaid.Add(paid)
		totalRemaining = totalRemaining.Add(remaining)
	}

	if w.SpaceLeft() < summarySpace {
		w.AddPage()
	}

	w.MoveDown(14)
	w.AddText("Summary", Style{Size: 14, Underline: true})
	w.AddText(fmt.Sprintf("Total Loan Amount: %s %s", currency, formatAmount(totalAmount)), Style{Size: 12})
	w.AddText(fmt.Sprintf("Total Paid: %s %s", currency, formatAmount(totalPaid)), Style{Size: 12})
	w.AddText(fmt.Sprintf("Total Remaining: %s %s", currency, formatAmount(totalRemaining)), Style{Size: 12})
}

// formatAmount renders a decimal with thousands separators, e.g.
// 1234567.5 -> "1,234,567.5".
func formatAmount(d decimal.Decimal) string {
	s := d.String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	return sign + b.String() + fracPart
}
