package report

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/codenzaar/loan-tracker/internal/domain"
)

// fakeWriter records everything the renderer draws and simulates a page
// that runs out of vertical space.
type fakeWriter struct {
	lines []string
	pages int
	space float64
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{pages: 1, space: 700}
}

func (w *fakeWriter) AddText(text string, style Style) {
	w.lines = append(w.lines, text)
	w.space -= 20
}

func (w *fakeWriter) MoveDown(points float64) { w.space -= points }

func (w *fakeWriter) AddPage() {
	w.pages++
	w.space = 700
}

func (w *fakeWriter) SpaceLeft() float64 { return w.space }

func (w *fakeWriter) Close() error { return nil }

func (w *fakeWriter) contains(substr string) bool {
	for _, line := range w.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func sampleLoan() *domain.Loan {
	due := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	loan := &domain.Loan{
		ID:           uuid.MustParse("3e8f9f7e-98b4-4a86-b0de-5b1a6f45a001"),
		CustomerName: "Ali Khan",
		LoanAmount:   decimal.NewFromInt(100000),
		LoanDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:      &due,
		Description:  "Shop renovation",
		InterestRate: decimal.NewFromInt(5),
		Payments: []domain.Payment{
			{
				ID:          uuid.New(),
				Amount:      decimal.NewFromInt(25000),
				Date:        time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
				Method:      domain.PaymentMethodCash,
				Description: "first installment",
				Position:    1,
			},
			{
				ID:       uuid.New(),
				Amount:   decimal.NewFromInt(10000),
				Date:     time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
				Method:   domain.PaymentMethodCard,
				Position: 2,
			},
		},
		Status: domain.LoanStatusActive,
	}
	return loan
}

func TestRenderReceipt_IncludesAllLoanDetails(t *testing.T) {
	w := newFakeWriter()

	RenderReceipt(w, sampleLoan())

	assert.True(t, w.contains("LOAN RECEIPT"))
	assert.True(t, w.contains("Receipt #: 3e8f9f7e-98b4-4a86-b0de-5b1a6f45a001"))
	assert.True(t, w.contains("Customer Name: Ali Khan"))
	assert.True(t, w.contains("Loan Date: Jun 1, 2024"))
	assert.True(t, w.contains("Due Date: Jul 1, 2024"))
	assert.True(t, w.contains("Loan Amount: PKR 100,000"))
	assert.True(t, w.contains("Total Paid: PKR 35,000"))
	assert.True(t, w.contains("Remaining Amount: PKR 65,000"))
	assert.True(t, w.contains("Status: Active"))
	assert.True(t, w.contains("Interest Rate: 5%"))
	assert.True(t, w.contains("Description: Shop renovation"))
	assert.True(t, w.contains("1. PKR 25,000 - Jun 10, 2024 (Cash)"))
	assert.True(t, w.contains("Note: first installment"))
	assert.True(t, w.contains("2. PKR 10,000 - Jun 20, 2024 (Card)"))
	assert.False(t, w.contains("No payments recorded yet."))
}

func TestRenderReceipt_OmitsZeroInterestAndEmptyDescription(t *testing.T) {
	w := newFakeWriter()
	loan := sampleLoan()
	loan.InterestRate = decimal.Zero
	loan.Description = ""

	RenderReceipt(w, loan)

	assert.False(t, w.contains("Interest Rate"))
	assert.False(t, w.contains("Description:"))
}

func TestRenderReceipt_NoPaymentsPlaceholder(t *testing.T) {
	w := newFakeWriter()
	loan := sampleLoan()
	loan.Payments = nil

	RenderReceipt(w, loan)

	assert.True(t, w.contains("No payments recorded yet."))
}

func TestRenderReport_TotalsAndPerLoanSummaries(t *testing.T) {
	w := newFakeWriter()

	first := sampleLoan()
	second := sampleLoan()
	second.CustomerName = "Sara Ahmed"
	second.LoanAmount = decimal.NewFromInt(50000)
	second.Payments = nil
	second.Status = domain.LoanStatusOverdue

	meta := Meta{
		GeneratedAt: time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
		Filters:     []string{"Filter: monthly", "Customer: a"},
	}
	RenderReport(w, []*domain.Loan{first, second}, meta)

	assert.True(t, w.contains("Loan Management Report"))
	assert.True(t, w.contains("Generated on: Jun 15, 2024 10:30 AM"))
	assert.True(t, w.contains("Total Loans: 2"))
	assert.True(t, w.contains("Filter: monthly"))
	assert.True(t, w.contains("Customer: a"))
	assert.True(t, w.contains("1. Ali Khan"))
	assert.True(t, w.contains("2. Sara Ahmed"))
	assert.True(t, w.contains("Status: Overdue"))
	assert.True(t, w.contains("Total Loan Amount: PKR 150,000"))
	assert.True(t, w.contains("Total Paid: PKR 35,000"))
	assert.True(t, w.contains("Total Remaining: PKR 115,000"))
}

func TestRenderReport_EmptyCollectionRendersZeroTotals(t *testing.T) {
	w := newFakeWriter()

	RenderReport(w, nil, Meta{GeneratedAt: time.Now()})

	assert.True(t, w.contains("Total Loans: 0"))
	assert.True(t, w.contains("Total Loan Amount: PKR 0"))
	assert.True(t, w.contains("Total Paid: PKR 0"))
	assert.True(t, w.contains("Total Remaining: PKR 0"))
	assert.Equal(t, 1, w.pages)
}

func TestRenderReport_PaginatesWhenSpaceRunsOut(t *testing.T) {
	w := newFakeWriter()

	loans := make([]*domain.Loan, 12)
	for i := range loans {
		loans[i] = sampleLoan()
	}

	RenderReport(w, loans, Meta{GeneratedAt: time.Now()})

	assert.Greater(t, w.pages, 1)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input    decimal.Decimal
		expected string
	}{
		{decimal.NewFromInt(0), "0"},
		{decimal.NewFromInt(999), "999"},
		{decimal.NewFromInt(1000), "1,000"},
		{decimal.NewFromInt(1234567), "1,234,567"},
		{decimal.NewFromFloat(1234567.5), "1,234,567.5"},
		{decimal.NewFromInt(-45000), "-45,000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatAmount(tt.input))
	}
}
