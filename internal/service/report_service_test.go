package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/codenzaar/loan-tracker/internal/domain"
	apperrors "github.com/codenzaar/loan-tracker/pkg/errors"
	"github.com/codenzaar/loan-tracker/tests/mocks"
)

func TestBuildReport_ReceiptForMissingLoanIsNotFound(t *testing.T) {
	mockRepo := &mocks.MockLoanRepository{}
	svc := newTestService(mockRepo)

	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	data, err := svc.BuildReport(context.Background(), &ReportRequest{LoanID: id.String()})

	assert.Nil(t, data)
	assert.ErrorIs(t, err, apperrors.ErrLoanNotFound)
}

func TestBuildReport_ReceiptFilenameCarriesCustomerSlug(t *testing.T) {
	mockRepo := &mocks.MockLoanRepository{}
	svc := newTestService(mockRepo)

	id := uuid.New()
	loan := &domain.Loan{ID: id, CustomerName: "Ali Khan", LoanAmount: decimal.NewFromInt(1000)}
	mockRepo.On("GetByID", mock.Anything, id).Return(loan, nil)

	data, err := svc.BuildReport(context.Background(), &ReportRequest{LoanID: id.String()})

	assert.NoError(t, err)
	assert.NotNil(t, data.Receipt)
	assert.Contains(t, data.Filename, "loan-receipt-Ali-Khan-")
	assert.Contains(t, data.Filename, ".pdf")
}

func TestBuildReport_InvalidLoanIDIsValidationError(t *testing.T) {
	mockRepo := &mocks.MockLoanRepository{}
	svc := newTestService(mockRepo)

	_, err := svc.BuildReport(context.Background(), &ReportRequest{LoanID: "not-a-uuid"})

	_, ok := apperrors.AsValidation(err)
	assert.True(t, ok)
}

func TestBuildReport_EmptyAggregateSucceeds(t *testing.T) {
	mockRepo := &mocks.MockLoanRepository{}
	svc := newTestService(mockRepo)

	mockRepo.On("Find", mock.Anything, mock.Anything).Return([]*domain.Loan{}, nil)

	data, err := svc.BuildReport(context.Background(), &ReportRequest{})

	assert.NoError(t, err)
	assert.Nil(t, data.Receipt)
	assert.Empty(t, data.Loans)
	assert.Contains(t, data.Filename, "loan-report-")
}

func TestBuildReport_WindowShorthands(t *testing.T) {
	tests := []struct {
		name          string
		request       *ReportRequest
		expectedStart time.Time
		expectedEnd   time.Time
		filterLine    string
	}{
		{
			name:          "daily covers the whole given day",
			request:       &ReportRequest{FilterType: "daily", StartDate: "2024-03-15"},
			expectedStart: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 3, 15, 23, 59, 59, 999_000_000, time.UTC),
			filterLine:    "Filter: daily",
		},
		{
			name:          "monthly covers the calendar month containing the date",
			request:       &ReportRequest{FilterType: "monthly", StartDate: "2024-02-15"},
			expectedStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC),
			filterLine:    "Filter: monthly",
		},
		{
			name:          "explicit range extends end to end of day",
			request:       &ReportRequest{StartDate: "2024-01-01", EndDate: "2024-01-31"},
			expectedStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 1, 31, 23, 59, 59, 999_000_000, time.UTC),
			filterLine:    "Filter: 2024-01-01 to 2024-01-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockLoanRepository{}
			svc := newTestService(mockRepo)

			var captured domain.LoanFilter
			mockRepo.On("Find", mock.Anything, mock.MatchedBy(func(f domain.LoanFilter) bool {
				captured = f
				return true
			})).Return([]*domain.Loan{}, nil)

			data, err := svc.BuildReport(context.Background(), tt.request)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStart, *captured.StartDate)
			assert.Equal(t, tt.expectedEnd, *captured.EndDate)
			assert.Contains(t, data.Filters, tt.filterLine)
		})
	}
}
