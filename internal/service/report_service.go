package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codenzaar/loan-tracker/internal/domain"
	apperrors "github.com/codenzaar/loan-tracker/pkg/errors"
	"github.com/codenzaar/loan-tracker/pkg/utils"
)

// ReportRequest selects what a generated PDF covers. A loan id targets a
// single receipt; otherwise the filter fields select an aggregate report.
type ReportRequest struct {
	LoanID       string
	CustomerName string
	StartDate    string
	EndDate      string
	// FilterType is "daily" (the start date's full day), "monthly" (the
	// calendar month containing the start date) or empty for an explicit
	// start/end range.
	FilterType string
}

// ReportData is everything the renderer needs: either a single receipt
// loan or the filtered collection, plus header metadata and the filename
// to deliver the document under.
type ReportData struct {
	Receipt     *domain.Loan
	Loans       []*domain.Loan
	GeneratedAt time.Time
	Filters     []string
	Filename    string
}

// BuildReport resolves a report request to the loans it covers. All
// derived values are recomputed here so the renderer reproduces exactly
// what the API serves.
func (s *LoanService) BuildReport(ctx context.Context, request *ReportRequest) (*ReportData, error) {
	now := s.now()

	if request.LoanID != "" {
		id, err := uuid.Parse(request.LoanID)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid loan id")
		}

		loan, err := s.GetLoan(ctx, id)
		if err != nil {
			return nil, err
		}

		return &ReportData{
			Receipt:     loan,
			GeneratedAt: now,
			Filename:    fmt.Sprintf("loan-receipt-%s-%d.pdf", utils.Slugify(loan.CustomerName), now.UnixMilli()),
		}, nil
	}

	filter := domain.LoanFilter{CustomerName: request.CustomerName}
	var described []string

	switch {
	case request.FilterType == "daily" && request.StartDate != "":
		day, err := utils.ParseDate(request.StartDate)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid start date format")
		}
		start, end := utils.DayWindow(day)
		filter.StartDate, filter.EndDate = &start, &end
		described = append(described, "Filter: daily")

	case request.FilterType == "monthly" && request.StartDate != "":
		day, err := utils.ParseDate(request.StartDate)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid start date format")
		}
		start, end := utils.MonthWindow(day)
		filter.StartDate, filter.EndDate = &start, &end
		described = append(described, "Filter: monthly")

	case request.StartDate != "" && request.EndDate != "":
		start, err := utils.ParseDate(request.StartDate)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid start date format")
		}
		end, err := utils.ParseDate(request.EndDate)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid end date format")
		}
		end = utils.EndOfDay(end)
		filter.StartDate, filter.EndDate = &start, &end
		described = append(described, fmt.Sprintf("Filter: %s to %s", request.StartDate, request.EndDate))
	}

	if request.CustomerName != "" {
		described = append(described, "Customer: "+request.CustomerName)
	}

	loans, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	for _, loan := range loans {
		domain.Recalculate(loan, now)
	}

	return &ReportData{
		Loans:       loans,
		GeneratedAt: now,
		Filters:     described,
		Filename:    fmt.Sprintf("loan-report-%d.pdf", now.UnixMilli()),
	}, nil
}
