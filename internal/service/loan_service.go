package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/codenzaar/loan-tracker/internal/domain"
	"github.com/codenzaar/loan-tracker/internal/repository"
	apperrors "github.com/codenzaar/loan-tracker/pkg/errors"
	"github.com/codenzaar/loan-tracker/pkg/utils"
)

// LoanService orchestrates validated loan mutations and queries. Every
// mutation recomputes the derived status before persisting; every
// read-modify-write runs under a row lock so the overpayment check cannot
// race a concurrent payment.
type LoanService struct {
	repo  repository.LoanRepository
	cache *repository.LoanCache
	now   func() time.Time
}

func NewLoanService(repo repository.LoanRepository, cache *repository.LoanCache) *LoanService {
	return &LoanService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// CreateLoan validates the request and persists a new loan with zero
// payments and a derived status.
func (s *LoanService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	name := strings.TrimSpace(request.CustomerName)
	if name == "" {
		return nil, apperrors.NewValidationError("Customer name is required and cannot be empty")
	}

	if !request.LoanAmount.GreaterThan(decimal.Zero) {
		return nil, apperrors.NewValidationError("Loan amount must be a valid number greater than 0")
	}

	rate := decimal.Zero
	if request.InterestRate != nil {
		if request.InterestRate.IsNegative() {
			return nil, apperrors.NewValidationError("Interest rate must be a valid number greater than or equal to 0")
		}
		rate = *request.InterestRate
	}

	now := s.now()

	loanDate := now
	if request.LoanDate != "" {
		parsed, err := utils.ParseDate(request.LoanDate)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid loan date format")
		}
		loanDate = parsed
	}

	var dueDate *time.Time
	if request.DueDate != "" {
		parsed, err := utils.ParseDate(request.DueDate)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid due date format")
		}
		dueDate = &parsed
	}

	loan := &domain.Loan{
		ID:           uuid.New(),
		CustomerName: name,
		LoanAmount:   request.LoanAmount,
		LoanDate:     loanDate,
		DueDate:      dueDate,
		Description:  request.Description,
		InterestRate: rate,
		Payments:     []domain.Payment{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	domain.Recalculate(loan, now)

	if err := s.repo.Create(ctx, loan); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return loan, nil
}

// GetLoan returns a single loan with derived values filled. Single-loan
// reads go through the cache; derived values are recomputed after a hit so
// a cached status can never be stale past its due date.
func (s *LoanService) GetLoan(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	if s.cache != nil {
		if loan, ok := s.cache.Get(ctx, id); ok {
			domain.Recalculate(loan, s.now())
			return loan, nil
		}
	}

	loan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapLoanNotFound(id.String())
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	domain.Recalculate(loan, s.now())

	if s.cache != nil {
		s.cache.Set(ctx, loan)
	}

	return loan, nil
}

// GetLoans returns loans matching the filter, newest loan date first. A
// day-granularity end date is extended to the end of that day.
func (s *LoanService) GetLoans(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error) {
	if filter.EndDate != nil {
		end := utils.EndOfDay(*filter.EndDate)
		filter.EndDate = &end
	}

	loans, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	now := s.now()
	for _, loan := range loans {
		domain.Recalculate(loan, now)
	}

	return loans, nil
}

// GetLoansByDateRange requires both bounds and applies the same
// end-of-day extension as GetLoans. Combinable with a customer name.
func (s *LoanService) GetLoansByDateRange(ctx context.Context, startDate, endDate, customerName string) ([]*domain.Loan, error) {
	if startDate == "" || endDate == "" {
		return nil, apperrors.NewValidationError("Start date and end date are required")
	}

	start, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid start date format")
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid end date format")
	}

	return s.GetLoans(ctx, domain.LoanFilter{
		CustomerName: customerName,
		StartDate:    &start,
		EndDate:      &end,
	})
}

// UpdateLoan applies only the fields present in the request, revalidates
// them and recomputes the status before persisting. An explicitly empty
// due date clears it.
func (s *LoanService) UpdateLoan(ctx context.Context, id uuid.UUID, request *domain.UpdateLoanRequest) (*domain.Loan, error) {
	loan, err := s.repo.UpdateLocked(ctx, id, func(loan *domain.Loan) error {
		if request.CustomerName != nil {
			name := strings.TrimSpace(*request.CustomerName)
			if name == "" {
				return apperrors.NewValidationError("Customer name is required and cannot be empty")
			}
			loan.CustomerName = name
		}

		if request.LoanAmount != nil {
			if !request.LoanAmount.GreaterThan(decimal.Zero) {
				return apperrors.NewValidationError("Loan amount must be a valid number greater than 0")
			}
			loan.LoanAmount = *request.LoanAmount
		}

		if request.LoanDate != nil {
			parsed, err := utils.ParseDate(*request.LoanDate)
			if err != nil {
				return apperrors.NewValidationError("Invalid loan date format")
			}
			loan.LoanDate = parsed
		}

		if request.DueDate != nil {
			if *request.DueDate == "" {
				loan.DueDate = nil
			} else {
				parsed, err := utils.ParseDate(*request.DueDate)
				if err != nil {
					return apperrors.NewValidationError("Invalid due date format")
				}
				loan.DueDate = &parsed
			}
		}

		if request.Description != nil {
			loan.Description = *request.Description
		}

		if request.InterestRate != nil {
			if request.InterestRate.IsNegative() {
				return apperrors.NewValidationError("Interest rate must be a valid number greater than or equal to 0")
			}
			loan.InterestRate = *request.InterestRate
		}

		domain.Recalculate(loan, s.now())
		return nil
	})
	if err != nil {
		return nil, s.mutationError(id, err)
	}

	s.invalidate(ctx, id)
	return loan, nil
}

// AddPayment appends a payment to the loan. The payment must not exceed
// the remaining amount; overpayment is rejected, not clamped. The check
// and the write happen under the same row lock.
func (s *LoanService) AddPayment(ctx context.Context, loanID uuid.UUID, request *domain.AddPaymentRequest) (*domain.Loan, error) {
	if !request.Amount.GreaterThan(decimal.Zero) {
		return nil, apperrors.NewValidationError("Payment amount must be greater than 0")
	}

	method := request.Method
	if method == "" {
		method = domain.PaymentMethodCash
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, apperrors.NewValidationError("Payment method must be one of Cash, Card, Bank Transfer")
	}

	date := s.now()
	if request.Date != "" {
		parsed, err := utils.ParseDate(request.Date)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid payment date format")
		}
		date = parsed
	}

	loan, err := s.repo.UpdateLocked(ctx, loanID, func(loan *domain.Loan) error {
		remaining := domain.RemainingAmount(loan)
		if request.Amount.GreaterThan(remaining) {
			return apperrors.ErrPaymentExceedsRemaining(request.Amount.String(), remaining.String())
		}

		loan.Payments = append(loan.Payments, domain.Payment{
			ID:          uuid.New(),
			LoanID:      loan.ID,
			Amount:      request.Amount,
			Date:        date,
			Description: request.Description,
			Method:      method,
			Position:    len(loan.Payments) + 1,
		})

		domain.Recalculate(loan, s.now())
		return nil
	})
	if err != nil {
		return nil, s.mutationError(loanID, err)
	}

	s.invalidate(ctx, loanID)
	return loan, nil
}

// DeletePayment removes the matching payment from the loan. A payment id
// that does not exist on the loan is a silent no-op; the loan itself must
// exist. Status is recomputed either way.
func (s *LoanService) DeletePayment(ctx context.Context, loanID, paymentID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.repo.UpdateLocked(ctx, loanID, func(loan *domain.Loan) error {
		kept := loan.Payments[:0]
		for _, p := range loan.Payments {
			if p.ID != paymentID {
				kept = append(kept, p)
			}
		}
		loan.Payments = kept

		// close the position gap so the next payment cannot collide
		for i := range loan.Payments {
			loan.Payments[i].Position = i + 1
		}

		domain.Recalculate(loan, s.now())
		return nil
	})
	if err != nil {
		return nil, s.mutationError(loanID, err)
	}

	s.invalidate(ctx, loanID)
	return loan, nil
}

// DeleteLoan removes the loan permanently. There is no soft delete.
func (s *LoanService) DeleteLoan(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.WrapLoanNotFound(id.String())
		}
		return apperrors.WrapDatabaseError(err)
	}

	s.invalidate(ctx, id)
	return nil
}

// RefreshStatuses recomputes and persists the status of every loan whose
// stored status no longer matches the formula, and returns how many were
// updated. The scheduler runs this daily so Active loans past their due
// date flip to Overdue without waiting for a read.
func (s *LoanService) RefreshStatuses(ctx context.Context) (int, error) {
	loans, err := s.repo.Find(ctx, domain.LoanFilter{})
	if err != nil {
		return 0, apperrors.WrapDatabaseError(err)
	}

	updated := 0
	for _, loan := range loans {
		if domain.ComputeStatus(loan, s.now()) == loan.Status {
			continue
		}

		_, err := s.repo.UpdateLocked(ctx, loan.ID, func(loan *domain.Loan) error {
			domain.Recalculate(loan, s.now())
			return nil
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue // deleted since the listing, nothing to refresh
			}
			return updated, apperrors.WrapDatabaseError(err)
		}

		s.invalidate(ctx, loan.ID)
		updated++
	}

	return updated, nil
}

func (s *LoanService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}

// mutationError maps repository errors from a locked update: missing rows
// become not-found, validation errors from the mutate callback pass
// through untouched.
func (s *LoanService) mutationError(id uuid.UUID, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.WrapLoanNotFound(id.String())
	}
	if _, ok := apperrors.AsValidation(err); ok {
		return err
	}
	return apperrors.WrapDatabaseError(err)
}
