package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/codenzaar/loan-tracker/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = "id, customer_name, loan_amount, loan_date, due_date, description, interest_rate, status, created_at, updated_at"

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, query,
		loan.ID,
		loan.CustomerName,
		loan.LoanAmount,
		loan.LoanDate,
		loan.DueDate,
		loan.Description,
		loan.InterestRate,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertPayments(ctx, tx, loan); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}

	if err := r.attachPayments(ctx, []*domain.Loan{&loan}); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Find(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error) {
	where, args := buildFilter(filter)
	query := `SELECT ` + loanColumns + ` FROM loans` + where + ` ORDER BY loan_date DESC`

	loans := []*domain.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, err
	}

	if err := r.attachPayments(ctx, loans); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) UpdateLocked(ctx context.Context, id uuid.UUID, mutate func(loan *domain.Loan) error) (*domain.Loan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var loan domain.Loan
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}

	paymentsQuery := `
		SELECT id, loan_id, amount, date, description, method, position
		FROM payments
		WHERE loan_id = $1
		ORDER BY position
	`
	loan.Payments = []domain.Payment{}
	if err = tx.SelectContext(ctx, &loan.Payments, paymentsQuery, id); err != nil {
		return nil, err
	}

	if err = mutate(&loan); err != nil {
		return nil, err
	}

	loan.UpdatedAt = time.Now()

	update := `
		UPDATE loans
		SET customer_name = $2, loan_amount = $3, loan_date = $4, due_date = $5,
		    description = $6, interest_rate = $7, status = $8, updated_at = $9
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, update,
		loan.ID,
		loan.CustomerName,
		loan.LoanAmount,
		loan.LoanDate,
		loan.DueDate,
		loan.Description,
		loan.InterestRate,
		loan.Status,
		loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM payments WHERE loan_id = $1`, id); err != nil {
		return nil, err
	}
	if err = insertPayments(ctx, tx, &loan); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM payments WHERE loan_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}

// attachPayments loads the payments for every loan in a single query and
// distributes them in position order.
func (r *loanRepository) attachPayments(ctx context.Context, loans []*domain.Loan) error {
	if len(loans) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(loans))
	byID := make(map[uuid.UUID]*domain.Loan, len(loans))
	for _, loan := range loans {
		loan.Payments = []domain.Payment{}
		ids = append(ids, loan.ID)
		byID[loan.ID] = loan
	}

	query := `
		SELECT id, loan_id, amount, date, description, method, position
		FROM payments
		WHERE loan_id = ANY($1)
		ORDER BY loan_id, position
	`

	var payments []domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, pq.Array(ids)); err != nil {
		return err
	}

	for _, p := range payments {
		loan := byID[p.LoanID]
		loan.Payments = append(loan.Payments, p)
	}

	return nil
}

func insertPayments(ctx context.Context, tx *sqlx.Tx, loan *domain.Loan) error {
	query := `
		INSERT INTO payments (id, loan_id, amount, date, description, method, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	// positions are compacted to 1..n on every persist; stored order is
	// whatever order the slice carries
	for i := range loan.Payments {
		loan.Payments[i].Position = i + 1

		p := loan.Payments[i]
		_, err := tx.ExecContext(ctx, query,
			p.ID,
			loan.ID,
			p.Amount,
			p.Date,
			p.Description,
			p.Method,
			p.Position,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// buildFilter translates a LoanFilter into a WHERE clause and its
// arguments. Name matching is a case-insensitive substring; date bounds
// are inclusive.
func buildFilter(filter domain.LoanFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.CustomerName != "" {
		args = append(args, "%"+filter.CustomerName+"%")
		clauses = append(clauses, fmt.Sprintf("customer_name ILIKE $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		clauses = append(clauses, fmt.Sprintf("loan_date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		clauses = append(clauses, fmt.Sprintf("loan_date <= $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
