package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/moneyseed/moneyseed-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// investmentRepository implements domain.InvestmentRepository
type investmentRepository struct {
	db *DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *DB) domain.InvestmentRepository {
	return &investmentRepository{db: db}
}

// ListByUser retrieves all investments belonging to a user
func (r *investmentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Investment, error) {
	query := `
		SELECT id, user_id, name, monthly_amount, period_years, annual_rate_percent, start_date, investment_days
		FROM investments
		WHERE user_id = $1
		ORDER BY start_date, name
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	investments := make([]*domain.Investment, 0)
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investments: %w", err)
	}

	return investments, nil
}

// GetByID retrieves an investment by its ID
func (r *investmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	query := `
		SELECT id, user_id, name, monthly_amount, period_years, annual_rate_percent, start_date, investment_days
		FROM investments
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	inv, err := scanInvestment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("investment %s not found: %w", id, err)
		}
		return nil, err
	}

	return inv, nil
}

// Create creates a new investment
func (r *investmentRepository) Create(ctx context.Context, inv *domain.Investment) error {
	query := `
		INSERT INTO investments (id, user_id, name, monthly_amount, period_years, annual_rate_percent, start_date, investment_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.UserID,
		inv.Name,
		inv.MonthlyAmount.String(),
		inv.PeriodYears,
		inv.AnnualRatePercent.String(),
		inv.StartDate,
		pq.Array(inv.InvestmentDays),
	)
	if err != nil {
		return fmt.Errorf("failed to insert investment: %w", err)
	}

	return nil
}

// Update persists changed fields of an existing investment
func (r *investmentRepository) Update(ctx context.Context, inv *domain.Investment) error {
	query := `
		UPDATE investments
		SET name = $2, monthly_amount = $3, period_years = $4, annual_rate_percent = $5, start_date = $6, investment_days = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.Name,
		inv.MonthlyAmount.String(),
		inv.PeriodYears,
		inv.AnnualRatePercent.String(),
		inv.StartDate,
		pq.Array(inv.InvestmentDays),
	)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("investment %s not found", inv.ID)
	}

	return nil
}

// Delete removes an investment and its completion records
func (r *investmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Completions first; completions.investment_id references investments.id
	if _, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE investment_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanInvestment reads one investment row, parsing DECIMAL columns from
// their string form and the integer[] day set via pq.Array.
func scanInvestment(row rowScanner) (*domain.Investment, error) {
	var inv domain.Investment
	var amountStr, rateStr string
	var days pq.Int64Array

	err := row.Scan(
		&inv.ID,
		&inv.UserID,
		&inv.Name,
		&amountStr,
		&inv.PeriodYears,
		&rateStr,
		&inv.StartDate,
		&days,
	)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse monthly_amount: %w", err)
	}
	inv.MonthlyAmount = amount

	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse annual_rate_percent: %w", err)
	}
	inv.AnnualRatePercent = rate

	inv.InvestmentDays = make([]int, 0, len(days))
	for _, d := range days {
		inv.InvestmentDays = append(inv.InvestmentDays, int(d))
	}
	// Rows written before normalization was enforced may carry duplicates
	inv.Normalize()

	return &inv, nil
}
