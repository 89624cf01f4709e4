package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/moneyseed/moneyseed-backend/internal/domain"
)

// completionRepository implements domain.CompletionRepository
type completionRepository struct {
	db *DB
}

// NewCompletionRepository creates a new completion repository
func NewCompletionRepository(db *DB) domain.CompletionRepository {
	return &completionRepository{db: db}
}

// GetCompletions retrieves the completion map for one investment.
// Absent keys mean "not completed", so only stored rows are returned.
func (r *completionRepository) GetCompletions(ctx context.Context, investmentID uuid.UUID) (map[string]bool, error) {
	query := `
		SELECT completion_date, completed
		FROM completions
		WHERE investment_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, investmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	completions := make(map[string]bool)
	for rows.Next() {
		var isoDate string
		var completed bool
		if err := rows.Scan(&isoDate, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan completion row: %w", err)
		}
		completions[isoDate] = completed
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completions: %w", err)
	}

	return completions, nil
}

// SetCompletion writes the completion flag for one (investment, date) key.
// Upsert keeps repeated toggles idempotent at the storage layer.
func (r *completionRepository) SetCompletion(ctx context.Context, investmentID uuid.UUID, isoDate string, completed bool) error {
	query := `
		INSERT INTO completions (investment_id, completion_date, completed)
		VALUES ($1, $2, $3)
		ON CONFLICT (investment_id, completion_date)
		DO UPDATE SET completed = EXCLUDED.completed
	`

	_, err := r.db.ExecContext(ctx, query, investmentID, isoDate, completed)
	if err != nil {
		return fmt.Errorf("failed to upsert completion: %w", err)
	}

	return nil
}
