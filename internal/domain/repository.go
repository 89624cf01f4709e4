package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvestmentRepository defines the interface for investment persistence
// operations. The core never calls it directly; callers fetch investments
// and pass them into the usecases.
type InvestmentRepository interface {
	// ListByUser retrieves all investments belonging to a user
	ListByUser(ctx context.Context, userID string) ([]*Investment, error)

	// GetByID retrieves an investment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Investment, error)

	// Create creates a new investment
	Create(ctx context.Context, inv *Investment) error

	// Update persists changed fields of an existing investment
	Update(ctx context.Context, inv *Investment) error

	// Delete removes an investment and its completion records
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompletionRepository defines the interface for completion persistence.
// Keys are (investment id, ISO date); an absent key means "not completed".
type CompletionRepository interface {
	// GetCompletions retrieves the completion map for one investment
	GetCompletions(ctx context.Context, investmentID uuid.UUID) (map[string]bool, error)

	// SetCompletion writes the completion flag for one (investment, date) key
	SetCompletion(ctx context.Context, investmentID uuid.UUID, isoDate string, completed bool) error
}

// Clock supplies "now" so calendar classification and aggregation stay
// deterministic under test.
type Clock interface {
	Now() time.Time
}
