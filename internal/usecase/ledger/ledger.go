package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moneyseed/moneyseed-backend/internal/domain"
)

// DefaultUndoWindow is how long after a toggle the revert affordance stays
// available. Purely a client-facing policy; the ledger never auto-reverts.
const DefaultUndoWindow = 5 * time.Second

// Ledger holds the in-memory copy of the completion map: (investment, date)
// keys to a completed flag. Absent keys mean "not completed" — there is no
// tri-state. Not safe for concurrent writers; the expected caller pattern is
// optimistic-update-then-confirm from a single goroutine.
type Ledger struct {
	completions map[string]bool
	toggledAt   map[string]time.Time
	clock       domain.Clock
	undoWindow  time.Duration
}

// NewLedger creates an empty ledger. The clock drives the undo window only.
func NewLedger(clock domain.Clock) *Ledger {
	return &Ledger{
		completions: make(map[string]bool),
		toggledAt:   make(map[string]time.Time),
		clock:       clock,
		undoWindow:  DefaultUndoWindow,
	}
}

// SetUndoWindow overrides the default undo window.
func (l *Ledger) SetUndoWindow(window time.Duration) {
	l.undoWindow = window
}

// Load seeds the ledger with the persisted completion map of one investment,
// replacing any local state for that investment's keys.
func (l *Ledger) Load(investmentID uuid.UUID, completions map[string]bool) {
	for isoDate, completed := range completions {
		l.completions[key(investmentID, isoDate)] = completed
	}
}

// IsCompleted reports the completion flag for one key, false when unknown.
func (l *Ledger) IsCompleted(investmentID uuid.UUID, isoDate string) bool {
	return l.completions[key(investmentID, isoDate)]
}

// Toggle flips the completion flag for one key and returns the new state.
// The caller passes its last-known state so the flip is well-defined while
// an optimistic local update is still awaiting confirmation. Toggling twice
// with the then-current state returns the key to its original value; that
// symmetry is the only undo primitive.
func (l *Ledger) Toggle(investmentID uuid.UUID, isoDate string, currentlyCompleted bool) bool {
	newState := !currentlyCompleted
	l.completions[key(investmentID, isoDate)] = newState
	l.toggledAt[key(investmentID, isoDate)] = l.clock.Now()
	return newState
}

// CanUndo reports whether the key was toggled within the undo window.
func (l *Ledger) CanUndo(investmentID uuid.UUID, isoDate string) bool {
	at, ok := l.toggledAt[key(investmentID, isoDate)]
	if !ok {
		return false
	}
	return l.clock.Now().Sub(at) <= l.undoWindow
}

// ToggleAndPersist runs the two-phase optimistic protocol: apply the toggle
// locally, issue the authoritative write, and roll the local copy back if
// the write fails. Returns the confirmed state.
// Retry/backoff on the store call is the collaborator's responsibility.
func (l *Ledger) ToggleAndPersist(ctx context.Context, repo domain.CompletionRepository, investmentID uuid.UUID, isoDate string, currentlyCompleted bool) (bool, error) {
	newState := l.Toggle(investmentID, isoDate, currentlyCompleted)

	if err := repo.SetCompletion(ctx, investmentID, isoDate, newState); err != nil {
		// Rollback the optimistic update
		l.completions[key(investmentID, isoDate)] = currentlyCompleted
		delete(l.toggledAt, key(investmentID, isoDate))
		return currentlyCompleted, fmt.Errorf("failed to persist completion: %w", err)
	}

	return newState, nil
}

func key(investmentID uuid.UUID, isoDate string) string {
	return investmentID.String() + "|" + isoDate
}
