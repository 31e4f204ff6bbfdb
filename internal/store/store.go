package store

import (
	"context"
	"errors"

	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a create collides with an existing id,
	// or with the one-pending-per-student index in the Postgres store.
	ErrDuplicate = errors.New("store: duplicate")
)

// IdentityStore persists credential records for one role. The service holds
// two of these, one for students and one for guards.
type IdentityStore interface {
	Create(ctx context.Context, identity model.Identity) error
	Get(ctx context.Context, id string) (model.Identity, error)
}

// GatePassStore persists gate-pass records. Ordering contracts:
// ListByStudent returns newest-created first, ListPending returns latest
// leave date first.
type GatePassStore interface {
	Create(ctx context.Context, pass model.GatePass) error
	Get(ctx context.Context, id string) (model.GatePass, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.GatePass, error)
	ListPending(ctx context.Context) ([]model.GatePass, error)
	HasPending(ctx context.Context, studentID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) (model.GatePass, error)
	Delete(ctx context.Context, id string) error
}
