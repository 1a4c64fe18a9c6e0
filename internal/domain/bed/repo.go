package bed

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports that no bed with the requested id exists.
	ErrNotFound = errors.New("bed not found")
	// ErrConflict reports that the stored status changed underneath a
	// transition, or that the transition is not allowed from it.
	ErrConflict = errors.New("bed status conflict")
)

type Repository interface {
	List(ctx context.Context, f Filter) ([]*Bed, error)
	GetByID(ctx context.Context, id int) (*Bed, error)
	// Create inserts a bed if it does not exist yet. Used by the seeder.
	Create(ctx context.Context, b *Bed) error
	// UpdateFrom persists b only while the stored status still equals from,
	// appending hist in the same transaction. Returns ErrConflict when the
	// status moved, ErrNotFound when the bed is gone.
	UpdateFrom(ctx context.Context, b *Bed, from Status, hist *History) error
	Stats(ctx context.Context, floor *int) (*Stats, error)
}

type HistoryRepository interface {
	List(ctx context.Context, floor *int, limit, offset int) ([]*History, int, error)
}

// NurseDirectory resolves the weak nurse reference attached to a bed.
// Implemented by the nurse domain; wired in the composition root.
type NurseDirectory interface {
	Ref(ctx context.Context, id int) (*NurseRef, error)
}
