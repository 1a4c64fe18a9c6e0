package nurse

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports that the requested nurse or assignment is gone.
	ErrNotFound = errors.New("nurse not found")
	// ErrConflict reports a state clash, such as releasing an assignment
	// that is already closed.
	ErrConflict = errors.New("nurse assignment conflict")
)

type Repository interface {
	List(ctx context.Context, status *Status) ([]*Nurse, error)
	GetByID(ctx context.Context, id int) (*Nurse, error)
	Create(ctx context.Context, n *Nurse) error
	Update(ctx context.Context, n *Nurse) error
	Delete(ctx context.Context, id int) error
}

type AssignmentRepository interface {
	List(ctx context.Context, f AssignmentFilter, limit, offset int) ([]*Assignment, int, error)
	GetByID(ctx context.Context, id int64) (*Assignment, error)
	Create(ctx context.Context, a *Assignment) error
	// Release closes an open assignment. Returns ErrConflict when it is
	// already released.
	Release(ctx context.Context, id int64) (*Assignment, error)
	Delete(ctx context.Context, id int64) error
}
