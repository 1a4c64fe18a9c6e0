// Package bedstate keeps a client-side mirror of the ward's beds. It wraps
// the API client with a concurrency-safe cache: list reads are served from
// memory, mutations go through the API and merge the returned record back
// in. One in-flight mutation is allowed per bed.
package bedstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kazuchan1889/bed-management/internal/layout"
	"github.com/Kazuchan1889/bed-management/pkg/client"
	"github.com/Kazuchan1889/bed-management/pkg/view"
)

// ErrBedBusy reports that another mutation on the same bed has not finished.
var ErrBedBusy = errors.New("bed operation already in progress")

// API is the slice of the HTTP client the store needs.
type API interface {
	ListBeds(ctx context.Context, f client.BedFilter) ([]client.Bed, error)
	AssignBed(ctx context.Context, id int, req client.AssignBedRequest) (*client.Bed, error)
	ReleaseBed(ctx context.Context, id int) (*client.Bed, error)
	SetRepair(ctx context.Context, id int, req client.RepairBedRequest) (*client.Bed, error)
	SetAvailable(ctx context.Context, id int) (*client.Bed, error)
}

// Store mirrors the bed list of one API server.
type Store struct {
	api API
	now func() time.Time
	log zerolog.Logger

	mu            sync.RWMutex
	beds          []client.Bed
	loading       bool
	err           error
	discrepancies []layout.Discrepancy
	pending       map[int]bool
}

// Option configures a Store.
type Option func(*Store)

// WithNow substitutes the clock used for duration labels.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger attaches a logger for load failures and floor-plan mismatches.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New builds an empty store. It starts in the loading state: Loading
// reports true until the first Load settles.
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:     api,
		now:     time.Now,
		log:     zerolog.Nop(),
		loading: true,
		pending: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the full bed list and replaces the cache wholesale. On
// failure the cache is emptied rather than left stale, and the error is
// retained for Err.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	beds, err := s.api.ListBeds(ctx, client.BedFilter{})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = err
	if err != nil {
		s.beds = nil
		s.discrepancies = nil
		s.log.Error().Err(err).Msg("bed load failed")
		return err
	}
	s.beds = beds
	s.discrepancies = checkLayout(beds)
	for _, d := range s.discrepancies {
		s.log.Warn().Int("bed_id", d.BedID).Str("detail", d.Detail).Msg("floor plan mismatch")
	}
	return nil
}

// Refresh is Load under its dashboard name.
func (s *Store) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

func checkLayout(beds []client.Bed) []layout.Discrepancy {
	var out []layout.Discrepancy
	for _, b := range beds {
		out = append(out, layout.Check(b.ID, b.Room, b.Floor)...)
	}
	return out
}

// acquire marks a bed as having a mutation in flight.
func (s *Store) acquire(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[id] {
		return ErrBedBusy
	}
	s.pending[id] = true
	return nil
}

func (s *Store) release(id int) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// merge replaces the cached record for the bed, applying clear to scrub
// fields the server may still echo from the previous state.
func (s *Store) merge(b *client.Bed, clear func(*client.Bed)) {
	if clear != nil {
		clear(b)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.beds {
		if s.beds[i].ID == b.ID {
			s.beds[i] = *b
			return
		}
	}
	s.beds = append(s.beds, *b)
}

// AssignBed admits a patient and merges the occupied record back in.
func (s *Store) AssignBed(ctx context.Context, id int, req client.AssignBedRequest) (*client.Bed, error) {
	if err := s.acquire(id); err != nil {
		return nil, err
	}
	defer s.release(id)

	b, err := s.api.AssignBed(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.merge(b, nil)
	return b, nil
}

// ReleaseBed discharges the occupant. The cached record drops its
// occupancy timestamps even if the server still echoes them.
func (s *Store) ReleaseBed(ctx context.Context, id int) (*client.Bed, error) {
	if err := s.acquire(id); err != nil {
		return nil, err
	}
	defer s.release(id)

	b, err := s.api.ReleaseBed(ctx, id)
	if err != nil {
		return nil, err
	}
	s.merge(b, func(b *client.Bed) {
		b.AssignedAt = nil
		b.ReleasedAt = nil
	})
	return b, nil
}

// SetRepair takes the bed out of service, scrubbing occupancy timestamps
// from the cached record.
func (s *Store) SetRepair(ctx context.Context, id int, req client.RepairBedRequest) (*client.Bed, error) {
	if err := s.acquire(id); err != nil {
		return nil, err
	}
	defer s.release(id)

	b, err := s.api.SetRepair(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.merge(b, func(b *client.Bed) {
		b.AssignedAt = nil
		b.ReleasedAt = nil
	})
	return b, nil
}

// SetAvailable returns a repaired bed to circulation.
func (s *Store) SetAvailable(ctx context.Context, id int) (*client.Bed, error) {
	if err := s.acquire(id); err != nil {
		return nil, err
	}
	defer s.release(id)

	b, err := s.api.SetAvailable(ctx, id)
	if err != nil {
		return nil, err
	}
	s.merge(b, func(b *client.Bed) {
		b.AssignedAt = nil
	})
	return b, nil
}

// Beds returns a copy of the cached bed list.
func (s *Store) Beds() []client.Bed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]client.Bed, len(s.beds))
	copy(out, s.beds)
	return out
}

// GetBedByID returns the cached record for one bed.
func (s *Store) GetBedByID(id int) (*client.Bed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.beds {
		if s.beds[i].ID == id {
			b := s.beds[i]
			return &b, true
		}
	}
	return nil, false
}

// FilterBeds returns cached beds matching the filter, in cache order.
func (s *Store) FilterBeds(f client.BedFilter) []client.Bed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []client.Bed
	for _, b := range s.beds {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.Floor != 0 && b.Floor != f.Floor {
			continue
		}
		if f.Room != "" && b.Room != f.Room {
			continue
		}
		out = append(out, b)
	}
	return out
}

// OccupancyDuration renders how long the bed's occupant has been in it.
// Beds without an admission time get an empty label.
func (s *Store) OccupancyDuration(id int) string {
	b, ok := s.GetBedByID(id)
	if !ok || b.AssignedAt == nil {
		return ""
	}
	return view.FormatDuration(s.now().Sub(*b.AssignedAt))
}

// Stats recomputes status counts from the cache.
func (s *Store) Stats() client.BedStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st client.BedStats
	for _, b := range s.beds {
		st.Total++
		switch b.Status {
		case client.BedAvailable:
			st.Available++
		case client.BedOccupied:
			st.Occupied++
		case client.BedRepair:
			st.Repair++
		case client.BedMaintenance:
			st.Maintenance++
		}
	}
	return st
}

// Loading reports whether the store is still waiting on its first Load or
// has one in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the outcome of the last Load.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Discrepancies lists where the loaded beds disagree with the static floor
// plan. They are surfaced, not repaired.
func (s *Store) Discrepancies() []layout.Discrepancy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]layout.Discrepancy, len(s.discrepancies))
	copy(out, s.discrepancies)
	return out
}
