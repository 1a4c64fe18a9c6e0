package bed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Kazuchan1889/bed-management/internal/layout"
	"github.com/Kazuchan1889/bed-management/internal/platform/metrics"
)

type Service struct {
	beds    Repository
	history HistoryRepository
	nurses  NurseDirectory
	log     zerolog.Logger
}

func NewService(beds Repository, history HistoryRepository, nurses NurseDirectory, log zerolog.Logger) *Service {
	return &Service{beds: beds, history: history, nurses: nurses, log: log}
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Bed, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q", *f.Status)
	}
	return s.beds.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int) (*Bed, error) {
	return s.beds.GetByID(ctx, id)
}

// Assign puts a patient into an available bed. The patient name is required;
// when both dates are given the planned release must come after admission.
func (s *Service) Assign(ctx context.Context, id int, req AssignRequest) (*Bed, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("patient name is required")
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		return nil, fmt.Errorf("patient age must be between 0 and 150")
	}
	if req.Gender != nil && *req.Gender != "male" && *req.Gender != "female" {
		return nil, fmt.Errorf("patient gender must be male or female")
	}
	if req.AssignedAt != nil && req.ReleasedAt != nil && !req.ReleasedAt.After(*req.AssignedAt) {
		return nil, fmt.Errorf("releasedAt must be after assignedAt")
	}

	b, err := s.beds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusAvailable {
		return nil, fmt.Errorf("bed %d is %s: %w", id, b.Status, ErrConflict)
	}

	var nurse *NurseRef
	if req.NurseID != nil {
		nurse, err = s.nurses.Ref(ctx, *req.NurseID)
		if err != nil {
			return nil, fmt.Errorf("nurse %d: %w", *req.NurseID, err)
		}
	}

	assignedAt := time.Now()
	if req.AssignedAt != nil {
		assignedAt = *req.AssignedAt
	}

	b.Status = StatusOccupied
	b.Patient = &Patient{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Age:           req.Age,
		Gender:        req.Gender,
		MedicalRecord: req.MedicalRecord,
	}
	b.Nurse = nurse
	b.AssignedAt = &assignedAt
	b.ReleasedAt = req.ReleasedAt
	b.RepairNote = nil
	b.RepairStartAt = nil
	b.RepairEndAt = nil

	hist := &History{
		BedID:      b.ID,
		Action:     ActionAssigned,
		Patient:    b.Patient,
		Nurse:      b.Nurse,
		AssignedAt: b.AssignedAt,
		ReleasedAt: b.ReleasedAt,
	}
	if err := s.beds.UpdateFrom(ctx, b, StatusAvailable, hist); err != nil {
		return nil, err
	}

	metrics.ObserveBedTransition("assign")
	s.log.Info().Int("bed_id", b.ID).Str("patient", req.Name).Msg("bed assigned")
	return b, nil
}

// Release discharges the occupant and returns the bed to available.
func (s *Service) Release(ctx context.Context, id int) (*Bed, error) {
	b, err := s.beds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusOccupied {
		return nil, fmt.Errorf("bed %d is %s, not occupied: %w", id, b.Status, ErrConflict)
	}

	now := time.Now()
	hist := &History{
		BedID:      b.ID,
		Action:     ActionReleased,
		Patient:    b.Patient,
		Nurse:      b.Nurse,
		AssignedAt: b.AssignedAt,
		ReleasedAt: &now,
	}

	b.Status = StatusAvailable
	b.Patient = nil
	b.Nurse = nil
	b.AssignedAt = nil
	b.ReleasedAt = nil

	if err := s.beds.UpdateFrom(ctx, b, StatusOccupied, hist); err != nil {
		return nil, err
	}

	metrics.ObserveBedTransition("release")
	s.log.Info().Int("bed_id", b.ID).Msg("bed released")
	return b, nil
}

// SetRepair takes an unoccupied bed out of service.
func (s *Service) SetRepair(ctx context.Context, id int, req RepairRequest) (*Bed, error) {
	if req.RepairStartAt != nil && req.RepairEndAt != nil && !req.RepairEndAt.After(*req.RepairStartAt) {
		return nil, fmt.Errorf("repairEndAt must be after repairStartAt")
	}

	b, err := s.beds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == StatusOccupied {
		return nil, fmt.Errorf("bed %d is occupied: %w", id, ErrConflict)
	}
	if b.Status == StatusRepair {
		return nil, fmt.Errorf("bed %d is already under repair: %w", id, ErrConflict)
	}
	from := b.Status

	startAt := time.Now()
	if req.RepairStartAt != nil {
		startAt = *req.RepairStartAt
	}

	b.Status = StatusRepair
	b.Patient = nil
	b.Nurse = nil
	b.AssignedAt = nil
	b.ReleasedAt = nil
	b.RepairNote = req.RepairNote
	b.RepairStartAt = &startAt
	b.RepairEndAt = req.RepairEndAt

	hist := &History{
		BedID:      b.ID,
		Action:     ActionRepair,
		RepairNote: b.RepairNote,
	}
	if err := s.beds.UpdateFrom(ctx, b, from, hist); err != nil {
		return nil, err
	}

	metrics.ObserveBedTransition("repair")
	s.log.Info().Int("bed_id", b.ID).Msg("bed marked for repair")
	return b, nil
}

// SetAvailable closes out a repair or maintenance period.
func (s *Service) SetAvailable(ctx context.Context, id int) (*Bed, error) {
	b, err := s.beds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusRepair && b.Status != StatusMaintenance {
		return nil, fmt.Errorf("bed %d is %s: %w", id, b.Status, ErrConflict)
	}
	from := b.Status

	b.Status = StatusAvailable
	b.Patient = nil
	b.Nurse = nil
	b.AssignedAt = nil
	b.ReleasedAt = nil
	b.RepairNote = nil
	b.RepairStartAt = nil
	b.RepairEndAt = nil

	hist := &History{BedID: b.ID, Action: ActionAvailable}
	if err := s.beds.UpdateFrom(ctx, b, from, hist); err != nil {
		return nil, err
	}

	metrics.ObserveBedTransition("available")
	s.log.Info().Int("bed_id", b.ID).Msg("bed restored to available")
	return b, nil
}

func (s *Service) Stats(ctx context.Context, floor *int) (*Stats, error) {
	return s.beds.Stats(ctx, floor)
}

func (s *Service) ListHistory(ctx context.Context, floor *int, limit, offset int) ([]*History, int, error) {
	return s.history.List(ctx, floor, limit, offset)
}

// Seed creates every bed in the static floor plan that does not exist yet,
// all available. Existing beds are left untouched.
func (s *Service) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, room := range layout.Rooms {
		for id := room.FirstBed; id <= room.LastBed; id++ {
			b := &Bed{
				ID:     id,
				Status: StatusAvailable,
				Room:   room.Name,
				Floor:  room.Floor,
			}
			if err := s.beds.Create(ctx, b); err != nil {
				return created, fmt.Errorf("seed bed %d: %w", id, err)
			}
			created++
		}
	}
	s.log.Info().Int("beds", created).Msg("floor plan seeded")
	return created, nil
}
