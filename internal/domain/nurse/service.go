package nurse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	nurses      Repository
	assignments AssignmentRepository
	log         zerolog.Logger
}

func NewService(nurses Repository, assignments AssignmentRepository, log zerolog.Logger) *Service {
	return &Service{nurses: nurses, assignments: assignments, log: log}
}

func (s *Service) List(ctx context.Context, status *Status) ([]*Nurse, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", *status)
	}
	return s.nurses.List(ctx, status)
}

func (s *Service) Get(ctx context.Context, id int) (*Nurse, error) {
	return s.nurses.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Nurse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("nurse name is required")
	}
	status := StatusActive
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("invalid status %q", *req.Status)
		}
		status = *req.Status
	}
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		return nil, fmt.Errorf("invalid email address")
	}

	n := &Nurse{
		Name:       strings.TrimSpace(req.Name),
		EmployeeID: req.EmployeeID,
		Phone:      req.Phone,
		Email:      req.Email,
		Status:     status,
	}
	if err := s.nurses.Create(ctx, n); err != nil {
		return nil, err
	}
	s.log.Info().Int("nurse_id", n.ID).Str("name", n.Name).Msg("nurse created")
	return n, nil
}

func (s *Service) Update(ctx context.Context, id int, req UpdateRequest) (*Nurse, error) {
	n, err := s.nurses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("nurse name cannot be empty")
		}
		n.Name = strings.TrimSpace(*req.Name)
	}
	if req.EmployeeID != nil {
		n.EmployeeID = req.EmployeeID
	}
	if req.Phone != nil {
		n.Phone = req.Phone
	}
	if req.Email != nil {
		if !strings.Contains(*req.Email, "@") {
			return nil, fmt.Errorf("invalid email address")
		}
		n.Email = req.Email
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("invalid status %q", *req.Status)
		}
		n.Status = *req.Status
	}
	if err := s.nurses.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.nurses.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("nurse_id", id).Msg("nurse deleted")
	return nil
}

func (s *Service) ListAssignments(ctx context.Context, f AssignmentFilter, limit, offset int) ([]*Assignment, int, error) {
	return s.assignments.List(ctx, f, limit, offset)
}

// Assign opens a coverage record for an active nurse on a bed.
func (s *Service) Assign(ctx context.Context, req AssignRequest) (*Assignment, error) {
	if req.NurseID <= 0 {
		return nil, fmt.Errorf("nurseId is required")
	}
	if req.BedID <= 0 {
		return nil, fmt.Errorf("bedId is required")
	}
	n, err := s.nurses.GetByID(ctx, req.NurseID)
	if err != nil {
		return nil, err
	}
	if n.Status != StatusActive {
		return nil, fmt.Errorf("nurse %d is inactive: %w", n.ID, ErrConflict)
	}

	assignedAt := time.Now()
	if req.AssignedAt != nil {
		assignedAt = *req.AssignedAt
	}
	a := &Assignment{
		NurseID:    req.NurseID,
		BedID:      req.BedID,
		AssignedAt: assignedAt,
		Notes:      req.Notes,
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, err
	}
	a.Nurse = n
	s.log.Info().Int("nurse_id", n.ID).Int("bed_id", req.BedID).Msg("nurse assigned to bed")
	return a, nil
}

// ReleaseAssignment closes an open coverage record.
func (s *Service) ReleaseAssignment(ctx context.Context, id int64) (*Assignment, error) {
	a, err := s.assignments.Release(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("assignment_id", id).Msg("nurse assignment released")
	return a, nil
}

func (s *Service) DeleteAssignment(ctx context.Context, id int64) error {
	return s.assignments.Delete(ctx, id)
}
