package nurse

import "time"

// Status marks whether a nurse is on the active roster.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Nurse maps to the nurse table.
type Nurse struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	EmployeeID *string   `db:"employee_id" json:"employeeId,omitempty"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Email      *string   `db:"email" json:"email,omitempty"`
	Status     Status    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// AssignmentBed is the bed summary embedded in an assignment.
type AssignmentBed struct {
	ID    int    `json:"id"`
	Room  string `json:"room"`
	Floor int    `json:"floor"`
}

// Assignment records a nurse covering a bed for a period. ReleasedAt nil
// means the assignment is still open.
type Assignment struct {
	ID         int64          `db:"id" json:"id"`
	NurseID    int            `db:"nurse_id" json:"nurseId"`
	BedID      int            `db:"bed_id" json:"bedId"`
	Nurse      *Nurse         `json:"nurse,omitempty"`
	Bed        *AssignmentBed `json:"bed,omitempty"`
	AssignedAt time.Time      `db:"assigned_at" json:"assignedAt"`
	ReleasedAt *time.Time     `db:"released_at" json:"releasedAt,omitempty"`
	Notes      *string        `db:"notes" json:"notes,omitempty"`
}

// CreateRequest is the body of POST /nurses.
type CreateRequest struct {
	Name       string  `json:"name"`
	EmployeeID *string `json:"employeeId,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
	Status     *Status `json:"status,omitempty"`
}

// UpdateRequest is the body of PUT /nurses/{id}. Nil fields keep the stored
// value.
type UpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	EmployeeID *string `json:"employeeId,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
	Status     *Status `json:"status,omitempty"`
}

// AssignRequest is the body of POST /nurse-assignments.
type AssignRequest struct {
	NurseID    int        `json:"nurseId"`
	BedID      int        `json:"bedId"`
	AssignedAt *time.Time `json:"assignedAt,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// AssignmentFilter narrows assignment listings. Nil fields match everything.
type AssignmentFilter struct {
	NurseID *int
	BedID   *int
	// Active selects only open (true) or only released (false) assignments.
	Active *bool
}
