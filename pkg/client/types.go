package client

import "time"

// BedStatus is the lifecycle state reported by the API.
type BedStatus string

const (
	BedAvailable   BedStatus = "available"
	BedOccupied    BedStatus = "occupied"
	BedRepair      BedStatus = "repair"
	BedMaintenance BedStatus = "maintenance"
)

// Patient is the occupant attached to an occupied bed.
type Patient struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Age           *int    `json:"age,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	MedicalRecord *string `json:"medicalRecord,omitempty"`
}

// NurseRef is the nurse summary attached to a bed or history record.
type NurseRef struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	EmployeeID *string `json:"employeeId,omitempty"`
}

// Bed is one bed record as served by the API.
type Bed struct {
	ID            int        `json:"id"`
	Status        BedStatus  `json:"status"`
	Room          string     `json:"room"`
	Floor         int        `json:"floor"`
	Patient       *Patient   `json:"patient,omitempty"`
	Nurse         *NurseRef  `json:"nurse,omitempty"`
	AssignedAt    *time.Time `json:"assignedAt,omitempty"`
	ReleasedAt    *time.Time `json:"releasedAt,omitempty"`
	RepairNote    *string    `json:"repairNote,omitempty"`
	RepairStartAt *time.Time `json:"repairStartAt,omitempty"`
	RepairEndAt   *time.Time `json:"repairEndAt,omitempty"`
}

// BedFilter narrows ListBeds. Zero values match everything.
type BedFilter struct {
	Status BedStatus
	Floor  int
	Room   string
}

// BedStats counts beds by status.
type BedStats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Occupied    int `json:"occupied"`
	Repair      int `json:"repair"`
	Maintenance int `json:"maintenance"`
}

// AssignBedRequest is the body of POST /beds/{id}/assign.
type AssignBedRequest struct {
	Name          string     `json:"name"`
	Age           *int       `json:"age,omitempty"`
	Gender        *string    `json:"gender,omitempty"`
	MedicalRecord *string    `json:"medicalRecord,omitempty"`
	AssignedAt    *time.Time `json:"assignedAt,omitempty"`
	ReleasedAt    *time.Time `json:"releasedAt,omitempty"`
	NurseID       *int       `json:"nurseId,omitempty"`
}

// RepairBedRequest is the body of POST /beds/{id}/repair.
type RepairBedRequest struct {
	RepairNote    *string    `json:"repairNote,omitempty"`
	RepairStartAt *time.Time `json:"repairStartAt,omitempty"`
	RepairEndAt   *time.Time `json:"repairEndAt,omitempty"`
}

// HistoryBed is the bed summary inside a history record.
type HistoryBed struct {
	ID    int    `json:"id"`
	Room  string `json:"room"`
	Floor int    `json:"floor"`
}

// BedHistory is one audit record of a bed action.
type BedHistory struct {
	ID         int64      `json:"id"`
	BedID      int        `json:"bedId"`
	Bed        HistoryBed `json:"bed"`
	Action     string     `json:"action"`
	Patient    *Patient   `json:"patient,omitempty"`
	Nurse      *NurseRef  `json:"nurse,omitempty"`
	AssignedAt *time.Time `json:"assignedAt,omitempty"`
	ReleasedAt *time.Time `json:"releasedAt,omitempty"`
	RepairNote *string    `json:"repairNote,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Nurse is one roster record.
type Nurse struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	EmployeeID *string   `json:"employeeId,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NurseRequest is the body of POST /nurses and PUT /nurses/{id}.
type NurseRequest struct {
	Name       string  `json:"name,omitempty"`
	EmployeeID *string `json:"employeeId,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// NurseAssignment is one coverage record of a nurse on a bed.
type NurseAssignment struct {
	ID         int64       `json:"id"`
	NurseID    int         `json:"nurseId"`
	BedID      int         `json:"bedId"`
	Nurse      *Nurse      `json:"nurse,omitempty"`
	Bed        *HistoryBed `json:"bed,omitempty"`
	AssignedAt time.Time   `json:"assignedAt"`
	ReleasedAt *time.Time  `json:"releasedAt,omitempty"`
	Notes      *string     `json:"notes,omitempty"`
}

// CreateAssignmentRequest is the body of POST /nurse-assignments.
type CreateAssignmentRequest struct {
	NurseID    int        `json:"nurseId"`
	BedID      int        `json:"bedId"`
	AssignedAt *time.Time `json:"assignedAt,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// Page is the envelope around paginated list responses.
type Page[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}
