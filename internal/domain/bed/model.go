package bed

import "time"

// Status is the single authoritative lifecycle state of a bed.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusRepair      Status = "repair"
	StatusMaintenance Status = "maintenance"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusRepair, StatusMaintenance:
		return true
	}
	return false
}

// Patient is the occupant snapshot carried by an occupied bed. It is owned
// by the bed and detached on release.
type Patient struct {
	ID            string  `db:"patient_id" json:"id"`
	Name          string  `db:"patient_name" json:"name"`
	Age           *int    `db:"patient_age" json:"age,omitempty"`
	Gender        *string `db:"patient_gender" json:"gender,omitempty"`
	MedicalRecord *string `db:"patient_medical_record" json:"medicalRecord,omitempty"`
}

// NurseRef is a weak display reference to the nurse responsible for the bed.
type NurseRef struct {
	ID         int     `db:"nurse_id" json:"id"`
	Name       string  `db:"nurse_name" json:"name"`
	EmployeeID *string `db:"nurse_employee_id" json:"employeeId,omitempty"`
}

// Bed maps to the bed table. The wire shape is camelCase to match the
// dashboard contract.
type Bed struct {
	ID            int        `db:"id" json:"id"`
	Status        Status     `db:"status" json:"status"`
	Room          string     `db:"room" json:"room"`
	Floor         int        `db:"floor" json:"floor"`
	Patient       *Patient   `json:"patient,omitempty"`
	Nurse         *NurseRef  `json:"nurse,omitempty"`
	AssignedAt    *time.Time `db:"assigned_at" json:"assignedAt,omitempty"`
	ReleasedAt    *time.Time `db:"released_at" json:"releasedAt,omitempty"`
	RepairNote    *string    `db:"repair_note" json:"repairNote,omitempty"`
	RepairStartAt *time.Time `db:"repair_start_at" json:"repairStartAt,omitempty"`
	RepairEndAt   *time.Time `db:"repair_end_at" json:"repairEndAt,omitempty"`
}

// Filter narrows bed listings. Nil fields match everything.
type Filter struct {
	Status *Status
	Floor  *int
	Room   *string
}

// Stats counts beds by status over one floor or the whole ward.
type Stats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Occupied    int `json:"occupied"`
	Repair      int `json:"repair"`
	Maintenance int `json:"maintenance"`
}

// AssignRequest is the body of POST /beds/{id}/assign.
type AssignRequest struct {
	Name          string     `json:"name"`
	Age           *int       `json:"age,omitempty"`
	Gender        *string    `json:"gender,omitempty"`
	MedicalRecord *string    `json:"medicalRecord,omitempty"`
	AssignedAt    *time.Time `json:"assignedAt,omitempty"`
	ReleasedAt    *time.Time `json:"releasedAt,omitempty"`
	NurseID       *int       `json:"nurseId,omitempty"`
}

// RepairRequest is the body of POST /beds/{id}/repair.
type RepairRequest struct {
	RepairNote    *string    `json:"repairNote,omitempty"`
	RepairStartAt *time.Time `json:"repairStartAt,omitempty"`
	RepairEndAt   *time.Time `json:"repairEndAt,omitempty"`
}

// HistoryAction labels one audit record.
type HistoryAction string

const (
	ActionAssigned  HistoryAction = "assigned"
	ActionReleased  HistoryAction = "released"
	ActionRepair    HistoryAction = "repair"
	ActionAvailable HistoryAction = "available"
)

// HistoryBed is the bed snapshot embedded in a history record.
type HistoryBed struct {
	ID    int    `json:"id"`
	Room  string `json:"room"`
	Floor int    `json:"floor"`
}

// History is one append-only audit record of a status-changing action. The
// server writes it alongside the transition; clients only read it.
type History struct {
	ID         int64         `db:"id" json:"id"`
	BedID      int           `db:"bed_id" json:"bedId"`
	Bed        HistoryBed    `json:"bed"`
	Action     HistoryAction `db:"action" json:"action"`
	Patient    *Patient      `json:"patient,omitempty"`
	Nurse      *NurseRef     `json:"nurse,omitempty"`
	AssignedAt *time.Time    `db:"assigned_at" json:"assignedAt,omitempty"`
	ReleasedAt *time.Time    `db:"released_at" json:"releasedAt,omitempty"`
	RepairNote *string       `db:"repair_note" json:"repairNote,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
}
