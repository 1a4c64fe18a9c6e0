package bed

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const bedCols = `b.id, b.status, b.room, b.floor,
	b.patient_id, b.patient_name, b.patient_age, b.patient_gender, b.patient_medical_record,
	b.nurse_id, n.name, n.employee_id,
	b.assigned_at, b.released_at, b.repair_note, b.repair_start_at, b.repair_end_at`

const bedFrom = ` FROM bed b LEFT JOIN nurse n ON n.id = b.nurse_id`

func scanBed(row pgx.Row) (*Bed, error) {
	var (
		b           Bed
		p           Patient
		patientID   *string
		patientName *string
		nurseID     *int
		nurseName   *string
		nurseEmp    *string
	)
	err := row.Scan(
		&b.ID, &b.Status, &b.Room, &b.Floor,
		&patientID, &patientName, &p.Age, &p.Gender, &p.MedicalRecord,
		&nurseID, &nurseName, &nurseEmp,
		&b.AssignedAt, &b.ReleasedAt, &b.RepairNote, &b.RepairStartAt, &b.RepairEndAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan bed: %w", err)
	}

	if patientID != nil {
		p.ID = *patientID
		if patientName != nil {
			p.Name = *patientName
		}
		b.Patient = &p
	}
	if nurseID != nil {
		ref := &NurseRef{ID: *nurseID, EmployeeID: nurseEmp}
		if nurseName != nil {
			ref.Name = *nurseName
		}
		b.Nurse = ref
	}
	return &b, nil
}

func (r *repoPG) List(ctx context.Context, f Filter) ([]*Bed, error) {
	query := `SELECT ` + bedCols + bedFrom
	var (
		conds []string
		args  []interface{}
	)
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, "b.status = $"+strconv.Itoa(len(args)))
	}
	if f.Floor != nil {
		args = append(args, *f.Floor)
		conds = append(conds, "b.floor = $"+strconv.Itoa(len(args)))
	}
	if f.Room != nil {
		args = append(args, *f.Room)
		conds = append(conds, "b.room = $"+strconv.Itoa(len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY b.id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list beds: %w", err)
	}
	defer rows.Close()

	var beds []*Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		beds = append(beds, b)
	}
	return beds, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id int) (*Bed, error) {
	return scanBed(r.pool.QueryRow(ctx, `SELECT `+bedCols+bedFrom+` WHERE b.id = $1`, id))
}

func (r *repoPG) Create(ctx context.Context, b *Bed) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bed (id, status, room, floor)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		b.ID, b.Status, b.Room, b.Floor,
	)
	return err
}

func (r *repoPG) UpdateFrom(ctx context.Context, b *Bed, from Status, hist *History) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		patientID, patientName, patientGender, patientMedRec *string
		patientAge                                           *int
		nurseID                                              *int
	)
	if b.Patient != nil {
		patientID = &b.Patient.ID
		patientName = &b.Patient.Name
		patientAge = b.Patient.Age
		patientGender = b.Patient.Gender
		patientMedRec = b.Patient.MedicalRecord
	}
	if b.Nurse != nil {
		nurseID = &b.Nurse.ID
	}

	tag, err := tx.Exec(ctx, `
		UPDATE bed SET
			status = $2,
			patient_id = $3, patient_name = $4, patient_age = $5,
			patient_gender = $6, patient_medical_record = $7,
			nurse_id = $8,
			assigned_at = $9, released_at = $10,
			repair_note = $11, repair_start_at = $12, repair_end_at = $13,
			updated_at = NOW()
		WHERE id = $1 AND status = $14`,
		b.ID, b.Status,
		patientID, patientName, patientAge, patientGender, patientMedRec,
		nurseID,
		b.AssignedAt, b.ReleasedAt,
		b.RepairNote, b.RepairStartAt, b.RepairEndAt,
		from,
	)
	if err != nil {
		return fmt.Errorf("update bed %d: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a vanished bed from a concurrent transition.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bed WHERE id = $1)`, b.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check bed %d: %w", b.ID, err)
		}
		if !exists {
			return ErrNotFound
		}
		return fmt.Errorf("bed %d moved out of %s: %w", b.ID, from, ErrConflict)
	}

	var (
		histPatientID, histPatientName, histPatientGender, histPatientMedRec *string
		histPatientAge                                                       *int
		histNurseID                                                          *int
		histNurseName, histNurseEmp                                          *string
	)
	if hist.Patient != nil {
		histPatientID = &hist.Patient.ID
		histPatientName = &hist.Patient.Name
		histPatientAge = hist.Patient.Age
		histPatientGender = hist.Patient.Gender
		histPatientMedRec = hist.Patient.MedicalRecord
	}
	if hist.Nurse != nil {
		histNurseID = &hist.Nurse.ID
		histNurseName = &hist.Nurse.Name
		histNurseEmp = hist.Nurse.EmployeeID
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO bed_history (
			bed_id, action,
			patient_id, patient_name, patient_age, patient_gender, patient_medical_record,
			nurse_id, nurse_name, nurse_employee_id,
			assigned_at, released_at, repair_note
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		hist.BedID, hist.Action,
		histPatientID, histPatientName, histPatientAge, histPatientGender, histPatientMedRec,
		histNurseID, histNurseName, histNurseEmp,
		hist.AssignedAt, hist.ReleasedAt, hist.RepairNote,
	); err != nil {
		return fmt.Errorf("append bed history: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *repoPG) Stats(ctx context.Context, floor *int) (*Stats, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'available'),
			COUNT(*) FILTER (WHERE status = 'occupied'),
			COUNT(*) FILTER (WHERE status = 'repair'),
			COUNT(*) FILTER (WHERE status = 'maintenance')
		FROM bed`
	var args []interface{}
	if floor != nil {
		query += ` WHERE floor = $1`
		args = append(args, *floor)
	}

	var s Stats
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.Total, &s.Available, &s.Occupied, &s.Repair, &s.Maintenance,
	)
	if err != nil {
		return nil, fmt.Errorf("bed stats: %w", err)
	}
	return &s, nil
}

type historyRepoPG struct {
	pool *pgxpool.Pool
}

func NewHistoryRepoPG(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepoPG{pool: pool}
}

func (r *historyRepoPG) List(ctx context.Context, floor *int, limit, offset int) ([]*History, int, error) {
	where := ""
	args := []interface{}{limit, offset}
	if floor != nil {
		where = ` WHERE b.floor = $3`
		args = append(args, *floor)
	}

	query := `
		SELECT h.id, h.bed_id, b.room, b.floor, h.action,
			h.patient_id, h.patient_name, h.patient_age, h.patient_gender, h.patient_medical_record,
			h.nurse_id, h.nurse_name, h.nurse_employee_id,
			h.assigned_at, h.released_at, h.repair_note, h.created_at,
			COUNT(*) OVER ()
		FROM bed_history h
		JOIN bed b ON b.id = h.bed_id` + where + `
		ORDER BY h.created_at DESC, h.id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bed history: %w", err)
	}
	defer rows.Close()

	var (
		out   []*History
		total int
	)
	for rows.Next() {
		var (
			h           History
			p           Patient
			patientID   *string
			patientName *string
			nurseID     *int
			nurseName   *string
			nurseEmp    *string
		)
		err := rows.Scan(
			&h.ID, &h.BedID, &h.Bed.Room, &h.Bed.Floor, &h.Action,
			&patientID, &patientName, &p.Age, &p.Gender, &p.MedicalRecord,
			&nurseID, &nurseName, &nurseEmp,
			&h.AssignedAt, &h.ReleasedAt, &h.RepairNote, &h.CreatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan bed history: %w", err)
		}
		h.Bed.ID = h.BedID
		if patientID != nil {
			p.ID = *patientID
			if patientName != nil {
				p.Name = *patientName
			}
			h.Patient = &p
		}
		if nurseID != nil {
			ref := &NurseRef{ID: *nurseID, EmployeeID: nurseEmp}
			if nurseName != nil {
				ref.Name = *nurseName
			}
			h.Nurse = ref
		}
		out = append(out, &h)
	}
	return out, total, rows.Err()
}
