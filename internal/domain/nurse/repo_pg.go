package nurse

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const nurseCols = `id, name, employee_id, phone, email, status, created_at, updated_at`

func scanNurse(row pgx.Row) (*Nurse, error) {
	var n Nurse
	err := row.Scan(&n.ID, &n.Name, &n.EmployeeID, &n.Phone, &n.Email, &n.Status, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan nurse: %w", err)
	}
	return &n, nil
}

func (r *repoPG) List(ctx context.Context, status *Status) ([]*Nurse, error) {
	query := `SELECT ` + nurseCols + ` FROM nurse`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list nurses: %w", err)
	}
	defer rows.Close()

	var out []*Nurse
	for rows.Next() {
		n, err := scanNurse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id int) (*Nurse, error) {
	return scanNurse(r.pool.QueryRow(ctx, `SELECT `+nurseCols+` FROM nurse WHERE id = $1`, id))
}

func (r *repoPG) Create(ctx context.Context, n *Nurse) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO nurse (name, employee_id, phone, email, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		n.Name, n.EmployeeID, n.Phone, n.Email, n.Status,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create nurse: %w", err)
	}
	return nil
}

func (r *repoPG) Update(ctx context.Context, n *Nurse) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE nurse SET
			name = $2, employee_id = $3, phone = $4, email = $5, status = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		n.ID, n.Name, n.EmployeeID, n.Phone, n.Email, n.Status,
	).Scan(&n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update nurse %d: %w", n.ID, err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM nurse WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete nurse %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type assignmentRepoPG struct {
	pool *pgxpool.Pool
}

func NewAssignmentRepoPG(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepoPG{pool: pool}
}

const assignmentCols = `a.id, a.nurse_id, a.bed_id, a.assigned_at, a.released_at, a.notes,
	n.id, n.name, n.employee_id, n.phone, n.email, n.status, n.created_at, n.updated_at,
	b.room, b.floor`

const assignmentFrom = ` FROM nurse_assignment a
	JOIN nurse n ON n.id = a.nurse_id
	JOIN bed b ON b.id = a.bed_id`

func scanAssignment(row pgx.Row, extra ...interface{}) (*Assignment, error) {
	var (
		a Assignment
		n Nurse
		b AssignmentBed
	)
	dest := []interface{}{
		&a.ID, &a.NurseID, &a.BedID, &a.AssignedAt, &a.ReleasedAt, &a.Notes,
		&n.ID, &n.Name, &n.EmployeeID, &n.Phone, &n.Email, &n.Status, &n.CreatedAt, &n.UpdatedAt,
		&b.Room, &b.Floor,
	}
	dest = append(dest, extra...)
	err := row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan nurse assignment: %w", err)
	}
	b.ID = a.BedID
	a.Nurse = &n
	a.Bed = &b
	return &a, nil
}

func (r *assignmentRepoPG) List(ctx context.Context, f AssignmentFilter, limit, offset int) ([]*Assignment, int, error) {
	query := `SELECT ` + assignmentCols + `, COUNT(*) OVER ()` + assignmentFrom
	args := []interface{}{}
	cond := func(c string, v interface{}) {
		args = append(args, v)
		kw := " AND "
		if len(args) == 1 {
			kw = " WHERE "
		}
		query += fmt.Sprintf("%sa.%s = $%d", kw, c, len(args))
	}
	if f.NurseID != nil {
		cond("nurse_id", *f.NurseID)
	}
	if f.BedID != nil {
		cond("bed_id", *f.BedID)
	}
	if f.Active != nil {
		kw := " AND "
		if len(args) == 0 {
			kw = " WHERE "
		}
		if *f.Active {
			query += kw + "a.released_at IS NULL"
		} else {
			query += kw + "a.released_at IS NOT NULL"
		}
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY a.assigned_at DESC, a.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list nurse assignments: %w", err)
	}
	defer rows.Close()

	var (
		out   []*Assignment
		total int
	)
	for rows.Next() {
		a, err := scanAssignment(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *assignmentRepoPG) GetByID(ctx context.Context, id int64) (*Assignment, error) {
	return scanAssignment(r.pool.QueryRow(ctx, `SELECT `+assignmentCols+assignmentFrom+` WHERE a.id = $1`, id))
}

func (r *assignmentRepoPG) Create(ctx context.Context, a *Assignment) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO nurse_assignment (nurse_id, bed_id, assigned_at, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		a.NurseID, a.BedID, a.AssignedAt, a.Notes,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("create nurse assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepoPG) Release(ctx context.Context, id int64) (*Assignment, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE nurse_assignment SET released_at = NOW()
		WHERE id = $1 AND released_at IS NULL`, id)
	if err != nil {
		return nil, fmt.Errorf("release nurse assignment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		a, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if a.ReleasedAt != nil {
			return nil, fmt.Errorf("assignment %d already released: %w", id, ErrConflict)
		}
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *assignmentRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM nurse_assignment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete nurse assignment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
