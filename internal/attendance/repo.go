package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository persists attendance data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordColumns = `id, student_id, practicum_id, date,
	morning_time_in, morning_time_out,
	afternoon_time_in, afternoon_time_out,
	overtime_time_in, overtime_time_out,
	hours, undertime_hours, status, time_in_remarks, time_out_remarks,
	approval_status, created_at, updated_at`

func scanRecord(row interface{ Scan(...any) error }) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.StudentID, &rec.PracticumID, &rec.Date,
		&rec.MorningTimeIn, &rec.MorningTimeOut,
		&rec.AfternoonTimeIn, &rec.AfternoonTimeOut,
		&rec.OvertimeTimeIn, &rec.OvertimeTimeOut,
		&rec.Hours, &rec.UndertimeHours, &rec.Status,
		&rec.TimeInRemarks, &rec.TimeOutRemarks,
		&rec.ApprovalStatus, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecordForDate returns the day's record, or nil when none exists yet.
func (r *Repository) RecordForDate(ctx context.Context, studentID, practicumID, date string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE student_id = $1 AND practicum_id = $2 AND date = $3
	`, studentID, practicumID, date)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// GetRecord returns a record by id.
func (r *Repository) GetRecord(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM attendance_records WHERE id = $1
	`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRecord
	}
	return rec, err
}

// InsertRecord writes a new day record.
func (r *Repository) InsertRecord(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (
			id, student_id, practicum_id, date,
			morning_time_in, morning_time_out,
			afternoon_time_in, afternoon_time_out,
			overtime_time_in, overtime_time_out,
			hours, undertime_hours, status, time_in_remarks, time_out_remarks,
			approval_status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		rec.ID, rec.StudentID, rec.PracticumID, rec.Date,
		rec.MorningTimeIn, rec.MorningTimeOut,
		rec.AfternoonTimeIn, rec.AfternoonTimeOut,
		rec.OvertimeTimeIn, rec.OvertimeTimeOut,
		rec.Hours, rec.UndertimeHours, rec.Status,
		rec.TimeInRemarks, rec.TimeOutRemarks,
		rec.ApprovalStatus, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

// UpdateRecord rewrites all mutable fields of a record.
func (r *Repository) UpdateRecord(ctx context.Context, rec *Record) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE attendance_records SET
			morning_time_in = $2, morning_time_out = $3,
			afternoon_time_in = $4, afternoon_time_out = $5,
			overtime_time_in = $6, overtime_time_out = $7,
			hours = $8, undertime_hours = $9, status = $10,
			time_in_remarks = $11, time_out_remarks = $12,
			approval_status = $13, updated_at = $14
		WHERE id = $1
	`,
		rec.ID,
		rec.MorningTimeIn, rec.MorningTimeOut,
		rec.AfternoonTimeIn, rec.AfternoonTimeOut,
		rec.OvertimeTimeIn, rec.OvertimeTimeOut,
		rec.Hours, rec.UndertimeHours, rec.Status,
		rec.TimeInRemarks, rec.TimeOutRemarks,
		rec.ApprovalStatus, rec.UpdatedAt,
	)
	return err
}

// ClearSession nullifies one session's pair on the stored record.
func (r *Repository) ClearSession(ctx context.Context, recordID string, s Session) error {
	var query string
	switch s {
	case SessionMorning:
		query = `UPDATE attendance_records SET morning_time_in = NULL, morning_time_out = NULL, updated_at = NOW() WHERE id = $1`
	case SessionAfternoon:
		query = `UPDATE attendance_records SET afternoon_time_in = NULL, afternoon_time_out = NULL, updated_at = NOW() WHERE id = $1`
	case SessionOvertime:
		query = `UPDATE attendance_records SET overtime_time_in = NULL, overtime_time_out = NULL, updated_at = NOW() WHERE id = $1`
	default:
		return fmt.Errorf("unknown session %q", s)
	}
	_, err := r.db.ExecContext(ctx, query, recordID)
	return err
}

// InsertDetailLog writes the per-attempt log row created at clock-in.
func (r *Repository) InsertDetailLog(ctx context.Context, l *DetailLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_detail_logs (
			id, record_id, session_type, time_in,
			latitude, longitude, address, location_type,
			device_type, device_unit, mac_address, photo_url,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
	`,
		l.ID, l.RecordID, l.SessionType, l.TimeIn,
		l.InMeta.Latitude, l.InMeta.Longitude, l.InMeta.Address, l.InMeta.LocationType,
		l.InMeta.DeviceType, l.InMeta.DeviceUnit, l.InMeta.MacAddress, l.InMeta.PhotoURL,
		l.CreatedAt,
	)
	return err
}

// CloseDetailLog completes the most recent log row for the session with the
// clock-out instant and its metadata.
func (r *Repository) CloseDetailLog(ctx context.Context, recordID string, s Session, out time.Time, meta ClockMeta) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE attendance_detail_logs SET
			time_out = $3,
			out_latitude = $4, out_longitude = $5, out_address = $6,
			out_location_type = $7, out_device_type = $8, out_device_unit = $9,
			out_mac_address = $10, out_photo_url = $11,
			updated_at = $3
		WHERE id = (
			SELECT id FROM attendance_detail_logs
			WHERE record_id = $1 AND session_type = $2
			ORDER BY created_at DESC
			LIMIT 1
		)
	`,
		recordID, s, out,
		meta.Latitude, meta.Longitude, meta.Address,
		meta.LocationType, meta.DeviceType, meta.DeviceUnit,
		meta.MacAddress, meta.PhotoURL,
	)
	return err
}

// ListRecords returns records with basic filters, newest first.
func (r *Repository) ListRecords(ctx context.Context, studentID, practicumID, from, to string, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + recordColumns + ` FROM attendance_records`
	args := []any{}
	clauses := []string{}
	if studentID != "" {
		args = append(args, studentID)
		clauses = append(clauses, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if practicumID != "" {
		args = append(args, practicumID)
		clauses = append(clauses, fmt.Sprintf("practicum_id = $%d", len(args)))
	}
	if from != "" {
		args = append(args, from)
		clauses = append(clauses, fmt.Sprintf("date >= $%d", len(args)))
	}
	if to != "" {
		args = append(args, to)
		clauses = append(clauses, fmt.Sprintf("date <= $%d", len(args)))
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += fmt.Sprintf(" ORDER BY date DESC, updated_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *rec)
	}
	return res, rows.Err()
}

// InsertAuditLog records one processed clock action; written by the worker.
func (r *Repository) InsertAuditLog(ctx context.Context, recordID, action string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_audit_logs (id, record_id, action, occurred_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), recordID, action, at)
	return err
}
