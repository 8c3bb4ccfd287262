// Package agency holds the practicum host agencies and their time
// configuration. Agencies are archived with a soft-delete flag, never
// removed.
package agency

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"practicum/internal/schedule"
)

var (
	ErrNotFound  = errors.New("agency not found")
	ErrNameTaken = errors.New("an agency with that name already exists")
)

// Agency is one host establishment. The time fields are HH:MM[:SS] strings;
// empty means not configured and the attendance core falls back to
// defaults.
type Agency struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Address        string     `json:"address"`
	ContactEmail   string     `json:"contact_email"`
	OpeningTime    string     `json:"opening_time"`
	ClosingTime    string     `json:"closing_time"`
	LunchStartTime string     `json:"lunch_start_time"`
	LunchEndTime   string     `json:"lunch_end_time"`
	OperatingDays  string     `json:"operating_days"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ScheduleConfig adapts the agency row for the boundary calculator.
func (a *Agency) ScheduleConfig() schedule.Config {
	return schedule.Config{
		OpeningTime:    a.OpeningTime,
		ClosingTime:    a.ClosingTime,
		LunchStartTime: a.LunchStartTime,
		LunchEndTime:   a.LunchEndTime,
		OperatingDays:  a.OperatingDays,
	}
}

// Repository persists agencies in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `id, name, address, contact_email,
	opening_time, closing_time, lunch_start_time, lunch_end_time,
	operating_days, deleted_at, created_at, updated_at`

func scan(row interface{ Scan(...any) error }) (*Agency, error) {
	var a Agency
	err := row.Scan(
		&a.ID, &a.Name, &a.Address, &a.ContactEmail,
		&a.OpeningTime, &a.ClosingTime, &a.LunchStartTime, &a.LunchEndTime,
		&a.OperatingDays, &a.DeletedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new agency. Name uniqueness is optimistic: the unique
// index rejects duplicates and the conflict maps to ErrNameTaken.
func (r *Repository) Create(ctx context.Context, a *Agency) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO agencies (
			id, name, address, contact_email,
			opening_time, closing_time, lunch_start_time, lunch_end_time,
			operating_days
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (name) DO NOTHING
	`,
		a.ID, a.Name, a.Address, a.ContactEmail,
		a.OpeningTime, a.ClosingTime, a.LunchStartTime, a.LunchEndTime,
		a.OperatingDays,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNameTaken
	}
	return nil
}

// Get returns an agency by id, archived ones included.
func (r *Repository) Get(ctx context.Context, id string) (*Agency, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM agencies WHERE id = $1`, id)
	a, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// GetForPracticum resolves the agency hosting a practicum. This is the
// read the clock-in/out handlers make on every call.
func (r *Repository) GetForPracticum(ctx context.Context, practicumID string) (*Agency, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT a.id, a.name, a.address, a.contact_email,
			a.opening_time, a.closing_time, a.lunch_start_time, a.lunch_end_time,
			a.operating_days, a.deleted_at, a.created_at, a.updated_at
		FROM agencies a
		JOIN practicums p ON p.agency_id = a.id
		WHERE p.id = $1
	`, practicumID)
	a, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// List returns active agencies by name; archived ones only when asked.
func (r *Repository) List(ctx context.Context, includeArchived bool) ([]Agency, error) {
	query := `SELECT ` + columns + ` FROM agencies`
	if !includeArchived {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Agency
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *a)
	}
	return res, rows.Err()
}

// Update rewrites the editable fields.
func (r *Repository) Update(ctx context.Context, a *Agency) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE agencies SET
			name = $2, address = $3, contact_email = $4,
			opening_time = $5, closing_time = $6,
			lunch_start_time = $7, lunch_end_time = $8,
			operating_days = $9, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`,
		a.ID, a.Name, a.Address, a.ContactEmail,
		a.OpeningTime, a.ClosingTime, a.LunchStartTime, a.LunchEndTime,
		a.OperatingDays,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Archive soft-deletes an agency.
func (r *Repository) Archive(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE agencies SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Restore clears the soft-delete flag.
func (r *Repository) Restore(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE agencies SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NOT NULL
	`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
