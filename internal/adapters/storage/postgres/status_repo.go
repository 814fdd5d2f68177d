package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"medalert/internal/domain/medstatus"
)

type StatusRepo struct {
	db *sql.DB
}

func NewStatusRepo(db *sql.DB) *StatusRepo {
	return &StatusRepo{db: db}
}

func (r *StatusRepo) Get(ctx context.Context, userID, medicationID string, day time.Time) (medstatus.StatusRow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, medication_id, day, taken, taken_at, created_at, updated_at
		FROM medication_statuses
		WHERE user_id = $1 AND medication_id = $2 AND day = $3
	`, userID, medicationID, day)
	return scanStatus(row)
}

func (r *StatusRepo) ListForDay(ctx context.Context, userID string, day time.Time) ([]medstatus.StatusRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, medication_id, day, taken, taken_at, created_at, updated_at
		FROM medication_statuses
		WHERE user_id = $1 AND day = $2
	`, userID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medstatus.StatusRow, 0)
	for rows.Next() {
		s, err := scanStatusRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create compite contra el índice UNIQUE (user_id, medication_id, day).
// ON CONFLICT DO NOTHING + rows affected == 0 => ErrDuplicate, y el
// service reintenta como update.
func (r *StatusRepo) Create(ctx context.Context, row medstatus.StatusRow) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO medication_statuses (
			id, user_id, medication_id, day,
			taken, taken_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (user_id, medication_id, day) DO NOTHING
	`,
		row.ID,
		row.UserID,
		row.MedicationID,
		row.Day,
		row.Taken,
		toNullTime(row.TakenAt),
		row.CreatedAt,
		row.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medstatus.ErrDuplicate
	}
	return nil
}

func (r *StatusRepo) Update(ctx context.Context, row medstatus.StatusRow) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medication_statuses
		SET taken = $4, taken_at = $5, updated_at = $6
		WHERE user_id = $1 AND medication_id = $2 AND day = $3
	`,
		row.UserID,
		row.MedicationID,
		row.Day,
		row.Taken,
		toNullTime(row.TakenAt),
		row.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medstatus.ErrNotFound
	}
	return nil
}

type statusScanner interface {
	Scan(dest ...any) error
}

func scanStatus(row *sql.Row) (medstatus.StatusRow, error) {
	s, err := scanStatusFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return medstatus.StatusRow{}, medstatus.ErrNotFound
		}
		return medstatus.StatusRow{}, err
	}
	return s, nil
}

func scanStatusRows(rows *sql.Rows) (medstatus.StatusRow, error) {
	return scanStatusFrom(rows)
}

func scanStatusFrom(sc statusScanner) (medstatus.StatusRow, error) {
	var s medstatus.StatusRow
	var takenAt sql.NullTime
	if err := sc.Scan(
		&s.ID,
		&s.UserID,
		&s.MedicationID,
		&s.Day,
		&s.Taken,
		&takenAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return medstatus.StatusRow{}, err
	}

	if takenAt.Valid {
		t := takenAt.Time
		s.TakenAt = &t
	}
	return s, nil
}

// taken_at es nullable: solo hay timestamp cuando taken = true.
func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
