// Package repository contains data access logic for screening operations.
// A screening is a scheduled showing of a movie in a room. Its end time
// is derived from the movie duration before it reaches this layer; the
// repository never computes schedule semantics itself.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

// ErrScreeningNotFound indicates that a screening was not located in the DB.
var ErrScreeningNotFound = errors.New("screening not found")

// ScreeningRepo manages persistence for screenings.
type ScreeningRepo struct {
    db *sql.DB
}

// NewScreeningRepo constructs a ScreeningRepo with the given DB handle.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo {
    return &ScreeningRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *ScreeningRepo) DB() *sql.DB {
    return r.db
}

// Create inserts a new screening and assigns the generated ID back to the
// struct. Status is implicitly SCHEDULED by the DB. The inserted row is
// read back to populate default fields.
func (r *ScreeningRepo) Create(ctx context.Context, s *model.Screening) error {
    const q = `INSERT INTO screenings (movie_id, room_id, starts_at, ends_at, base_price_cents) VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, s.MovieID, s.RoomID, s.StartsAt.UTC(), s.EndsAt.UTC(), s.BasePriceCents)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)

    const sel = `SELECT id, movie_id, room_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
                 FROM screenings WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, s.ID).Scan(
        &s.ID, &s.MovieID, &s.RoomID, &s.StartsAt, &s.EndsAt,
        &s.BasePriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt,
    )
}

// GetByID retrieves a screening by its ID. It returns ErrScreeningNotFound
// if there is no matching row.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
    const q = `SELECT id, movie_id, room_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
               FROM screenings WHERE id = ?`
    var s model.Screening
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &s.ID, &s.MovieID, &s.RoomID, &s.StartsAt, &s.EndsAt,
        &s.BasePriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrScreeningNotFound
        }
        return nil, err
    }
    return &s, nil
}

// ListByRoomWindow returns all screenings of a room whose interval touches
// [from, to). The schedule validator widens the window itself, so this is
// a plain interval intersection. Results are ordered by start time.
func (r *ScreeningRepo) ListByRoomWindow(ctx context.Context, roomID uint64, from, to time.Time) ([]model.Screening, error) {
    const q = `SELECT id, movie_id, room_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
               FROM screenings
               WHERE room_id = ? AND starts_at < ? AND ends_at > ?
               ORDER BY starts_at ASC`
    rows, err := r.db.QueryContext(ctx, q, roomID, to.UTC(), from.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.Screening
    for rows.Next() {
        var s model.Screening
        if err := rows.Scan(
            &s.ID, &s.MovieID, &s.RoomID, &s.StartsAt, &s.EndsAt,
            &s.BasePriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        result = append(result, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// ListUpcomingByMovie returns SCHEDULED screenings of a movie starting at
// or after the given instant. Used by public browse endpoints.
func (r *ScreeningRepo) ListUpcomingByMovie(ctx context.Context, movieID uint64, from time.Time) ([]model.Screening, error) {
    const q = `SELECT id, movie_id, room_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
               FROM screenings
               WHERE movie_id = ? AND status = 'SCHEDULED' AND starts_at >= ?
               ORDER BY starts_at ASC`
    rows, err := r.db.QueryContext(ctx, q, movieID, from.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.Screening
    for rows.Next() {
        var s model.Screening
        if err := rows.Scan(
            &s.ID, &s.MovieID, &s.RoomID, &s.StartsAt, &s.EndsAt,
            &s.BasePriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        result = append(result, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// Update changes a screening's schedule and price. It only performs the
// UPDATE when there is at least one differing field; otherwise it returns
// ErrNoChange. When the row doesn't exist, it returns ErrScreeningNotFound.
func (r *ScreeningRepo) Update(ctx context.Context, s *model.Screening) error {
    const q = `UPDATE screenings
               SET movie_id = ?, room_id = ?, starts_at = ?, ends_at = ?, base_price_cents = ?, status = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?
                 AND (movie_id <> ? OR room_id <> ? OR starts_at <> ? OR ends_at <> ? OR base_price_cents <> ? OR status <> ?)`
    res, err := r.db.ExecContext(ctx, q,
        s.MovieID, s.RoomID, s.StartsAt.UTC(), s.EndsAt.UTC(), s.BasePriceCents, s.Status,
        s.ID,
        s.MovieID, s.RoomID, s.StartsAt.UTC(), s.EndsAt.UTC(), s.BasePriceCents, s.Status,
    )
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n > 0 {
        return nil
    }

    const qExists = `SELECT 1 FROM screenings WHERE id = ? LIMIT 1`
    var one int
    if err := r.db.QueryRowContext(ctx, qExists, s.ID).Scan(&one); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrScreeningNotFound
        }
        return err
    }
    return ErrNoChange
}

// Cancel marks a screening CANCELLED. While any PAID ticket exists for
// the screening the cancellation is aborted with ErrConflict; pending
// holds are released inside the same transaction so their seats free up
// immediately.
func (r *ScreeningRepo) Cancel(ctx context.Context, id uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        } else {
            _ = tx.Commit()
        }
    }()

    var status string
    err = tx.QueryRowContext(ctx, `SELECT status FROM screenings WHERE id = ? FOR UPDATE`, id).Scan(&status)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrScreeningNotFound
        }
        return err
    }

    var paidCount int
    if err = tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM tickets WHERE screening_id = ? AND status = 'PAID'`, id,
    ).Scan(&paidCount); err != nil {
        return err
    }
    if paidCount > 0 {
        err = ErrConflict
        return err
    }

    if _, err = tx.ExecContext(ctx,
        `UPDATE bookings SET status = 'CANCELLED', hold_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
         WHERE screening_id = ? AND status = 'PENDING'`, id,
    ); err != nil {
        return err
    }
    if _, err = tx.ExecContext(ctx, `DELETE FROM tickets WHERE screening_id = ?`, id); err != nil {
        return err
    }
    _, err = tx.ExecContext(ctx,
        `UPDATE screenings SET status = 'CANCELLED', updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
    return err
}
