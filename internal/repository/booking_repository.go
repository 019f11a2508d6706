// Package repository contains data access logic for bookings and tickets.
// This file implements the storage side of the reservation lifecycle: the
// (screening_id, seat_id) unique key on tickets is the arbiter of every
// seat race, so two concurrent holds on the same seat can never both
// commit. Released and expired bookings delete their ticket rows, which
// keeps the unique key enforceable without partial indexes.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/cinetick/cinema-ticketing/internal/booking"
    "github.com/cinetick/cinema-ticketing/internal/model"
)

// mysqlDupEntry is the MySQL error number for a unique key violation.
const mysqlDupEntry = 1062

// BookingRepo provides persistence for bookings and their tickets. It
// implements the booking engine's Store port.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo {
    return &BookingRepo{db: db}
}

// IsDupEntry reports whether err is a MySQL duplicate-key violation.
// Handlers use it to translate unique-name races into 409 responses.
func IsDupEntry(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == mysqlDupEntry
}

// BlockingSeatIDs returns the seats currently blocking a screening: those
// with a PAID ticket or a HELD ticket whose expiry is still in the future.
// Lapsed holds are excluded by the predicate itself, so a hold that has
// expired but not yet been swept never blocks a reader.
func (r *BookingRepo) BlockingSeatIDs(ctx context.Context, screeningID uint64, now time.Time) (map[uint64]struct{}, error) {
    const q = `SELECT seat_id FROM tickets
               WHERE screening_id = ?
                 AND (status = 'PAID' OR (status = 'HELD' AND hold_expires_at > ?))`
    rows, err := r.db.QueryContext(ctx, q, screeningID, now.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[uint64]struct{})
    for rows.Next() {
        var sid uint64
        if err := rows.Scan(&sid); err != nil {
            return nil, err
        }
        out[sid] = struct{}{}
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// CreateBookingWithTickets atomically inserts one booking and all its
// tickets. Before inserting it clears lapsed holds for the screening in
// the same transaction, so a seat whose hold just expired is immediately
// re-sellable. A duplicate-key failure on any ticket insert means another
// transaction holds one of the seats; the whole attempt rolls back and
// booking.ErrSeatTaken is returned.
func (r *BookingRepo) CreateBookingWithTickets(ctx context.Context, b *model.Booking, tickets []model.Ticket) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := releaseLapsedForScreeningTx(ctx, tx, b.ScreeningID); err != nil {
        return err
    }

    const qBooking = `INSERT INTO bookings (code, user_id, screening_id, status, total_cents, hold_expires_at, note)
                      VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, qBooking,
        b.Code, b.UserID, b.ScreeningID, b.Status, b.TotalCents, b.HoldExpiresAt, b.Note,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)

    if len(tickets) > 0 {
        query := `INSERT INTO tickets (booking_id, screening_id, seat_id, price_cents, status, hold_expires_at, code) VALUES `
        args := make([]interface{}, 0, len(tickets)*7)
        for i := range tickets {
            if i > 0 {
                query += ","
            }
            query += "(?, ?, ?, ?, ?, ?, ?)"
            t := &tickets[i]
            t.BookingID = b.ID
            args = append(args, t.BookingID, t.ScreeningID, t.SeatID, t.PriceCents, t.Status, t.HoldExpiresAt, t.Code)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            if IsDupEntry(err) {
                return booking.ErrSeatTaken
            }
            return err
        }
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// releaseLapsedForScreeningTx cancels every PENDING booking of the
// screening whose hold expiry has passed and deletes its ticket rows,
// within the caller's transaction.
func releaseLapsedForScreeningTx(ctx context.Context, tx *sql.Tx, screeningID uint64) error {
    const qDel = `DELETE t FROM tickets t
                  JOIN bookings bk ON bk.id = t.booking_id
                  WHERE bk.screening_id = ? AND bk.status = 'PENDING' AND bk.hold_expires_at <= UTC_TIMESTAMP()`
    if _, err := tx.ExecContext(ctx, qDel, screeningID); err != nil {
        return err
    }
    const qCancel = `UPDATE bookings
                     SET status = 'CANCELLED', hold_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
                     WHERE screening_id = ? AND status = 'PENDING' AND hold_expires_at <= UTC_TIMESTAMP()`
    _, err := tx.ExecContext(ctx, qCancel, screeningID)
    return err
}

// GetBooking retrieves a booking by its ID.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
    const q = `SELECT id, code, user_id, screening_id, status, total_cents, payment_method, payment_ref, hold_expires_at, note, created_at, updated_at
               FROM bookings WHERE id = ?`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, booking.ErrNotFound
        }
        return nil, err
    }
    return b, nil
}

// GetBookingByCode retrieves a booking by its public code.
func (r *BookingRepo) GetBookingByCode(ctx context.Context, code string) (*model.Booking, error) {
    const q = `SELECT id, code, user_id, screening_id, status, total_cents, payment_method, payment_ref, hold_expires_at, note, created_at, updated_at
               FROM bookings WHERE code = ?`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, code))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, booking.ErrNotFound
        }
        return nil, err
    }
    return b, nil
}

func scanBooking(row *sql.Row) (*model.Booking, error) {
    var b model.Booking
    var userID sql.NullInt64
    var method, ref sql.NullString
    var holdExp sql.NullTime
    err := row.Scan(
        &b.ID, &b.Code, &userID, &b.ScreeningID, &b.Status, &b.TotalCents,
        &method, &ref, &holdExp, &b.Note, &b.CreatedAt, &b.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if userID.Valid {
        uid := uint64(userID.Int64)
        b.UserID = &uid
    }
    if method.Valid {
        m := method.String
        b.PaymentMethod = &m
    }
    if ref.Valid {
        pr := ref.String
        b.PaymentRef = &pr
    }
    if holdExp.Valid {
        t := holdExp.Time.UTC()
        b.HoldExpiresAt = &t
    }
    return &b, nil
}

// GetTickets returns all tickets of a booking ordered by seat.
func (r *BookingRepo) GetTickets(ctx context.Context, bookingID uint64) ([]model.Ticket, error) {
    const q = `SELECT t.id, t.booking_id, t.screening_id, t.seat_id, t.price_cents, t.status, t.hold_expires_at, t.code, t.checked_in_at, t.created_at, t.updated_at
               FROM tickets t
               JOIN seats se ON se.id = t.seat_id
               WHERE t.booking_id = ?
               ORDER BY se.row_label, se.seat_number`
    rows, err := r.db.QueryContext(ctx, q, bookingID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Ticket
    for rows.Next() {
        var t model.Ticket
        var holdExp, checkedIn sql.NullTime
        if err := rows.Scan(
            &t.ID, &t.BookingID, &t.ScreeningID, &t.SeatID, &t.PriceCents,
            &t.Status, &holdExp, &t.Code, &checkedIn, &t.CreatedAt, &t.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        if holdExp.Valid {
            ts := holdExp.Time.UTC()
            t.HoldExpiresAt = &ts
        }
        if checkedIn.Valid {
            ts := checkedIn.Time.UTC()
            t.CheckedInAt = &ts
        }
        out = append(out, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// FinalizeBooking transitions a PENDING booking and all its tickets to
// PAID. The booking row is locked for the duration of the transaction so
// the sweep cannot release a hold that is being paid. Every ticket must
// still be HELD with an unexpired hold; if the conditional ticket update
// touches fewer rows than the booking owns, the hold lapsed mid-payment
// and the whole transaction rolls back with booking.ErrHoldLapsed.
func (r *BookingRepo) FinalizeBooking(ctx context.Context, id uint64, method, reference string, now time.Time) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var status string
    var holdExp sql.NullTime
    err = tx.QueryRowContext(ctx,
        `SELECT status, hold_expires_at FROM bookings WHERE id = ? FOR UPDATE`, id,
    ).Scan(&status, &holdExp)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return booking.ErrNotFound
        }
        return err
    }
    if status != string(model.BookingPending) {
        return booking.ErrNotPending
    }
    if !holdExp.Valid || !holdExp.Time.After(now) {
        return booking.ErrHoldLapsed
    }

    var ticketCount int
    if err = tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM tickets WHERE booking_id = ?`, id,
    ).Scan(&ticketCount); err != nil {
        return err
    }

    res, err := tx.ExecContext(ctx,
        `UPDATE tickets
         SET status = 'PAID', hold_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
         WHERE booking_id = ? AND status = 'HELD' AND hold_expires_at > ?`,
        id, now.UTC(),
    )
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); int(n) != ticketCount {
        return booking.ErrHoldLapsed
    }

    if _, err = tx.ExecContext(ctx,
        `UPDATE bookings
         SET status = 'PAID', payment_method = ?, payment_ref = ?, hold_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
         WHERE id = ?`,
        method, reference, id,
    ); err != nil {
        return err
    }

    if err = tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ReleaseBooking cancels a PENDING booking regardless of hold expiry and
// deletes its ticket rows, freeing the seats. An already CANCELLED
// booking is a no-op; a PAID booking returns booking.ErrNotPending.
func (r *BookingRepo) ReleaseBooking(ctx context.Context, id uint64) error {
    return r.release(ctx, id, time.Time{})
}

// ReleaseExpired cancels a PENDING booking only when its hold expiry is
// at or before now at this transaction's own read. A booking whose hold
// is still live is left untouched, so an in-flight finalize of a valid
// hold always wins the race against the sweep.
func (r *BookingRepo) ReleaseExpired(ctx context.Context, id uint64, now time.Time) error {
    return r.release(ctx, id, now)
}

// release implements both cancel paths. A zero cutoff releases
// unconditionally; a non-zero cutoff releases only lapsed holds.
func (r *BookingRepo) release(ctx context.Context, id uint64, cutoff time.Time) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var status string
    var holdExp sql.NullTime
    err = tx.QueryRowContext(ctx,
        `SELECT status, hold_expires_at FROM bookings WHERE id = ? FOR UPDATE`, id,
    ).Scan(&status, &holdExp)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return booking.ErrNotFound
        }
        return err
    }
    switch model.BookingStatus(status) {
    case model.BookingCancelled:
        // already released
        if err = tx.Commit(); err != nil {
            return err
        }
        committed = true
        return nil
    case model.BookingPending:
    default:
        return booking.ErrNotPending
    }
    if !cutoff.IsZero() && holdExp.Valid && holdExp.Time.After(cutoff) {
        // hold is live again, a finalize or re-read beat us
        if err = tx.Commit(); err != nil {
            return err
        }
        committed = true
        return nil
    }

    if _, err = tx.ExecContext(ctx, `DELETE FROM tickets WHERE booking_id = ?`, id); err != nil {
        return err
    }
    if _, err = tx.ExecContext(ctx,
        `UPDATE bookings
         SET status = 'CANCELLED', hold_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
         WHERE id = ?`, id,
    ); err != nil {
        return err
    }

    if err = tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ExpiredPendingBookings lists PENDING bookings whose hold expiry is at or
// before now. The sweep re-checks each one inside ReleaseExpired, so this
// read needs no locking.
func (r *BookingRepo) ExpiredPendingBookings(ctx context.Context, now time.Time) ([]uint64, error) {
    const q = `SELECT id FROM bookings WHERE status = 'PENDING' AND hold_expires_at <= ?`
    rows, err := r.db.QueryContext(ctx, q, now.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return ids, nil
}
