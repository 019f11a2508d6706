package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
    db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
    return &SeatRepo{db: db}
}

// CreateBulk inserts multiple seats in a single statement. Used when a
// room's layout is generated or regenerated.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
    if len(seats) == 0 {
        return nil
    }
    query := `INSERT INTO seats (room_id, row_label, seat_number, seat_type) VALUES `
    args := make([]interface{}, 0, len(seats)*4)
    for i, seat := range seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, seat.RoomID, seat.RowLabel, seat.SeatNumber, seat.SeatType)
    }
    _, err := r.db.ExecContext(ctx, query, args...)
    return err
}

// GetByRoom retrieves all seats of a room ordered by row_label then
// seat_number.
func (r *SeatRepo) GetByRoom(ctx context.Context, roomID uint64) ([]model.Seat, error) {
    const q = `SELECT id, room_id, row_label, seat_number, seat_type, is_active, created_at, updated_at
               FROM seats
               WHERE room_id = ?
               ORDER BY row_label, seat_number`
    rows, err := r.db.QueryContext(ctx, q, roomID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var result []model.Seat
    for rows.Next() {
        var s model.Seat
        if err := rows.Scan(
            &s.ID, &s.RoomID, &s.RowLabel, &s.SeatNumber, &s.SeatType,
            &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
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

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
    const q = `SELECT id, room_id, row_label, seat_number, seat_type, is_active, created_at, updated_at
               FROM seats WHERE id = ?`
    var s model.Seat
    err := r.db.QueryRowContext(ctx, q, id).
        Scan(&s.ID, &s.RoomID, &s.RowLabel, &s.SeatNumber, &s.SeatType, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrSeatNotFound
        }
        return nil, err
    }
    return &s, nil
}

// UpdateType changes a seat's type and active flag. Returns sql.ErrNoRows
// when the seat does not exist.
func (r *SeatRepo) UpdateType(ctx context.Context, id uint64, seatType model.SeatType, isActive bool) error {
    const q = `UPDATE seats
               SET seat_type = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, seatType, isActive, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// DeleteByRoom removes all seats of a room as part of deleting the room
// itself. The deletion fails with ErrConflict while any ticket still
// references a seat in the room.
func (r *SeatRepo) DeleteByRoom(ctx context.Context, roomID uint64) error {
    var ticketCount int
    const qCheck = `SELECT COUNT(*) FROM tickets t JOIN seats s ON s.id = t.seat_id WHERE s.room_id = ?`
    if err := r.db.QueryRowContext(ctx, qCheck, roomID).Scan(&ticketCount); err != nil {
        return err
    }
    if ticketCount > 0 {
        return ErrConflict
    }
    const q = `DELETE FROM seats WHERE room_id = ?`
    _, err := r.db.ExecContext(ctx, q, roomID)
    return err
}
