package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepo provides methods to create and retrieve rooms. Each room
// belongs to a venue; SeatRows and SeatCols describe the generated seat
// layout.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
    return &RoomRepo{db: db}
}

// Create inserts a new room. The room must have VenueID and Name set.
// After insert the record is read back so the flag and timestamp fields
// are populated.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
    const qInsert = `INSERT INTO rooms (venue_id, name, seat_rows, seat_cols)
                     VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, qInsert, rm.VenueID, rm.Name, rm.SeatRows, rm.SeatCols)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rm.ID = uint64(id)

    const qSelect = `SELECT id, venue_id, name, seat_rows, seat_cols, is_active, created_at, updated_at
                     FROM rooms WHERE id = ?`
    return r.db.QueryRowContext(ctx, qSelect, rm.ID).
        Scan(&rm.ID, &rm.VenueID, &rm.Name, &rm.SeatRows, &rm.SeatCols, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
}

// GetByID retrieves a room by its ID. It returns ErrRoomNotFound when no
// row is found.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
    const q = `SELECT id, venue_id, name, seat_rows, seat_cols, is_active, created_at, updated_at FROM rooms WHERE id = ?`
    var rm model.Room
    err := r.db.QueryRowContext(ctx, q, id).
        Scan(&rm.ID, &rm.VenueID, &rm.Name, &rm.SeatRows, &rm.SeatCols, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRoomNotFound
        }
        return nil, err
    }
    return &rm, nil
}

// ListByVenue returns all rooms inside a venue ordered by id.
func (r *RoomRepo) ListByVenue(ctx context.Context, venueID uint64) ([]*model.Room, error) {
    const q = `SELECT id, venue_id, name, seat_rows, seat_cols, is_active, created_at, updated_at
               FROM rooms
               WHERE venue_id = ?
               ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q, venueID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*model.Room
    for rows.Next() {
        rm := new(model.Room)
        if err := rows.Scan(&rm.ID, &rm.VenueID, &rm.Name, &rm.SeatRows, &rm.SeatCols, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, rm)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update changes a room's name and active flag. The seat layout columns
// are deliberately not touched; a room's layout is fixed at creation.
// Returns sql.ErrNoRows when the room does not exist.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
    const q = `UPDATE rooms
               SET name = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, rm.Name, rm.IsActive, rm.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Delete removes a room. It fails with ErrConflict while any screening
// still references the room; the room's seats must be deleted first.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
    var screeningCount int
    const qCheck = `SELECT COUNT(*) FROM screenings WHERE room_id = ?`
    if err := r.db.QueryRowContext(ctx, qCheck, id).Scan(&screeningCount); err != nil {
        return err
    }
    if screeningCount > 0 {
        return ErrConflict
    }
    const q = `DELETE FROM rooms WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrRoomNotFound
    }
    return nil
}
