package model

import "time"

// SeatType classifies a seat.  The set is closed: transition logic and
// pricing switch exhaustively over these values so an unknown type is a
// programming error, not a runtime state.
type SeatType string

// Seat type values stored in seats.seat_type.
const (
    SeatStandard   SeatType = "STANDARD"
    SeatVIP        SeatType = "VIP"
    SeatCouple     SeatType = "COUPLE"
    SeatAccessible SeatType = "ACCESSIBLE"
)

// Valid reports whether t is one of the known seat types.
func (t SeatType) Valid() bool {
    switch t {
    case SeatStandard, SeatVIP, SeatCouple, SeatAccessible:
        return true
    }
    return false
}

// Seat describes a physical seat in a room.  Seats are uniquely
// identified by their room, row label and seat number.  Two COUPLE seats
// with consecutive odd/even numbers in the same row form a fixed pairing
// and are never priced or reserved individually.
//
// Fields:
//  ID         - primary key identifier.
//  RoomID     - room to which this seat belongs.
//  RowLabel   - letter or string designating the row (A, B, AA …).
//  SeatNumber - number of the seat within the row (1-based).
//  SeatType   - STANDARD, VIP, COUPLE or ACCESSIBLE.
//  IsActive   - whether the seat is sellable at all.
//  CreatedAt  - creation timestamp.
//  UpdatedAt  - last update timestamp.
type Seat struct {
    ID         uint64    // seats.id
    RoomID     uint64    // seats.room_id
    RowLabel   string    // seats.row_label
    SeatNumber uint32    // seats.seat_number
    SeatType   SeatType  // seats.seat_type
    IsActive   bool      // seats.is_active
    CreatedAt  time.Time // seats.created_at
    UpdatedAt  time.Time // seats.updated_at
}
