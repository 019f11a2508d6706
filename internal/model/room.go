package model

import "time"

// Room represents an individual auditorium within a venue.  A room owns a
// fixed set of seats which are generated once and never regenerated; the
// room's layout is therefore immutable after creation.  Deactivating a room
// blocks new screenings but leaves already scheduled ones untouched.
//
// Fields:
//  ID        - primary key identifier.
//  VenueID   - ID of the containing venue.
//  Name      - unique room name per venue.
//  SeatRows  - number of seating rows generated for the room.
//  SeatCols  - number of seats per row generated for the room.
//  IsActive  - whether the room may accept new screenings.
//  CreatedAt - creation timestamp.
//  UpdatedAt - last update timestamp.
type Room struct {
    ID        uint64    // rooms.id
    VenueID   uint64    // rooms.venue_id
    Name      string    // rooms.name
    SeatRows  uint32    // rooms.seat_rows
    SeatCols  uint32    // rooms.seat_cols
    IsActive  bool      // rooms.is_active
    CreatedAt time.Time // rooms.created_at
    UpdatedAt time.Time // rooms.updated_at
}
