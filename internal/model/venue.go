package model

import "time"

// Venue represents a physical cinema location.  A venue contains
// multiple rooms (auditoriums).  This struct corresponds to a row in
// the `venues` table.
//
// Fields:
//  ID        - primary key identifier.
//  Name      - unique venue name.
//  IsActive  - whether the venue is open for scheduling.
//  CreatedAt - timestamp when the venue was created.
//  UpdatedAt - timestamp of last update.
type Venue struct {
    ID        uint64    // venues.id
    Name      string    // venues.name
    IsActive  bool      // venues.is_active
    CreatedAt time.Time // venues.created_at
    UpdatedAt time.Time // venues.updated_at
}
