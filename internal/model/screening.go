package model

import "time"

// ScreeningStatus is the closed state set for a screening.
type ScreeningStatus string

// Screening status values stored in screenings.status.
const (
    ScreeningScheduled ScreeningStatus = "SCHEDULED"
    ScreeningCancelled ScreeningStatus = "CANCELLED"
    ScreeningFinished  ScreeningStatus = "FINISHED"
)

// Valid reports whether s is one of the known screening statuses.
func (s ScreeningStatus) Valid() bool {
    switch s {
    case ScreeningScheduled, ScreeningCancelled, ScreeningFinished:
        return true
    }
    return false
}

// Screening represents a scheduled showing of a movie in a room.  EndsAt is
// derived from the movie duration, never entered directly.  No two
// screenings in the same room may overlap or start within the scheduling
// buffer of each other's boundaries, and exactly one screening may exist
// for a given (movie, room, start time) triple.
//
// Fields:
//  ID             - primary key identifier.
//  MovieID        - movie being shown.
//  RoomID         - room where the screening takes place.
//  StartsAt       - when the screening begins (UTC).
//  EndsAt         - when the screening ends (UTC, StartsAt + movie duration).
//  BasePriceCents - base seat price in cents; seat-type multipliers apply.
//  Status         - SCHEDULED, CANCELLED or FINISHED.
//  CreatedAt      - creation timestamp.
//  UpdatedAt      - last update timestamp.
type Screening struct {
    ID             uint64          // screenings.id
    MovieID        uint64          // screenings.movie_id
    RoomID         uint64          // screenings.room_id
    StartsAt       time.Time       // screenings.starts_at
    EndsAt         time.Time       // screenings.ends_at
    BasePriceCents uint32          // screenings.base_price_cents
    Status         ScreeningStatus // screenings.status
    CreatedAt      time.Time       // screenings.created_at
    UpdatedAt      time.Time       // screenings.updated_at
}
