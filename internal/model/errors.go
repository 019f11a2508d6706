// Package model defines the domain entities and the typed error values the
// reservation and scheduling engine returns.  Every failure in the engine is
// recoverable at the caller: scheduling errors let an admin pick another
// slot, seat-map errors let a customer reselect, hold errors let a customer
// restart checkout.  Infrastructure failures (store unreachable) are not
// represented here; they are wrapped and surfaced separately so they can
// never be mistaken for "no conflict".
package model

import (
    "errors"
    "fmt"
    "time"
)

// ErrorKind is the machine-readable code attached to every domain error.
type ErrorKind string

// The closed set of domain error kinds.
const (
    ErrRoomInactive         ErrorKind = "ROOM_INACTIVE"
    ErrRoomNotInVenue       ErrorKind = "ROOM_NOT_IN_VENUE"
    ErrDuplicateScreening   ErrorKind = "DUPLICATE_SCREENING"
    ErrScheduleConflict     ErrorKind = "SCHEDULE_CONFLICT"
    ErrTooManySeats         ErrorKind = "TOO_MANY_SEATS"
    ErrIncompleteCoupleSeat ErrorKind = "INCOMPLETE_COUPLE_SEAT"
    ErrIsolatedSeatGap      ErrorKind = "ISOLATED_SEAT_GAP"
    ErrSeatAlreadyHeld      ErrorKind = "SEAT_ALREADY_HELD"
    ErrBookingNotFound      ErrorKind = "BOOKING_NOT_FOUND"
    ErrAlreadyFinalized     ErrorKind = "ALREADY_FINALIZED"
    ErrHoldExpired          ErrorKind = "HOLD_EXPIRED"
    ErrInvalidReference     ErrorKind = "INVALID_REFERENCE"
)

// Error is a typed, recoverable domain failure.  Kind identifies the
// failure; the optional payload fields carry enough detail for the caller
// to re-prompt without another round trip (conflicting screenings, the
// offending row position, the contested seats).
type Error struct {
    Kind           ErrorKind   // machine-readable code
    Message        string      // human-readable summary
    Conflicts      []Screening // SCHEDULE_CONFLICT: the overlapping screenings
    SuggestedStart *time.Time  // SCHEDULE_CONFLICT: next free start, if any
    RowLabel       string      // ISOLATED_SEAT_GAP: offending row
    SeatNumber     uint32      // ISOLATED_SEAT_GAP: offending position
    SeatIDs        []uint64    // seat-level errors: the seats at fault
}

// Error implements the error interface.
func (e *Error) Error() string {
    if e.Message == "" {
        return string(e.Kind)
    }
    return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError builds a plain domain error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
    return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the domain error kind from err.  The second return value
// is false when err is not a domain error (e.g. an infrastructure failure).
func KindOf(err error) (ErrorKind, bool) {
    if de, ok := AsError(err); ok {
        return de.Kind, true
    }
    return "", false
}

// AsError returns the underlying *Error when err is (or wraps) a domain
// error.
func AsError(err error) (*Error, bool) {
    var de *Error
    if errors.As(err, &de) {
        return de, true
    }
    return nil, false
}
