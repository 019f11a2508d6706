// Package booking implements the reservation lifecycle manager: hold
// creation, payment finalization, cancellation and expiry sweeping.  The
// engine talks to its collaborators exclusively through the narrow ports
// defined here, so it can be exercised against an in-memory store in tests
// and against MySQL in production.
package booking

import (
    "context"
    "errors"
    "time"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

// Sentinel errors the ports use to signal well-known storage outcomes.
// The engine translates them into typed domain errors; anything else is
// treated as an infrastructure failure and wrapped, never swallowed.
var (
    // ErrNotFound is returned by catalog and store reads when the
    // referenced row does not exist.
    ErrNotFound = errors.New("not found")
    // ErrSeatTaken is returned by CreateBookingWithTickets when the
    // storage-level uniqueness constraint on (screening, seat) rejects an
    // insert because a concurrent hold won the race.
    ErrSeatTaken = errors.New("seat already taken")
    // ErrNotPending is returned by finalize/release operations when the
    // booking has already left the PENDING state.
    ErrNotPending = errors.New("booking is not pending")
    // ErrHoldLapsed is returned by FinalizeBooking when any ticket's hold
    // expiry has passed at the store's own read; the booking is left
    // untouched so the caller can re-hold.
    ErrHoldLapsed = errors.New("hold lapsed")
)

// Catalog is the read-only port to the movie/venue/room catalog.  The
// engine never writes through it.
type Catalog interface {
    GetScreening(ctx context.Context, id uint64) (*model.Screening, error)
    GetMovie(ctx context.Context, id uint64) (*model.Movie, error)
    GetRoom(ctx context.Context, id uint64) (*model.Room, error)
    GetRoomSeats(ctx context.Context, roomID uint64) ([]model.Seat, error)
    GetRoomScreenings(ctx context.Context, roomID uint64, from, to time.Time) ([]model.Screening, error)
}

// Store is the persistence port for bookings and tickets.  Implementations
// must enforce the (screening, seat) uniqueness constraint atomically:
// CreateBookingWithTickets and FinalizeBooking execute as single
// transactions - all rows succeed or none do.
type Store interface {
    // BlockingSeatIDs returns the seats currently blocking the screening:
    // those with a PAID ticket or a HELD ticket whose expiry is after now.
    BlockingSeatIDs(ctx context.Context, screeningID uint64, now time.Time) (map[uint64]struct{}, error)

    // CreateBookingWithTickets atomically inserts the booking and all its
    // tickets, populating generated IDs.  It returns ErrSeatTaken when any
    // ticket insert loses the seat-uniqueness race; in that case nothing
    // from the attempt persists.
    CreateBookingWithTickets(ctx context.Context, b *model.Booking, tickets []model.Ticket) error

    GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
    GetTickets(ctx context.Context, bookingID uint64) ([]model.Ticket, error)

    // FinalizeBooking transitions every HELD ticket of a PENDING booking
    // to PAID and the booking itself to PAID with the given payment
    // details.  Tickets whose expiry has passed at the store's read cause
    // ErrHoldLapsed and leave the booking untouched.
    FinalizeBooking(ctx context.Context, id uint64, method, reference string, now time.Time) error

    // ReleaseBooking removes a PENDING booking and its tickets regardless
    // of expiry (explicit cancel).  Releasing a booking that no longer
    // exists returns ErrNotFound, and releasing one already CANCELLED is a
    // no-op; a PAID booking returns ErrNotPending.
    ReleaseBooking(ctx context.Context, id uint64) error

    // ReleaseExpired removes a PENDING booking only when its hold expiry
    // is at or before now at the store's own read, so an in-flight
    // finalize of a still-valid hold always wins the race.
    ReleaseExpired(ctx context.Context, id uint64, now time.Time) error

    // ExpiredPendingBookings lists PENDING bookings whose hold expiry is
    // at or before now.
    ExpiredPendingBookings(ctx context.Context, now time.Time) ([]uint64, error)
}

// Notifier publishes lifecycle events for downstream consumers.  A nil
// notifier disables publishing; publish failures are logged by the engine
// and never fail the customer-facing operation.
type Notifier interface {
    BookingPaid(ctx context.Context, notice PaidNotice) error
}

// PaidNotice is the event payload emitted after a successful finalize.
type PaidNotice struct {
    BookingID   uint64 `json:"booking_id"`
    BookingCode string `json:"booking_code"`
    ScreeningID uint64 `json:"screening_id"`
    TotalCents  uint32 `json:"total_cents"`
    PaymentRef  string `json:"payment_ref"`
    PaidAt      string `json:"paid_at"`
}
